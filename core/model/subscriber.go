package model

// SubscriptionKeys carries the encryption material of a Web Push
// subscription. The core never interprets these values.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription is the opaque delivery descriptor for one subscriber,
// passed through to the push transport unchanged.
type PushSubscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

// Subscriber represents one notification target waiting for a vehicle
// on a given route.
type Subscriber struct {
	ID           string
	Subscription PushSubscription
	RouteKey     string
	Lat          float64
	Lon          float64
	// HasPosition is false when the roster record carried no usable
	// coordinates. Such subscribers never match a geofence.
	HasPosition bool
	// Notified is scoped to one proximity cycle and only resets on a
	// full roster replace or reset.
	Notified bool
}
