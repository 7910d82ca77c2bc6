package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/busradar/busradar/core/logger"
	"github.com/busradar/busradar/core/model"
	"github.com/busradar/busradar/core/notify"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic is the subscription filter for vehicle updates, one
	// message per update.
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "fleet/vehicle/+/update"
	}
	if c.ClientID == "" {
		c.ClientID = "busradar"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt: broker is required")
	}
	return nil
}

// UpdateHandler processes one inbound vehicle update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u model.VehicleUpdate) (notify.Outcome, error)
}

// updateMessage is the wire format of one vehicle update.
type updateMessage struct {
	VehicleID string   `json:"vehicle_id"`
	Event     string   `json:"event"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
}

// Subscriber feeds broker-published vehicle updates into the engine.
type Subscriber struct {
	cfg     Config
	cli     paho.Client
	handler UpdateHandler
	log     logger.Logger
}

// NewSubscriber connects to the broker and subscribes to the update topic.
func NewSubscriber(cfg Config, handler UpdateHandler, log logger.Logger) (*Subscriber, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Subscriber{cfg: cfg, handler: handler, log: log}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(cfg.Topic, cfg.QoS, s.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warnf("MQTT connection lost: %v", err)
	}

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	s.cli = cli
	return s, nil
}

func (s *Subscriber) onMessage(_ paho.Client, msg paho.Message) {
	var raw updateMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.log.Warnf("invalid update message on %s: %v", msg.Topic(), err)
		return
	}
	u, err := toUpdate(raw)
	if err != nil {
		s.log.Warnf("rejected update on %s: %v", msg.Topic(), err)
		return
	}
	out, err := s.handler.HandleUpdate(context.Background(), u)
	if err != nil {
		s.log.Errorf("handle update for %s: %v", u.VehicleID, err)
		return
	}
	s.log.Debugw("update handled", map[string]any{
		"vehicle_id": u.VehicleID,
		"event":      u.Kind.String(),
		"success":    out.Success,
		"fail":       out.Fail,
	})
}

// toUpdate converts the wire message, enforcing that location reports
// carry both coordinates.
func toUpdate(raw updateMessage) (model.VehicleUpdate, error) {
	kind, ok := model.ParseEventKind(raw.Event)
	if !ok {
		return model.VehicleUpdate{}, fmt.Errorf("%w: unknown event %q", model.ErrInvalidUpdate, raw.Event)
	}
	u := model.VehicleUpdate{VehicleID: raw.VehicleID, Kind: kind}
	if kind == model.EventLocation {
		if raw.Lat == nil || raw.Lon == nil {
			return model.VehicleUpdate{}, fmt.Errorf("%w: location report without coordinates", model.ErrInvalidUpdate)
		}
		u.Lat, u.Lon = *raw.Lat, *raw.Lon
	}
	return u, nil
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
