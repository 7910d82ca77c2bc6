package notify

import (
	"context"
	"sync"
	"time"

	"github.com/busradar/busradar/core/events"
	"github.com/busradar/busradar/core/metrics"
	"github.com/busradar/busradar/core/model"
	"github.com/busradar/busradar/core/push"
)

// fanOut delivers the payload to every subscriber concurrently and
// independently. Each attempt gets exactly one try bounded by the send
// timeout; one failure never aborts or delays the siblings. fanOut
// returns only after every attempt has settled.
func (e *Engine) fanOut(ctx context.Context, subs []model.Subscriber, payload push.Payload, kind model.EventKind, routeKey string) Outcome {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		out  Outcome
		recs []metrics.DeliveryRecord
	)
	settle := func(sub model.Subscriber, err error, dur time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			out.Fail++
			pushFailure.Inc()
			e.log.Warnf("push to %s failed: %v", sub.ID, err)
		} else {
			out.Success++
			pushSuccess.Inc()
		}
		deliveryLatency.WithLabelValues(kind.String()).Observe(dur.Seconds())
		if e.bus != nil {
			e.bus.Publish(events.DeliveryEvent{
				SubscriberID: sub.ID,
				RouteKey:     routeKey,
				Kind:         kind,
				Delivered:    err == nil,
				Err:          err,
				Latency:      dur,
			})
		}
		if e.sink != nil {
			recs = append(recs, metrics.DeliveryRecord{
				SubscriberID: sub.ID,
				RouteKey:     routeKey,
				Kind:         kind,
				Delivered:    err == nil,
				Latency:      dur,
				Time:         time.Now().UTC(),
			})
		}
	}
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.Subscriber) {
			defer wg.Done()
			start := time.Now()
			sctx, cancel := context.WithTimeout(ctx, e.sendTimeout)
			defer cancel()
			err := e.sender.Send(sctx, sub.Subscription, payload)
			settle(sub, err, time.Since(start))
		}(sub)
	}
	wg.Wait()
	if e.sink != nil && len(recs) > 0 {
		if err := e.sink.RecordDeliveries(recs); err != nil {
			e.log.Errorf("delivery metrics: %v", err)
		}
	}
	return out
}
