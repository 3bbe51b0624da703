// Package events carries fire-and-forget side effects out of the request
// path. A page view publishes a message onto an in-process bus; a consumer
// applies the redis increment on its own goroutine, so the client's response
// never blocks on the counter and a counter failure never fails the request.
package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Park-yeongseo/Blog-Project/utils"
	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

const viewTopic = "post.viewed"

// ViewEvent is the payload for one page view.
type ViewEvent struct {
	PostId uint `json:"post_id"`
}

// ViewPipeline owns the bus and the consumer end. It satisfies
// scheduler.Module so the engine manages its lifecycle alongside the
// periodic jobs.
type ViewPipeline struct {
	bus     *gochannel.GoChannel
	counter *utils.ViewCounter
}

func NewViewPipeline(counter *utils.ViewCounter) *ViewPipeline {
	return &ViewPipeline{
		// Buffered so a burst of views doesn't stall publishers while the
		// consumer catches up.
		bus:     gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermill.NopLogger{}),
		counter: counter,
	}
}

// PublishView submits a view event. Callers treat a returned error as
// log-only; it must never surface into the HTTP response.
func (p *ViewPipeline) PublishView(postId uint) error {
	payload, err := json.Marshal(ViewEvent{PostId: postId})
	if err != nil {
		return err
	}
	return p.bus.Publish(viewTopic, message.NewMessage(watermill.NewUUID(), payload))
}

func (p *ViewPipeline) Name() string {
	return "view_consumer"
}

// RunModule consumes view events until the context is cancelled, applying
// each as an atomic redis increment.
func (p *ViewPipeline) RunModule(ctx context.Context) error {
	messages, err := p.bus.Subscribe(ctx, viewTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		var event ViewEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			Logger.Log.Errorf("dropping malformed view event: %v", err)
			msg.Ack()
			continue
		}

		if _, err := p.counter.Increment(ctx, event.PostId); err != nil {
			Logger.Log.Errorf("failed to count view for post %d: %v", event.PostId, err)
		}
		msg.Ack()
	}
	return nil
}

// Close shuts down the bus. Pending messages that were never consumed are
// dropped; a lost view is within the pipeline's tolerance.
func (p *ViewPipeline) Close() error {
	return p.bus.Close()
}
