// Package pubsub implements the TransitionPublisher port on a watermill
// in-process channel. Recording a transition announces it on the channel so
// the dispatch passes can react immediately instead of waiting for the next
// scheduler tick.
package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"statusflow/internal/core/domain/model/transition"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicTransitionRecorded carries one message per recorded transition event.
const TopicTransitionRecorded = "transition.recorded"

// TransitionRecordedPayload is the wire shape of one recorded-transition message.
type TransitionRecordedPayload struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	ToStatusID string    `json:"to_status_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WatermillPublisher implements TransitionPublisher over a watermill publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a publisher for recorded transitions.
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishRecorded announces a newly recorded transition event.
func (p *WatermillPublisher) PublishRecorded(_ context.Context, event *transition.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(TransitionRecordedPayload{
		EventID:    event.ID().String(),
		OrderID:    event.OrderID().String(),
		ToStatusID: event.ToStatusID().String(),
		OccurredAt: event.OccurredAt(),
	})
	if err != nil {
		return err
	}

	return p.publisher.Publish(TopicTransitionRecorded, message.NewMessage(watermill.NewUUID(), payload))
}
