package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stagepass/pkg/logger"
)

const channelPrefix = "stagepass:availability:"

// ChannelForEvent names the pub/sub channel carrying one event's
// availability change notifications
func ChannelForEvent(eventID string) string {
	return channelPrefix + eventID
}

// ChangeNotification is pushed whenever a booking commit or cancellation
// may have changed an event's availability. It intentionally carries no
// numbers: clients re-fetch the event detail, which recomputes from
// confirmed bookings.
type ChangeNotification struct {
	EventID   string    `json:"event_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// Publisher broadcasts availability changes over Redis pub/sub. It
// satisfies the booking service's AvailabilityNotifier interface.
type Publisher struct {
	client *redis.Client
	log    *logger.Logger
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{
		client: client,
		log:    logger.GetDefault(),
	}
}

// PublishAvailabilityChange fires a change notification for the event.
// Failures are logged and swallowed; notifications are advisory.
func (p *Publisher) PublishAvailabilityChange(ctx context.Context, eventID string) {
	payload, err := json.Marshal(ChangeNotification{
		EventID:   eventID,
		ChangedAt: time.Now().UTC(),
	})
	if err != nil {
		p.log.WithError(err).Warn("failed to marshal availability notification")
		return
	}

	if err := p.client.Publish(ctx, ChannelForEvent(eventID), payload).Err(); err != nil {
		p.log.WithError(err).Warn(fmt.Sprintf("failed to publish availability change for event %s", eventID))
	}
}
