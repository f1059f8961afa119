package realtime

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stagepass/internal/shared/utils/response"
	"stagepass/pkg/logger"
)

// Subscriber bridges Redis pub/sub channels to server-sent event streams so
// browsers can watch one event's availability without polling
type Subscriber struct {
	client *redis.Client
	log    *logger.Logger
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{
		client: client,
		log:    logger.GetDefault(),
	}
}

// StreamEvent is the SSE handler for GET /events/:eventId/live. Each
// availability notification becomes one SSE message; a periodic ping keeps
// intermediaries from closing the connection.
func (s *Subscriber) StreamEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid event ID", err.Error())
		return
	}

	ctx := c.Request.Context()
	pubsub := s.client.Subscribe(ctx, ChannelForEvent(eventID.String()))
	defer pubsub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	messages := pubsub.Channel()
	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("availability", msg.Payload)
			return true
		case <-ping.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// SetupRealtimeRoutes registers the live availability stream
func SetupRealtimeRoutes(router *gin.RouterGroup, subscriber *Subscriber) {
	router.GET("/events/:eventId/live", subscriber.StreamEvent)
}
