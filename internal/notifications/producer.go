package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"stagepass/internal/bookings"
	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"
)

// ConfirmationMessage is the payload published for each confirmed booking
// row. Downstream consumers render emails and settlement exports from it.
type ConfirmationMessage struct {
	BookingRef    string    `json:"booking_ref"`
	EventID       string    `json:"event_id"`
	OccurrenceID  string    `json:"occurrence_id,omitempty"`
	CategoryName  string    `json:"category_name"`
	Quantity      int       `json:"quantity"`
	TotalPrice    float64   `json:"total_price"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// KafkaProducer publishes booking confirmations to Kafka. It satisfies the
// booking service's ConfirmationPublisher interface.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer creates a sync producer with idempotent writes, keyed by
// booking reference so retries of one booking land on the same partition
func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    cfg.ConfirmationsTopic,
		log:      logger.GetDefault(),
	}, nil
}

// PublishBookingConfirmed publishes one confirmation message per booking row
func (p *KafkaProducer) PublishBookingConfirmed(ctx context.Context, booking *bookings.Booking) error {
	msg := ConfirmationMessage{
		BookingRef:    booking.BookingRef,
		EventID:       booking.EventID.String(),
		CategoryName:  booking.CategoryName,
		Quantity:      booking.Quantity,
		TotalPrice:    booking.TotalPrice,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		ConfirmedAt:   booking.CreatedAt,
	}
	if booking.OccurrenceID != nil {
		msg.OccurrenceID = booking.OccurrenceID.String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation message: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(booking.BookingRef),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish confirmation: %w", err)
	}

	p.log.InfoWithContext(ctx, "Booking Confirmation Published", map[string]interface{}{
		"booking_ref": booking.BookingRef,
		"topic":       p.topic,
		"partition":   partition,
		"offset":      offset,
	})
	return nil
}

// Close shuts down the underlying producer
func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
