// Package events публикует именованные события об изменениях броней для
// подключенных дашбордов. Доставка fire-and-forget: подписчиков может не
// быть вовсе, ошибка публикации никого не останавливает.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/purushoth411/callback-sub000/internal/monitoring"
)

// Имена событий, которые слушают дашборды
const (
	EventBookingUpdate   = "bookingUpdate"
	EventRCBookingUpdate = "rcBookingUpdate"
)

// Emitter - контракт публикации для notifier
type Emitter interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

type envelope struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	EmittedAt time.Time   `json:"emitted_at"`
}

type KafkaEmitter struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaEmitter(brokers []string, topic string, logger *zap.Logger) *KafkaEmitter {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaEmitter{
		writer: writer,
		logger: logger,
	}
}

// Publish отправляет одно событие в топик обновлений. Ключ сообщения -
// имя события, чтобы слушатели одного типа событий читали одну партицию.
func (e *KafkaEmitter) Publish(ctx context.Context, event string, payload interface{}) error {
	env := envelope{
		ID:        uuid.New().String(),
		Event:     event,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event, err)
	}

	err = e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event),
		Value: value,
	})
	if err != nil {
		e.logger.Error("Ошибка при публикации события",
			zap.Error(err),
			zap.String("event", event),
		)
		return fmt.Errorf("publish event %s: %w", event, err)
	}

	monitoring.EventsPublished.WithLabelValues(event).Inc()
	return nil
}

func (e *KafkaEmitter) Close() error {
	return e.writer.Close()
}
