package consent

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/rabbitmq"
)

const (
	// TypeConsent - события согласия.
	TypeConsent = "consent"
	// TypeTrack - поведенческие события.
	TypeTrack = "track"
)

// Message - событие, уходящее во внешний сервис аналитики.
type Message struct {
	Type        string         `json:"type"`
	Event       string         `json:"event"`
	WriteKey    string         `json:"writeKey"`
	AnonymousID string         `json:"anonymousId,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// RoutingKey возвращает ключ маршрутизации вида "<type>.<event>".
func (m Message) RoutingKey() string {
	return m.Type + "." + m.Event
}

// Client отправляет события аналитики.
type Client interface {
	Track(ctx context.Context, msg Message) error
}

// Noop - клиент, который ничего не отправляет.
type Noop struct{}

// Track реализует Client.
func (Noop) Track(context.Context, Message) error { return nil }

// RabbitClient публикует события в обменник RabbitMQ, откуда их
// забирают выгрузчики во внешнюю аналитику.
type RabbitClient struct {
	ch       rabbitmq.Channel
	exchange string
}

// NewRabbitClient создаёт RabbitClient.
func NewRabbitClient(ch rabbitmq.Channel, exchange string) *RabbitClient {
	return &RabbitClient{ch: ch, exchange: exchange}
}

// Track реализует Client.
func (c *RabbitClient) Track(ctx context.Context, msg Message) error {
	const op = "consent.RabbitClient.Track"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := rabbitmq.PublishMessage(c.ch, c.exchange, msg.RoutingKey(), msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
