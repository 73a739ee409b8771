package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func TestPublishMessage(t *testing.T) {
	ch := &fakeChannel{}

	err := PublishMessage(ch, "analytics", "consent.changed", map[string]any{"ok": true})
	require.NoError(t, err)

	assert.Equal(t, "analytics", ch.exchange)
	assert.Equal(t, "consent.changed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.False(t, ch.msg.Timestamp.IsZero())

	var got map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, true, got["ok"])
}

func TestPublishMessage_MarshalError(t *testing.T) {
	ch := &fakeChannel{}

	// В json marshal нельзя сериализовать канал
	err := PublishMessage(ch, "", "q", struct {
		Ch chan int `json:"ch"`
	}{Ch: make(chan int)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	assert.Empty(t, ch.key)
}

func TestPublishMessage_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}

	err := PublishMessage(ch, "analytics", "track.page", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestGetAnalyticsQueues(t *testing.T) {
	queues := GetAnalyticsQueues()

	require.Len(t, queues, 2)
	assert.Equal(t, "consent.*", queues[0].RoutingKey)
	assert.Equal(t, "track.*", queues[1].RoutingKey)
}
