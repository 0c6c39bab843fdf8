package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

func TestProducer_Publish(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	defer func() { _ = mock.Close() }()

	var got *sarama.ProducerMessage
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		got = msg
		return nil
	})

	p := NewProducerWithClient(mock, "monitors.events", zerolog.Nop())
	event := &dto.MonitorEvent{
		EventID:   "e-1",
		Type:      "monitor.fired",
		MonitorID: "m-1",
		ChatID:    -100,
		MessageID: 7,
		Emoji:     "🔥",
		Count:     5,
	}

	require.NoError(t, p.Publish(context.Background(), event))

	require.NotNil(t, got)
	assert.Equal(t, "monitors.events", got.Topic)

	key, err := got.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "-100:7", string(key))

	value, err := got.Value.Encode()
	require.NoError(t, err)
	var decoded dto.MonitorEvent
	require.NoError(t, json.Unmarshal(value, &decoded))
	assert.Equal(t, *event, decoded)

	require.Len(t, got.Headers, 1)
	assert.Equal(t, "monitor.fired", string(got.Headers[0].Value))
}

func TestProducer_PublishFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	defer func() { _ = mock.Close() }()
	mock.ExpectSendMessageAndFail(errors.New("broker down"))

	p := NewProducerWithClient(mock, "monitors.events", zerolog.Nop())
	err := p.Publish(context.Background(), &dto.MonitorEvent{Type: "monitor.activated"})

	assert.ErrorIs(t, err, monerrors.ErrEventPublishFailed)
}

func TestNewProducer_DisabledIsNoop(t *testing.T) {
	p, err := NewProducer(&config.KafkaConfig{Enabled: false}, zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), &dto.MonitorEvent{}))
	assert.NoError(t, p.Close())
}
