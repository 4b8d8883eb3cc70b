package kafka_test

import (
	"context"
	"encoding/json"
	"testing"

	"sizopi/config"
	"sizopi/infras/kafka"
	"sizopi/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "Kolam Paus",
		Value: map[string]any{"jumlah_tiket": 30},
	}

	out, err := msg.ToKafkaMessage("sizopi.reservation")
	require.NoError(t, err)

	assert.Equal(t, "sizopi.reservation", out.Topic)
	assert.Equal(t, []byte("Kolam Paus"), out.Key)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(out.Value, &decoded))
	assert.Equal(t, 30, decoded["jumlah_tiket"])
}

func TestMessage_ToKafkaMessageUnsupportedValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("topic")
	assert.Error(t, err)
}

func TestNew_DisabledClientDropsMessages(t *testing.T) {
	cfg := &config.Config{}

	client := kafka.New(cfg, mocks.NewOtel())

	err := client.SendMessages(context.Background(), "sizopi.reservation", kafka.Message{Key: "k", Value: "v"})
	assert.NoError(t, err)
	assert.NoError(t, client.Close())
}
