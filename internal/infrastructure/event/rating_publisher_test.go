package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/infrastructure/config"
)

func TestRatingCreatedEventPayload(t *testing.T) {
	ev := NewRatingCreatedEvent("abc-123", "Bonos Corporativos", "1500.5000", "ana@nuam.cl")

	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, map[string]string{
		"evento":      "NUEVA_CALIFICACION",
		"id":          "abc-123",
		"instrumento": "Bonos Corporativos",
		"monto":       "1500.5000",
		"usuario":     "ana@nuam.cl",
	}, decoded)
}

func TestKafkaRatingPublisher_TimeoutDoesNotPanicOnLateReport(t *testing.T) {
	p, err := NewKafkaRatingPublisher(config.KafkaConfig{
		BootstrapServers: "127.0.0.1:1",
		RatingTopic:      "topic-calificaciones",
		DeliveryTimeout:  100 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	// Either the wait times out or the broker-less delivery report arrives
	// first with an error; both must surface as plain errors.
	err = p.PublishRatingCreated(context.Background(),
		NewRatingCreatedEvent("abc-123", "Bonos Corporativos", "1500.5000", "ana@nuam.cl"))
	require.Error(t, err)

	// A late delivery report lands after the publish returned; give the
	// producer's poller time to emit it. A send on a closed channel here
	// would crash the test process.
	time.Sleep(2 * time.Second)
}

func TestNoopRatingPublisher(t *testing.T) {
	p := NewNoopRatingPublisher()
	err := p.PublishRatingCreated(context.Background(), NewRatingCreatedEvent("id", "", "0", ""))
	assert.NoError(t, err)
	p.Close()
}
