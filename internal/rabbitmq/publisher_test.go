package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

type ChannelMock struct {
	mock.Mock
}

func (m *ChannelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublisher_Publish(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	event := models.AuthEvent{Type: models.EventLoginSuccess, Username: "admin", SessionID: "sid", At: at}

	ch := new(ChannelMock)
	ch.On("Publish", "auth.events", models.EventLoginSuccess, false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var got models.AuthEvent
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			got.Username == "admin" && got.SessionID == "sid" && got.At.Equal(at)
	})).Return(nil).Once()

	p := NewPublisher(ch, "auth.events")
	require.NoError(t, p.Publish(context.Background(), event))
	ch.AssertExpectations(t)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := new(ChannelMock)
	ch.On("Publish", "auth.events", models.EventLogout, false, false, mock.Anything).
		Return(errors.New("channel closed")).Once()

	p := NewPublisher(ch, "auth.events")
	err := p.Publish(context.Background(), models.AuthEvent{Type: models.EventLogout})
	assert.ErrorContains(t, err, "channel closed")
}

func TestPublisher_CanceledContext(t *testing.T) {
	ch := new(ChannelMock)
	p := NewPublisher(ch, "auth.events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, models.AuthEvent{Type: models.EventLogout})
	assert.ErrorIs(t, err, context.Canceled)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), models.AuthEvent{}))
}

func TestRoutingKeys(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{models.EventLoginSuccess, models.EventLoginFailure, models.EventLogout},
		RoutingKeys())
}
