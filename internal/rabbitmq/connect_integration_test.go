//go:build integration

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

var amqpPort = nat.Port("5672/tcp")

func setupRabbitMQContainer(ctx context.Context, t *testing.T) string {
	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{string(amqpPort)},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER": "guest",
			"RABBITMQ_DEFAULT_PASS": "guest",
		},
		WaitingFor: wait.ForListeningPort(amqpPort).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, amqpPort)
	require.NoError(t, err)

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func TestPublisher_RoundTrip(t *testing.T) {
	ctx := context.Background()
	uri := setupRabbitMQContainer(ctx, t)

	conn, err := Connect(uri, 5, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := SetupChannel(conn, "auth.events")
	require.NoError(t, err)
	defer ch.Close()

	p := NewPublisher(ch, "auth.events")
	event := models.AuthEvent{Type: models.EventLoginFailure, Username: "ghost", At: time.Now().UTC()}
	require.NoError(t, p.Publish(ctx, event))

	deliveries, err := ch.Consume(AuditQueue, "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got models.AuthEvent
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, models.EventLoginFailure, d.RoutingKey)
		assert.Equal(t, "ghost", got.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for audit event")
	}
}
