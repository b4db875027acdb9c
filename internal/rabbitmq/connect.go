// Package rabbitmq публикует события аудита аутентификации в RabbitMQ.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/hexagonal-auth/internal/models"
)

// AuditQueue — очередь, в которую попадают все события аудита.
const AuditQueue = "auth.audit"

// RoutingKeys возвращает ключи маршрутизации, которые привязываются к очереди аудита.
func RoutingKeys() []string {
	return []string{models.EventLoginSuccess, models.EventLoginFailure, models.EventLogout}
}

// Connect подключается к брокеру, повторяя попытку retries раз с паузой delay.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	if retries < 1 {
		retries = 1
	}
	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет обменник exchange с очередью аудита.
func SetupChannel(conn *amqp.Connection, exchange string) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = ch.QueueDeclare(AuditQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, AuditQueue, err)
	}

	for _, key := range RoutingKeys() {
		if err = ch.QueueBind(AuditQueue, key, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, AuditQueue, key, err)
		}
	}

	return ch, nil
}
