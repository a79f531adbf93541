package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeDeployments Exchange = "bosun.deployments"
)

// Queues — имена очередей.
const (
	QueueDeploymentsAudit Queue = "deployments.audit"
)

// Routing keys.
const (
	RoutingKeyStarted      RoutingKey = "started"
	RoutingKeyStepFinished RoutingKey = "step.finished"
	RoutingKeyFinished     RoutingKey = "finished"
)

// SetupTopology создаёт обменник событий и audit-очередь.
//
// Очередь привязывается ко всем ключам обменника: внешние потребители
// могут объявлять собственные очереди с более узкими привязками.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeDeployments), // name
			"topic",                     // type
			true,                        // durable
			false,                       // auto-deleted
			false,                       // internal
			false,                       // no-wait
			nil,                         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeDeployments, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueDeploymentsAudit), // name
			true,                          // durable
			false,                         // delete when unused
			false,                         // exclusive
			false,                         // no-wait
			nil,                           // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueDeploymentsAudit, err)
		}

		err = ch.QueueBind(
			string(QueueDeploymentsAudit), // queue name
			"#",                           // routing key
			string(ExchangeDeployments),   // exchange
			false,                         // no-wait
			nil,                           // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", QueueDeploymentsAudit, ExchangeDeployments, err)
		}

		return nil
	})
}
