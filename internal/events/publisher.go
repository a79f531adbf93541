package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Bosun/internal/domain"
)

// MessageType — тип события.
type MessageType string

// Типы событий.
const (
	MessageTypeDeploymentStarted  MessageType = "deployment.started"
	MessageTypeStepFinished       MessageType = "step.finished"
	MessageTypeDeploymentFinished MessageType = "deployment.finished"
)

// Publisher публикует события жизненного цикла в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — событие для публикации.
type Message struct {
	// ID — уникальный идентификатор события.
	ID string `json:"id"`

	// Type — тип события.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// DeploymentPayload — payload для событий уровня deployment.
type DeploymentPayload struct {
	DeploymentID uuid.UUID               `json:"deployment_id"`
	AppName      string                  `json:"app_name"`
	RunnerID     uuid.UUID               `json:"runner_id"`
	Status       domain.DeploymentStatus `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
}

// StepFinishedPayload — payload для события о завершённом шаге.
type StepFinishedPayload struct {
	DeploymentID uuid.UUID         `json:"deployment_id"`
	StepID       uuid.UUID         `json:"step_id"`
	StepOrder    int               `json:"step_order"`
	StepName     string            `json:"step_name"`
	Status       domain.StepStatus `json:"status"`
	OrderID      string            `json:"order_id,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// Publish публикует событие с указанным routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeDeployments), // exchange
			string(routingKey),          // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // событие переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeDeployments, routingKey, err)
		}

		p.logger.Debug("published event",
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishDeploymentStarted публикует событие о начале прогона.
func (p *Publisher) PublishDeploymentStarted(ctx context.Context, d *domain.Deployment) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeDeploymentStarted,
		Payload: DeploymentPayload{
			DeploymentID: d.ID,
			AppName:      d.AppName,
			RunnerID:     d.RunnerID,
			Status:       d.Status,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, RoutingKeyStarted, msg)
}

// PublishStepFinished публикует событие о завершённом шаге.
func (p *Publisher) PublishStepFinished(ctx context.Context, s *domain.DeploymentStep) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeStepFinished,
		Payload: StepFinishedPayload{
			DeploymentID: s.DeploymentID,
			StepID:       s.ID,
			StepOrder:    s.StepOrder,
			StepName:     s.StepName,
			Status:       s.Status,
			OrderID:      s.OrderID,
			ErrorMessage: s.ErrorMessage,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, RoutingKeyStepFinished, msg)
}

// PublishDeploymentFinished публикует событие о завершении прогона.
func (p *Publisher) PublishDeploymentFinished(ctx context.Context, d *domain.Deployment) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeDeploymentFinished,
		Payload: DeploymentPayload{
			DeploymentID: d.ID,
			AppName:      d.AppName,
			RunnerID:     d.RunnerID,
			Status:       d.Status,
			ErrorMessage: d.ErrorMessage,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, RoutingKeyFinished, msg)
}
