package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Bosun/internal/domain"
	"github.com/shaiso/Bosun/internal/orders"
	"github.com/shaiso/Bosun/internal/telemetry"
)

// executeStep проводит один шаг из PENDING в финальный статус.
//
// Фазы: RUNNING → создание order → опрос до финального статуса order →
// копирование результата на шаг. Ошибка создания order (dispatch error)
// сразу помечает шаг FAILED без фазы опроса. Ошибка записи состояния
// шага в store — тоже: шаг, не доведённый до финального статуса,
// не должен пропускать к отправке следующий.
//
// При отмене ctx шаг остаётся в последнем записанном состоянии;
// после отмены записей не происходит.
func (e *Engine) executeStep(ctx context.Context, d *domain.Deployment, step *domain.DeploymentStep) {
	logger := telemetry.WithStepID(
		telemetry.WithDeploymentID(e.logger, d.ID.String()),
		step.ID.String(),
	)

	if ctx.Err() != nil {
		return
	}

	// 1. Шаг переходит в RUNNING
	step.MarkRunning()
	if err := e.steps.Update(ctx, step); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("failed to update step to running", "error", err)
		step.MarkFailed(fmt.Sprintf("record step state: %v", err))
		e.recordStepFinished(ctx, step, logger)
		return
	}

	// 2. Создаём order во внешнем сервисе
	order, err := e.orders.CreateOrder(ctx, orders.CreateOrderRequest{
		RunnerID:         d.RunnerID,
		InfrastructureID: d.InfrastructureID,
		Category:         step.StepType,
		Name:             step.StepName,
		Description:      fmt.Sprintf("deploy %s, step %d: %s", d.AppName, step.StepOrder, step.StepName),
		Command:          step.Command,
	})
	if err != nil {
		// Dispatch error: шаг падает сразу, опрос не начинается
		if ctx.Err() != nil {
			return
		}
		logger.Warn("order dispatch failed", "error", err)
		step.MarkFailed(err.Error())
		e.recordStepFinished(ctx, step, logger)
		return
	}

	// 3. Фиксируем ссылку на order сразу после создания.
	// Потерянная ссылка оставила бы order без наблюдателя,
	// поэтому шаг падает, не доходя до опроса.
	step.OrderID = order.ID
	if err := e.steps.Update(ctx, step); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("failed to record order id", "order_id", order.ID, "error", err)
		step.MarkFailed(fmt.Sprintf("record order id %s: %v", order.ID, err))
		e.recordStepFinished(ctx, step, logger)
		return
	}

	logger.Debug("order dispatched",
		"order_id", order.ID,
		"category", step.StepType,
	)

	// 4. Опрашиваем order до финального статуса
	final := e.pollOrder(ctx, order.ID, logger)
	if final == nil {
		// Отменено: шаг остаётся RUNNING в последнем наблюдённом виде
		return
	}

	// 5. Копируем финальный результат на шаг
	step.ApplyOrderResult(final)
	e.recordStepFinished(ctx, step, logger)
}

// pollOrder опрашивает order с фиксированным интервалом до финального
// статуса. Возвращает nil, если опрос отменён.
//
// Ошибка чтения (transient network failure) не роняет шаг: логируется
// и повторяется на следующем тике — без backoff и без лимита попыток.
// Единственные выходы из цикла: финальный order или отмена ctx.
func (e *Engine) pollOrder(ctx context.Context, orderID string, logger *slog.Logger) *domain.Order {
	logger = telemetry.WithOrderID(logger, orderID)

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		// Отмена проверяется и перед самим чтением
		if ctx.Err() != nil {
			return nil
		}

		telemetry.OrderPolls.Inc()

		order, err := e.orders.GetOrder(ctx, orderID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			telemetry.OrderPollErrors.Inc()
			logger.Warn("order poll failed, will retry", "error", err)
			continue
		}

		// И перед реакцией на уже полученный ответ
		if ctx.Err() != nil {
			return nil
		}

		if order.IsFinished() {
			logger.Debug("order reached terminal status", "status", order.Status)
			return order
		}
	}
}

// recordStepFinished записывает финальный шаг и публикует событие.
func (e *Engine) recordStepFinished(ctx context.Context, step *domain.DeploymentStep, logger *slog.Logger) {
	if err := e.steps.Update(ctx, step); err != nil {
		logger.Error("failed to update finished step",
			"status", step.Status,
			"error", err,
		)
		return
	}

	telemetry.StepsFinished.WithLabelValues(string(step.Status)).Inc()
	telemetry.StepDuration.Observe(step.Duration().Seconds())

	if e.publisher != nil {
		if err := e.publisher.PublishStepFinished(ctx, step); err != nil {
			logger.Warn("failed to publish step.finished", "error", err)
		}
	}
}
