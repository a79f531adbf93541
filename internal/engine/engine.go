package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Bosun/internal/domain"
	"github.com/shaiso/Bosun/internal/events"
	"github.com/shaiso/Bosun/internal/orders"
	"github.com/shaiso/Bosun/internal/telemetry"
)

// Default configuration values.
const defaultPollInterval = 2 * time.Second

// DeploymentStore — доступ движка к deployments.
// Реализуется repo.DeploymentRepo; в тестах подменяется фейком.
type DeploymentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error)
	Update(ctx context.Context, d *domain.Deployment) error
}

// StepStore — доступ движка к шагам deployment.
type StepStore interface {
	ListByDeploymentID(ctx context.Context, deploymentID uuid.UUID) ([]domain.DeploymentStep, error)
	Update(ctx context.Context, s *domain.DeploymentStep) error
	ResetByDeploymentID(ctx context.Context, deploymentID uuid.UUID) error
}

// OrdersClient — доступ движка к Remote Execution Service.
type OrdersClient interface {
	CreateOrder(ctx context.Context, req orders.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

// Engine выполняет deployments.
//
// Engine — центральный компонент системы, который:
//   - Проверяет предусловия запуска (READY или перезапуск FAILED)
//   - Выполняет шаги строго последовательно по step_order
//   - Отправляет каждый шаг как order и опрашивает его до завершения
//   - Останавливается на первом упавшем шаге
//   - Финализирует deployment (APPLIED/FAILED)
//
// На один deployment одновременно идёт не более одного прогона,
// внутри прогона "в полёте" не более одного шага.
type Engine struct {
	// Stores
	deployments DeploymentStore
	steps       StepStore

	// Remote Execution Service
	orders OrdersClient

	// Events (опционально; nil — события не публикуются)
	publisher *events.Publisher

	// Active deployments — идущие прогоны (deploymentID → true)
	active map[uuid.UUID]bool
	mu     sync.RWMutex

	// Configuration
	pollInterval time.Duration

	// Lifecycle (runCtx/cancelFunc/stopped — под lifecycleMu:
	// Start/Launch/Stop могут звать из разных горутин)
	logger      *slog.Logger
	wg          sync.WaitGroup
	lifecycleMu sync.RWMutex
	runCtx      context.Context
	cancelFunc  context.CancelFunc
	stopped     bool
}

// Config — конфигурация Engine.
type Config struct {
	// Stores
	Deployments DeploymentStore
	Steps       StepStore

	// Orders client
	Orders OrdersClient

	// Events publisher (опционально)
	Publisher *events.Publisher

	// PollInterval — интервал опроса order (default: 2s)
	PollInterval time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Engine.
func New(cfg Config) *Engine {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		deployments:  cfg.Deployments,
		steps:        cfg.Steps,
		orders:       cfg.Orders,
		publisher:    cfg.Publisher,
		active:       make(map[uuid.UUID]bool),
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Start запускает Engine.
//
// Прогоны, запущенные через Launch, живут в контексте,
// производном от ctx: отмена ctx кооперативно останавливает
// все циклы опроса.
func (e *Engine) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	e.lifecycleMu.Lock()
	e.runCtx = runCtx
	e.cancelFunc = cancel
	e.lifecycleMu.Unlock()

	e.logger.Info("starting engine",
		"poll_interval", e.pollInterval,
	)
	return nil
}

// Stop останавливает Engine.
//
// Отменяет контекст всех идущих прогонов и ждёт их выхода.
// Шаги остаются в последнем наблюдённом состоянии — после отмены
// движок не делает ни одной записи (deployment можно перезапустить).
func (e *Engine) Stop() {
	e.lifecycleMu.Lock()
	e.stopped = true
	cancel := e.cancelFunc
	e.lifecycleMu.Unlock()

	e.logger.Info("stopping engine...")

	if cancel != nil {
		cancel()
	}

	// Ждём завершения горутин прогонов
	e.wg.Wait()

	e.logger.Info("engine stopped")
}

// IsStopped проверяет, остановлен ли Engine.
func (e *Engine) IsStopped() bool {
	e.lifecycleMu.RLock()
	defer e.lifecycleMu.RUnlock()
	return e.stopped
}

// acquireRunCtx возвращает контекст прогонов, если Engine запущен
// и не остановлен.
func (e *Engine) acquireRunCtx() (context.Context, error) {
	e.lifecycleMu.RLock()
	defer e.lifecycleMu.RUnlock()

	if e.stopped || e.runCtx == nil {
		return nil, ErrEngineStopped
	}
	return e.runCtx, nil
}

// Launch запускает прогон deployment.
//
// Предусловия: deployment в статусе READY или FAILED и не выполняется
// прямо сейчас. Перезапуск FAILED всегда идёт с первого шага:
// все шаги сбрасываются в PENDING (это не resume — осознанное решение).
//
// Launch возвращается сразу после перевода deployment в RUNNING;
// сам прогон идёт в фоновой горутине до завершения или отмены.
func (e *Engine) Launch(ctx context.Context, deploymentID uuid.UUID) error {
	runCtx, err := e.acquireRunCtx()
	if err != nil {
		return err
	}

	// 1. Загружаем deployment
	d, err := e.deployments.GetByID(ctx, deploymentID)
	if err != nil {
		return fmt.Errorf("get deployment: %w", err)
	}

	// 2. Проверяем статус
	if !d.CanLaunch() {
		return fmt.Errorf("%w: %s", ErrNotLaunchable, d.Status)
	}

	// 3. Захватываем слот активного прогона
	if err := e.addActive(deploymentID); err != nil {
		return err
	}

	// 4. Перезапуск FAILED — сбрасываем шаги в PENDING
	if d.Status == domain.DeploymentStatusFailed {
		if err := e.steps.ResetByDeploymentID(ctx, deploymentID); err != nil {
			e.removeActive(deploymentID)
			return fmt.Errorf("reset steps for relaunch: %w", err)
		}
		e.logger.Info("relaunching failed deployment from first step",
			"deployment_id", deploymentID,
		)
	}

	// 5. Загружаем шаги (по возрастанию step_order)
	steps, err := e.steps.ListByDeploymentID(ctx, deploymentID)
	if err != nil {
		e.removeActive(deploymentID)
		return fmt.Errorf("list steps: %w", err)
	}

	// 6. Переводим deployment в RUNNING
	d.MarkRunning()
	if err := e.deployments.Update(ctx, d); err != nil {
		e.removeActive(deploymentID)
		return fmt.Errorf("update deployment to running: %w", err)
	}

	telemetry.DeploymentsStarted.Inc()

	if e.publisher != nil {
		if err := e.publisher.PublishDeploymentStarted(ctx, d); err != nil {
			e.logger.Warn("failed to publish deployment.started",
				"deployment_id", deploymentID,
				"error", err,
			)
		}
	}

	e.logger.Info("deployment started",
		"deployment_id", deploymentID,
		"app", d.AppName,
		"runner_id", d.RunnerID,
		"steps", len(steps),
	)

	// 7. Прогон — в фоне, в контексте движка
	e.wg.Add(1)
	go e.run(runCtx, d, steps)

	return nil
}

// run выполняет один прогон deployment до завершения или отмены.
func (e *Engine) run(ctx context.Context, d *domain.Deployment, steps []domain.DeploymentStep) {
	defer e.wg.Done()
	defer e.removeActive(d.ID)

	logger := telemetry.WithDeploymentID(e.logger, d.ID.String())

	for i := range steps {
		step := &steps[i]

		e.executeStep(ctx, d, step)

		// Отмена во время шага: ни одной записи после этой точки,
		// deployment остаётся как есть до перезапуска.
		if ctx.Err() != nil {
			logger.Info("run cancelled mid-flight",
				"step_order", step.StepOrder,
			)
			return
		}

		if step.Status == domain.StepStatusFailed {
			logger.Warn("step failed, halting remaining steps",
				"step_order", step.StepOrder,
				"step_name", step.StepName,
			)
			break
		}
	}

	e.finalize(ctx, d, steps)
}

// finalize сводит статусы шагов и закрывает deployment.
func (e *Engine) finalize(ctx context.Context, d *domain.Deployment, steps []domain.DeploymentStep) {
	logger := telemetry.WithDeploymentID(e.logger, d.ID.String())

	switch Aggregate(steps) {
	case domain.DeploymentStatusFailed:
		d.MarkFailed()
		logger.Warn("deployment failed",
			"duration", d.Duration(),
		)
	case domain.DeploymentStatusApplied:
		d.MarkApplied()
		logger.Info("deployment applied",
			"duration", d.Duration(),
		)
	default:
		// Не все шаги финальны и ни один не FAILED — сюда можно
		// попасть только при отмене, которая обработана выше.
		return
	}

	if err := e.deployments.Update(ctx, d); err != nil {
		logger.Error("failed to update deployment status",
			"status", d.Status,
			"error", err,
		)
		return
	}

	telemetry.DeploymentsFinished.WithLabelValues(string(d.Status)).Inc()

	if e.publisher != nil {
		if err := e.publisher.PublishDeploymentFinished(ctx, d); err != nil {
			logger.Warn("failed to publish deployment.finished", "error", err)
		}
	}
}

// addActive добавляет deployment в активные.
func (e *Engine) addActive(deploymentID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active[deploymentID] {
		return ErrDeploymentActive
	}

	e.active[deploymentID] = true
	return nil
}

// removeActive удаляет deployment из активных.
func (e *Engine) removeActive(deploymentID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, deploymentID)
}

// ActiveCount возвращает количество идущих прогонов.
func (e *Engine) ActiveCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.active)
}
