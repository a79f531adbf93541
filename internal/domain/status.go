package domain

// DeploymentStatus — статус выполнения deployment.
//
// Жизненный цикл:
//
//	READY → RUNNING → APPLIED
//	                ↘ FAILED (можно перезапустить: FAILED → RUNNING)
type DeploymentStatus string

const (
	// DeploymentStatusReady — deployment создан и готов к запуску.
	DeploymentStatusReady DeploymentStatus = "READY"

	// DeploymentStatusRunning — deployment в процессе выполнения.
	DeploymentStatusRunning DeploymentStatus = "RUNNING"

	// DeploymentStatusApplied — все шаги успешно применены.
	DeploymentStatusApplied DeploymentStatus = "APPLIED"

	// DeploymentStatusFailed — хотя бы один шаг завершился с ошибкой.
	DeploymentStatusFailed DeploymentStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (deployment завершён).
func (s DeploymentStatus) IsTerminal() bool {
	switch s {
	case DeploymentStatusApplied, DeploymentStatusFailed:
		return true
	default:
		return false
	}
}

// StepStatus — статус выполнения шага deployment.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → APPLIED
//	                  ↘ FAILED
//
// SKIPPED зарезервирован для шагов, пропущенных вне движка.
// Сам движок его никогда не назначает: после прерывания оставшиеся
// шаги остаются в PENDING до полного перезапуска deployment.
type StepStatus string

const (
	// StepStatusPending — шаг ожидает своей очереди.
	StepStatusPending StepStatus = "PENDING"

	// StepStatusRunning — шаг отправлен на выполнение.
	StepStatusRunning StepStatus = "RUNNING"

	// StepStatusApplied — шаг успешно применён.
	StepStatusApplied StepStatus = "APPLIED"

	// StepStatusFailed — шаг завершился с ошибкой.
	StepStatusFailed StepStatus = "FAILED"

	// StepStatusSkipped — шаг пропущен.
	StepStatusSkipped StepStatus = "SKIPPED"
)

// IsTerminal возвращает true, если статус финальный.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusApplied, StepStatusFailed, StepStatusSkipped:
		return true
	default:
		return false
	}
}

// OrderStatus — статус order в Remote Execution Service.
//
// Order принадлежит внешнему сервису: мы его только читаем.
//
// Жизненный цикл:
//
//	QUEUED → RUNNING → SUCCEEDED
//	                 ↘ FAILED
type OrderStatus string

const (
	// OrderStatusQueued — order принят сервисом и ждёт runner.
	OrderStatusQueued OrderStatus = "QUEUED"

	// OrderStatusRunning — runner выполняет order.
	OrderStatusRunning OrderStatus = "RUNNING"

	// OrderStatusSucceeded — order успешно выполнен.
	OrderStatusSucceeded OrderStatus = "SUCCEEDED"

	// OrderStatusFailed — order завершился с ошибкой.
	OrderStatusFailed OrderStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusSucceeded, OrderStatusFailed:
		return true
	default:
		return false
	}
}
