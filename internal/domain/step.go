package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeploymentStep — отдельная единица работы внутри deployment.
//
// Шаги выполняются строго по возрастанию StepOrder, по одному:
// шаг N+1 не отправляется, пока шаг N не достиг финального статуса
// и не оказался не-FAILED. Выполняет шаг внешний Remote Execution
// Service — мы создаём order и наблюдаем его до завершения.
type DeploymentStep struct {
	// ID — уникальный идентификатор шага.
	ID uuid.UUID `json:"id"`

	// DeploymentID — ссылка на родительский deployment.
	DeploymentID uuid.UUID `json:"deployment_id"`

	// StepOrder — порядковый номер шага. Уникален внутри deployment,
	// строго возрастает; единственный ключ порядка выполнения.
	StepOrder int `json:"step_order"`

	// StepName — имя шага (для оператора).
	StepName string `json:"step_name"`

	// StepType — тип шага. Для ядра непрозрачен: передаётся
	// в Remote Execution Service как категория order.
	StepType string `json:"step_type"`

	// Command — команда для runner. Непрозрачна для ядра.
	Command string `json:"command"`

	// Status — текущий статус шага.
	Status StepStatus `json:"status"`

	// OrderID — идентификатор order во внешнем сервисе.
	// Устанавливается один раз, сразу после создания order.
	OrderID string `json:"order_id,omitempty"`

	// StartedAt — время начала выполнения шага.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения шага.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// ExitCode — код возврата команды. Заполняется только
	// из финального order.
	ExitCode *int `json:"exit_code,omitempty"`

	// StdoutTail — хвост stdout команды.
	StdoutTail string `json:"stdout_tail,omitempty"`

	// StderrTail — хвост stderr команды.
	StderrTail string `json:"stderr_tail,omitempty"`

	// ErrorMessage — текст ошибки при неудаче.
	ErrorMessage string `json:"error_message,omitempty"`

	// CreatedAt — время создания шага.
	CreatedAt time.Time `json:"created_at"`
}

// Duration возвращает продолжительность выполнения шага.
func (s *DeploymentStep) Duration() time.Duration {
	if s.StartedAt == nil || s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(*s.StartedAt)
}

// IsFinished возвращает true, если шаг завершён.
func (s *DeploymentStep) IsFinished() bool {
	return s.Status.IsTerminal()
}

// MarkRunning переводит шаг в статус RUNNING.
func (s *DeploymentStep) MarkRunning() {
	now := time.Now()
	s.Status = StepStatusRunning
	s.StartedAt = &now
}

// MarkFailed переводит шаг в статус FAILED с ошибкой.
// Используется при ошибке создания order (dispatch error).
func (s *DeploymentStep) MarkFailed(errMsg string) {
	now := time.Now()
	s.Status = StepStatusFailed
	s.FinishedAt = &now
	s.ErrorMessage = errMsg
}

// ApplyOrderResult копирует финальный результат order на шаг.
//
// Маппинг статусов: SUCCEEDED → APPLIED, FAILED → FAILED.
// Диагностические поля (exit code, хвосты вывода, ошибка)
// доверяются только из финального order.
func (s *DeploymentStep) ApplyOrderResult(o *Order) {
	now := time.Now()
	s.FinishedAt = &now
	s.ExitCode = o.ExitCode
	s.StdoutTail = o.StdoutTail
	s.StderrTail = o.StderrTail
	s.ErrorMessage = o.ErrorMessage

	if o.Status == OrderStatusSucceeded {
		s.Status = StepStatusApplied
	} else {
		s.Status = StepStatusFailed
	}
}

// ResetForRelaunch возвращает шаг в PENDING перед перезапуском
// deployment, очищая все поля предыдущего прогона.
func (s *DeploymentStep) ResetForRelaunch() {
	s.Status = StepStatusPending
	s.OrderID = ""
	s.StartedAt = nil
	s.FinishedAt = nil
	s.ExitCode = nil
	s.StdoutTail = ""
	s.StderrTail = ""
	s.ErrorMessage = ""
}
