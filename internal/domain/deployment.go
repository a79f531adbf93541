package domain

import (
	"time"

	"github.com/google/uuid"
)

// FailureSummary — фиксированное сообщение об ошибке на уровне deployment.
//
// Причина конкретной ошибки остаётся на упавшем шаге
// (ErrorMessage / StderrTail); deployment несёт только сводку.
const FailureSummary = "one or more steps failed"

// Deployment — один прогон развёртывания приложения на runner.
//
// Deployment создаётся оператором через API в статусе READY
// с предзаполненным упорядоченным списком шагов (PENDING).
// Единственный писатель статусов во время прогона — движок (engine);
// presentation-слой только читает снапшоты.
type Deployment struct {
	// ID — уникальный идентификатор deployment.
	ID uuid.UUID `json:"id"`

	// RunnerID — runner, на котором выполняются шаги.
	RunnerID uuid.UUID `json:"runner_id"`

	// InfrastructureID — целевая инфраструктура (опционально).
	InfrastructureID *uuid.UUID `json:"infrastructure_id,omitempty"`

	// AppName — имя разворачиваемого приложения.
	AppName string `json:"app_name"`

	// Status — текущий статус выполнения.
	Status DeploymentStatus `json:"status"`

	// StartedAt — время начала выполнения (когда статус стал RUNNING).
	// Nil, если deployment ещё не запускался.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt — время завершения (успешного или с ошибкой).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ErrorMessage — сводка об ошибке (FailureSummary), если FAILED.
	ErrorMessage string `json:"error_message,omitempty"`

	// CreatedAt — время создания deployment.
	CreatedAt time.Time `json:"created_at"`
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если deployment ещё не завершён.
func (d *Deployment) Duration() time.Duration {
	if d.StartedAt == nil || d.CompletedAt == nil {
		return 0
	}
	return d.CompletedAt.Sub(*d.StartedAt)
}

// IsFinished возвращает true, если deployment завершён.
func (d *Deployment) IsFinished() bool {
	return d.Status.IsTerminal()
}

// CanLaunch возвращает true, если deployment можно запустить.
// Запускается READY; FAILED можно перезапустить с первого шага.
func (d *Deployment) CanLaunch() bool {
	return d.Status == DeploymentStatusReady || d.Status == DeploymentStatusFailed
}

// MarkRunning переводит deployment в статус RUNNING.
// При перезапуске сбрасывает поля предыдущего прогона.
func (d *Deployment) MarkRunning() {
	now := time.Now()
	d.Status = DeploymentStatusRunning
	d.StartedAt = &now
	d.CompletedAt = nil
	d.ErrorMessage = ""
}

// MarkApplied переводит deployment в статус APPLIED.
func (d *Deployment) MarkApplied() {
	now := time.Now()
	d.Status = DeploymentStatusApplied
	d.CompletedAt = &now
	d.ErrorMessage = ""
}

// MarkFailed переводит deployment в статус FAILED со сводкой FailureSummary.
func (d *Deployment) MarkFailed() {
	now := time.Now()
	d.Status = DeploymentStatusFailed
	d.CompletedAt = &now
	d.ErrorMessage = FailureSummary
}
