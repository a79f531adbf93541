package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Bosun/internal/domain"
)

// Deployment DTOs

// CreateDeploymentRequest — запрос на создание deployment.
type CreateDeploymentRequest struct {
	RunnerID         uuid.UUID           `json:"runner_id"`
	InfrastructureID *uuid.UUID          `json:"infrastructure_id,omitempty"`
	AppName          string              `json:"app_name"`
	Steps            []CreateStepRequest `json:"steps"`
}

// CreateStepRequest — шаг в запросе на создание deployment.
type CreateStepRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Command string `json:"command"`
}

// DeploymentResponse — ответ с deployment.
type DeploymentResponse struct {
	ID               uuid.UUID  `json:"id"`
	RunnerID         uuid.UUID  `json:"runner_id"`
	InfrastructureID *uuid.UUID `json:"infrastructure_id,omitempty"`
	AppName          string     `json:"app_name"`
	Status           string     `json:"status"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Error            string     `json:"error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// DeploymentFromDomain конвертирует domain.Deployment в DeploymentResponse.
func DeploymentFromDomain(d domain.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:               d.ID,
		RunnerID:         d.RunnerID,
		InfrastructureID: d.InfrastructureID,
		AppName:          d.AppName,
		Status:           string(d.Status),
		StartedAt:        d.StartedAt,
		CompletedAt:      d.CompletedAt,
		Error:            d.ErrorMessage,
		CreatedAt:        d.CreatedAt,
	}
}

// Step DTOs

// StepResponse — ответ с шагом deployment.
type StepResponse struct {
	ID           uuid.UUID  `json:"id"`
	DeploymentID uuid.UUID  `json:"deployment_id"`
	StepOrder    int        `json:"step_order"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Command      string     `json:"command"`
	Status       string     `json:"status"`
	OrderID      string     `json:"order_id,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ExitCode     *int       `json:"exit_code,omitempty"`
	StdoutTail   string     `json:"stdout_tail,omitempty"`
	StderrTail   string     `json:"stderr_tail,omitempty"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// StepFromDomain конвертирует domain.DeploymentStep в StepResponse.
func StepFromDomain(s domain.DeploymentStep) StepResponse {
	return StepResponse{
		ID:           s.ID,
		DeploymentID: s.DeploymentID,
		StepOrder:    s.StepOrder,
		Name:         s.StepName,
		Type:         s.StepType,
		Command:      s.Command,
		Status:       string(s.Status),
		OrderID:      s.OrderID,
		StartedAt:    s.StartedAt,
		FinishedAt:   s.FinishedAt,
		ExitCode:     s.ExitCode,
		StdoutTail:   s.StdoutTail,
		StderrTail:   s.StderrTail,
		Error:        s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
	}
}
