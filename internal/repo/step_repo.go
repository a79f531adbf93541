package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Bosun/internal/domain"
)

// StepRepo — репозиторий для работы с шагами deployment.
type StepRepo struct {
	pool *pgxpool.Pool
}

// NewStepRepo создаёт новый StepRepo.
func NewStepRepo(pool *pgxpool.Pool) *StepRepo {
	return &StepRepo{pool: pool}
}

// GetByID возвращает шаг по ID.
func (r *StepRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeploymentStep, error) {
	query := `
		SELECT id, deployment_id, step_order, step_name, step_type, command, status,
		       order_id, started_at, finished_at, exit_code, stdout_tail, stderr_tail,
		       error_message, created_at
		FROM deployment_steps
		WHERE id = $1
	`
	return scanStep(r.pool.QueryRow(ctx, query, id))
}

// ListByDeploymentID возвращает шаги deployment по возрастанию step_order.
// step_order — единственный ключ порядка выполнения.
func (r *StepRepo) ListByDeploymentID(ctx context.Context, deploymentID uuid.UUID) ([]domain.DeploymentStep, error) {
	query := `
		SELECT id, deployment_id, step_order, step_name, step_type, command, status,
		       order_id, started_at, finished_at, exit_code, stdout_tail, stderr_tail,
		       error_message, created_at
		FROM deployment_steps
		WHERE deployment_id = $1
		ORDER BY step_order ASC
	`
	rows, err := r.pool.Query(ctx, query, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("list steps by deployment_id: %w", err)
	}
	defer rows.Close()

	var steps []domain.DeploymentStep
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, *s)
	}
	return steps, rows.Err()
}

// Update обновляет изменяемые поля шага.
func (r *StepRepo) Update(ctx context.Context, s *domain.DeploymentStep) error {
	query := `
		UPDATE deployment_steps
		SET status = $2, order_id = $3, started_at = $4, finished_at = $5,
		    exit_code = $6, stdout_tail = $7, stderr_tail = $8, error_message = $9
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		s.ID,
		s.Status,
		nullString(s.OrderID),
		s.StartedAt,
		s.FinishedAt,
		s.ExitCode,
		nullString(s.StdoutTail),
		nullString(s.StderrTail),
		nullString(s.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("update step: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetByDeploymentID возвращает все шаги deployment в PENDING,
// очищая поля предыдущего прогона. Используется при перезапуске
// FAILED deployment: перезапуск всегда идёт с первого шага.
func (r *StepRepo) ResetByDeploymentID(ctx context.Context, deploymentID uuid.UUID) error {
	query := `
		UPDATE deployment_steps
		SET status = 'PENDING', order_id = NULL, started_at = NULL, finished_at = NULL,
		    exit_code = NULL, stdout_tail = NULL, stderr_tail = NULL, error_message = NULL
		WHERE deployment_id = $1
	`
	_, err := r.pool.Exec(ctx, query, deploymentID)
	if err != nil {
		return fmt.Errorf("reset steps: %w", err)
	}
	return nil
}

// scanStep сканирует одну строку в DeploymentStep.
func scanStep(row pgx.Row) (*domain.DeploymentStep, error) {
	var s domain.DeploymentStep
	var orderID, stdoutTail, stderrTail, errMsg *string

	err := row.Scan(
		&s.ID,
		&s.DeploymentID,
		&s.StepOrder,
		&s.StepName,
		&s.StepType,
		&s.Command,
		&s.Status,
		&orderID,
		&s.StartedAt,
		&s.FinishedAt,
		&s.ExitCode,
		&stdoutTail,
		&stderrTail,
		&errMsg,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan step: %w", err)
	}

	if orderID != nil {
		s.OrderID = *orderID
	}
	if stdoutTail != nil {
		s.StdoutTail = *stdoutTail
	}
	if stderrTail != nil {
		s.StderrTail = *stderrTail
	}
	if errMsg != nil {
		s.ErrorMessage = *errMsg
	}

	return &s, nil
}
