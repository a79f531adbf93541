package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Bosun/internal/domain"
)

// DeploymentRepo — репозиторий для работы с deployments.
type DeploymentRepo struct {
	pool *pgxpool.Pool
}

// NewDeploymentRepo создаёт новый DeploymentRepo.
func NewDeploymentRepo(pool *pgxpool.Pool) *DeploymentRepo {
	return &DeploymentRepo{pool: pool}
}

// Create создаёт deployment вместе с его шагами в одной транзакции.
// Deployment и шаги — единый агрегат: половинчатая запись недопустима.
func (r *DeploymentRepo) Create(ctx context.Context, d *domain.Deployment, steps []domain.DeploymentStep) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	for i := range steps {
		if steps[i].CreatedAt.IsZero() {
			steps[i].CreatedAt = d.CreatedAt
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO deployments (id, runner_id, infrastructure_id, app_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, query,
		d.ID,
		d.RunnerID,
		d.InfrastructureID,
		d.AppName,
		d.Status,
		d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert deployment: %w", ErrAlreadyExists)
		}
		return fmt.Errorf("insert deployment: %w", err)
	}

	stepQuery := `
		INSERT INTO deployment_steps (id, deployment_id, step_order, step_name, step_type, command, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range steps {
		s := &steps[i]
		_, err = tx.Exec(ctx, stepQuery,
			s.ID,
			s.DeploymentID,
			s.StepOrder,
			s.StepName,
			s.StepType,
			s.Command,
			s.Status,
			s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", s.StepOrder, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID возвращает deployment по ID.
func (r *DeploymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error) {
	query := `
		SELECT id, runner_id, infrastructure_id, app_name, status,
		       started_at, completed_at, error_message, created_at
		FROM deployments
		WHERE id = $1
	`
	return scanDeployment(r.pool.QueryRow(ctx, query, id))
}

// List возвращает список deployments с фильтрацией.
func (r *DeploymentRepo) List(ctx context.Context, filter DeploymentFilter) ([]domain.Deployment, error) {
	query := `
		SELECT id, runner_id, infrastructure_id, app_name, status,
		       started_at, completed_at, error_message, created_at
		FROM deployments
		WHERE ($1::uuid IS NULL OR runner_id = $1)
		  AND ($2::text IS NULL OR status = $2::deployment_status)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullUUID(filter.RunnerID),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	var deployments []domain.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, *d)
	}
	return deployments, rows.Err()
}

// Update обновляет изменяемые поля deployment.
func (r *DeploymentRepo) Update(ctx context.Context, d *domain.Deployment) error {
	query := `
		UPDATE deployments
		SET status = $2, started_at = $3, completed_at = $4, error_message = $5
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		d.ID,
		d.Status,
		d.StartedAt,
		d.CompletedAt,
		nullString(d.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

// DeploymentFilter — параметры фильтрации deployments.
type DeploymentFilter struct {
	RunnerID *uuid.UUID
	Status   domain.DeploymentStatus
	Limit    int
	Offset   int
}

// scanDeployment сканирует одну строку в Deployment.
// pgx.Row и pgx.Rows разделяют метод Scan, поэтому хелпер один.
func scanDeployment(row pgx.Row) (*domain.Deployment, error) {
	var d domain.Deployment
	var errMsg *string

	err := row.Scan(
		&d.ID,
		&d.RunnerID,
		&d.InfrastructureID,
		&d.AppName,
		&d.Status,
		&d.StartedAt,
		&d.CompletedAt,
		&errMsg,
		&d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan deployment: %w", err)
	}

	if errMsg != nil {
		d.ErrorMessage = *errMsg
	}

	return &d, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullUUID возвращает nil для пустого UUID.
func nullUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
