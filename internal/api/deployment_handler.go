package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shaiso/Bosun/internal/domain"
	"github.com/shaiso/Bosun/internal/engine"
	"github.com/shaiso/Bosun/internal/repo"
)

// ListDeployments возвращает список deployments с фильтрацией.
// GET /api/v1/deployments?runner_id=...&status=...&limit=...&offset=...
func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) {
	filter := repo.DeploymentFilter{}

	// Парсим query параметры
	if runnerIDStr := r.URL.Query().Get("runner_id"); runnerIDStr != "" {
		runnerID, err := uuid.Parse(runnerIDStr)
		if err != nil {
			BadRequest(w, "invalid runner_id")
			return
		}
		filter.RunnerID = &runnerID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.DeploymentStatus(status)
	}

	filter.Limit = parseIntOr(r.URL.Query().Get("limit"), 50)
	filter.Offset = parseIntOr(r.URL.Query().Get("offset"), 0)

	deployments, err := h.deploymentRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]DeploymentResponse, len(deployments))
	for i, d := range deployments {
		result[i] = DeploymentFromDomain(d)
	}

	List(w, result, len(result))
}

// CreateDeployment создаёт новый deployment со списком шагов.
// POST /api/v1/deployments
func (h *Handler) CreateDeployment(w http.ResponseWriter, r *http.Request) {
	var req CreateDeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.AppName == "" {
		BadRequest(w, "app_name is required")
		return
	}
	if req.RunnerID == uuid.Nil {
		BadRequest(w, "runner_id is required")
		return
	}
	if len(req.Steps) == 0 {
		BadRequest(w, "at least one step is required")
		return
	}
	for i, s := range req.Steps {
		if s.Name == "" || s.Command == "" {
			BadRequest(w, "step "+strconv.Itoa(i+1)+": name and command are required")
			return
		}
	}

	d := &domain.Deployment{
		ID:               uuid.New(),
		RunnerID:         req.RunnerID,
		InfrastructureID: req.InfrastructureID,
		AppName:          req.AppName,
		Status:           domain.DeploymentStatusReady,
	}

	steps := make([]domain.DeploymentStep, len(req.Steps))
	for i, s := range req.Steps {
		steps[i] = domain.DeploymentStep{
			ID:           uuid.New(),
			DeploymentID: d.ID,
			StepOrder:    i + 1,
			StepName:     s.Name,
			StepType:     s.Type,
			Command:      s.Command,
			Status:       domain.StepStatusPending,
		}
	}

	err := h.deploymentRepo.Create(r.Context(), d, steps)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Created(w, DeploymentFromDomain(*d))
}

// GetDeployment возвращает deployment по ID.
// GET /api/v1/deployments/{id}
func (h *Handler) GetDeployment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid deployment id")
		return
	}

	d, err := h.deploymentRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "deployment not found") {
		return
	}

	Success(w, DeploymentFromDomain(*d))
}

// ListDeploymentSteps возвращает шаги deployment в порядке выполнения.
// GET /api/v1/deployments/{id}/steps
func (h *Handler) ListDeploymentSteps(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid deployment id")
		return
	}

	// Проверяем, что deployment существует
	_, err = h.deploymentRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "deployment not found") {
		return
	}

	steps, err := h.stepRepo.ListByDeploymentID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]StepResponse, len(steps))
	for i, s := range steps {
		result[i] = StepFromDomain(s)
	}

	List(w, result, len(result))
}

// StartDeployment запускает прогон deployment.
// POST /api/v1/deployments/{id}/start
func (h *Handler) StartDeployment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid deployment id")
		return
	}

	if err := h.engine.Launch(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, engine.ErrDeploymentActive):
			Conflict(w, "deployment is already running")
		case errors.Is(err, engine.ErrNotLaunchable):
			InvalidState(w, "deployment cannot be started in its current status")
		case errors.Is(err, repo.ErrNotFound):
			NotFound(w, "deployment not found")
		default:
			InternalError(w, h.logger, err)
		}
		return
	}

	d, err := h.deploymentRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "deployment not found") {
		return
	}

	Accepted(w, DeploymentFromDomain(*d))
}

// parseIntOr парсит строку в int с дефолтным значением.
func parseIntOr(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}
