package api

import (
	"log/slog"

	"github.com/shaiso/Bosun/internal/engine"
	"github.com/shaiso/Bosun/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	deploymentRepo *repo.DeploymentRepo
	stepRepo       *repo.StepRepo
	engine         *engine.Engine
	logger         *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	DeploymentRepo *repo.DeploymentRepo
	StepRepo       *repo.StepRepo
	Engine         *engine.Engine
	Logger         *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		deploymentRepo: cfg.DeploymentRepo,
		stepRepo:       cfg.StepRepo,
		engine:         cfg.Engine,
		logger:         cfg.Logger,
	}
}
