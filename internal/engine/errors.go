package engine

import "errors"

// Ошибки движка.
var (
	// ErrDeploymentActive — deployment уже выполняется.
	ErrDeploymentActive = errors.New("deployment already being executed")

	// ErrNotLaunchable — deployment не в статусе READY или FAILED.
	ErrNotLaunchable = errors.New("deployment is not in READY or FAILED status")

	// ErrEngineStopped — движок остановлен.
	ErrEngineStopped = errors.New("engine stopped")
)
