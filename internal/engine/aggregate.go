package engine

import "github.com/shaiso/Bosun/internal/domain"

// Aggregate сводит статусы шагов в статус deployment.
//
// Правила:
//   - FAILED, если хотя бы один шаг FAILED
//   - APPLIED, если все шаги финальны (APPLIED/FAILED/SKIPPED) и ни один не FAILED
//   - RUNNING иначе
//
// Чистая функция: не мутирует вход, один и тот же снапшот
// всегда даёт один и тот же результат.
func Aggregate(steps []domain.DeploymentStep) domain.DeploymentStatus {
	allTerminal := true
	for i := range steps {
		if steps[i].Status == domain.StepStatusFailed {
			return domain.DeploymentStatusFailed
		}
		if !steps[i].Status.IsTerminal() {
			allTerminal = false
		}
	}

	if allTerminal {
		return domain.DeploymentStatusApplied
	}
	return domain.DeploymentStatusRunning
}
