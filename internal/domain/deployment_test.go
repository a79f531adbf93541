package domain

import (
	"testing"
	"time"
)

func TestDeployment_CanLaunch(t *testing.T) {
	tests := []struct {
		status DeploymentStatus
		want   bool
	}{
		{DeploymentStatusReady, true},
		{DeploymentStatusFailed, true},
		{DeploymentStatusRunning, false},
		{DeploymentStatusApplied, false},
	}

	for _, tt := range tests {
		d := Deployment{Status: tt.status}
		if got := d.CanLaunch(); got != tt.want {
			t.Errorf("CanLaunch() for %s: expected %v, got %v", tt.status, tt.want, got)
		}
	}
}

func TestDeployment_MarkRunning_ClearsPreviousRun(t *testing.T) {
	completed := time.Now().Add(-time.Hour)
	d := Deployment{
		Status:       DeploymentStatusFailed,
		CompletedAt:  &completed,
		ErrorMessage: FailureSummary,
	}

	d.MarkRunning()

	if d.Status != DeploymentStatusRunning {
		t.Errorf("expected RUNNING, got %s", d.Status)
	}
	if d.StartedAt == nil {
		t.Error("StartedAt should be set")
	}
	if d.CompletedAt != nil {
		t.Error("CompletedAt should be cleared on relaunch")
	}
	if d.ErrorMessage != "" {
		t.Error("ErrorMessage should be cleared on relaunch")
	}
}

func TestDeployment_MarkFailed_SetsSummary(t *testing.T) {
	d := Deployment{Status: DeploymentStatusRunning}

	d.MarkFailed()

	if d.Status != DeploymentStatusFailed {
		t.Errorf("expected FAILED, got %s", d.Status)
	}
	if d.ErrorMessage != FailureSummary {
		t.Errorf("expected %q, got %q", FailureSummary, d.ErrorMessage)
	}
	if d.CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}
}

func TestDeployment_MarkApplied(t *testing.T) {
	d := Deployment{Status: DeploymentStatusRunning}

	d.MarkApplied()

	if d.Status != DeploymentStatusApplied {
		t.Errorf("expected APPLIED, got %s", d.Status)
	}
	if d.ErrorMessage != "" {
		t.Errorf("expected empty error message, got %q", d.ErrorMessage)
	}
	if d.CompletedAt == nil {
		t.Error("CompletedAt should be set")
	}
}

func TestStep_ApplyOrderResult(t *testing.T) {
	okCode := 0
	failCode := 1

	t.Run("succeeded order maps to APPLIED", func(t *testing.T) {
		s := DeploymentStep{Status: StepStatusRunning}
		s.ApplyOrderResult(&Order{
			Status:     OrderStatusSucceeded,
			ExitCode:   &okCode,
			StdoutTail: "done",
		})

		if s.Status != StepStatusApplied {
			t.Errorf("expected APPLIED, got %s", s.Status)
		}
		if s.ExitCode == nil || *s.ExitCode != 0 {
			t.Error("exit code should be copied")
		}
		if s.StdoutTail != "done" {
			t.Error("stdout tail should be copied")
		}
		if s.FinishedAt == nil {
			t.Error("FinishedAt should be set")
		}
	})

	t.Run("failed order maps to FAILED", func(t *testing.T) {
		s := DeploymentStep{Status: StepStatusRunning}
		s.ApplyOrderResult(&Order{
			Status:       OrderStatusFailed,
			ExitCode:     &failCode,
			StderrTail:   "boom",
			ErrorMessage: "command exited with status 1",
		})

		if s.Status != StepStatusFailed {
			t.Errorf("expected FAILED, got %s", s.Status)
		}
		if s.ErrorMessage != "command exited with status 1" {
			t.Error("error message should be copied")
		}
		if s.StderrTail != "boom" {
			t.Error("stderr tail should be copied")
		}
	})
}

func TestStep_ResetForRelaunch(t *testing.T) {
	now := time.Now()
	code := 1
	s := DeploymentStep{
		Status:       StepStatusFailed,
		OrderID:      "order-1",
		StartedAt:    &now,
		FinishedAt:   &now,
		ExitCode:     &code,
		StdoutTail:   "out",
		StderrTail:   "err",
		ErrorMessage: "boom",
	}

	s.ResetForRelaunch()

	if s.Status != StepStatusPending {
		t.Errorf("expected PENDING, got %s", s.Status)
	}
	if s.OrderID != "" || s.StartedAt != nil || s.FinishedAt != nil ||
		s.ExitCode != nil || s.StdoutTail != "" || s.StderrTail != "" || s.ErrorMessage != "" {
		t.Error("all run fields should be cleared")
	}
}

func TestStatuses_IsTerminal(t *testing.T) {
	if DeploymentStatusReady.IsTerminal() || DeploymentStatusRunning.IsTerminal() {
		t.Error("READY and RUNNING are not terminal")
	}
	if !DeploymentStatusApplied.IsTerminal() || !DeploymentStatusFailed.IsTerminal() {
		t.Error("APPLIED and FAILED are terminal")
	}

	if StepStatusPending.IsTerminal() || StepStatusRunning.IsTerminal() {
		t.Error("PENDING and RUNNING are not terminal")
	}
	if !StepStatusApplied.IsTerminal() || !StepStatusFailed.IsTerminal() || !StepStatusSkipped.IsTerminal() {
		t.Error("APPLIED, FAILED and SKIPPED are terminal")
	}

	if OrderStatusQueued.IsTerminal() || OrderStatusRunning.IsTerminal() {
		t.Error("QUEUED and RUNNING are not terminal")
	}
	if !OrderStatusSucceeded.IsTerminal() || !OrderStatusFailed.IsTerminal() {
		t.Error("SUCCEEDED and FAILED are terminal")
	}
}
