package model

import (
	"testing"

	"github.com/solidtype/kernel/topo"
	v3 "github.com/solidtype/kernel/vec/v3"
)

func TestPipelineRunRecordsSuccessfulCheckpoints(t *testing.T) {
	store := topo.NewStore()
	p := NewPipeline(store)
	p.AddCreateBox(2, 2, 2, v3.Vec{})
	p.AddCreateCylinder(3, 1)

	result := p.Run(nil)
	if result.Status != RebuildCompleted {
		t.Fatalf("expected RebuildCompleted, got %v", result.Status)
	}
	if len(result.Checkpoints) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d", len(result.Checkpoints))
	}
	for i, cp := range result.Checkpoints {
		if !cp.Success {
			t.Fatalf("checkpoint %d failed: %v", i, cp.Errors)
		}
		if len(cp.ProducedBodies) != 1 {
			t.Fatalf("checkpoint %d expected 1 produced body, got %d", i, len(cp.ProducedBodies))
		}
		if len(cp.CreatedSubshapeRefs) == 0 {
			t.Fatalf("checkpoint %d expected subshape refs", i)
		}
	}

	last, ok := p.LastValidCheckpoint()
	if !ok {
		t.Fatalf("expected a last valid checkpoint")
	}
	if last.FeatureID != p.Features[1].ID {
		t.Fatalf("expected last valid checkpoint to be the final feature, got %v", last.FeatureID)
	}
}

func TestPipelineRejectsInvalidFeatureWithoutStoppingTheRest(t *testing.T) {
	store := topo.NewStore()
	p := NewPipeline(store)
	p.AddCreateBox(0, 2, 2, v3.Vec{}) // invalid: zero width
	p.AddCreateBox(2, 2, 2, v3.Vec{X: 10})

	result := p.Run(nil)
	if result.Status != RebuildCompleted {
		t.Fatalf("expected RebuildCompleted, got %v", result.Status)
	}
	if result.Checkpoints[0].Success {
		t.Fatalf("expected first checkpoint to fail")
	}
	if len(result.Checkpoints[0].Errors) == 0 {
		t.Fatalf("expected an error on the failed checkpoint")
	}
	if !result.Checkpoints[1].Success {
		t.Fatalf("expected second checkpoint to still succeed: %v", result.Checkpoints[1].Errors)
	}

	last, ok := p.LastValidCheckpoint()
	if !ok || last.FeatureID != p.Features[1].ID {
		t.Fatalf("expected last valid checkpoint to be the second feature")
	}
}

func TestPipelineRunPausesOnYieldAndResumes(t *testing.T) {
	store := topo.NewStore()
	p := NewPipeline(store)
	p.AddCreateBox(1, 1, 1, v3.Vec{})
	p.AddCreateBox(1, 1, 1, v3.Vec{X: 5})
	p.AddCreateBox(1, 1, 1, v3.Vec{X: 10})

	calls := 0
	result := p.Run(func() YieldSignal {
		calls++
		return YieldPause
	})
	if result.Status != RebuildPaused {
		t.Fatalf("expected RebuildPaused, got %v", result.Status)
	}
	if result.Resume == nil || result.Resume.NextIndex != 1 {
		t.Fatalf("expected resume at index 1, got %+v", result.Resume)
	}
	if len(result.Checkpoints) != 1 {
		t.Fatalf("expected exactly 1 checkpoint before pausing, got %d", len(result.Checkpoints))
	}

	result = p.Run(nil)
	if result.Status != RebuildCompleted {
		t.Fatalf("expected resumed run to complete, got %v", result.Status)
	}
	if len(result.Checkpoints) != 3 {
		t.Fatalf("expected 3 total checkpoints after resuming, got %d", len(result.Checkpoints))
	}
}

func TestPipelineRunCancels(t *testing.T) {
	store := topo.NewStore()
	p := NewPipeline(store)
	p.AddCreateBox(1, 1, 1, v3.Vec{})
	p.AddCreateBox(1, 1, 1, v3.Vec{X: 5})

	result := p.Run(func() YieldSignal { return YieldCancel })
	if result.Status != RebuildCancelled {
		t.Fatalf("expected RebuildCancelled, got %v", result.Status)
	}
	if len(result.Checkpoints) != 1 {
		t.Fatalf("expected 1 checkpoint before cancelling, got %d", len(result.Checkpoints))
	}
}
