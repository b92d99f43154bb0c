package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestEffectiveStages_DefaultModel(t *testing.T) {
	lead := Lead{Status: StatusInProgress, Tag: TagFollowUp}

	stages := EffectiveStages(lead, nil)
	if len(stages) != 4 {
		t.Fatalf("expected 4 default stages, got %d", len(stages))
	}

	wantLabels := []string{"Not Contacted", "Contacted", "Closed", "Lost"}
	for i, s := range stages {
		if s.Label != wantLabels[i] {
			t.Errorf("stage %d label = %q, want %q", i, s.Label, wantLabels[i])
		}
		if s.ID != nil {
			t.Errorf("default stage %d should have no id", i)
		}
		if s.Active != (i == 1) {
			t.Errorf("stage %d active = %v, want %v", i, s.Active, i == 1)
		}
	}
}

func TestEffectiveStages_PipelineOverridesDefault(t *testing.T) {
	stageA := PipelineStage{ID: uuid.New(), Name: "Qualification", Position: 0}
	stageB := PipelineStage{ID: uuid.New(), Name: "Contract", Position: 1, IsFinal: true}
	pipeline := &Pipeline{ID: uuid.New(), Name: "Enterprise", Stages: []PipelineStage{stageA, stageB}}

	stageID := stageA.ID
	lead := Lead{Status: StatusInProgress, Tag: TagFollowUp, StageID: &stageID}

	stages := EffectiveStages(lead, pipeline)
	if len(stages) != 2 {
		t.Fatalf("expected 2 pipeline stages, got %d", len(stages))
	}

	if stages[0].Status != "In Progress" {
		t.Errorf("non-final stage status = %q, want In Progress", stages[0].Status)
	}
	if stages[1].Status != "Won" {
		t.Errorf("final stage status = %q, want Won", stages[1].Status)
	}
	if !stages[0].Active {
		t.Error("stage referenced by stage_id should be active")
	}
	if stages[1].Active {
		t.Error("unreferenced stage should not be active")
	}
}

func TestEffectiveStages_TagNameMatchActivatesStage(t *testing.T) {
	stage := PipelineStage{ID: uuid.New(), Name: "Negotiation Round"}
	pipeline := &Pipeline{ID: uuid.New(), Stages: []PipelineStage{stage}}

	lead := Lead{Status: StatusInProgress, Tag: Tag("Negotiation Round")}

	stages := EffectiveStages(lead, pipeline)
	if !stages[0].Active {
		t.Fatal("stage whose name matches the lead tag should be active")
	}
}

func TestEffectiveStages_EmptyPipelineFallsBack(t *testing.T) {
	lead := Lead{Status: StatusNew, Tag: TagNotContacted}
	stages := EffectiveStages(lead, &Pipeline{ID: uuid.New()})
	if len(stages) != 4 {
		t.Fatalf("pipeline without stages should fall back to default model, got %d stages", len(stages))
	}
	if !stages[0].Active {
		t.Fatal("fresh lead should sit on the first default stage")
	}
}

// Stage targets built from a stored stage derive their status from is_final,
// so a client-supplied status string cannot steer the transition.
func TestTargetFromPipelineStage(t *testing.T) {
	final := PipelineStage{ID: uuid.New(), Name: "Contract", Position: 1, IsFinal: true}
	open := PipelineStage{ID: uuid.New(), Name: "Qualification", Position: 0}

	target := TargetFromPipelineStage(final)
	if target.Status != "Won" {
		t.Fatalf("final stage target status = %q, want Won", target.Status)
	}
	if target.ID == nil || *target.ID != final.ID {
		t.Fatalf("expected target id %v, got %v", final.ID, target.ID)
	}

	d := MoveToStage(Lead{Status: StatusInProgress, Tag: TagFollowUp}, target)
	if d.Status != StatusClosed || d.Tag != TagWon {
		t.Fatalf("final stage click = {%s, %s}, want {Closed, Won}", d.Status, d.Tag)
	}
	if d.StageID == nil || *d.StageID != final.ID {
		t.Fatalf("expected stage id %v applied, got %v", final.ID, d.StageID)
	}

	target = TargetFromPipelineStage(open)
	if target.Status != "In Progress" {
		t.Fatalf("non-final stage target status = %q, want In Progress", target.Status)
	}
	d = MoveToStage(Lead{Status: StatusNew, Tag: TagNotContacted}, target)
	if d.Status != StatusInProgress || d.Tag != TagFollowUp {
		t.Fatalf("non-final stage click = {%s, %s}, want {In Progress, Follow Up}", d.Status, d.Tag)
	}
}
