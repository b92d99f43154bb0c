package domain

import "github.com/google/uuid"

// PipelineStage is one named step of a user-defined pipeline.
type PipelineStage struct {
	ID       uuid.UUID
	Name     string
	Position int
	IsFinal  bool
}

// Pipeline is an ordered list of stages attached to a lead.
type Pipeline struct {
	ID     uuid.UUID
	Name   string
	Stages []PipelineStage
}

// StageView is one element of the effective stage read model consumed by the
// UI to highlight the lead's position.
type StageView struct {
	Label  string     `json:"label"`
	ID     *uuid.UUID `json:"id,omitempty"`
	Status string     `json:"status"`
	Active bool       `json:"active"`
}

// defaultStages is the 4-stage model used when no pipeline is attached.
var defaultStages = []string{"Not Contacted", "Contacted", "Closed", "Lost"}

// stageStatus derives a pipeline stage's semantic status from its is_final
// flag: final stages read as "Won", everything else as "In Progress".
func stageStatus(stage PipelineStage) string {
	if stage.IsFinal {
		return string(TagWon)
	}
	return string(StatusInProgress)
}

// TargetFromPipelineStage builds the click target for a stored pipeline
// stage. The status comes from the stage's is_final flag, so a caller that
// resolves the stage server-side never has to trust a client-supplied status.
func TargetFromPipelineStage(stage PipelineStage) StageTarget {
	id := stage.ID
	return StageTarget{ID: &id, Name: stage.Name, Status: stageStatus(stage)}
}

// EffectiveStages computes the ordered stage list for a lead. A pipeline with
// stages overrides the default model: final stages read as "Won", all others
// as "In Progress", and a stage is active when the lead points at it by
// stage_id or carries its name as tag. Without a pipeline the default list is
// highlighted via CurrentStageIndex.
func EffectiveStages(lead Lead, pipeline *Pipeline) []StageView {
	if pipeline != nil && len(pipeline.Stages) > 0 {
		views := make([]StageView, 0, len(pipeline.Stages))
		for _, stage := range pipeline.Stages {
			id := stage.ID
			views = append(views, StageView{
				Label:  stage.Name,
				ID:     &id,
				Status: stageStatus(stage),
				Active: (lead.StageID != nil && *lead.StageID == stage.ID) || string(lead.Tag) == stage.Name,
			})
		}
		return views
	}

	active := CurrentStageIndex(lead)
	views := make([]StageView, 0, len(defaultStages))
	for i, label := range defaultStages {
		views = append(views, StageView{
			Label:  label,
			Status: label,
			Active: i == active,
		})
	}
	return views
}
