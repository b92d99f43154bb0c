package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CallLog is one append-only contact attempt record. Rows are never mutated
// after creation; a record can only be deleted as a whole.
type CallLog struct {
	ID                  uuid.UUID
	LeadID              uuid.UUID
	Disposition         string
	CallDate            time.Time
	Note                string
	FollowTaskRequested bool
	CreatedAt           time.Time
}

// StatePatch is the persisted projection of an engine decision. Nil fields
// are left untouched; the whole patch is applied in one statement so callers
// never observe partial field application.
type StatePatch struct {
	Status     *string
	Tag        *string
	StageID    *uuid.UUID
	CallDelta  int
	DropReason *string
	Remarks    *string
}

func (p StatePatch) empty() bool {
	return p.Status == nil && p.Tag == nil && p.StageID == nil &&
		p.CallDelta == 0 && p.DropReason == nil && p.Remarks == nil
}

func buildStateUpdate(id uuid.UUID, patch StatePatch) (string, []interface{}) {
	set := []string{"updated_at = now()"}
	args := []interface{}{}
	arg := 1

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Tag != nil {
		add("tag", *patch.Tag)
	}
	if patch.StageID != nil {
		add("stage_id", *patch.StageID)
	}
	if patch.DropReason != nil {
		add("drop_reason", *patch.DropReason)
	}
	if patch.Remarks != nil {
		add("remarks", *patch.Remarks)
	}
	if patch.CallDelta != 0 {
		set = append(set, fmt.Sprintf("call_count = call_count + $%d", arg))
		args = append(args, patch.CallDelta)
		arg++
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(set, ", "), arg, leadColumns)
	return query, args
}

// ApplyState applies a lifecycle state patch in a single statement.
func (r *Repository) ApplyState(ctx context.Context, id uuid.UUID, patch StatePatch) (Lead, error) {
	if patch.empty() {
		return r.GetByID(ctx, id)
	}
	query, args := buildStateUpdate(id, patch)
	return scanLead(r.pool.QueryRow(ctx, query, args...))
}

// CreateCallLogParams carries one call log row. Note is a plain string
// because the column is NOT NULL; an absent note is stored as ''.
type CreateCallLogParams struct {
	Disposition         string
	CallDate            time.Time
	Note                string
	FollowTaskRequested bool
}

// LogCall applies the state patch and appends the call log entry in one
// transaction, so the status update and the attempt record commit together.
func (r *Repository) LogCall(ctx context.Context, leadID uuid.UUID, patch StatePatch, call CreateCallLogParams) (Lead, CallLog, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, CallLog{}, err
	}
	defer tx.Rollback(ctx)

	query, args := buildStateUpdate(leadID, patch)
	lead, err := scanLead(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return Lead{}, CallLog{}, err
	}

	if call.CallDate.IsZero() {
		call.CallDate = time.Now().UTC()
	}

	var entry CallLog
	err = tx.QueryRow(ctx, `
		INSERT INTO call_logs (lead_id, disposition, call_date, note, follow_task_requested)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, disposition, call_date, note, follow_task_requested, created_at
	`, leadID, call.Disposition, call.CallDate, call.Note, call.FollowTaskRequested).Scan(
		&entry.ID, &entry.LeadID, &entry.Disposition, &entry.CallDate,
		&entry.Note, &entry.FollowTaskRequested, &entry.CreatedAt,
	)
	if err != nil {
		return Lead{}, CallLog{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, CallLog{}, err
	}

	return lead, entry, nil
}

func (r *Repository) ListCalls(ctx context.Context, leadID uuid.UUID) ([]CallLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, disposition, call_date, note, follow_task_requested, created_at
		FROM call_logs WHERE lead_id = $1
		ORDER BY call_date DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls := make([]CallLog, 0)
	for rows.Next() {
		var entry CallLog
		if err := rows.Scan(
			&entry.ID, &entry.LeadID, &entry.Disposition, &entry.CallDate,
			&entry.Note, &entry.FollowTaskRequested, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		calls = append(calls, entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return calls, nil
}

func (r *Repository) GetCall(ctx context.Context, leadID, callID uuid.UUID) (CallLog, error) {
	var entry CallLog
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, disposition, call_date, note, follow_task_requested, created_at
		FROM call_logs WHERE id = $1 AND lead_id = $2
	`, callID, leadID).Scan(
		&entry.ID, &entry.LeadID, &entry.Disposition, &entry.CallDate,
		&entry.Note, &entry.FollowTaskRequested, &entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return CallLog{}, ErrCallNotFound
	}
	return entry, err
}

func (r *Repository) DeleteCall(ctx context.Context, leadID, callID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM call_logs WHERE id = $1 AND lead_id = $2
	`, callID, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCallNotFound
	}
	return nil
}

// GetPipelineForLead loads the pipeline and its ordered stages attached to a
// lead, if any.
type PipelineRow struct {
	ID     uuid.UUID
	Name   string
	Stages []PipelineStageRow
}

type PipelineStageRow struct {
	ID       uuid.UUID
	Name     string
	Position int
	IsFinal  bool
}

func (r *Repository) GetPipelineForLead(ctx context.Context, leadID uuid.UUID) (*PipelineRow, error) {
	var pipeline PipelineRow
	err := r.pool.QueryRow(ctx, `
		SELECT p.id, p.name
		FROM pipelines p
		JOIN leads l ON l.pipeline_id = p.id
		WHERE l.id = $1 AND l.deleted_at IS NULL
	`, leadID).Scan(&pipeline.ID, &pipeline.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, position, is_final
		FROM pipeline_stages
		WHERE pipeline_id = $1
		ORDER BY position ASC
	`, pipeline.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stage PipelineStageRow
		if err := rows.Scan(&stage.ID, &stage.Name, &stage.Position, &stage.IsFinal); err != nil {
			return nil, err
		}
		pipeline.Stages = append(pipeline.Stages, stage)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return &pipeline, nil
}
