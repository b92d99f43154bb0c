package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	AuthorID  *uuid.UUID
	Body      string
	CreatedAt time.Time
}

type CreateNoteParams struct {
	LeadID   uuid.UUID
	AuthorID *uuid.UUID
	Body     string
}

func (r *Repository) CreateNote(ctx context.Context, params CreateNoteParams) (Note, error) {
	var note Note
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_notes (lead_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, lead_id, author_id, body, created_at
	`, params.LeadID, params.AuthorID, params.Body).Scan(
		&note.ID, &note.LeadID, &note.AuthorID, &note.Body, &note.CreatedAt,
	)
	return note, err
}

func (r *Repository) ListNotes(ctx context.Context, leadID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, author_id, body, created_at
		FROM lead_notes WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]Note, 0)
	for rows.Next() {
		var note Note
		if err := rows.Scan(&note.ID, &note.LeadID, &note.AuthorID, &note.Body, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return notes, nil
}

func (r *Repository) DeleteNote(ctx context.Context, leadID, noteID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM lead_notes WHERE id = $1 AND lead_id = $2
	`, noteID, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// FollowUpTask is a scheduled reminder created when a logged call requests a
// follow-up. The scheduler worker marks tasks done when they fire.
type FollowUpTask struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	CallID    *uuid.UUID
	DueAt     time.Time
	Done      bool
	CreatedAt time.Time
}

func (r *Repository) CreateFollowUpTask(ctx context.Context, leadID uuid.UUID, callID *uuid.UUID, dueAt time.Time) (FollowUpTask, error) {
	var task FollowUpTask
	err := r.pool.QueryRow(ctx, `
		INSERT INTO follow_up_tasks (lead_id, call_id, due_at)
		VALUES ($1, $2, $3)
		RETURNING id, lead_id, call_id, due_at, done, created_at
	`, leadID, callID, dueAt).Scan(
		&task.ID, &task.LeadID, &task.CallID, &task.DueAt, &task.Done, &task.CreatedAt,
	)
	return task, err
}

func (r *Repository) MarkFollowUpDone(ctx context.Context, taskID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE follow_up_tasks SET done = true WHERE id = $1
	`, taskID)
	return err
}
