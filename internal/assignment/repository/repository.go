// Package repository provides data access for assignment rules, the
// reassignment outbox, and officer lookup.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNoRules         = errors.New("no assignment rules configured")
	ErrNoOfficer       = errors.New("no user with the requested role")
	ErrEntryNotFound   = errors.New("outbox entry not found")
	ErrAlreadyAssigned = errors.New("outbox entry already processed")
)

// Outbox entry states. Entries move pending -> dispatched -> done, or to
// failed after exhausting attempts.
const (
	OutboxPending    = "pending"
	OutboxDispatched = "dispatched"
	OutboxDone       = "done"
	OutboxFailed     = "failed"
)

type Rules struct {
	MaxCallAttempts int
	UpdatedAt       time.Time
}

type OutboxEntry struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	ToRole     string
	DropReason string
	Remarks    string
	Status     string
	Attempts   int
	LastError  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Officer struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRules returns the single assignment rules row.
func (r *Repository) GetRules(ctx context.Context) (Rules, error) {
	var rules Rules
	err := r.pool.QueryRow(ctx, `
		SELECT max_call_attempts, updated_at FROM assignment_rules WHERE singleton
	`).Scan(&rules.MaxCallAttempts, &rules.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rules{}, ErrNoRules
	}
	return rules, err
}

// UpsertRules writes the singleton rules row.
func (r *Repository) UpsertRules(ctx context.Context, maxCallAttempts int) (Rules, error) {
	var rules Rules
	err := r.pool.QueryRow(ctx, `
		INSERT INTO assignment_rules (singleton, max_call_attempts)
		VALUES (true, $1)
		ON CONFLICT (singleton) DO UPDATE
		SET max_call_attempts = EXCLUDED.max_call_attempts, updated_at = now()
		RETURNING max_call_attempts, updated_at
	`, maxCallAttempts).Scan(&rules.MaxCallAttempts, &rules.UpdatedAt)
	return rules, err
}

// InsertOutbox records a reassignment command for later fulfillment.
func (r *Repository) InsertOutbox(ctx context.Context, leadID uuid.UUID, toRole, dropReason, remarks string) (OutboxEntry, error) {
	var entry OutboxEntry
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reassignment_outbox (lead_id, to_role, drop_reason, remarks)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, to_role, drop_reason, remarks, status, attempts, last_error, created_at, updated_at
	`, leadID, toRole, dropReason, remarks).Scan(
		&entry.ID, &entry.LeadID, &entry.ToRole, &entry.DropReason, &entry.Remarks,
		&entry.Status, &entry.Attempts, &entry.LastError, &entry.CreatedAt, &entry.UpdatedAt,
	)
	return entry, err
}

func (r *Repository) GetOutboxEntry(ctx context.Context, id uuid.UUID) (OutboxEntry, error) {
	var entry OutboxEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, to_role, drop_reason, remarks, status, attempts, last_error, created_at, updated_at
		FROM reassignment_outbox WHERE id = $1
	`, id).Scan(
		&entry.ID, &entry.LeadID, &entry.ToRole, &entry.DropReason, &entry.Remarks,
		&entry.Status, &entry.Attempts, &entry.LastError, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return OutboxEntry{}, ErrEntryNotFound
	}
	return entry, err
}

// ListPending returns pending entries oldest-first so the dispatcher can
// enqueue them in arrival order.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]OutboxEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, to_role, drop_reason, remarks, status, attempts, last_error, created_at, updated_at
		FROM reassignment_outbox
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, OutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]OutboxEntry, 0)
	for rows.Next() {
		var entry OutboxEntry
		if err := rows.Scan(
			&entry.ID, &entry.LeadID, &entry.ToRole, &entry.DropReason, &entry.Remarks,
			&entry.Status, &entry.Attempts, &entry.LastError, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *Repository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reassignment_outbox SET status = $2, updated_at = now() WHERE id = $1
	`, id, OutboxDispatched)
	return err
}

// MarkDone finalizes an entry. The status guard keeps fulfillment idempotent
// when a task is delivered twice.
func (r *Repository) MarkDone(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reassignment_outbox SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> $2
	`, id, OutboxDone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyAssigned
	}
	return nil
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE reassignment_outbox
		SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = now()
		WHERE id = $1
	`, id, OutboxFailed, lastError)
	return err
}

// FindOfficerByRole picks the user holding the role with the fewest open
// assignments, so repeated drops spread across officers.
func (r *Repository) FindOfficerByRole(ctx context.Context, role string) (Officer, error) {
	var officer Officer
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.full_name
		FROM users u
		WHERE $1 = ANY(u.roles)
		ORDER BY (
			SELECT count(*) FROM leads l
			WHERE l.assigned_agent_id = u.id AND l.deleted_at IS NULL
		) ASC, u.created_at ASC
		LIMIT 1
	`, role).Scan(&officer.ID, &officer.Email, &officer.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Officer{}, ErrNoOfficer
	}
	return officer, err
}

// AssignLead hands the lead to the officer.
func (r *Repository) AssignLead(ctx context.Context, leadID, officerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET assigned_agent_id = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, leadID, officerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
