package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("lead not found")
	ErrCallNotFound = errors.New("call log entry not found")
	ErrNoteNotFound = errors.New("note not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Phone           string
	Email           *string
	Company         *string
	Source          *string
	Status          string
	Tag             string
	CallCount       int
	PipelineID      *uuid.UUID
	StageID         *uuid.UUID
	DropReason      *string
	Remarks         *string
	AssignedAgentID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const leadColumns = `id, first_name, last_name, phone, email, company, source,
	status, tag, call_count, pipeline_id, stage_id, drop_reason, remarks,
	assigned_agent_id, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Phone, &lead.Email,
		&lead.Company, &lead.Source, &lead.Status, &lead.Tag, &lead.CallCount,
		&lead.PipelineID, &lead.StageID, &lead.DropReason, &lead.Remarks,
		&lead.AssignedAgentID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	FirstName       string
	LastName        string
	Phone           string
	Email           *string
	Company         *string
	Source          *string
	Status          string
	Tag             string
	PipelineID      *uuid.UUID
	AssignedAgentID *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, phone, email, company, source,
			status, tag, pipeline_id, assigned_agent_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+leadColumns,
		params.FirstName, params.LastName, params.Phone, params.Email,
		params.Company, params.Source, params.Status, params.Tag,
		params.PipelineID, params.AssignedAgentID,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND deleted_at IS NULL
	`, id))
}

type ListLeadsParams struct {
	Status   *string
	Tag      *string
	Search   string
	Page     int
	PageSize int
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	arg := 1

	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", arg))
		args = append(args, *params.Status)
		arg++
	}
	if params.Tag != nil {
		where = append(where, fmt.Sprintf("tag = $%d", arg))
		args = append(args, *params.Tag)
		arg++
	}
	if params.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d)", arg, arg, arg))
		args = append(args, "%"+params.Search+"%")
		arg++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.PageSize
	args = append(args, params.PageSize, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, arg, arg+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

type UpdateLeadParams struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	Email           *string
	Company         *string
	Source          *string
	PipelineID      *uuid.UUID
	PipelineIDSet   bool
	AssignedAgentID *uuid.UUID
	AssignedIDSet   bool
}

// Update patches contact and assignment fields. Status, tag, call_count and
// stage_id are deliberately not reachable here; those mutate only through
// ApplyState so every lifecycle change goes through the engine's rules.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	set := []string{"updated_at = now()"}
	args := []interface{}{}
	arg := 1

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if params.FirstName != nil {
		add("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		add("last_name", *params.LastName)
	}
	if params.Phone != nil {
		add("phone", *params.Phone)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Company != nil {
		add("company", *params.Company)
	}
	if params.Source != nil {
		add("source", *params.Source)
	}
	if params.PipelineIDSet {
		add("pipeline_id", params.PipelineID)
	}
	if params.AssignedIDSet {
		add("assigned_agent_id", params.AssignedAgentID)
	}

	args = append(args, id)
	return scanLead(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(set, ", "), arg, leadColumns), args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
