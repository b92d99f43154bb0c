package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

// Attachment is the metadata row for a file stored in object storage.
type Attachment struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	ObjectKey   string
	UploadedBy  *uuid.UUID
	CreatedAt   time.Time
}

type CreateAttachmentParams struct {
	LeadID      uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	ObjectKey   string
	UploadedBy  *uuid.UUID
}

func (r *Repository) CreateAttachment(ctx context.Context, params CreateAttachmentParams) (Attachment, error) {
	var att Attachment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_attachments (lead_id, file_name, content_type, size_bytes, object_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lead_id, file_name, content_type, size_bytes, object_key, uploaded_by, created_at
	`, params.LeadID, params.FileName, params.ContentType, params.SizeBytes, params.ObjectKey, params.UploadedBy).Scan(
		&att.ID, &att.LeadID, &att.FileName, &att.ContentType, &att.SizeBytes,
		&att.ObjectKey, &att.UploadedBy, &att.CreatedAt,
	)
	return att, err
}

func (r *Repository) ListAttachments(ctx context.Context, leadID uuid.UUID) ([]Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, file_name, content_type, size_bytes, object_key, uploaded_by, created_at
		FROM lead_attachments WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	atts := make([]Attachment, 0)
	for rows.Next() {
		var att Attachment
		if err := rows.Scan(
			&att.ID, &att.LeadID, &att.FileName, &att.ContentType, &att.SizeBytes,
			&att.ObjectKey, &att.UploadedBy, &att.CreatedAt,
		); err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return atts, nil
}

func (r *Repository) GetAttachment(ctx context.Context, leadID, attachmentID uuid.UUID) (Attachment, error) {
	var att Attachment
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, file_name, content_type, size_bytes, object_key, uploaded_by, created_at
		FROM lead_attachments WHERE id = $1 AND lead_id = $2
	`, attachmentID, leadID).Scan(
		&att.ID, &att.LeadID, &att.FileName, &att.ContentType, &att.SizeBytes,
		&att.ObjectKey, &att.UploadedBy, &att.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attachment{}, ErrAttachmentNotFound
	}
	return att, err
}

func (r *Repository) DeleteAttachment(ctx context.Context, leadID, attachmentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM lead_attachments WHERE id = $1 AND lead_id = $2
	`, attachmentID, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
