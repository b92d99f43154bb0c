package service

import (
	"context"
	"io"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ObjectStorage is the object store port used for attachment bytes. The
// repository only ever holds metadata.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	DownloadURL(ctx context.Context, bucket, objectKey string) (string, error)
	Delete(ctx context.Context, bucket, objectKey string) error
}

type UploadAttachmentInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Reader      io.Reader
	UploadedBy  *uuid.UUID
}

func (s *Service) UploadAttachment(ctx context.Context, leadID uuid.UUID, in UploadAttachmentInput) (transport.AttachmentResponse, error) {
	if s.storage == nil {
		return transport.AttachmentResponse{}, apperr.New(apperr.KindBadRequest, "attachment storage is not configured")
	}

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return transport.AttachmentResponse{}, mapRepoError("leads.UploadAttachment", err)
	}

	objectKey, err := s.storage.Upload(ctx, s.attachmentBucket, "leads/"+leadID.String(), in.FileName, in.ContentType, in.Reader, in.SizeBytes)
	if err != nil {
		return transport.AttachmentResponse{}, apperr.Validation(err.Error())
	}

	att, err := s.repo.CreateAttachment(ctx, repository.CreateAttachmentParams{
		LeadID:      leadID,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		ObjectKey:   objectKey,
		UploadedBy:  in.UploadedBy,
	})
	if err != nil {
		// Orphaned object; metadata is the source of truth so remove it.
		if delErr := s.storage.Delete(ctx, s.attachmentBucket, objectKey); delErr != nil {
			s.log.Error("failed to clean up orphaned attachment object", "objectKey", objectKey, "error", delErr)
		}
		return transport.AttachmentResponse{}, apperr.Persistence("leads.UploadAttachment", err)
	}

	return toAttachmentResponse(att, ""), nil
}

func (s *Service) ListAttachments(ctx context.Context, leadID uuid.UUID) ([]transport.AttachmentResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return nil, mapRepoError("leads.ListAttachments", err)
	}

	atts, err := s.repo.ListAttachments(ctx, leadID)
	if err != nil {
		return nil, apperr.Persistence("leads.ListAttachments", err)
	}

	out := make([]transport.AttachmentResponse, len(atts))
	for i, att := range atts {
		out[i] = toAttachmentResponse(att, "")
	}

	// Presign in parallel; a failed presign leaves the URL empty rather than
	// failing the whole listing.
	if s.storage != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(5)
		for i, att := range atts {
			i, att := i, att
			g.Go(func() error {
				url, err := s.storage.DownloadURL(gctx, s.attachmentBucket, att.ObjectKey)
				if err != nil {
					s.log.Error("failed to presign attachment URL", "objectKey", att.ObjectKey, "error", err)
					return nil
				}
				out[i].DownloadURL = url
				return nil
			})
		}
		_ = g.Wait()
	}

	return out, nil
}

// GetAttachmentURL resolves a short-lived presigned download link.
func (s *Service) GetAttachmentURL(ctx context.Context, leadID, attachmentID uuid.UUID) (transport.AttachmentResponse, error) {
	if s.storage == nil {
		return transport.AttachmentResponse{}, apperr.New(apperr.KindBadRequest, "attachment storage is not configured")
	}

	att, err := s.repo.GetAttachment(ctx, leadID, attachmentID)
	if err != nil {
		return transport.AttachmentResponse{}, mapRepoError("leads.GetAttachmentURL", err)
	}

	url, err := s.storage.DownloadURL(ctx, s.attachmentBucket, att.ObjectKey)
	if err != nil {
		return transport.AttachmentResponse{}, apperr.Wrap(apperr.KindInternal, "failed to generate download URL", err)
	}

	return toAttachmentResponse(att, url), nil
}

func (s *Service) DeleteAttachment(ctx context.Context, leadID, attachmentID uuid.UUID) error {
	att, err := s.repo.GetAttachment(ctx, leadID, attachmentID)
	if err != nil {
		return mapRepoError("leads.DeleteAttachment", err)
	}

	if err := s.repo.DeleteAttachment(ctx, leadID, attachmentID); err != nil {
		return mapRepoError("leads.DeleteAttachment", err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(ctx, s.attachmentBucket, att.ObjectKey); err != nil {
			s.log.Error("failed to delete attachment object", "objectKey", att.ObjectKey, "error", err)
		}
	}
	return nil
}

func toAttachmentResponse(att repository.Attachment, downloadURL string) transport.AttachmentResponse {
	return transport.AttachmentResponse{
		ID:          att.ID,
		LeadID:      att.LeadID,
		FileName:    att.FileName,
		ContentType: att.ContentType,
		SizeBytes:   att.SizeBytes,
		DownloadURL: downloadURL,
		CreatedAt:   att.CreatedAt,
	}
}
