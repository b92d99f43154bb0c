package service

import (
	"context"

	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

func (s *Service) AddNote(ctx context.Context, leadID uuid.UUID, authorID *uuid.UUID, req transport.AddNoteRequest) (transport.NoteResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return transport.NoteResponse{}, mapRepoError("leads.AddNote", err)
	}

	note, err := s.repo.CreateNote(ctx, repository.CreateNoteParams{
		LeadID:   leadID,
		AuthorID: authorID,
		Body:     req.Body,
	})
	if err != nil {
		return transport.NoteResponse{}, apperr.Persistence("leads.AddNote", err)
	}

	return toNoteResponse(note), nil
}

func (s *Service) ListNotes(ctx context.Context, leadID uuid.UUID) ([]transport.NoteResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		return nil, mapRepoError("leads.ListNotes", err)
	}

	notes, err := s.repo.ListNotes(ctx, leadID)
	if err != nil {
		return nil, apperr.Persistence("leads.ListNotes", err)
	}

	out := make([]transport.NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, toNoteResponse(note))
	}
	return out, nil
}

func (s *Service) DeleteNote(ctx context.Context, leadID, noteID uuid.UUID) error {
	if err := s.repo.DeleteNote(ctx, leadID, noteID); err != nil {
		return mapRepoError("leads.DeleteNote", err)
	}
	return nil
}

func toNoteResponse(note repository.Note) transport.NoteResponse {
	return transport.NoteResponse{
		ID:        note.ID,
		LeadID:    note.LeadID,
		AuthorID:  note.AuthorID,
		Body:      note.Body,
		CreatedAt: note.CreatedAt,
	}
}
