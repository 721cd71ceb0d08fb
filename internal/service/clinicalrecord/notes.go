package clinicalrecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/database"
	"github.com/Alijeyrad/clinica_backend/pkg/validation"
)

type NoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// AddNote seals the content with the field cipher and files it on an ACTIVE
// record under the calling employee.
func (s *clinicalService) AddNote(ctx context.Context, recordID, userID uuid.UUID, req NoteRequest) (model.ConfidentialNoteView, error) {
	if err := validation.Struct(req); err != nil {
		return model.ConfidentialNoteView{}, err
	}
	if s.cipher == nil {
		return model.ConfidentialNoteView{}, ErrEncryptionDisabled
	}
	sealed, err := s.cipher.Seal(req.Content)
	if err != nil {
		return model.ConfidentialNoteView{}, fmt.Errorf("encrypt note: %w", err)
	}

	n := model.ConfidentialNote{
		ID:               uuid.Must(uuid.NewV7()),
		ClinicalRecordID: recordID,
		Content:          sealed,
		CreatedAt:        s.now(),
	}
	var authorName *string
	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		r, err := s.lockActiveRecord(ctx, recordID)
		if err != nil {
			return err
		}
		n.PatientID = r.PatientID
		if userID != uuid.Nil {
			e, err := s.store.GetEmployeeByUserID(ctx, userID)
			switch {
			case err == nil:
				n.AuthorID = &e.ID
				name := e.FullName()
				authorName = &name
			case !errors.Is(err, database.ErrNotFound):
				return fmt.Errorf("get employee: %w", err)
			}
		}
		if err := s.store.CreateConfidentialNote(ctx, n); err != nil {
			return fmt.Errorf("create confidential note: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.ConfidentialNoteView{}, err
	}

	n.Content = req.Content
	return model.ConfidentialNoteView{ConfidentialNote: n, AuthorName: authorName}, nil
}

// Notes lists a record's notes newest first. Content that cannot be opened is
// blanked and logged.
func (s *clinicalService) Notes(ctx context.Context, recordID uuid.UUID) ([]model.ConfidentialNoteView, error) {
	if _, err := s.Get(ctx, recordID); err != nil {
		return nil, err
	}
	items, err := s.store.ListConfidentialNotes(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("list confidential notes: %w", err)
	}
	for i := range items {
		items[i].Content = s.open(ctx, items[i].ID, items[i].Content)
	}
	return items, nil
}

func (s *clinicalService) open(ctx context.Context, id uuid.UUID, sealed string) string {
	if s.cipher == nil {
		return ""
	}
	plain, err := s.cipher.Open(sealed)
	if err != nil {
		slog.WarnContext(ctx, "confidential note decrypt failed", "note_id", id, "err", err)
		return ""
	}
	return plain
}
