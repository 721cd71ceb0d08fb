package appointment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/constants"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

// CheckConflict returns ErrConflict when a blocking appointment in existing
// overlaps candidate. The appointment identified by exclude is ignored so an
// appointment never conflicts with itself.
func CheckConflict(candidate timerange.Range, existing []model.Appointment, exclude uuid.UUID) error {
	for _, a := range existing {
		if a.ID == exclude || !a.Status.Blocking() {
			continue
		}
		if candidate.Overlaps(a.Range()) {
			return fmt.Errorf("overlaps %s (%s - %s): %w",
				a.ID, a.Start.Format(constants.ClockLayout), a.End.Format(constants.ClockLayout), ErrConflict)
		}
	}
	return nil
}

// Cancel returns the status after cancelling an appointment in status from.
func Cancel(from model.AppointmentStatus) (model.AppointmentStatus, error) {
	switch from {
	case model.AppointmentScheduled:
		return model.AppointmentCancelled, nil
	case model.AppointmentCancelled:
		return from, ErrAlreadyCancelled
	case model.AppointmentCompleted:
		return from, ErrCancelCompleted
	}
	return from, fmt.Errorf("cancel: unknown status %q", from)
}

// Complete returns the status after completing an appointment in status from.
func Complete(from model.AppointmentStatus) (model.AppointmentStatus, error) {
	switch from {
	case model.AppointmentScheduled:
		return model.AppointmentCompleted, nil
	case model.AppointmentCancelled:
		return from, ErrCompleteCancelled
	case model.AppointmentCompleted:
		return from, ErrAlreadyCompleted
	}
	return from, fmt.Errorf("complete: unknown status %q", from)
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
