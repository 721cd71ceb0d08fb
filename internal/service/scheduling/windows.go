package scheduling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

// ValidateWindows checks a full replacement set of windows for one employee:
// day range, end after start, specialties assigned to the employee and no
// overlap within the same (day, specialty).
func ValidateWindows(emp model.Employee, windows []model.AvailabilityWindow) error {
	for i, w := range windows {
		if !timerange.ValidDayOfWeek(w.DayOfWeek) {
			return fmt.Errorf("windows[%d]: %w", i, ErrInvalidDayOfWeek)
		}
		if w.EndTime <= w.StartTime {
			return fmt.Errorf("windows[%d]: %w", i, ErrInvalidTimeRange)
		}
		if w.SpecialtyID != nil && !emp.HasSpecialty(*w.SpecialtyID) {
			return fmt.Errorf("windows[%d]: %w", i, ErrSpecialtyNotAssign)
		}
	}

	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			a, b := windows[i], windows[j]
			if a.DayOfWeek != b.DayOfWeek || !sameSpecialty(a.SpecialtyID, b.SpecialtyID) {
				continue
			}
			if a.StartTime < b.EndTime && b.StartTime < a.EndTime {
				return fmt.Errorf("windows[%d] %s-%s and windows[%d] %s-%s: %w",
					i, a.StartTime, a.EndTime, j, b.StartTime, b.EndTime, ErrOverlappingWindow)
			}
		}
	}
	return nil
}

func sameSpecialty(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
