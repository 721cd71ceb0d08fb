package scheduling

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

// SlotDuration is the fixed length of a bookable slot.
const SlotDuration = time.Hour

// GenerateSlots partitions the window [start, end) on date into consecutive
// SlotDuration slots. A slot is available when no busy range intersects it.
// Unavailable slots are returned only with includeUnavailable.
func GenerateSlots(date timerange.Date, loc *time.Location, start, end timerange.Clock, busy []timerange.Range, includeUnavailable bool) []model.Slot {
	window := timerange.Range{Start: start.On(date, loc), End: end.On(date, loc)}

	out := []model.Slot{}
	for _, r := range window.Split(SlotDuration) {
		free := true
		for _, b := range busy {
			if r.Overlaps(b) {
				free = false
				break
			}
		}
		if free || includeUnavailable {
			out = append(out, model.Slot{Start: r.Start, End: r.End, Available: free})
		}
	}
	return out
}

type groupKey struct {
	employee  uuid.UUID
	specialty uuid.UUID
}

// BuildAvailability combines the windows active on date with the blocking
// appointments of their employees. Output is one entry per
// (employee, specialty), ordered by employee name, with slots ordered by start.
func BuildAvailability(date timerange.Date, loc *time.Location, windows []model.WindowView, appts []model.Appointment, includeUnavailable bool) model.Availability {
	busy := make(map[uuid.UUID][]timerange.Range)
	for _, a := range appts {
		if a.ProfessionalID == nil || !a.Status.Blocking() {
			continue
		}
		busy[*a.ProfessionalID] = append(busy[*a.ProfessionalID], a.Range())
	}

	var order []groupKey
	groups := make(map[groupKey]*model.ProfessionalAvailability)
	for _, w := range windows {
		if !w.IsActive {
			continue
		}
		k := groupKey{employee: w.EmployeeID}
		if w.SpecialtyID != nil {
			k.specialty = *w.SpecialtyID
		}
		g, ok := groups[k]
		if !ok {
			g = &model.ProfessionalAvailability{
				EmployeeID:     w.EmployeeID,
				EmployeeName:   w.EmployeeName,
				SpecialtyID:    w.SpecialtyID,
				SpecialtyName:  w.SpecialtyName,
				AvailableSlots: []model.Slot{},
			}
			groups[k] = g
			order = append(order, k)
		}
		g.AvailableSlots = append(g.AvailableSlots,
			GenerateSlots(date, loc, w.StartTime, w.EndTime, busy[w.EmployeeID], includeUnavailable)...)
	}

	out := model.Availability{
		Date:          date,
		DayOfWeek:     date.DayOfWeek(),
		Professionals: make([]model.ProfessionalAvailability, 0, len(order)),
	}
	for _, k := range order {
		g := groups[k]
		sort.SliceStable(g.AvailableSlots, func(i, j int) bool {
			return g.AvailableSlots[i].Start.Before(g.AvailableSlots[j].Start)
		})
		out.Professionals = append(out.Professionals, *g)
	}
	sort.SliceStable(out.Professionals, func(i, j int) bool {
		return out.Professionals[i].EmployeeName < out.Professionals[j].EmployeeName
	})
	return out
}
