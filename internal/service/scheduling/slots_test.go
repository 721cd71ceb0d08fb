package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

var monday = timerange.Date{Year: 2024, Month: time.January, Day: 15}

func clock(t *testing.T, s string) timerange.Clock {
	t.Helper()
	c, err := timerange.ParseClock(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func hourOn(d timerange.Date, h int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, h, 0, 0, 0, time.UTC)
}

func TestGenerateSlots(t *testing.T) {
	booked := []timerange.Range{{Start: hourOn(monday, 10), End: hourOn(monday, 11)}}

	tests := []struct {
		name        string
		start, end  string
		busy        []timerange.Range
		includeBusy bool
		wantStarts  []int
		wantFree    []bool
	}{
		{
			name: "booked hour removed", start: "09:00", end: "12:00", busy: booked,
			wantStarts: []int{9, 11}, wantFree: []bool{true, true},
		},
		{
			name: "booked hour flagged", start: "09:00", end: "12:00", busy: booked, includeBusy: true,
			wantStarts: []int{9, 10, 11}, wantFree: []bool{true, false, true},
		},
		{
			name: "partial trailing slot dropped", start: "09:00", end: "11:30",
			wantStarts: []int{9, 10}, wantFree: []bool{true, true},
		},
		{
			name: "window shorter than a slot", start: "09:00", end: "09:45",
		},
		{
			name: "partial overlap blocks", start: "09:00", end: "11:00",
			busy:       []timerange.Range{{Start: hourOn(monday, 9).Add(30 * time.Minute), End: hourOn(monday, 9).Add(45 * time.Minute)}},
			wantStarts: []int{10}, wantFree: []bool{true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(monday, time.UTC, clock(t, tt.start), clock(t, tt.end), tt.busy, tt.includeBusy)
			if len(got) != len(tt.wantStarts) {
				t.Fatalf("got %d slots, want %d: %+v", len(got), len(tt.wantStarts), got)
			}
			for i, s := range got {
				if s.Start.Hour() != tt.wantStarts[i] {
					t.Errorf("slot %d starts at %d, want %d", i, s.Start.Hour(), tt.wantStarts[i])
				}
				if s.End.Sub(s.Start) != SlotDuration {
					t.Errorf("slot %d length %v", i, s.End.Sub(s.Start))
				}
				if s.Available != tt.wantFree[i] {
					t.Errorf("slot %d available = %v, want %v", i, s.Available, tt.wantFree[i])
				}
			}
		})
	}
}

func TestBuildAvailability(t *testing.T) {
	ana, luis := uuid.New(), uuid.New()
	therapy := uuid.New()
	therapyName := "Terapia"

	windows := []model.WindowView{
		{
			AvailabilityWindow: model.AvailabilityWindow{EmployeeID: luis, DayOfWeek: 1, StartTime: clock(t, "14:00"), EndTime: clock(t, "16:00"), IsActive: true},
			EmployeeName:       "Luis Perez",
		},
		{
			AvailabilityWindow: model.AvailabilityWindow{EmployeeID: ana, DayOfWeek: 1, StartTime: clock(t, "09:00"), EndTime: clock(t, "12:00"), SpecialtyID: &therapy, IsActive: true},
			EmployeeName:       "Ana Lopez",
			SpecialtyName:      &therapyName,
		},
		{
			AvailabilityWindow: model.AvailabilityWindow{EmployeeID: luis, DayOfWeek: 1, StartTime: clock(t, "08:00"), EndTime: clock(t, "09:00"), IsActive: true},
			EmployeeName:       "Luis Perez",
		},
		{
			AvailabilityWindow: model.AvailabilityWindow{EmployeeID: ana, DayOfWeek: 1, StartTime: clock(t, "18:00"), EndTime: clock(t, "19:00"), IsActive: false},
			EmployeeName:       "Ana Lopez",
		},
	}
	appts := []model.Appointment{
		{ProfessionalID: &ana, Start: hourOn(monday, 10), End: hourOn(monday, 11), Status: model.AppointmentScheduled},
		{ProfessionalID: &ana, Start: hourOn(monday, 11), End: hourOn(monday, 12), Status: model.AppointmentCancelled},
		{ProfessionalID: &luis, Start: hourOn(monday, 14), End: hourOn(monday, 15), Status: model.AppointmentCompleted},
	}

	got := BuildAvailability(monday, time.UTC, windows, appts, false)

	if got.DayOfWeek != 1 {
		t.Errorf("DayOfWeek = %d, want 1", got.DayOfWeek)
	}
	if len(got.Professionals) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(got.Professionals), got.Professionals)
	}

	first := got.Professionals[0]
	if first.EmployeeID != ana || first.SpecialtyName == nil || *first.SpecialtyName != therapyName {
		t.Fatalf("first entry = %+v, want Ana with specialty", first)
	}
	// 10:00 is booked, 11:00 was cancelled and stays free.
	if starts := slotHours(first.AvailableSlots); !equalInts(starts, []int{9, 11}) {
		t.Errorf("Ana slots = %v, want [9 11]", starts)
	}

	second := got.Professionals[1]
	if second.EmployeeID != luis || second.SpecialtyID != nil {
		t.Fatalf("second entry = %+v, want Luis without specialty", second)
	}
	// Both of Luis' windows merge in start order; 14:00 is blocked by a completed session.
	if starts := slotHours(second.AvailableSlots); !equalInts(starts, []int{8, 15}) {
		t.Errorf("Luis slots = %v, want [8 15]", starts)
	}
}

func TestBuildAvailabilityNoWindows(t *testing.T) {
	got := BuildAvailability(monday, time.UTC, nil, nil, false)
	if got.Professionals == nil || len(got.Professionals) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got.Professionals)
	}
}

func slotHours(slots []model.Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = s.Start.Hour()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
