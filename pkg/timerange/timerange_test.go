package timerange

import (
	"encoding/json"
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	base := Range{Start: at(10, 0), End: at(11, 0)}
	tests := []struct {
		name  string
		other Range
		want  bool
	}{
		{"identical", Range{at(10, 0), at(11, 0)}, true},
		{"inside", Range{at(10, 15), at(10, 45)}, true},
		{"covers", Range{at(9, 0), at(12, 0)}, true},
		{"overlaps start", Range{at(9, 30), at(10, 30)}, true},
		{"overlaps end", Range{at(10, 30), at(11, 30)}, true},
		{"touches before", Range{at(9, 0), at(10, 0)}, false},
		{"touches after", Range{at(11, 0), at(12, 0)}, false},
		{"disjoint", Range{at(13, 0), at(14, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want int
	}{
		{"three hours", Range{at(9, 0), at(12, 0)}, 3},
		{"partial trailing slot dropped", Range{at(9, 0), at(11, 30)}, 2},
		{"shorter than step", Range{at(9, 0), at(9, 45)}, 0},
		{"inverted", Range{at(12, 0), at(9, 0)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Split(time.Hour)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for i, s := range got {
				if s.Duration() != time.Hour {
					t.Errorf("slot %d duration = %v", i, s.Duration())
				}
				if i == 0 && !s.Start.Equal(tt.r.Start) {
					t.Errorf("first slot starts at %v, want %v", s.Start, tt.r.Start)
				}
			}
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	// 2024-01-14 is a Sunday.
	for i, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		d := time.Date(2024, 1, 14+i, 12, 0, 0, 0, time.UTC)
		if got := DayOfWeek(d); got != want {
			t.Errorf("DayOfWeek(%s) = %d, want %d", d.Format("Mon 2006-01-02"), got, want)
		}
	}

	// Late Sunday evening in Guatemala is already Monday in UTC.
	gt := time.FixedZone("CST", -6*3600)
	local := time.Date(2024, 1, 14, 22, 0, 0, 0, gt)
	if got := DayOfWeek(local); got != 0 {
		t.Errorf("local DayOfWeek = %d, want 0", got)
	}
	if got := DayOfWeek(local.UTC()); got != 1 {
		t.Errorf("UTC DayOfWeek = %d, want 1", got)
	}

	d, _ := ParseDate("2024-01-15")
	if got := d.DayOfWeek(); got != 1 {
		t.Errorf("Date.DayOfWeek = %d, want 1", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", NewClock(9, 0), false},
		{"23:59", NewClock(23, 59), false},
		{"00:00", 0, false},
		{"09:30:00", NewClock(9, 30), false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClockOnAndJSON(t *testing.T) {
	d := Date{Year: 2024, Month: time.January, Day: 15}
	got := NewClock(9, 30).On(d, time.UTC)
	if !got.Equal(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("On = %v", got)
	}

	var c Clock
	if err := json.Unmarshal([]byte(`"14:05"`), &c); err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(c)
	if string(b) != `"14:05"` {
		t.Errorf("marshal = %s", b)
	}

	if err := c.Scan([]byte("08:15:00")); err != nil || c != NewClock(8, 15) {
		t.Errorf("Scan = %v, %v", c, err)
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.AddDays(1).String(); got != "2024-02-01" {
		t.Errorf("AddDays = %s", got)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("expected error for month 13")
	}

	loc := time.FixedZone("CST", -6*3600)
	r := d.Through(d.AddDays(2), loc)
	if r.Duration() != 72*time.Hour {
		t.Errorf("Through duration = %v", r.Duration())
	}
	if !r.Start.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, loc)) {
		t.Errorf("Through start = %v", r.Start)
	}

	a, _ := ParseDate("2024-01-01")
	if !a.Before(d) || !d.After(a) || d.Before(d) {
		t.Error("ordering broken")
	}

	var scanned Date
	if err := scanned.Scan(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)); err != nil || scanned.String() != "2024-03-05" {
		t.Errorf("Scan = %v, %v", scanned, err)
	}
}
