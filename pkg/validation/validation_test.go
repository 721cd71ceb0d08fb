package validation

import (
	"errors"
	"testing"

	"github.com/Alijeyrad/clinica_backend/pkg/apperr"
)

type windowInput struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,clock"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func TestStruct(t *testing.T) {
	if err := Struct(windowInput{DayOfWeek: 1, StartTime: "09:00"}); err != nil {
		t.Fatalf("valid input: %v", err)
	}

	err := Struct(windowInput{DayOfWeek: 7, StartTime: "25:00", Email: "nope"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatal("expected *apperr.Error")
	}
	for _, f := range []string{"day_of_week", "start_time", "email"} {
		if _, ok := ae.Fields[f]; !ok {
			t.Errorf("missing field error for %q in %v", f, ae.Fields)
		}
	}
	if got := ae.Fields["start_time"]; got != "must be in HH:mm 24-hour format" {
		t.Errorf("start_time message = %q", got)
	}
}
