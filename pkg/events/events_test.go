package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type recorder struct {
	subjects []string
	payloads []string
	err      error
}

func (r *recorder) Publish(subj string, data []byte) error {
	r.subjects = append(r.subjects, subj)
	r.payloads = append(r.payloads, string(data))
	return r.err
}

func TestSubjects(t *testing.T) {
	id := uuid.MustParse("0191e4a2-7b4c-7c3e-9a51-2f1d7e0c5b10")
	if got := AppointmentCreated.Subject(id); got != "clinica.appointment.created.0191e4a2-7b4c-7c3e-9a51-2f1d7e0c5b10" {
		t.Errorf("Subject = %q", got)
	}
	if got := PayrollPaid.Wildcard(); got != "clinica.payroll.paid.*" {
		t.Errorf("Wildcard = %q", got)
	}
}

func TestEmit(t *testing.T) {
	id := uuid.New()
	r := &recorder{}
	Emit(context.Background(), r, EmployeeCreated, id)
	if len(r.subjects) != 1 || r.subjects[0] != EmployeeCreated.Subject(id) {
		t.Fatalf("subjects = %v", r.subjects)
	}
	got, err := ParseID([]byte(" " + r.payloads[0] + "\n"))
	if err != nil || got != id {
		t.Fatalf("ParseID = %v, %v", got, err)
	}

	// Failures are swallowed.
	Emit(context.Background(), &recorder{err: errors.New("nats down")}, EmployeeCreated, id)
	Emit(context.Background(), nil, EmployeeCreated, id)
}
