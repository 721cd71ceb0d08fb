package repo

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

var appointmentColumns = []string{
	"id", "patient_id", "professional_id", "specialty_id", "appointment_type",
	"start_datetime", "end_datetime", "status", "notes", "created_at", "updated_at",
}

func scanAppointment(rows *entsql.Rows, extra ...any) (model.Appointment, error) {
	var (
		a          model.Appointment
		prof, spec uuid.NullUUID
	)
	dest := append([]any{
		&a.ID, &a.PatientID, &prof, &spec, &a.AppointmentType,
		&a.Start, &a.End, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return model.Appointment{}, err
	}
	a.ProfessionalID = uuidPtr(prof)
	a.SpecialtyID = uuidPtr(spec)
	return a, nil
}

func appointmentValues(a model.Appointment) []any {
	return []any{
		a.ID, a.PatientID, nullUUID(a.ProfessionalID), nullUUID(a.SpecialtyID), a.AppointmentType,
		a.Start.UTC(), a.End.UTC(), string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt,
	}
}

// LockProfessional serialises schedule writes for one professional until the
// surrounding transaction ends.
func (s *Store) LockProfessional(ctx context.Context, professionalID uuid.UUID) error {
	return s.lockKey(ctx, "appointments:professional:"+professionalID.String())
}

func (s *Store) CreateAppointment(ctx context.Context, a model.Appointment) error {
	q, args := s.b.Insert("appointments").Columns(appointmentColumns...).Values(appointmentValues(a)...).Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) UpdateAppointment(ctx context.Context, a model.Appointment) error {
	u := s.b.Update("appointments")
	vals := appointmentValues(a)
	for i, col := range appointmentColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		u.Set(col, vals[i])
	}
	q, args := u.Where(entsql.EQ("id", a.ID)).Query()
	return s.execOne(ctx, q, args)
}

// LockAppointment reads an appointment and holds its row lock until the
// surrounding transaction ends.
func (s *Store) LockAppointment(ctx context.Context, id uuid.UUID) (model.Appointment, error) {
	q, args := s.b.Select(appointmentColumns...).
		From(s.b.Table("appointments")).
		Where(entsql.EQ("id", id)).
		ForUpdate().
		Query()
	var a model.Appointment
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		a, err = scanAppointment(rows)
		return err
	})
	return a, err
}

// ListBlockingAppointments returns the SCHEDULED and COMPLETED appointments
// of the given professionals that intersect r.
func (s *Store) ListBlockingAppointments(ctx context.Context, professionalIDs []uuid.UUID, r timerange.Range) ([]model.Appointment, error) {
	if len(professionalIDs) == 0 {
		return nil, nil
	}
	statuses := lo.Map(model.BlockingStatuses, func(st model.AppointmentStatus, _ int) any { return string(st) })
	q, args := s.b.Select(appointmentColumns...).
		From(s.b.Table("appointments")).
		Where(entsql.And(
			entsql.In("professional_id", lo.ToAnySlice(professionalIDs)...),
			entsql.In("status", statuses...),
			entsql.LT("start_datetime", r.End.UTC()),
			entsql.GT("end_datetime", r.Start.UTC()),
		)).
		OrderBy("start_datetime").
		Query()
	var out []model.Appointment
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		a, err := scanAppointment(rows)
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// CountCompletedSessions counts COMPLETED appointments per professional whose
// start falls in r.
func (s *Store) CountCompletedSessions(ctx context.Context, r timerange.Range) (map[uuid.UUID]int, error) {
	q, args := s.b.Select("professional_id", entsql.Count("*")).
		From(s.b.Table("appointments")).
		Where(entsql.And(
			entsql.EQ("status", string(model.AppointmentCompleted)),
			entsql.NotNull("professional_id"),
			entsql.GTE("start_datetime", r.Start.UTC()),
			entsql.LT("start_datetime", r.End.UTC()),
		)).
		GroupBy("professional_id").
		Query()
	out := map[uuid.UUID]int{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return err
		}
		out[id] = n
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Views
// ---------------------------------------------------------------------------

type appointmentTables struct {
	a, p, e, s *entsql.SelectTable
}

func (s *Store) appointmentTables() appointmentTables {
	return appointmentTables{
		a: s.b.Table("appointments").As("a"),
		p: s.b.Table("patients").As("p"),
		e: s.b.Table("employees").As("e"),
		s: s.b.Table("specialties").As("s"),
	}
}

func (t appointmentTables) viewSelect(b *entsql.DialectBuilder) *entsql.Selector {
	cols := make([]string, 0, len(appointmentColumns)+5)
	for _, c := range appointmentColumns {
		cols = append(cols, t.a.C(c))
	}
	cols = append(cols, t.p.C("first_name"), t.p.C("last_name"), t.e.C("first_name"), t.e.C("last_name"), t.s.C("name"))
	return b.Select(cols...).
		From(t.a).
		Join(t.p).On(t.a.C("patient_id"), t.p.C("id")).
		LeftJoin(t.e).On(t.a.C("professional_id"), t.e.C("id")).
		LeftJoin(t.s).On(t.a.C("specialty_id"), t.s.C("id"))
}

func (t appointmentTables) where(s *Store, f model.AppointmentFilter) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if f.From != nil {
		preds = append(preds, entsql.GTE(t.a.C("start_datetime"), f.From.In(s.loc).UTC()))
	}
	if f.To != nil {
		preds = append(preds, entsql.LT(t.a.C("start_datetime"), f.To.AddDays(1).In(s.loc).UTC()))
	}
	if f.ProfessionalID != nil {
		preds = append(preds, entsql.EQ(t.a.C("professional_id"), *f.ProfessionalID))
	}
	if f.PatientID != nil {
		preds = append(preds, entsql.EQ(t.a.C("patient_id"), *f.PatientID))
	}
	if f.Status != nil {
		preds = append(preds, entsql.EQ(t.a.C("status"), string(*f.Status)))
	}
	return preds
}

func scanAppointmentView(rows *entsql.Rows) (model.AppointmentView, error) {
	var (
		pFirst, pLast string
		eFirst, eLast stdsql.NullString
		specialtyName stdsql.NullString
	)
	a, err := scanAppointment(rows, &pFirst, &pLast, &eFirst, &eLast, &specialtyName)
	if err != nil {
		return model.AppointmentView{}, err
	}
	v := model.AppointmentView{Appointment: a, PatientName: model.FullName(pFirst, pLast)}
	if eFirst.Valid || eLast.Valid {
		name := model.FullName(eFirst.String, eLast.String)
		v.ProfessionalName = &name
	}
	if specialtyName.Valid {
		name := specialtyName.String
		v.SpecialtyName = &name
	}
	return v, nil
}

func (s *Store) GetAppointmentView(ctx context.Context, id uuid.UUID) (model.AppointmentView, error) {
	t := s.appointmentTables()
	q, args := t.viewSelect(s.b).Where(entsql.EQ(t.a.C("id"), id)).Query()
	var v model.AppointmentView
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		v, err = scanAppointmentView(rows)
		return err
	})
	return v, err
}

// ListAppointments pages through appointments newest first.
func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter, p model.Page) ([]model.AppointmentView, int, error) {
	t := s.appointmentTables()
	preds := t.where(s, f)

	total, err := s.count(ctx, whereAll(s.b.Select(entsql.Count("*")).From(t.a), preds))
	if err != nil {
		return nil, 0, err
	}

	q, args := whereAll(t.viewSelect(s.b), preds).
		OrderBy(entsql.Desc(t.a.C("start_datetime")), entsql.Desc(t.a.C("id"))).
		Limit(p.Limit).
		Offset(p.Offset()).
		Query()
	out := []model.AppointmentView{}
	err = s.query(ctx, q, args, func(rows *entsql.Rows) error {
		v, err := scanAppointmentView(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, total, err
}
