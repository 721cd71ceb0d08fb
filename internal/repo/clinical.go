package repo

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

// employeeName returns nil when the left-joined employee is missing.
func employeeName(first, last stdsql.NullString) *string {
	if !first.Valid && !last.Valid {
		return nil
	}
	name := model.FullName(first.String, last.String)
	return &name
}

// updateSkipping builds an UPDATE of every column except the immutable ones.
func (s *Store) updateSkipping(table string, cols []string, vals []any, id uuid.UUID, immutable ...string) (string, []any) {
	skip := map[string]bool{"id": true, "created_at": true}
	for _, c := range immutable {
		skip[c] = true
	}
	u := s.b.Update(table)
	for i, col := range cols {
		if !skip[col] {
			u.Set(col, vals[i])
		}
	}
	return u.Where(entsql.EQ("id", id)).Query()
}

// ---------------------------------------------------------------------------
// Clinical records
// ---------------------------------------------------------------------------

var clinicalRecordColumns = []string{
	"id", "patient_id", "record_number", "institution_name", "service", "opening_date",
	"responsible_employee_id", "responsible_license", "referral_source", "chief_complaint",
	"status", "created_at", "updated_at",
}

func scanClinicalRecord(rows *entsql.Rows, extra ...any) (model.ClinicalRecord, error) {
	var (
		r       model.ClinicalRecord
		number  stdsql.NullString
		opening *timerange.Date
		resp    uuid.NullUUID
	)
	dest := append([]any{
		&r.ID, &r.PatientID, &number, &r.InstitutionName, &r.Service, &opening,
		&resp, &r.ResponsibleLicense, &r.ReferralSource, &r.ChiefComplaint,
		&r.Status, &r.CreatedAt, &r.UpdatedAt,
	}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return model.ClinicalRecord{}, err
	}
	r.RecordNumber = number.String
	r.OpeningDate = opening
	r.ResponsibleEmployeeID = uuidPtr(resp)
	return r, nil
}

func clinicalRecordValues(r model.ClinicalRecord) []any {
	return []any{
		r.ID, r.PatientID, nullString(r.RecordNumber), r.InstitutionName, r.Service, nullDate(r.OpeningDate),
		nullUUID(r.ResponsibleEmployeeID), r.ResponsibleLicense, r.ReferralSource, r.ChiefComplaint,
		string(r.Status), r.CreatedAt, r.UpdatedAt,
	}
}

func (s *Store) CreateClinicalRecord(ctx context.Context, r model.ClinicalRecord) error {
	q, args := s.b.Insert("clinical_records").Columns(clinicalRecordColumns...).Values(clinicalRecordValues(r)...).Query()
	_, err := s.exec(ctx, q, args)
	return err
}

// UpdateClinicalRecord never moves a record to another patient.
func (s *Store) UpdateClinicalRecord(ctx context.Context, r model.ClinicalRecord) error {
	q, args := s.updateSkipping("clinical_records", clinicalRecordColumns, clinicalRecordValues(r), r.ID, "patient_id")
	return s.execOne(ctx, q, args)
}

// LockClinicalRecord reads a record and holds its row lock until the
// surrounding transaction ends.
func (s *Store) LockClinicalRecord(ctx context.Context, id uuid.UUID) (model.ClinicalRecord, error) {
	q, args := s.b.Select(clinicalRecordColumns...).
		From(s.b.Table("clinical_records")).
		Where(entsql.EQ("id", id)).
		ForUpdate().
		Query()
	var r model.ClinicalRecord
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		r, err = scanClinicalRecord(rows)
		return err
	})
	return r, err
}

type clinicalRecordTables struct {
	r, p, e *entsql.SelectTable
}

func (s *Store) clinicalRecordTables() clinicalRecordTables {
	return clinicalRecordTables{
		r: s.b.Table("clinical_records").As("r"),
		p: s.b.Table("patients").As("p"),
		e: s.b.Table("employees").As("e"),
	}
}

func (t clinicalRecordTables) viewSelect(b *entsql.DialectBuilder) *entsql.Selector {
	cols := make([]string, 0, len(clinicalRecordColumns)+4)
	for _, c := range clinicalRecordColumns {
		cols = append(cols, t.r.C(c))
	}
	cols = append(cols, t.p.C("first_name"), t.p.C("last_name"), t.e.C("first_name"), t.e.C("last_name"))
	return b.Select(cols...).
		From(t.r).
		Join(t.p).On(t.r.C("patient_id"), t.p.C("id")).
		LeftJoin(t.e).On(t.r.C("responsible_employee_id"), t.e.C("id"))
}

func (t clinicalRecordTables) where(f model.ClinicalRecordFilter) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if f.PatientID != nil {
		preds = append(preds, entsql.EQ(t.r.C("patient_id"), *f.PatientID))
	}
	if f.ResponsibleID != nil {
		preds = append(preds, entsql.EQ(t.r.C("responsible_employee_id"), *f.ResponsibleID))
	}
	if f.Status != nil {
		preds = append(preds, entsql.EQ(t.r.C("status"), string(*f.Status)))
	}
	return preds
}

func scanClinicalRecordView(rows *entsql.Rows) (model.ClinicalRecordView, error) {
	var (
		pFirst, pLast string
		eFirst, eLast stdsql.NullString
	)
	r, err := scanClinicalRecord(rows, &pFirst, &pLast, &eFirst, &eLast)
	if err != nil {
		return model.ClinicalRecordView{}, err
	}
	return model.ClinicalRecordView{
		ClinicalRecord:  r,
		PatientName:     model.FullName(pFirst, pLast),
		ResponsibleName: employeeName(eFirst, eLast),
	}, nil
}

func (s *Store) GetClinicalRecord(ctx context.Context, id uuid.UUID) (model.ClinicalRecordView, error) {
	t := s.clinicalRecordTables()
	q, args := t.viewSelect(s.b).Where(entsql.EQ(t.r.C("id"), id)).Query()
	var v model.ClinicalRecordView
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		v, err = scanClinicalRecordView(rows)
		return err
	})
	return v, err
}

// ListClinicalRecords pages through records newest first. A zero page
// returns every match.
func (s *Store) ListClinicalRecords(ctx context.Context, f model.ClinicalRecordFilter, p model.Page) ([]model.ClinicalRecordView, int, error) {
	t := s.clinicalRecordTables()
	preds := t.where(f)

	sel := whereAll(t.viewSelect(s.b), preds).
		OrderBy(entsql.Desc(t.r.C("created_at")), entsql.Desc(t.r.C("id")))
	total := 0
	if p.Limit > 0 {
		n, err := s.count(ctx, whereAll(s.b.Select(entsql.Count("*")).From(t.r), preds))
		if err != nil {
			return nil, 0, err
		}
		total = n
		sel.Limit(p.Limit).Offset(p.Offset())
	}

	q, args := sel.Query()
	out := []model.ClinicalRecordView{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		v, err := scanClinicalRecordView(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if p.Limit <= 0 {
		total = len(out)
	}
	return out, total, err
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

var clinicalSessionColumns = []string{
	"id", "clinical_record_id", "professional_id", "appointment_id", "session_datetime",
	"session_number", "attended", "absence_reason", "topics", "interventions",
	"patient_response", "assigned_tasks", "observations", "next_appointment_datetime",
	"created_at", "updated_at",
}

func clinicalSessionValues(cs model.ClinicalSession) []any {
	var number stdsql.NullInt64
	if cs.SessionNumber != nil {
		number = stdsql.NullInt64{Int64: int64(*cs.SessionNumber), Valid: true}
	}
	var next stdsql.NullTime
	if cs.NextAppointmentAt != nil {
		next = stdsql.NullTime{Time: cs.NextAppointmentAt.UTC(), Valid: true}
	}
	return []any{
		cs.ID, cs.ClinicalRecordID, nullUUID(cs.ProfessionalID), nullUUID(cs.AppointmentID), cs.SessionAt.UTC(),
		number, cs.Attended, cs.AbsenceReason, cs.Topics, cs.Interventions,
		cs.PatientResponse, cs.AssignedTasks, cs.Observations, next,
		cs.CreatedAt, cs.UpdatedAt,
	}
}

func scanClinicalSessionView(rows *entsql.Rows) (model.ClinicalSessionView, error) {
	var (
		v             model.ClinicalSessionView
		prof, appt    uuid.NullUUID
		number        stdsql.NullInt64
		next          stdsql.NullTime
		eFirst, eLast stdsql.NullString
	)
	cs := &v.ClinicalSession
	err := rows.Scan(
		&cs.ID, &cs.ClinicalRecordID, &prof, &appt, &cs.SessionAt,
		&number, &cs.Attended, &cs.AbsenceReason, &cs.Topics, &cs.Interventions,
		&cs.PatientResponse, &cs.AssignedTasks, &cs.Observations, &next,
		&cs.CreatedAt, &cs.UpdatedAt, &eFirst, &eLast,
	)
	if err != nil {
		return model.ClinicalSessionView{}, err
	}
	cs.ProfessionalID = uuidPtr(prof)
	cs.AppointmentID = uuidPtr(appt)
	if number.Valid {
		n := int(number.Int64)
		cs.SessionNumber = &n
	}
	cs.NextAppointmentAt = timePtr(next)
	v.ProfessionalName = employeeName(eFirst, eLast)
	return v, nil
}

func (s *Store) CreateClinicalSession(ctx context.Context, cs model.ClinicalSession) error {
	q, args := s.b.Insert("clinical_sessions").Columns(clinicalSessionColumns...).Values(clinicalSessionValues(cs)...).Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) UpdateClinicalSession(ctx context.Context, cs model.ClinicalSession) error {
	q, args := s.updateSkipping("clinical_sessions", clinicalSessionColumns, clinicalSessionValues(cs), cs.ID, "clinical_record_id")
	return s.execOne(ctx, q, args)
}

func (s *Store) clinicalSessionSelect() (*entsql.Selector, *entsql.SelectTable) {
	cs := s.b.Table("clinical_sessions").As("cs")
	e := s.b.Table("employees").As("e")
	cols := make([]string, 0, len(clinicalSessionColumns)+2)
	for _, c := range clinicalSessionColumns {
		cols = append(cols, cs.C(c))
	}
	cols = append(cols, e.C("first_name"), e.C("last_name"))
	sel := s.b.Select(cols...).From(cs).LeftJoin(e).On(cs.C("professional_id"), e.C("id"))
	return sel, cs
}

func (s *Store) GetClinicalSession(ctx context.Context, id uuid.UUID) (model.ClinicalSessionView, error) {
	sel, cs := s.clinicalSessionSelect()
	q, args := sel.Where(entsql.EQ(cs.C("id"), id)).Query()
	var v model.ClinicalSessionView
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		v, err = scanClinicalSessionView(rows)
		return err
	})
	return v, err
}

// ListClinicalSessions returns a record's sessions, latest first.
func (s *Store) ListClinicalSessions(ctx context.Context, recordID uuid.UUID) ([]model.ClinicalSessionView, error) {
	sel, cs := s.clinicalSessionSelect()
	q, args := sel.Where(entsql.EQ(cs.C("clinical_record_id"), recordID)).
		OrderBy(entsql.Desc(cs.C("session_datetime")), entsql.Desc(cs.C("id"))).
		Query()
	out := []model.ClinicalSessionView{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		v, err := scanClinicalSessionView(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Confidential notes
// ---------------------------------------------------------------------------

var confidentialNoteColumns = []string{
	"id", "patient_id", "clinical_record_id", "author_employee_id", "content", "created_at",
}

func (s *Store) CreateConfidentialNote(ctx context.Context, n model.ConfidentialNote) error {
	q, args := s.b.Insert("confidential_notes").
		Columns(confidentialNoteColumns...).
		Values(n.ID, n.PatientID, n.ClinicalRecordID, nullUUID(n.AuthorID), n.Content, n.CreatedAt).
		Query()
	_, err := s.exec(ctx, q, args)
	return err
}

// ListConfidentialNotes returns a record's notes newest first, content still
// sealed.
func (s *Store) ListConfidentialNotes(ctx context.Context, recordID uuid.UUID) ([]model.ConfidentialNoteView, error) {
	n := s.b.Table("confidential_notes").As("n")
	e := s.b.Table("employees").As("e")
	cols := make([]string, 0, len(confidentialNoteColumns)+2)
	for _, c := range confidentialNoteColumns {
		cols = append(cols, n.C(c))
	}
	cols = append(cols, e.C("first_name"), e.C("last_name"))
	q, args := s.b.Select(cols...).
		From(n).
		LeftJoin(e).On(n.C("author_employee_id"), e.C("id")).
		Where(entsql.EQ(n.C("clinical_record_id"), recordID)).
		OrderBy(entsql.Desc(n.C("created_at")), entsql.Desc(n.C("id"))).
		Query()
	out := []model.ConfidentialNoteView{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		var (
			v             model.ConfidentialNoteView
			author        uuid.NullUUID
			eFirst, eLast stdsql.NullString
		)
		if err := rows.Scan(&v.ID, &v.PatientID, &v.ClinicalRecordID, &author, &v.Content, &v.CreatedAt, &eFirst, &eLast); err != nil {
			return err
		}
		v.AuthorID = uuidPtr(author)
		v.AuthorName = employeeName(eFirst, eLast)
		out = append(out, v)
		return nil
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Patient tasks
// ---------------------------------------------------------------------------

var patientTaskColumns = []string{
	"id", "patient_id", "clinical_record_id", "assigned_by_employee_id", "title",
	"description", "due_date", "status", "created_at", "updated_at",
}

func patientTaskValues(pt model.PatientTask) []any {
	return []any{
		pt.ID, pt.PatientID, nullUUID(pt.ClinicalRecordID), nullUUID(pt.AssignedByID), pt.Title,
		pt.Description, nullDate(pt.DueDate), string(pt.Status), pt.CreatedAt, pt.UpdatedAt,
	}
}

func scanPatientTaskView(rows *entsql.Rows) (model.PatientTaskView, error) {
	var (
		v              model.PatientTaskView
		record, author uuid.NullUUID
		due            *timerange.Date
		eFirst, eLast  stdsql.NullString
	)
	pt := &v.PatientTask
	err := rows.Scan(
		&pt.ID, &pt.PatientID, &record, &author, &pt.Title,
		&pt.Description, &due, &pt.Status, &pt.CreatedAt, &pt.UpdatedAt, &eFirst, &eLast,
	)
	if err != nil {
		return model.PatientTaskView{}, err
	}
	pt.ClinicalRecordID = uuidPtr(record)
	pt.AssignedByID = uuidPtr(author)
	pt.DueDate = due
	v.AssignedByName = employeeName(eFirst, eLast)
	return v, nil
}

func (s *Store) CreatePatientTask(ctx context.Context, pt model.PatientTask) error {
	q, args := s.b.Insert("patient_tasks").Columns(patientTaskColumns...).Values(patientTaskValues(pt)...).Query()
	_, err := s.exec(ctx, q, args)
	return err
}

// UpdatePatientTask leaves the patient, record and author untouched.
func (s *Store) UpdatePatientTask(ctx context.Context, pt model.PatientTask) error {
	q, args := s.updateSkipping("patient_tasks", patientTaskColumns, patientTaskValues(pt), pt.ID,
		"patient_id", "clinical_record_id", "assigned_by_employee_id")
	return s.execOne(ctx, q, args)
}

func (s *Store) patientTaskSelect() (*entsql.Selector, *entsql.SelectTable) {
	t := s.b.Table("patient_tasks").As("t")
	e := s.b.Table("employees").As("e")
	cols := make([]string, 0, len(patientTaskColumns)+2)
	for _, c := range patientTaskColumns {
		cols = append(cols, t.C(c))
	}
	cols = append(cols, e.C("first_name"), e.C("last_name"))
	return s.b.Select(cols...).From(t).LeftJoin(e).On(t.C("assigned_by_employee_id"), e.C("id")), t
}

func (s *Store) GetPatientTask(ctx context.Context, id uuid.UUID) (model.PatientTaskView, error) {
	sel, t := s.patientTaskSelect()
	q, args := sel.Where(entsql.EQ(t.C("id"), id)).Query()
	var v model.PatientTaskView
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		v, err = scanPatientTaskView(rows)
		return err
	})
	return v, err
}

// ListPatientTasks returns a patient's tasks newest first.
func (s *Store) ListPatientTasks(ctx context.Context, patientID uuid.UUID) ([]model.PatientTaskView, error) {
	sel, t := s.patientTaskSelect()
	q, args := sel.Where(entsql.EQ(t.C("patient_id"), patientID)).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id"))).
		Query()
	out := []model.PatientTaskView{}
	err := s.query(ctx, q, args, func(rows *entsql.Rows) error {
		v, err := scanPatientTaskView(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}
