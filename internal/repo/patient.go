package repo

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/clinica_backend/internal/model"
	"github.com/Alijeyrad/clinica_backend/pkg/timerange"
)

var patientColumns = []string{
	"id", "first_name", "last_name", "date_of_birth", "gender", "marital_status",
	"occupation", "education_level", "address", "phone", "email", "national_id",
	"national_id_hash", "emergency_contact_name", "emergency_contact_phone",
	"emergency_contact_relationship", "status", "created_at", "updated_at", "user_id",
}

func scanPatient(rows *entsql.Rows) (model.Patient, error) {
	var (
		p      model.Patient
		dob    *timerange.Date
		hash   stdsql.NullString
		userID uuid.NullUUID
	)
	err := rows.Scan(
		&p.ID, &p.FirstName, &p.LastName, &dob, &p.Gender, &p.MaritalStatus,
		&p.Occupation, &p.EducationLevel, &p.Address, &p.Phone, &p.Email, &p.NationalID,
		&hash, &p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.EmergencyContactRel, &p.Status, &p.CreatedAt, &p.UpdatedAt, &userID,
	)
	p.DateOfBirth = dob
	p.UserID = uuidPtr(userID)
	p.NationalIDHash = hash.String
	return p, err
}

func patientValues(p model.Patient) []any {
	return []any{
		p.ID, p.FirstName, p.LastName, nullDate(p.DateOfBirth), p.Gender, p.MaritalStatus,
		p.Occupation, p.EducationLevel, p.Address, p.Phone, p.Email, p.NationalID,
		nullString(p.NationalIDHash), p.EmergencyContactName, p.EmergencyContactPhone,
		p.EmergencyContactRel, string(p.Status), p.CreatedAt, p.UpdatedAt, nullUUID(p.UserID),
	}
}

func (s *Store) CreatePatient(ctx context.Context, p model.Patient) error {
	q, args := s.b.Insert("patients").Columns(patientColumns...).Values(patientValues(p)...).Query()
	_, err := s.exec(ctx, q, args)
	return err
}

func (s *Store) UpdatePatient(ctx context.Context, p model.Patient) error {
	u := s.b.Update("patients")
	vals := patientValues(p)
	for i, col := range patientColumns {
		if col == "id" || col == "created_at" {
			continue
		}
		u.Set(col, vals[i])
	}
	q, args := u.Where(entsql.EQ("id", p.ID)).Query()
	return s.execOne(ctx, q, args)
}

func (s *Store) GetPatient(ctx context.Context, id uuid.UUID) (model.Patient, error) {
	return s.getPatientWhere(ctx, entsql.EQ("id", id))
}

// GetPatientByUserID finds the patient whose portal account is userID.
func (s *Store) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (model.Patient, error) {
	return s.getPatientWhere(ctx, entsql.EQ("user_id", userID))
}

func (s *Store) getPatientWhere(ctx context.Context, pred *entsql.Predicate) (model.Patient, error) {
	q, args := s.b.Select(patientColumns...).From(s.b.Table("patients")).Where(pred).Query()
	var p model.Patient
	err := s.queryOne(ctx, q, args, func(rows *entsql.Rows) (err error) {
		p, err = scanPatient(rows)
		return err
	})
	return p, err
}

func (s *Store) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "patients", id)
}

func (s *Store) ListPatients(ctx context.Context, f model.PatientFilter, p model.Page) ([]model.Patient, int, error) {
	var preds []*entsql.Predicate
	if f.Status != nil {
		preds = append(preds, entsql.EQ("status", string(*f.Status)))
	}
	if f.Search != "" {
		or := []*entsql.Predicate{
			entsql.ContainsFold("first_name", f.Search),
			entsql.ContainsFold("last_name", f.Search),
			entsql.ContainsFold("email", f.Search),
			entsql.Contains("phone", f.Search),
		}
		if f.SearchHash != "" {
			or = append(or, entsql.EQ("national_id_hash", f.SearchHash))
		}
		preds = append(preds, entsql.Or(or...))
	}

	total, err := s.count(ctx, whereAll(s.b.Select(entsql.Count("*")).From(s.b.Table("patients")), preds))
	if err != nil {
		return nil, 0, err
	}

	q, args := whereAll(s.b.Select(patientColumns...).From(s.b.Table("patients")), preds).
		OrderBy("last_name", "first_name", "id").
		Limit(p.Limit).
		Offset(p.Offset()).
		Query()
	out := []model.Patient{}
	err = s.query(ctx, q, args, func(rows *entsql.Rows) error {
		pt, err := scanPatient(rows)
		if err != nil {
			return err
		}
		out = append(out, pt)
		return nil
	})
	return out, total, err
}
