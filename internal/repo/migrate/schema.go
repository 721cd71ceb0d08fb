// Package migrate declares the application tables for ent's schema migrator.
package migrate

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Constraint names referenced by the repository when mapping unique
// violations.
const (
	AreasNameKey                    = "areas_name_key"
	SpecialtiesNameKey              = "specialties_name_key"
	EmployeesEmailKey               = "employees_email_key"
	PatientsNationalIDHashKey       = "patients_national_id_hash_key"
	PatientsUserIDKey               = "patients_user_id_key"
	ClinicalRecordsNumberKey        = "clinical_records_record_number_key"
	PayrollRecordsEmployeePeriodKey = "payroll_records_employee_period_key"
)

var (
	money   = map[string]string{dialect.Postgres: "numeric(12,2)"}
	percent = map[string]string{dialect.Postgres: "numeric(5,2)"}
	date    = map[string]string{dialect.Postgres: "date"}
	clock   = map[string]string{dialect.Postgres: "time"}
	text    = map[string]string{dialect.Postgres: "text"}
)

var (
	AreasColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Size: 100},
		{Name: "description", Type: field.TypeString, Size: 1000, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	AreasTable = &schema.Table{
		Name:       "areas",
		Columns:    AreasColumns,
		PrimaryKey: []*schema.Column{AreasColumns[0]},
		Indexes: []*schema.Index{
			{Name: AreasNameKey, Unique: true, Columns: []*schema.Column{AreasColumns[1]}},
		},
	}

	SpecialtiesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Size: 100},
		{Name: "description", Type: field.TypeString, Size: 1000, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	SpecialtiesTable = &schema.Table{
		Name:       "specialties",
		Columns:    SpecialtiesColumns,
		PrimaryKey: []*schema.Column{SpecialtiesColumns[0]},
		Indexes: []*schema.Index{
			{Name: SpecialtiesNameKey, Unique: true, Columns: []*schema.Column{SpecialtiesColumns[1]}},
		},
	}

	EmployeesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "user_id", Type: field.TypeUUID, Nullable: true},
		{Name: "first_name", Type: field.TypeString, Size: 100},
		{Name: "last_name", Type: field.TypeString, Size: 100},
		{Name: "email", Type: field.TypeString, Size: 255, Nullable: true},
		{Name: "phone", Type: field.TypeString, Size: 30, Default: ""},
		{Name: "employee_type", Type: field.TypeString, Size: 50, Default: ""},
		{Name: "license_number", Type: field.TypeString, Size: 100, Default: ""},
		{Name: "base_salary", Type: field.TypeFloat64, Nullable: true, SchemaType: money},
		{Name: "session_rate", Type: field.TypeFloat64, Nullable: true, SchemaType: money},
		{Name: "igss_percentage", Type: field.TypeFloat64, Default: 0, SchemaType: percent},
		{Name: "hired_date", Type: field.TypeTime, Nullable: true, SchemaType: date},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"ACTIVE", "INACTIVE"}, Default: "ACTIVE"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "area_id", Type: field.TypeUUID, Nullable: true},
	}
	EmployeesTable = &schema.Table{
		Name:       "employees",
		Columns:    EmployeesColumns,
		PrimaryKey: []*schema.Column{EmployeesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "employees_areas_area",
				Columns:    []*schema.Column{EmployeesColumns[15]},
				RefColumns: []*schema.Column{AreasColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: EmployeesEmailKey, Unique: true, Columns: []*schema.Column{EmployeesColumns[4]}},
			{Name: "employees_user_id", Unique: true, Columns: []*schema.Column{EmployeesColumns[1]}},
			{Name: "employees_status", Columns: []*schema.Column{EmployeesColumns[12]}},
		},
	}

	EmployeeSpecialtiesColumns = []*schema.Column{
		{Name: "employee_id", Type: field.TypeUUID},
		{Name: "specialty_id", Type: field.TypeUUID},
	}
	EmployeeSpecialtiesTable = &schema.Table{
		Name:       "employee_specialties",
		Columns:    EmployeeSpecialtiesColumns,
		PrimaryKey: []*schema.Column{EmployeeSpecialtiesColumns[0], EmployeeSpecialtiesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "employee_specialties_employee",
				Columns:    []*schema.Column{EmployeeSpecialtiesColumns[0]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "employee_specialties_specialty",
				Columns:    []*schema.Column{EmployeeSpecialtiesColumns[1]},
				RefColumns: []*schema.Column{SpecialtiesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	AvailabilityWindowsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "day_of_week", Type: field.TypeInt},
		{Name: "start_time", Type: field.TypeString, SchemaType: clock},
		{Name: "end_time", Type: field.TypeString, SchemaType: clock},
		{Name: "is_active", Type: field.TypeBool, Default: true},
		{Name: "employee_id", Type: field.TypeUUID},
		{Name: "specialty_id", Type: field.TypeUUID, Nullable: true},
	}
	AvailabilityWindowsTable = &schema.Table{
		Name:       "availability_windows",
		Columns:    AvailabilityWindowsColumns,
		PrimaryKey: []*schema.Column{AvailabilityWindowsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "availability_windows_employee",
				Columns:    []*schema.Column{AvailabilityWindowsColumns[5]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "availability_windows_specialty",
				Columns:    []*schema.Column{AvailabilityWindowsColumns[6]},
				RefColumns: []*schema.Column{SpecialtiesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "availability_windows_employee_day", Columns: []*schema.Column{AvailabilityWindowsColumns[5], AvailabilityWindowsColumns[1]}},
		},
	}

	PatientsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "first_name", Type: field.TypeString, Size: 100},
		{Name: "last_name", Type: field.TypeString, Size: 100},
		{Name: "date_of_birth", Type: field.TypeTime, Nullable: true, SchemaType: date},
		{Name: "gender", Type: field.TypeString, Size: 20, Default: ""},
		{Name: "marital_status", Type: field.TypeString, Size: 30, Default: ""},
		{Name: "occupation", Type: field.TypeString, Size: 120, Default: ""},
		{Name: "education_level", Type: field.TypeString, Size: 120, Default: ""},
		{Name: "address", Type: field.TypeString, Size: 500, Default: ""},
		{Name: "phone", Type: field.TypeString, Size: 50, Default: ""},
		{Name: "email", Type: field.TypeString, Size: 150, Default: ""},
		{Name: "national_id", Type: field.TypeString, Size: 255, Default: ""},
		{Name: "national_id_hash", Type: field.TypeString, Size: 64, Nullable: true},
		{Name: "emergency_contact_name", Type: field.TypeString, Size: 150, Default: ""},
		{Name: "emergency_contact_phone", Type: field.TypeString, Size: 50, Default: ""},
		{Name: "emergency_contact_relationship", Type: field.TypeString, Size: 80, Default: ""},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"ACTIVE", "INACTIVE"}, Default: "ACTIVE"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeUUID, Nullable: true},
	}
	PatientsTable = &schema.Table{
		Name:       "patients",
		Columns:    PatientsColumns,
		PrimaryKey: []*schema.Column{PatientsColumns[0]},
		Indexes: []*schema.Index{
			{Name: PatientsNationalIDHashKey, Unique: true, Columns: []*schema.Column{PatientsColumns[12]}},
			{Name: "patients_last_first", Columns: []*schema.Column{PatientsColumns[2], PatientsColumns[1]}},
			{Name: PatientsUserIDKey, Unique: true, Columns: []*schema.Column{PatientsColumns[19]}},
		},
	}

	AppointmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "appointment_type", Type: field.TypeString, Size: 50, Default: ""},
		{Name: "start_datetime", Type: field.TypeTime},
		{Name: "end_datetime", Type: field.TypeTime},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"SCHEDULED", "COMPLETED", "CANCELLED"}, Default: "SCHEDULED"},
		{Name: "notes", Type: field.TypeString, Size: 2000, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
		{Name: "professional_id", Type: field.TypeUUID, Nullable: true},
		{Name: "specialty_id", Type: field.TypeUUID, Nullable: true},
	}
	AppointmentsTable = &schema.Table{
		Name:       "appointments",
		Columns:    AppointmentsColumns,
		PrimaryKey: []*schema.Column{AppointmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "appointments_patient",
				Columns:    []*schema.Column{AppointmentsColumns[8]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "appointments_professional",
				Columns:    []*schema.Column{AppointmentsColumns[9]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "appointments_specialty",
				Columns:    []*schema.Column{AppointmentsColumns[10]},
				RefColumns: []*schema.Column{SpecialtiesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "appointments_professional_start", Columns: []*schema.Column{AppointmentsColumns[9], AppointmentsColumns[2]}},
			{Name: "appointments_patient", Columns: []*schema.Column{AppointmentsColumns[8]}},
			{Name: "appointments_status_start", Columns: []*schema.Column{AppointmentsColumns[4], AppointmentsColumns[2]}},
		},
	}

	ClinicalRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "record_number", Type: field.TypeString, Size: 50, Nullable: true},
		{Name: "institution_name", Type: field.TypeString, Size: 150, Default: ""},
		{Name: "service", Type: field.TypeString, Size: 120, Default: ""},
		{Name: "opening_date", Type: field.TypeTime, Nullable: true, SchemaType: date},
		{Name: "responsible_license", Type: field.TypeString, Size: 100, Default: ""},
		{Name: "referral_source", Type: field.TypeString, Size: 150, Default: ""},
		{Name: "chief_complaint", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"ACTIVE", "CLOSED"}, Default: "ACTIVE"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
		{Name: "responsible_employee_id", Type: field.TypeUUID, Nullable: true},
	}
	ClinicalRecordsTable = &schema.Table{
		Name:       "clinical_records",
		Columns:    ClinicalRecordsColumns,
		PrimaryKey: []*schema.Column{ClinicalRecordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "clinical_records_patient",
				Columns:    []*schema.Column{ClinicalRecordsColumns[11]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "clinical_records_responsible",
				Columns:    []*schema.Column{ClinicalRecordsColumns[12]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: ClinicalRecordsNumberKey, Unique: true, Columns: []*schema.Column{ClinicalRecordsColumns[1]}},
			{Name: "clinical_records_patient", Columns: []*schema.Column{ClinicalRecordsColumns[11]}},
			{Name: "clinical_records_responsible", Columns: []*schema.Column{ClinicalRecordsColumns[12]}},
		},
	}

	ClinicalSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "session_datetime", Type: field.TypeTime},
		{Name: "session_number", Type: field.TypeInt, Nullable: true},
		{Name: "attended", Type: field.TypeBool, Default: true},
		{Name: "absence_reason", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "topics", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "interventions", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "patient_response", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "assigned_tasks", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "observations", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "next_appointment_datetime", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "clinical_record_id", Type: field.TypeUUID},
		{Name: "professional_id", Type: field.TypeUUID, Nullable: true},
		{Name: "appointment_id", Type: field.TypeUUID, Nullable: true},
	}
	ClinicalSessionsTable = &schema.Table{
		Name:       "clinical_sessions",
		Columns:    ClinicalSessionsColumns,
		PrimaryKey: []*schema.Column{ClinicalSessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "clinical_sessions_record",
				Columns:    []*schema.Column{ClinicalSessionsColumns[13]},
				RefColumns: []*schema.Column{ClinicalRecordsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "clinical_sessions_professional",
				Columns:    []*schema.Column{ClinicalSessionsColumns[14]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "clinical_sessions_appointment",
				Columns:    []*schema.Column{ClinicalSessionsColumns[15]},
				RefColumns: []*schema.Column{AppointmentsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "clinical_sessions_record_datetime", Columns: []*schema.Column{ClinicalSessionsColumns[13], ClinicalSessionsColumns[1]}},
		},
	}

	ConfidentialNotesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "content", Type: field.TypeString, SchemaType: text},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
		{Name: "clinical_record_id", Type: field.TypeUUID},
		{Name: "author_employee_id", Type: field.TypeUUID, Nullable: true},
	}
	ConfidentialNotesTable = &schema.Table{
		Name:       "confidential_notes",
		Columns:    ConfidentialNotesColumns,
		PrimaryKey: []*schema.Column{ConfidentialNotesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "confidential_notes_patient",
				Columns:    []*schema.Column{ConfidentialNotesColumns[3]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "confidential_notes_record",
				Columns:    []*schema.Column{ConfidentialNotesColumns[4]},
				RefColumns: []*schema.Column{ClinicalRecordsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "confidential_notes_author",
				Columns:    []*schema.Column{ConfidentialNotesColumns[5]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "confidential_notes_record", Columns: []*schema.Column{ConfidentialNotesColumns[4]}},
		},
	}

	PatientTasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString, Size: 200},
		{Name: "description", Type: field.TypeString, Default: "", SchemaType: text},
		{Name: "due_date", Type: field.TypeTime, Nullable: true, SchemaType: date},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"PENDING", "COMPLETED", "CANCELLED"}, Default: "PENDING"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "patient_id", Type: field.TypeUUID},
		{Name: "clinical_record_id", Type: field.TypeUUID, Nullable: true},
		{Name: "assigned_by_employee_id", Type: field.TypeUUID, Nullable: true},
	}
	PatientTasksTable = &schema.Table{
		Name:       "patient_tasks",
		Columns:    PatientTasksColumns,
		PrimaryKey: []*schema.Column{PatientTasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "patient_tasks_patient",
				Columns:    []*schema.Column{PatientTasksColumns[7]},
				RefColumns: []*schema.Column{PatientsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "patient_tasks_record",
				Columns:    []*schema.Column{PatientTasksColumns[8]},
				RefColumns: []*schema.Column{ClinicalRecordsColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "patient_tasks_assigned_by",
				Columns:    []*schema.Column{PatientTasksColumns[9]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "patient_tasks_patient", Columns: []*schema.Column{PatientTasksColumns[7]}},
		},
	}

	PayrollPeriodsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "period_start", Type: field.TypeTime, SchemaType: date},
		{Name: "period_end", Type: field.TypeTime, SchemaType: date},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"OPEN", "CLOSED", "PAID"}, Default: "OPEN"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	PayrollPeriodsTable = &schema.Table{
		Name:       "payroll_periods",
		Columns:    PayrollPeriodsColumns,
		PrimaryKey: []*schema.Column{PayrollPeriodsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "payroll_periods_start", Columns: []*schema.Column{PayrollPeriodsColumns[1]}},
		},
	}

	PayrollRecordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "base_salary_amount", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "sessions_count", Type: field.TypeInt, Default: 0},
		{Name: "sessions_amount", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "bonuses_amount", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "igss_deduction", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "other_deductions", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "total_pay", Type: field.TypeFloat64, Default: 0, SchemaType: money},
		{Name: "paid_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "employee_id", Type: field.TypeUUID},
		{Name: "period_id", Type: field.TypeUUID},
	}
	PayrollRecordsTable = &schema.Table{
		Name:       "payroll_records",
		Columns:    PayrollRecordsColumns,
		PrimaryKey: []*schema.Column{PayrollRecordsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "payroll_records_employee",
				Columns:    []*schema.Column{PayrollRecordsColumns[11]},
				RefColumns: []*schema.Column{EmployeesColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "payroll_records_period",
				Columns:    []*schema.Column{PayrollRecordsColumns[12]},
				RefColumns: []*schema.Column{PayrollPeriodsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: PayrollRecordsEmployeePeriodKey, Unique: true, Columns: []*schema.Column{PayrollRecordsColumns[11], PayrollRecordsColumns[12]}},
		},
	}

	// Tables in dependency order.
	Tables = []*schema.Table{
		AreasTable,
		SpecialtiesTable,
		EmployeesTable,
		EmployeeSpecialtiesTable,
		AvailabilityWindowsTable,
		PatientsTable,
		AppointmentsTable,
		ClinicalRecordsTable,
		ClinicalSessionsTable,
		ConfidentialNotesTable,
		PatientTasksTable,
		PayrollPeriodsTable,
		PayrollRecordsTable,
	}
)

func init() {
	EmployeesTable.ForeignKeys[0].RefTable = AreasTable
	EmployeeSpecialtiesTable.ForeignKeys[0].RefTable = EmployeesTable
	EmployeeSpecialtiesTable.ForeignKeys[1].RefTable = SpecialtiesTable
	AvailabilityWindowsTable.ForeignKeys[0].RefTable = EmployeesTable
	AvailabilityWindowsTable.ForeignKeys[1].RefTable = SpecialtiesTable
	AppointmentsTable.ForeignKeys[0].RefTable = PatientsTable
	AppointmentsTable.ForeignKeys[1].RefTable = EmployeesTable
	AppointmentsTable.ForeignKeys[2].RefTable = SpecialtiesTable
	ClinicalRecordsTable.ForeignKeys[0].RefTable = PatientsTable
	ClinicalRecordsTable.ForeignKeys[1].RefTable = EmployeesTable
	ClinicalSessionsTable.ForeignKeys[0].RefTable = ClinicalRecordsTable
	ClinicalSessionsTable.ForeignKeys[1].RefTable = EmployeesTable
	ClinicalSessionsTable.ForeignKeys[2].RefTable = AppointmentsTable
	ConfidentialNotesTable.ForeignKeys[0].RefTable = PatientsTable
	ConfidentialNotesTable.ForeignKeys[1].RefTable = ClinicalRecordsTable
	ConfidentialNotesTable.ForeignKeys[2].RefTable = EmployeesTable
	PatientTasksTable.ForeignKeys[0].RefTable = PatientsTable
	PatientTasksTable.ForeignKeys[1].RefTable = ClinicalRecordsTable
	PatientTasksTable.ForeignKeys[2].RefTable = EmployeesTable
	PayrollRecordsTable.ForeignKeys[0].RefTable = EmployeesTable
	PayrollRecordsTable.ForeignKeys[1].RefTable = PayrollPeriodsTable
}
