package migrate

import "testing"

func TestTablesInDependencyOrder(t *testing.T) {
	seen := map[string]bool{}
	for _, tbl := range Tables {
		for _, fk := range tbl.ForeignKeys {
			if fk.RefTable == nil {
				t.Fatalf("%s.%s has no referenced table", tbl.Name, fk.Symbol)
			}
			if !seen[fk.RefTable.Name] {
				t.Errorf("%s references %s before it is declared", tbl.Name, fk.RefTable.Name)
			}
		}
		seen[tbl.Name] = true
	}
}

func TestPrimaryKeys(t *testing.T) {
	for _, tbl := range Tables {
		if len(tbl.PrimaryKey) == 0 {
			t.Errorf("%s has no primary key", tbl.Name)
		}
	}
}

func TestNamedUniqueKeys(t *testing.T) {
	unique := map[string]bool{}
	for _, tbl := range Tables {
		for _, idx := range tbl.Indexes {
			if idx.Unique {
				unique[idx.Name] = true
			}
		}
	}
	for _, name := range []string{
		AreasNameKey, SpecialtiesNameKey, EmployeesEmailKey, PatientsNationalIDHashKey,
		PatientsUserIDKey, ClinicalRecordsNumberKey, PayrollRecordsEmployeePeriodKey,
	} {
		if !unique[name] {
			t.Errorf("no unique index named %s", name)
		}
	}
}
