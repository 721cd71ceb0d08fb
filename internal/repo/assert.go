package repo

import (
	"github.com/Alijeyrad/clinica_backend/internal/service/appointment"
	"github.com/Alijeyrad/clinica_backend/internal/service/catalog"
	"github.com/Alijeyrad/clinica_backend/internal/service/clinicalrecord"
	"github.com/Alijeyrad/clinica_backend/internal/service/employee"
	"github.com/Alijeyrad/clinica_backend/internal/service/notification"
	"github.com/Alijeyrad/clinica_backend/internal/service/patient"
	"github.com/Alijeyrad/clinica_backend/internal/service/payroll"
	"github.com/Alijeyrad/clinica_backend/internal/service/scheduling"
)

var (
	_ appointment.Store    = (*Store)(nil)
	_ catalog.Store        = (*Store)(nil)
	_ clinicalrecord.Store = (*Store)(nil)
	_ employee.Store       = (*Store)(nil)
	_ notification.Store   = (*Store)(nil)
	_ patient.Store        = (*Store)(nil)
	_ payroll.Store        = (*Store)(nil)
	_ scheduling.Store     = (*Store)(nil)
)
