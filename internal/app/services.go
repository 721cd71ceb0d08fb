package app

import (
	"go.uber.org/fx"

	"github.com/Alijeyrad/clinica_backend/config"
	"github.com/Alijeyrad/clinica_backend/internal/repo"
	"github.com/Alijeyrad/clinica_backend/internal/service/appointment"
	"github.com/Alijeyrad/clinica_backend/internal/service/catalog"
	"github.com/Alijeyrad/clinica_backend/internal/service/clinicalrecord"
	"github.com/Alijeyrad/clinica_backend/internal/service/employee"
	"github.com/Alijeyrad/clinica_backend/internal/service/notification"
	"github.com/Alijeyrad/clinica_backend/internal/service/patient"
	"github.com/Alijeyrad/clinica_backend/internal/service/payroll"
	"github.com/Alijeyrad/clinica_backend/internal/service/scheduling"
	"github.com/Alijeyrad/clinica_backend/pkg/crypto"
	"github.com/Alijeyrad/clinica_backend/pkg/email"
	"github.com/Alijeyrad/clinica_backend/pkg/events"
	"github.com/Alijeyrad/clinica_backend/pkg/sms"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideFieldCipher,
		ProvideSchedulingService,
		ProvideAppointmentService,
		ProvideEmployeeService,
		ProvidePatientService,
		ProvideClinicalRecordService,
		ProvideCatalogService,
		ProvidePayrollService,
		ProvideNotificationService,
	),
)

func ProvideSchedulingService(store *repo.Store, cfg *config.Config) scheduling.Service {
	return scheduling.New(store, cfg.Clinic.Location())
}

func ProvideAppointmentService(store *repo.Store, pub events.Publisher) appointment.Service {
	return appointment.New(store, pub)
}

func ProvideEmployeeService(store *repo.Store, pub events.Publisher, cfg *config.Config) employee.Service {
	return employee.New(store, pub, cfg.Clinic.PhoneRegion, cfg.Clinic.Location())
}

// ProvideFieldCipher returns nil when no encryption key is set. Services then
// reject the fields they would have to store sealed.
func ProvideFieldCipher(cfg *config.Config) (*crypto.FieldCipher, error) {
	if cfg.Authentication.EncryptionKey == "" {
		return nil, nil
	}
	k, err := crypto.KeyFromHex(cfg.Authentication.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return crypto.NewFieldCipher(k)
}

func ProvidePatientService(store *repo.Store, fc *crypto.FieldCipher, cfg *config.Config) patient.Service {
	return patient.New(store, fc, cfg.Clinic.PhoneRegion, cfg.Clinic.Location())
}

func ProvideClinicalRecordService(store *repo.Store, fc *crypto.FieldCipher) clinicalrecord.Service {
	return clinicalrecord.New(store, fc)
}

func ProvideCatalogService(store *repo.Store) catalog.Service {
	return catalog.New(store)
}

func ProvidePayrollService(store *repo.Store, pub events.Publisher, up payroll.Uploader, cfg *config.Config) payroll.Service {
	return payroll.New(store, pub, up, cfg.Clinic.Location())
}

func ProvideNotificationService(store *repo.Store, mail *email.Client, text *sms.Client, cfg *config.Config) notification.Service {
	tpl := notification.Templates{
		Appointment:  cfg.SMS.SMSIR.AppointmentTemplateID,
		Cancellation: cfg.SMS.SMSIR.CancellationTemplateID,
	}
	return notification.New(store, mail, text, tpl, mail.AppName(), cfg.Clinic.Location())
}
