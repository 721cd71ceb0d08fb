package constants

const (
	AppName      = "clinica"
	EnvPrefix    = "CLINICA"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	DotEnvFile   = ".env"
)

// Date and clock layouts used at the API boundary.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit well inside an int.
	MaxPage = 1_000_000
)
