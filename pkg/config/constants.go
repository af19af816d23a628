package config

// EnvPrefix is the envconfig prefix shared by every service binary.
const EnvPrefix = "tripline"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TRIPLINE_DB_DSN"
	EnvDBHost = "TRIPLINE_DB_HOST"
	EnvDBUser = "TRIPLINE_DB_USER"
	EnvDBName = "TRIPLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
