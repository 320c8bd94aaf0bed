package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MTS_DB_DSN"
	EnvDBHost = "MTS_DB_HOST"
	EnvDBUser = "MTS_DB_USER"
	EnvDBName = "MTS_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
