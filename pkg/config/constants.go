package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "kursusku"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "KURSUSKU_DB_DSN"
	EnvDBHost = "KURSUSKU_DB_HOST"
	EnvDBUser = "KURSUSKU_DB_USER"
	EnvDBName = "KURSUSKU_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
