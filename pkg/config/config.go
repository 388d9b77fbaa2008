package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Midtrans     MidtransConfig
	Certificates CertificatesConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KURSUSKU_APP_ENV" required:"true"`
	Port         string `envconfig:"KURSUSKU_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KURSUSKU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KURSUSKU_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KURSUSKU_DB_DSN"`
	Driver string `envconfig:"KURSUSKU_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KURSUSKU_DB_HOST"`
	LegacyPort     int    `envconfig:"KURSUSKU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KURSUSKU_DB_USER"`
	LegacyPassword string `envconfig:"KURSUSKU_DB_PASSWORD"`
	LegacyName     string `envconfig:"KURSUSKU_DB_NAME"`
	LegacySSLMode  string `envconfig:"KURSUSKU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KURSUSKU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KURSUSKU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KURSUSKU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KURSUSKU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KURSUSKU_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KURSUSKU_REDIS_ADDR"`
	Password     string        `envconfig:"KURSUSKU_REDIS_PASSWORD"`
	DB           int           `envconfig:"KURSUSKU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KURSUSKU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KURSUSKU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KURSUSKU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KURSUSKU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KURSUSKU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KURSUSKU_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KURSUSKU_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KURSUSKU_JWT_EXPIRATION_MINUTES" default:"60"`
}

type MidtransConfig struct {
	ServerKey            string        `envconfig:"KURSUSKU_MIDTRANS_SERVER_KEY"`
	ClientKey            string        `envconfig:"KURSUSKU_MIDTRANS_CLIENT_KEY"`
	Env                  string        `envconfig:"KURSUSKU_MIDTRANS_ENV" default:"sandbox"`
	NotificationDedupTTL time.Duration `envconfig:"KURSUSKU_MIDTRANS_NOTIFICATION_DEDUP_TTL" default:"24h"`
}

// Environment returns the normalized Midtrans environment (sandbox/production).
func (m MidtransConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(m.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type CertificatesConfig struct {
	VerificationBaseURL string `envconfig:"KURSUSKU_CERT_VERIFICATION_BASE_URL" default:"https://kursusku.id/certificates"`
	QRRendererBaseURL   string `envconfig:"KURSUSKU_CERT_QR_RENDERER_URL" default:"https://api.qrserver.com/v1/create-qr-code/"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KURSUSKU_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
