package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the backend reads.
	EnvPrefix = "SOILMINDS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SOILMINDS_DB_DSN"
	EnvDBHost = "SOILMINDS_DB_HOST"
	EnvDBUser = "SOILMINDS_DB_USER"
	EnvDBName = "SOILMINDS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	ML           MLConfig
	CORS         CORSConfig
	Contact      ContactConfig
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
	Env          string `envconfig:"SOILMINDS_APP_ENV" required:"true"`
	Port         string `envconfig:"SOILMINDS_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"SOILMINDS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOILMINDS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOILMINDS_DB_DSN"`
	Driver string `envconfig:"SOILMINDS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOILMINDS_DB_HOST"`
	LegacyPort     int    `envconfig:"SOILMINDS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOILMINDS_DB_USER"`
	LegacyPassword string `envconfig:"SOILMINDS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOILMINDS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOILMINDS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOILMINDS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOILMINDS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOILMINDS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOILMINDS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig accepts either a full URL or discrete address fields; at least
// one must be set, enforced when the client is built.
type RedisConfig struct {
	URL          string        `envconfig:"SOILMINDS_REDIS_URL"`
	Address      string        `envconfig:"SOILMINDS_REDIS_ADDR"`
	Password     string        `envconfig:"SOILMINDS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOILMINDS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOILMINDS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOILMINDS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOILMINDS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOILMINDS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOILMINDS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SOILMINDS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SOILMINDS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SOILMINDS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SOILMINDS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SOILMINDS_ARGON_KEY_LEN" default:"32"`
}

// MLConfig points at the external health-scoring service.
type MLConfig struct {
	BaseURL string        `envconfig:"SOILMINDS_ML_SERVICE_URL" default:"http://localhost:5001"`
	Timeout time.Duration `envconfig:"SOILMINDS_ML_TIMEOUT" default:"30s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SOILMINDS_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// ContactConfig holds the contact-form mail settings. When From is empty the
// backend logs outgoing mail instead of sending it.
type ContactConfig struct {
	From      string `envconfig:"SOILMINDS_CONTACT_FROM_EMAIL"`
	Recipient string `envconfig:"SOILMINDS_CONTACT_RECIPIENT" default:"soilminds100@gmail.com"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOILMINDS_AUTO_MIGRATE" default:"false"`
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
