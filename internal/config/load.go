package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at configPath, applies environment overrides and
// validates the result.
func Load(configPath string) (*AppConfig, error) {
	return load(configPath, false)
}

// LoadOrDefault is Load that tolerates a missing config file.
func LoadOrDefault(configPath string) (*AppConfig, error) {
	return load(configPath, true)
}

func load(configPath string, allowMissing bool) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	raw := rawAppConfig{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case allowMissing && os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&raw)
	cfg := defaultAppConfig()
	applyRawAppConfig(&cfg, raw)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w in %q", err, path)
	}
	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case DriverMySQL:
		if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("invalid database.driver %q, expected mysql or sqlite", cfg.Database.Driver)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	switch cfg.Classifier.Provider {
	case ClassifierFallback, ClassifierAnthropic, ClassifierOpenAI:
	case ClassifierTFServing:
		if cfg.Classifier.Endpoint == "" {
			return fmt.Errorf("classifier.endpoint is required for provider %q", cfg.Classifier.Provider)
		}
	default:
		return fmt.Errorf("invalid classifier.provider %q", cfg.Classifier.Provider)
	}
	if cfg.Reminders.Hour < 0 || cfg.Reminders.Hour > 23 {
		return fmt.Errorf("invalid reminders.hour %d, expected 0-23", cfg.Reminders.Hour)
	}
	if cfg.Reminders.Minute < 0 || cfg.Reminders.Minute > 59 {
		return fmt.Errorf("invalid reminders.minute %d, expected 0-59", cfg.Reminders.Minute)
	}
	return nil
}

// applyEnvOverrides lets deployment secrets come from the environment.
func applyEnvOverrides(raw *rawAppConfig) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		raw.SecretKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		raw.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		raw.RedisURL = v
	}
	if v := os.Getenv("MAIL_SERVER"); v != "" {
		raw.Mail.Server = v
	}
	if v := os.Getenv("MAIL_USERNAME"); v != "" {
		raw.Mail.Username = v
	}
	if v := os.Getenv("MAIL_PASSWORD"); v != "" {
		raw.Mail.Password = v
	}
	if v := os.Getenv("MAIL_DEFAULT_SENDER"); v != "" {
		raw.Mail.Sender = v
	}
	if v := os.Getenv("CLASSIFIER_API_KEY"); v != "" {
		raw.Classifier.APIKey = v
	}
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Classifier: ClassifierRuntimeConfig{
			Provider:       ClassifierFallback,
			TimeoutSeconds: defaultClassifierTimeout,
			InputSize:      defaultClassifierInputSize,
		},
		Reminders: ReminderRuntimeConfig{
			Enable: true,
			Hour:   defaultReminderHour,
			Minute: defaultReminderMinute,
		},
		Metrics: MetricsRuntimeConfig{
			Enable: true,
			Path:   defaultMetricsPath,
		},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	cfg.Mail = applyRawMailConfig(cfg.Mail, raw.Mail)
	cfg.Classifier = applyRawClassifierConfig(cfg.Classifier, raw.Classifier)

	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := firstNonEmpty(raw.LogDir, raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := firstNonEmpty(raw.UploadDir, raw.Paths.Uploads); v != "" {
		cfg.Paths.Uploads = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if v := firstNonEmpty(raw.SecretKey, raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if v := firstNonEmpty(raw.TZ, raw.Timezone); v != "" {
		cfg.Timezone = v
	}

	if raw.Reminders.Enable != nil {
		cfg.Reminders.Enable = *raw.Reminders.Enable
	}
	if raw.Reminders.Hour != nil {
		cfg.Reminders.Hour = *raw.Reminders.Hour
	}
	if raw.Reminders.Minute != nil {
		cfg.Reminders.Minute = *raw.Reminders.Minute
	}
	if raw.Metrics.Enable != nil {
		cfg.Metrics.Enable = *raw.Metrics.Enable
	}
	if v := strings.TrimSpace(raw.Metrics.Path); v != "" {
		if !strings.HasPrefix(v, "/") {
			v = "/" + v
		}
		cfg.Metrics.Path = v
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
	cfg.Env = normalizeEnv(cfg.Env)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	db := raw.Database

	if v := strings.TrimSpace(db.Driver); v != "" {
		cfg.Driver = v
	}
	if v := firstNonEmpty(raw.DatabaseURL, db.URL, db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(db.Path); v != "" {
		cfg.Path = v
	}
	if v := firstNonEmpty(raw.DBHost, db.Host); v != "" {
		cfg.Host = v
	}
	if raw.DBPort != 0 {
		cfg.Port = raw.DBPort
	} else if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := firstNonEmpty(raw.DBUser, db.Username, db.User); v != "" {
		cfg.User = v
	}
	if v := firstNonEmpty(raw.DBPassword, db.Password); v != "" {
		cfg.Password = v
	}
	if v := firstNonEmpty(raw.DBName, db.DBName, db.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if db.ParseTime != nil {
		cfg.ParseTime = *db.ParseTime
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if db.Params != nil {
		cfg.Params = copyStringMap(db.Params)
	}

	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	rc := raw.Redis

	if rc.Disable != nil {
		cfg.Disable = *rc.Disable
	}
	if v := firstNonEmpty(raw.RedisURL, rc.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(rc.Host); v != "" {
		cfg.Host = v
	}
	if rc.Port != 0 {
		cfg.Port = rc.Port
	}
	if v := strings.TrimSpace(rc.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(rc.Password); v != "" {
		cfg.Password = v
	}
	if rc.DB != nil {
		cfg.DB = *rc.DB
	}
	if rc.TLS != nil {
		cfg.TLS = *rc.TLS
	}
	if v := strings.TrimSpace(rc.Scheme); v != "" {
		cfg.Scheme = v
	}
	if rc.Params != nil {
		cfg.Params = copyStringMap(rc.Params)
	}

	return normalizeRedisConfig(cfg)
}

func applyRawMailConfig(current MailRuntimeConfig, raw rawMailConfig) MailRuntimeConfig {
	cfg := current
	if v := firstNonEmpty(raw.Server, raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := firstNonEmpty(raw.Username, raw.User); v != "" {
		cfg.User = v
	}
	if v := firstNonEmpty(raw.Password, raw.Pass); v != "" {
		cfg.Pass = v
	}
	if v := firstNonEmpty(raw.Sender, raw.From); v != "" {
		cfg.From = v
	}
	if v := strings.TrimSpace(raw.ReplyTo); v != "" {
		cfg.ReplyTo = v
	}
	if v := strings.TrimSpace(raw.ResendKey); v != "" {
		cfg.ResendKey = v
	}
	switch {
	case raw.Enable != nil:
		cfg.Enable = *raw.Enable
	case cfg.Host != "" || cfg.ResendKey != "":
		cfg.Enable = true
	}
	return normalizeMailConfig(cfg)
}

func applyRawClassifierConfig(current ClassifierRuntimeConfig, raw rawClassifierConfig) ClassifierRuntimeConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Provider); v != "" {
		cfg.Provider = v
	}
	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(raw.Model); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(raw.APIKey); v != "" {
		cfg.APIKey = v
	}
	if raw.TimeoutSeconds != 0 {
		cfg.TimeoutSeconds = raw.TimeoutSeconds
	}
	if raw.InputSize != 0 {
		cfg.InputSize = raw.InputSize
	}
	return normalizeClassifierConfig(cfg)
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", "logs")
	}
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

// UploadDir is where checkup images are written.
func (c *AppConfig) UploadDir() string {
	if c == nil {
		return ResolveRuntimePath("", "uploads")
	}
	return ResolveRuntimePath(c.Paths.Uploads, "uploads")
}
