package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                     `yaml:"port"`
	Env            string                  `yaml:"env"` // "development" | "production"
	Timezone       string                  `yaml:"timezone"`
	JWTSecret      string                  `yaml:"jwt_secret"`
	AllowedOrigins []string                `yaml:"allowed_origins"`
	DSN            string                  `yaml:"-"`
	RedisURL       string                  `yaml:"-"`
	Database       DatabaseRuntimeConfig   `yaml:"database"`
	Redis          RedisRuntimeConfig      `yaml:"redis"`
	Paths          RuntimePathsConfig      `yaml:"paths"`
	Mail           MailRuntimeConfig       `yaml:"mail"`
	Classifier     ClassifierRuntimeConfig `yaml:"classifier"`
	Reminders      ReminderRuntimeConfig   `yaml:"reminders"`
	Metrics        MetricsRuntimeConfig    `yaml:"metrics"`
}

type DatabaseRuntimeConfig struct {
	Driver    string            `yaml:"driver"` // "mysql" | "sqlite"
	DSN       string            `yaml:"dsn"`
	Path      string            `yaml:"path"` // sqlite file
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Disable  bool              `yaml:"disable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type RuntimePathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

// MailRuntimeConfig selects SMTP or the Resend HTTP API for reminder emails.
type MailRuntimeConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	ResendKey string `yaml:"resend_key"`
}

// ClassifierRuntimeConfig picks the image classifier backend.
type ClassifierRuntimeConfig struct {
	Provider       string `yaml:"provider"` // fallback | tfserving | anthropic | openai
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	InputSize      int    `yaml:"input_size"`
}

// Timeout returns the per-request classifier timeout.
func (c ClassifierRuntimeConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultClassifierTimeout * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReminderRuntimeConfig is the daily clock time of the reminder email job.
type ReminderRuntimeConfig struct {
	Enable bool `yaml:"enable"`
	Hour   int  `yaml:"hour"`
	Minute int  `yaml:"minute"`
}

type MetricsRuntimeConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type rawAppConfig struct {
	Port           int                 `yaml:"port"`
	Env            string              `yaml:"env"`
	Timezone       string              `yaml:"timezone"`
	TZ             string              `yaml:"tz"`
	JWTSecret      string              `yaml:"jwt_secret"`
	SecretKey      string              `yaml:"secret_key"`
	AllowedOrigins []string            `yaml:"allowed_origins"`
	DatabaseURL    string              `yaml:"database_url"`
	RedisURL       string              `yaml:"redis_url"`
	Database       rawDatabaseConfig   `yaml:"database"`
	Redis          rawRedisConfig      `yaml:"redis"`
	DBHost         string              `yaml:"db_host"`
	DBPort         int                 `yaml:"db_port"`
	DBUser         string              `yaml:"db_user"`
	DBPassword     string              `yaml:"db_password"`
	DBName         string              `yaml:"db_name"`
	Paths          rawPathsConfig      `yaml:"paths"`
	LogDir         string              `yaml:"log_dir"`
	UploadDir      string              `yaml:"upload_dir"`
	Mail           rawMailConfig       `yaml:"mail"`
	Classifier     rawClassifierConfig `yaml:"classifier"`
	Reminders      rawReminderConfig   `yaml:"reminders"`
	Metrics        rawMetricsConfig    `yaml:"metrics"`
}

type rawDatabaseConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Path      string            `yaml:"path"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	Disable  *bool             `yaml:"disable"`
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type rawPathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

type rawMailConfig struct {
	Enable    *bool  `yaml:"enable"`
	Server    string `yaml:"server"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Username  string `yaml:"username"`
	Pass      string `yaml:"pass"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	Sender    string `yaml:"default_sender"`
	ReplyTo   string `yaml:"reply_to"`
	ResendKey string `yaml:"resend_key"`
}

type rawClassifierConfig struct {
	Provider       string `yaml:"provider"`
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	InputSize      int    `yaml:"input_size"`
}

type rawReminderConfig struct {
	Enable *bool `yaml:"enable"`
	Hour   *int  `yaml:"hour"`
	Minute *int  `yaml:"minute"`
}

type rawMetricsConfig struct {
	Enable *bool  `yaml:"enable"`
	Path   string `yaml:"path"`
}
