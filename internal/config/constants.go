package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 5000
	defaultEnv        = "development"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	defaultDBDriver   = DriverMySQL
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "dental_tracker"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "dental_tracker.db"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultMailPort = 587
	defaultMailFrom = "Dental Tracker <noreply@localhost>"

	ClassifierFallback  = "fallback"
	ClassifierTFServing = "tfserving"
	ClassifierAnthropic = "anthropic"
	ClassifierOpenAI    = "openai"

	defaultClassifierModel     = "dental_mobilenet"
	defaultClassifierTimeout   = 30
	defaultClassifierInputSize = 224

	defaultReminderHour   = 8
	defaultReminderMinute = 0

	defaultMetricsPath = "/metrics"
)
