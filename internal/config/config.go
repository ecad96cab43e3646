package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Overdue OverdueConfig
	PO      POConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider          string `mapstructure:"provider"`
	Region            string `mapstructure:"region"`
	FromAddress       string `mapstructure:"from_address"`
	FromName          string `mapstructure:"from_name"`
	FrontendURL       string `mapstructure:"frontend_url"`
	EscalationAddress string `mapstructure:"escalation_address"`
}

// OverdueConfig holds overdue monitor settings.
type OverdueConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	PollIntervalSecs int           `mapstructure:"poll_interval_secs"`
	Threshold        time.Duration `mapstructure:"threshold"`
	BatchSize        int           `mapstructure:"batch_size"`
}

// POConfig holds purchase order document settings.
type POConfig struct {
	CompanyName    string   `mapstructure:"company_name"`
	CompanyAddress string   `mapstructure:"company_address"`
	GSTPercent     string   `mapstructure:"gst_percent"`
	DefaultTerms   []string `mapstructure:"default_terms"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadDotEnv loads a .env file into the process environment when one exists.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Load reads configuration from environment variables with the INDENTFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INDENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "indentflow")
	v.SetDefault("db.password", "indentflow_secret")
	v.SetDefault("db.name", "indentflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "indentflow")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "indentflow-files")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "purchase@indentflow.local")
	v.SetDefault("email.from_name", "Purchase Department")
	v.SetDefault("email.frontend_url", "http://localhost:3000")
	v.SetDefault("email.escalation_address", "")

	// Overdue monitor defaults
	v.SetDefault("overdue.enabled", true)
	v.SetDefault("overdue.poll_interval_secs", 900)
	v.SetDefault("overdue.threshold", "48h")
	v.SetDefault("overdue.batch_size", 200)

	// Purchase order defaults
	v.SetDefault("po.company_name", "IndentFlow Industries")
	v.SetDefault("po.company_address", "")
	v.SetDefault("po.gst_percent", "18")
	v.SetDefault("po.default_terms", "Goods must match the ordered specification.|Invoice must quote the PO number.|Delivery at our store during working hours.")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "INDENTFLOW_SERVER_PORT",
		"server.read_timeout":        "INDENTFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "INDENTFLOW_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":    "INDENTFLOW_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":         "INDENTFLOW_SERVER_ENVIRONMENT",
		"db.host":                    "INDENTFLOW_DB_HOST",
		"db.port":                    "INDENTFLOW_DB_PORT",
		"db.user":                    "INDENTFLOW_DB_USER",
		"db.password":                "INDENTFLOW_DB_PASSWORD",
		"db.name":                    "INDENTFLOW_DB_NAME",
		"db.sslmode":                 "INDENTFLOW_DB_SSLMODE",
		"db.max_open":                "INDENTFLOW_DB_MAX_OPEN",
		"db.max_idle":                "INDENTFLOW_DB_MAX_IDLE",
		"jwt.secret":                 "INDENTFLOW_JWT_SECRET",
		"jwt.access_expiry":          "INDENTFLOW_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "INDENTFLOW_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "INDENTFLOW_JWT_ISSUER",
		"s3.region":                  "INDENTFLOW_S3_REGION",
		"s3.bucket":                  "INDENTFLOW_S3_BUCKET",
		"s3.endpoint":                "INDENTFLOW_S3_ENDPOINT",
		"s3.access_key":              "INDENTFLOW_S3_ACCESS_KEY",
		"s3.secret_key":              "INDENTFLOW_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "INDENTFLOW_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":          "INDENTFLOW_S3_PRESIGN_EXPIRY",
		"log.level":                  "INDENTFLOW_LOG_LEVEL",
		"log.format":                 "INDENTFLOW_LOG_FORMAT",
		"cors.allowed_origins":       "INDENTFLOW_CORS_ALLOWED_ORIGINS",
		"email.provider":             "INDENTFLOW_EMAIL_PROVIDER",
		"email.region":               "INDENTFLOW_EMAIL_REGION",
		"email.from_address":         "INDENTFLOW_EMAIL_FROM_ADDRESS",
		"email.from_name":            "INDENTFLOW_EMAIL_FROM_NAME",
		"email.frontend_url":         "INDENTFLOW_EMAIL_FRONTEND_URL",
		"email.escalation_address":   "INDENTFLOW_EMAIL_ESCALATION_ADDRESS",
		"overdue.enabled":            "INDENTFLOW_OVERDUE_ENABLED",
		"overdue.poll_interval_secs": "INDENTFLOW_OVERDUE_POLL_INTERVAL_SECS",
		"overdue.threshold":          "INDENTFLOW_OVERDUE_THRESHOLD",
		"overdue.batch_size":         "INDENTFLOW_OVERDUE_BATCH_SIZE",
		"po.company_name":            "INDENTFLOW_PO_COMPANY_NAME",
		"po.company_address":         "INDENTFLOW_PO_COMPANY_ADDRESS",
		"po.gst_percent":             "INDENTFLOW_PO_GST_PERCENT",
		"po.default_terms":           "INDENTFLOW_PO_DEFAULT_TERMS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if INDENTFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INDENTFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins"), ","),
	}
	cfg.Email = EmailConfig{
		Provider:          v.GetString("email.provider"),
		Region:            v.GetString("email.region"),
		FromAddress:       v.GetString("email.from_address"),
		FromName:          v.GetString("email.from_name"),
		FrontendURL:       v.GetString("email.frontend_url"),
		EscalationAddress: v.GetString("email.escalation_address"),
	}
	cfg.Overdue = OverdueConfig{
		Enabled:          v.GetBool("overdue.enabled"),
		PollIntervalSecs: v.GetInt("overdue.poll_interval_secs"),
		Threshold:        v.GetDuration("overdue.threshold"),
		BatchSize:        v.GetInt("overdue.batch_size"),
	}
	cfg.PO = POConfig{
		CompanyName:    v.GetString("po.company_name"),
		CompanyAddress: v.GetString("po.company_address"),
		GSTPercent:     v.GetString("po.gst_percent"),
		DefaultTerms:   splitList(v.GetString("po.default_terms"), "|"),
	}

	if cfg.Overdue.PollIntervalSecs <= 0 {
		return nil, fmt.Errorf("overdue.poll_interval_secs must be positive, got %d", cfg.Overdue.PollIntervalSecs)
	}

	return cfg, nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, s := range strings.Split(raw, sep) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
