package config

import (
	"io"
	"time"
	_ "time/tzdata"

	"vet-backoffice/internal/platform/logger"
)

// Config es la configuración raíz. Prioridad: ENV > YAML > env-default.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Clinic    ClinicConfig    `yaml:"clinic"`
	Reminders RemindersConfig `yaml:"reminders"`
	Email     EmailConfig     `yaml:"email"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	Swagger         bool          `yaml:"swagger"          env:"SERVER_SWAGGER"          env-default:"true"`
}

// DatabaseConfig: DSN vacío = store en memoria.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DB_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns"     env:"DB_MAX_OPEN_CONNS"     env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns"     env:"DB_MAX_IDLE_CONNS"     env-default:"5"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME" env-default:"5m"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"  env:"DB_CONN_MAX_LIFETIME"  env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DB_MIGRATE_ON_START"   env-default:"false"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	App    string `yaml:"app"    env:"LOG_APP"    env-default:"vet-backoffice"`
}

func (l LogConfig) Options(out io.Writer) logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(l.Level),
		Format: logger.ParseFormat(l.Format),
		App:    l.App,
		Output: out,
	}
}

// AuthConfig: sin secreto el API corre en modo dev (X-Debug-User-ID).
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"vet-backoffice"`
}

func (a AuthConfig) DevMode() bool { return a.JWTSecret == "" }

type ClinicConfig struct {
	Name                string `yaml:"name"                  env:"CLINIC_NAME"                  env-default:"Clínica Veterinaria"`
	Timezone            string `yaml:"timezone"              env:"CLINIC_TIMEZONE"              env-default:"America/Bogota"`
	OpensAt             string `yaml:"opens_at"              env:"CLINIC_OPENS_AT"              env-default:"08:00"`
	ClosesAt            string `yaml:"closes_at"             env:"CLINIC_CLOSES_AT"             env-default:"18:00"`
	ClosedDays          string `yaml:"closed_days"           env:"CLINIC_CLOSED_DAYS"           env-default:"sunday"`
	MaxDaysAhead        int    `yaml:"max_days_ahead"        env:"CLINIC_MAX_DAYS_AHEAD"        env-default:"30"`
	SelfServiceConfirms bool   `yaml:"self_service_confirms" env:"CLINIC_SELF_SERVICE_CONFIRMS" env-default:"true"`
}

type RemindersConfig struct {
	AppointmentLeadDays int           `yaml:"appointment_lead_days" env:"REMINDERS_APPOINTMENT_LEAD_DAYS" env-default:"1"`
	VaccineMaxLeadDays  int           `yaml:"vaccine_max_lead_days" env:"REMINDERS_VACCINE_MAX_LEAD_DAYS" env-default:"7"`
	EmailTimeout        time.Duration `yaml:"email_timeout"         env:"REMINDERS_EMAIL_TIMEOUT"         env-default:"15s"`
}

// EmailConfig: driver log (default), smtp o api.
type EmailConfig struct {
	Driver string `yaml:"driver" env:"EMAIL_DRIVER" env-default:"log"`
	From   string `yaml:"from"   env:"EMAIL_FROM"   env-default:"no-reply@clinica.local"`

	SMTPHost     string `yaml:"smtp_host"     env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port"     env:"SMTP_PORT"     env-default:"587"`
	SMTPUsername string `yaml:"smtp_username" env:"SMTP_USERNAME"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	SMTPInsecure bool   `yaml:"smtp_insecure" env:"SMTP_INSECURE" env-default:"false"`

	APIBaseURL string `yaml:"api_base_url" env:"EMAIL_API_BASE_URL"`
	APIKey     string `yaml:"api_key"      env:"EMAIL_API_KEY"`
}
