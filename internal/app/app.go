package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"vet-backoffice/internal/adapters/auth/jwtverifier"
	"vet-backoffice/internal/adapters/email/httpapi"
	"vet-backoffice/internal/adapters/email/logsender"
	"vet-backoffice/internal/adapters/email/smtp"
	pg "vet-backoffice/internal/adapters/storage/postgres"
	"vet-backoffice/internal/config"
	"vet-backoffice/internal/domain/reminders"
	"vet-backoffice/internal/platform/logger"
	"vet-backoffice/internal/ports/auth"
	"vet-backoffice/internal/ports/email"
	"vet-backoffice/internal/router"
)

// App es el proceso armado a partir de la configuración. Lo usan el API y el job.
type App struct {
	Config   *config.Config
	Log      logger.Logger
	DB       *sql.DB // nil = memoria
	Options  router.Options
	Services *router.Services
}

func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	policy, err := cfg.Clinic.BookingPolicy()
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = pg.Open(ctx, cfg.Database.DSN, pg.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.MigrateOnStart {
			if err := pg.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info("migrations applied", nil)
		}
	} else {
		log.Warn("DB_DSN not set, using in-memory store", nil)
	}

	sender, err := NewEmailSender(cfg.Email, log)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	var verifier auth.AuthVerifier
	if cfg.Auth.DevMode() {
		log.Warn("auth running in dev mode (X-Debug-User-ID)", nil)
	} else {
		v, err := jwtverifier.New(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, err
		}
		verifier = v
	}

	opts := router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Logger:       log,
		Location:     policy.Location,
		ClinicName:   cfg.Clinic.Name,
		Booking:      policy,
		Reminders: reminders.Policy{
			AppointmentLeadDays: cfg.Reminders.AppointmentLeadDays,
			VaccineMaxLeadDays:  cfg.Reminders.VaccineMaxLeadDays,
		},
		EmailSender:  sender,
		EmailTimeout: cfg.Reminders.EmailTimeout,
		Swagger:      cfg.Server.Swagger,
	}

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Options:  opts,
		Services: router.NewServices(opts),
	}, nil
}

func (a *App) Handler() http.Handler {
	return router.NewHandler(a.Services, a.Options)
}

// Close espera los emails en vuelo y cierra el pool.
func (a *App) Close() error {
	a.Services.Mailer.Wait()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// NewEmailSender elige el canal de email según email.driver.
func NewEmailSender(cfg config.EmailConfig, log logger.Logger) (email.Sender, error) {
	switch cfg.Driver {
	case "smtp":
		s, err := smtp.New(smtp.Config{
			Host:               cfg.SMTPHost,
			Port:               cfg.SMTPPort,
			Username:           cfg.SMTPUsername,
			Password:           cfg.SMTPPassword,
			From:               cfg.From,
			InsecureSkipVerify: cfg.SMTPInsecure,
			Timeout:            10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("email smtp: %w", err)
		}
		return s, nil
	case "api":
		s, err := httpapi.New(httpapi.Config{
			BaseURL: cfg.APIBaseURL,
			APIKey:  cfg.APIKey,
			From:    cfg.From,
			Timeout: 10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("email api: %w", err)
		}
		return s, nil
	default:
		return logsender.New(log), nil
	}
}
