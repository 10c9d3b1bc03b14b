package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-backoffice/internal/domain/appointments"
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if !c.Auth.DevMode() && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 characters"))
	}

	if _, err := c.Clinic.BookingPolicy(); err != nil {
		errs = append(errs, err)
	}

	if c.Reminders.AppointmentLeadDays < 0 {
		errs = append(errs, errors.New("reminders.appointment_lead_days must be >= 0"))
	}
	if c.Reminders.VaccineMaxLeadDays < 1 {
		errs = append(errs, errors.New("reminders.vaccine_max_lead_days must be >= 1"))
	}

	switch c.Email.Driver {
	case "log":
	case "smtp":
		if strings.TrimSpace(c.Email.SMTPHost) == "" {
			errs = append(errs, errors.New("email.smtp_host is required for driver smtp"))
		}
	case "api":
		if c.Email.APIBaseURL == "" || c.Email.APIKey == "" {
			errs = append(errs, errors.New("email.api_base_url and email.api_key are required for driver api"))
		}
	default:
		errs = append(errs, fmt.Errorf("email.driver must be log, smtp or api, got %q", c.Email.Driver))
	}

	return errors.Join(errs...)
}

// Location carga la zona horaria de la clínica.
func (c ClinicConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("clinic.timezone: %w", err)
	}
	return loc, nil
}

// BookingPolicy convierte la sección clinic en la política de agenda.
func (c ClinicConfig) BookingPolicy() (appointments.BookingPolicy, error) {
	loc, err := c.Location()
	if err != nil {
		return appointments.BookingPolicy{}, err
	}
	opens, err := timeOfDay(c.OpensAt)
	if err != nil {
		return appointments.BookingPolicy{}, fmt.Errorf("clinic.opens_at: %w", err)
	}
	closes, err := timeOfDay(c.ClosesAt)
	if err != nil {
		return appointments.BookingPolicy{}, fmt.Errorf("clinic.closes_at: %w", err)
	}
	if closes <= opens {
		return appointments.BookingPolicy{}, errors.New("clinic.closes_at must be after clinic.opens_at")
	}
	days, err := weekdays(c.ClosedDays)
	if err != nil {
		return appointments.BookingPolicy{}, fmt.Errorf("clinic.closed_days: %w", err)
	}
	if c.MaxDaysAhead < 0 {
		return appointments.BookingPolicy{}, errors.New("clinic.max_days_ahead must be >= 0")
	}
	return appointments.BookingPolicy{
		Location:            loc,
		OpensAt:             opens,
		ClosesAt:            closes,
		ClosedDays:          days,
		MaxDaysAhead:        c.MaxDaysAhead,
		SelfServiceConfirms: c.SelfServiceConfirms,
	}, nil
}

func timeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}

// weekdays parsea una lista separada por comas; vacío = abre todos los días.
func weekdays(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		d, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		out = append(out, d)
	}
	return out, nil
}
