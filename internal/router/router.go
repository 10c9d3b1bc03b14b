package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "vet-backoffice/docs"
	"vet-backoffice/internal/adapters/email/logsender"
	mem "vet-backoffice/internal/adapters/storage/memory"
	pg "vet-backoffice/internal/adapters/storage/postgres"
	"vet-backoffice/internal/domain"
	"vet-backoffice/internal/domain/appointments"
	"vet-backoffice/internal/domain/clients"
	"vet-backoffice/internal/domain/events"
	"vet-backoffice/internal/domain/notifications"
	"vet-backoffice/internal/domain/pets"
	"vet-backoffice/internal/domain/reminders"
	"vet-backoffice/internal/domain/staff"
	"vet-backoffice/internal/domain/vaccines"
	"vet-backoffice/internal/middleware"
	"vet-backoffice/internal/platform/logger"
	"vet-backoffice/internal/platform/mailer"
	"vet-backoffice/internal/ports/auth"
	"vet-backoffice/internal/ports/email"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger     logger.Logger
	Location   *time.Location
	ClinicName string

	// Booking con Location nil usa DefaultBookingPolicy en Location.
	Booking   appointments.BookingPolicy
	Reminders reminders.Policy

	// EmailSender nil = solo loguea.
	EmailSender  email.Sender
	EmailTimeout time.Duration

	Swagger bool
}

// Services es el grafo de dependencias ya armado. Lo comparten el API y el job de recordatorios.
type Services struct {
	Clients       *clients.Service
	Staff         *staff.Service
	Pets          *pets.Service
	Vaccines      *vaccines.Service
	Appointments  *appointments.Service
	Notifications *notifications.Service
	Reminders     *reminders.Service
	Pass          *reminders.Pass
	Mailer        *mailer.Async
	Bus           *events.Bus
}

type repos struct {
	uow           domain.UnitOfWork
	clients       clients.Repository
	staff         staff.Repository
	pets          pets.Repository
	vaccines      vaccines.Repository
	appointments  appointments.Repository
	notifications notifications.Repository
	reminders     reminders.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			uow:           pg.NewTxManager(db),
			clients:       pg.NewClientsRepo(db),
			staff:         pg.NewStaffRepo(db),
			pets:          pg.NewPetsRepo(db),
			vaccines:      pg.NewVaccinesRepo(db),
			appointments:  pg.NewAppointmentsRepo(db),
			notifications: pg.NewNotificationsRepo(db),
			reminders:     pg.NewRemindersRepo(db),
		}
	}
	return repos{
		uow:           mem.NewTxManager(),
		clients:       mem.NewClientRepo(),
		staff:         mem.NewStaffRepo(),
		pets:          mem.NewPetRepo(),
		vaccines:      mem.NewVaccineRepo(),
		appointments:  mem.NewAppointmentRepo(),
		notifications: mem.NewNotificationRepo(),
		reminders:     mem.NewReminderRepo(),
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Booking.Location == nil {
		p := appointments.DefaultBookingPolicy()
		p.Location = o.Location
		o.Booking = p
	}
	if o.Reminders == (reminders.Policy{}) {
		o.Reminders = reminders.DefaultPolicy()
	}
	if o.EmailSender == nil {
		o.EmailSender = logsender.New(o.Logger)
	}
	return o
}

func NewServices(opts Options) *Services {
	opts = opts.withDefaults()
	rp := newRepos(opts.DB)
	log := opts.Logger

	bus := events.NewBus(rp.uow, log)

	clientsSvc := clients.NewService(rp.clients)
	staffSvc := staff.NewService(rp.staff)
	petsSvc := pets.NewService(rp.pets, clientsSvc, rp.uow, bus)
	vaccinesSvc := vaccines.NewService(rp.vaccines, petsSvc, rp.uow, bus, opts.Location)
	appointmentsSvc := appointments.NewService(rp.appointments, petsSvc, rp.uow, bus, opts.Booking, log)

	notificationsSvc := notifications.NewService(rp.notifications, clientsSvc, staffSvc, notifications.NewFanOut(opts.Location))
	remindersSvc := reminders.NewService(rp.reminders, reminders.NewMapper(opts.Reminders, opts.Location), petsSvc, opts.Location, log)

	// Orden de suscripción = orden de entrega.
	bus.Subscribe("reminders", remindersSvc)
	bus.Subscribe("notifications", notificationsSvc)

	mail := mailer.NewAsync(opts.EmailSender, opts.EmailTimeout, log)
	dispatcher := reminders.NewDispatcher(rp.reminders, notificationsSvc, clientsSvc, rp.uow, mail,
		reminders.DispatcherConfig{ClinicName: opts.ClinicName, Location: opts.Location}, log)
	birthdays := reminders.NewBirthdayGenerator(petsSvc, notificationsSvc, clientsSvc, rp.uow, mail, opts.ClinicName, log)

	return &Services{
		Clients:       clientsSvc,
		Staff:         staffSvc,
		Pets:          petsSvc,
		Vaccines:      vaccinesSvc,
		Appointments:  appointmentsSvc,
		Notifications: notificationsSvc,
		Reminders:     remindersSvc,
		Pass:          reminders.NewPass(dispatcher, birthdays),
		Mailer:        mail,
		Bus:           bus,
	}
}

func NewRouter(opts Options) http.Handler {
	return NewHandler(NewServices(opts), opts)
}

func NewHandler(svc *Services, opts Options) http.Handler {
	opts = opts.withDefaults()
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		clients.RegisterRoutes(r, svc.Clients)
		staff.RegisterRoutes(r, svc.Staff)
		pets.RegisterRoutes(r, svc.Pets)
		vaccines.RegisterRoutes(r, svc.Vaccines, svc.Pets)
		appointments.RegisterRoutes(r, svc.Appointments, svc.Pets)
		notifications.RegisterRoutes(r, svc.Notifications)
		reminders.RegisterRoutes(r, svc.Reminders, svc.Pass, opts.Location)
	})

	return r
}
