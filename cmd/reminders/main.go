// Command reminders ejecuta una pasada de recordatorios y cumpleaños y termina.
// Pensado para cron: una vez al día en la zona horaria de la clínica.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vet-backoffice/internal/app"
	"vet-backoffice/internal/config"
	"vet-backoffice/internal/platform/logger"

	"github.com/golang-sql/civil"
	"github.com/joho/godotenv"
)

func main() {
	date := flag.String("date", "", "día a procesar (YYYY-MM-DD); por defecto hoy en la zona de la clínica")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Options(os.Stdout)).With(map[string]any{"job": "reminder-pass"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	today := civil.DateOf(time.Now().In(a.Options.Location))
	if *date != "" {
		today, err = civil.ParseDate(*date)
		if err != nil {
			log.Error("invalid -date", map[string]any{"value": *date})
			os.Exit(2)
		}
	}

	res, runErr := a.Services.Pass.Run(ctx, today)
	if err := a.Close(); err != nil {
		log.Error("close", map[string]any{"error": err.Error()})
	}

	total := res.Total()
	fields := map[string]any{
		"date":      today.String(),
		"processed": total.Processed,
		"sent":      total.Sent,
		"skipped":   total.Skipped,
		"errors":    total.Errors,
	}
	if runErr != nil {
		fields["error"] = runErr.Error()
		log.Error("reminder pass failed", fields)
		os.Exit(1)
	}
	log.Info("reminder pass done", fields)
}
