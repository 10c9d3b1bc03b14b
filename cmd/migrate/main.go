package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	pg "vet-backoffice/internal/adapters/storage/postgres"
	"vet-backoffice/internal/config"
	"vet-backoffice/internal/platform/logger"

	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|status]")
	}
	flag.Parse()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Options(os.Stdout))

	if cfg.Database.DSN == "" {
		log.Error("DB_DSN is required", nil)
		os.Exit(1)
	}

	if err := run(context.Background(), cmd, cfg, log); err != nil {
		log.Error("migrate failed", map[string]any{"cmd": cmd, "error": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, cfg *config.Config, log logger.Logger) error {
	db, err := pg.Open(ctx, cfg.Database.DSN, pg.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := pg.NewMigrator(db)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		res, err := p.Up(ctx)
		if err != nil {
			return err
		}
		log.Info("migrations applied", map[string]any{"count": len(res)})
	case "down":
		res, err := p.Down(ctx)
		if err != nil {
			return err
		}
		log.Info("migration rolled back", map[string]any{"version": res.Source.Version})
	case "status":
		st, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range st {
			log.Info("migration", map[string]any{"version": s.Source.Version, "state": string(s.State), "path": s.Source.Path})
		}
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
