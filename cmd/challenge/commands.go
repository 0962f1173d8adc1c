package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/raid-challenge/app"
	"github.com/Black-And-White-Club/raid-challenge/app/eventbus"
	"github.com/Black-And-White-Club/raid-challenge/app/eventdate"
	auditservice "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/application"
	auditdb "github.com/Black-And-White-Club/raid-challenge/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/modules/backup"
	backupservice "github.com/Black-And-White-Club/raid-challenge/app/modules/backup/application"
	challengeservice "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/application"
	challengedb "github.com/Black-And-White-Club/raid-challenge/app/modules/challenge/infrastructure/repositories"
	"github.com/Black-And-White-Club/raid-challenge/app/observability"
	"github.com/Black-And-White-Club/raid-challenge/app/observability/attr"
	"github.com/Black-And-White-Club/raid-challenge/config"
	pkgjwt "github.com/Black-And-White-Club/raid-challenge/pkg/jwt"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

// env is the configuration and observability shared by every command.
type env struct {
	cfg *config.Config
	obs *observability.Observability
}

func load(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &env{cfg: cfg, obs: observability.New(config.ToObsConfig(cfg))}, nil
}

func (e *env) openDB(ctx context.Context) (*bun.DB, error) {
	return app.NewDB(ctx, e.cfg.Postgres.DSN)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the HTTP API and run the backup scheduler",
		Action: func(c *cli.Context) error {
			e, err := load(c)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, e.cfg, e.obs)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Run(ctx)
		},
	}
}

func backupCommand() *cli.Command {
	withService := func(c *cli.Context, fn func(ctx context.Context, svc backupservice.Service, cfg *config.Config) error) error {
		e, err := load(c)
		if err != nil {
			return err
		}
		db, err := e.openDB(c.Context)
		if err != nil {
			return err
		}
		defer db.Close()

		svc, err := backup.NewService(c.Context, e.cfg, e.obs, challengedb.NewRepository(db))
		if err != nil {
			return err
		}
		return fn(c.Context, svc, e.cfg)
	}

	return &cli.Command{
		Name:  "backup",
		Usage: "database snapshots",
		Subcommands: []*cli.Command{
			{
				Name:  "now",
				Usage: "write today's snapshot",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "rewrite today's snapshot if it exists"},
				},
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc backupservice.Service, cfg *config.Config) error {
						create := svc.CreateSnapshot
						if c.Bool("force") {
							create = svc.RefreshSnapshot
						}
						snap, err := create(ctx)
						if err != nil {
							return err
						}
						return printJSON(snap)
					})
				},
			},
			{
				Name:  "cleanup",
				Usage: "remove old snapshots",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "keep-days", Value: -1, Usage: "days to keep (default: backup.manual_retention_days)"},
				},
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc backupservice.Service, cfg *config.Config) error {
						keep := c.Int("keep-days")
						if keep < 0 {
							keep = cfg.Backup.ManualRetentionDays
						}
						removed, err := svc.Cleanup(ctx, keep)
						if err != nil {
							return err
						}
						fmt.Printf("Removed %d snapshot(s)\n", removed)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "list recent snapshots",
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc backupservice.Service, cfg *config.Config) error {
						list, err := svc.Status(ctx)
						if err != nil {
							return err
						}
						for _, s := range list {
							fmt.Printf("%s - %s (%s)\n", s.Filename, s.Date, s.Size)
						}
						return nil
					})
				},
			},
		},
	}
}

func maintenanceCommand() *cli.Command {
	withService := func(c *cli.Context, fn func(ctx context.Context, svc challengeservice.Service) error) error {
		e, err := load(c)
		if err != nil {
			return err
		}
		db, err := e.openDB(c.Context)
		if err != nil {
			return err
		}
		defer db.Close()

		bus := eventbus.NewEventBus(e.obs.Logger)
		defer bus.Close()

		tracer := e.obs.Tracer("maintenance")
		audit := auditservice.NewAuditService(auditdb.NewRepository(db), e.obs.Logger, nil, tracer)
		svc := challengeservice.NewChallengeService(
			challengedb.NewRepository(db),
			audit,
			bus,
			eventdate.NewParser(eventdate.RealClock{}),
			e.obs.Logger,
			nil,
			tracer,
			db,
		)
		return fn(attr.WithActor(c.Context, "cli"), svc)
	}

	return &cli.Command{
		Name:  "maintenance",
		Usage: "find and repair bad data",
		Subcommands: []*cli.Command{
			{
				Name:  "invalid",
				Usage: "list participants with unusable names",
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc challengeservice.Service) error {
						rows, err := svc.InvalidParticipants(ctx)
						if err != nil {
							return err
						}
						return printJSON(rows)
					})
				},
			},
			{
				Name:  "clean",
				Usage: "delete participants with unusable names and their results",
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc challengeservice.Service) error {
						n, err := svc.CleanInvalidParticipants(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("Deleted %d participant(s)\n", n)
						return nil
					})
				},
			},
			{
				Name:  "aberrant",
				Usage: "list results above the points ceiling",
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc challengeservice.Service) error {
						rows, err := svc.AberrantResults(ctx)
						if err != nil {
							return err
						}
						return printJSON(rows)
					})
				},
			},
			{
				Name:  "fix",
				Usage: "recompute points of aberrant results from their rank",
				Action: func(c *cli.Context) error {
					return withService(c, func(ctx context.Context, svc challengeservice.Service) error {
						n, err := svc.FixAberrantResults(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("Fixed %d result(s)\n", n)
						return nil
					})
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an operator token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Value: string(pkgjwt.RoleViewer), Usage: "viewer or editor"},
			&cli.StringFlag{Name: "subject", Required: true, Usage: "operator name recorded in the audit log"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (default: jwt.default_ttl)"},
		},
		Action: func(c *cli.Context) error {
			e, err := load(c)
			if err != nil {
				return err
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = e.cfg.JWT.DefaultTTL
			}
			tokens := pkgjwt.NewService(e.cfg.JWT.Secret, e.cfg.JWT.DefaultTTL)
			token, err := tokens.GenerateToken(c.String("subject"), pkgjwt.Role(c.String("role")), ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(ttl).Format(time.RFC3339))
			return nil
		},
	}
}
