package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/yessbangal/agency-web/cmd/agencyctl/cli"
	"github.com/yessbangal/agency-web/internal/app"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/platform/cache"
	"github.com/yessbangal/agency-web/internal/platform/db"
	"github.com/yessbangal/agency-web/internal/roles"
	"github.com/yessbangal/agency-web/internal/settings"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/migrations"
)

const usage = `usage: agencyctl <command>

  migrate                       apply pending SQL migrations
  settings set <key> <value>    update a site setting
  role assign <email> <role>    grant admin, manager, staff or customer
  jobs trigger <name>           enqueue sessions:prune or idempotency:cleanup
  jobs stats                    show default queue depth
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger, args); err != nil {
		logger.Error("agencyctl", slog.String("command", args[0]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) error {
	switch {
	case args[0] == "jobs" && len(args) >= 2:
		return runJobs(ctx, cfg, args[1:])
	case args[0] == "migrate", args[0] == "settings", args[0] == "role":
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch {
	case args[0] == "migrate":
		return db.Migrate(ctx, pool, migrations.FS, logger)
	case args[0] == "settings" && len(args) == 4 && args[1] == "set":
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		ops := &cli.OpsCLI{Settings: settings.NewService(settings.NewPGStore(pool), redisClient, cfg.SettingsCacheTTL, logger)}
		if err := ops.SetSetting(ctx, args[2], args[3]); err != nil {
			return err
		}
		fmt.Printf("%s updated\n", args[2])
		return nil
	case args[0] == "role" && len(args) == 4 && args[1] == "assign":
		rolesRepo := roles.NewRepository(pool)
		ops := &cli.OpsCLI{
			Accounts: auth.NewRepository(pool),
			Roles:    roles.NewService(rolesRepo, shared.NewAuditLogger(pool), logger),
		}
		role, err := ops.AssignRole(ctx, args[2], args[3])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", args[2], role)
		return nil
	}
	flag.Usage()
	return fmt.Errorf("invalid arguments for %q", args[0])
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
	defer jobsCLI.Close()

	switch {
	case args[0] == "trigger" && len(args) == 2:
		info, err := jobsCLI.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s (%s)\n", info.Type, info.ID)
		return nil
	case args[0] == "stats":
		stats, err := jobsCLI.InspectQueue()
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Failed)
		return nil
	}
	flag.Usage()
	return fmt.Errorf("invalid jobs arguments")
}
