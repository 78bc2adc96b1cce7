package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/DanRulev/vocadrill/internal/bot"
	"github.com/DanRulev/vocadrill/internal/config"
	"github.com/DanRulev/vocadrill/internal/experiment"
	"github.com/DanRulev/vocadrill/internal/jobs"
	"github.com/DanRulev/vocadrill/internal/repository"
	"github.com/DanRulev/vocadrill/internal/scheduler"
	"github.com/DanRulev/vocadrill/internal/service"
	"github.com/DanRulev/vocadrill/internal/storage/cache"
	"github.com/DanRulev/vocadrill/internal/storage/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"go.uber.org/zap"
)

var (
	userID    int64
	variant   string
	sessionID string
)

var rootCmd = &cobra.Command{
	Use:          "vocadrill",
	Short:        "Adaptive vocabulary drill scheduler",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and background jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the ordering of the configured deck for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		return schedule(cmd)
	},
}

var variantCmd = &cobra.Command{
	Use:   "variant",
	Short: "Print the variant a session id is assigned to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("failed load config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), experiment.NewAssigner(cfg.Experiment.Variants).Assign(sessionID))
		return nil
	},
}

func init() {
	scheduleCmd.Flags().Int64Var(&userID, "user", 0, "learner id")
	scheduleCmd.Flags().StringVar(&variant, "variant", experiment.VariantAdaptive, "scheduling variant")
	_ = scheduleCmd.MarkFlagRequired("user")

	variantCmd.Flags().StringVar(&sessionID, "session", "", "session id")
	_ = variantCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(serveCmd, scheduleCmd, variantCmd)
}

func setupLogger(env string) *zap.Logger {
	var logger *zap.Logger
	if env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *sqlx.DB
	services *service.Service
}

func bootstrap() (*app, error) {
	cfg, err := config.Init()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}

	logger := setupLogger(cfg.Env)

	var (
		conn *sqlx.DB
		kv   repository.KV
	)
	if cfg.DB.Driver == "memory" {
		logger.Warn("using in-memory store, progress is lost on exit")
		kv = cache.NewKV()
	} else {
		conn, err = db.InitDB(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed init db: %w", err)
		}
		kv = repository.NewKVRepository(conn)
	}

	repos := repository.NewRepository(kv, repository.Limits{
		SessionLogCapacity: cfg.Experiment.SessionLogCapacity,
		ModelMaxBytes:      cfg.Model.MaxBytes,
	}, logger)

	services := service.InitServices(cfg, repos, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.Timeout)
	defer cancel()
	services.LoadModel(ctx)
	services.LoadGuardState(ctx)

	return &app{cfg: cfg, logger: logger, db: conn, services: services}, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func serve() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	defer a.logger.Sync() //nolint:errcheck

	background := jobs.New(a.services, jobs.Config{
		PersistInterval: a.cfg.Model.PersistInterval,
		Timeout:         a.cfg.App.Timeout,
	}, a.logger)
	if err := background.Start(); err != nil {
		return err
	}
	defer background.Stop()

	handler, err := bot.NewTelegramAPI(a.cfg.BotToken, a.cfg.Env, a.services, cache.NewCache(), a.cfg.Deck, a.logger)
	if err != nil {
		return fmt.Errorf("failed init bot: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go handler.Start()
	a.logger.Info("bot started", zap.Int("deck_size", len(a.cfg.Deck)))

	<-ctx.Done()
	handler.Stop()
	a.logger.Info("shutting down")

	return nil
}

func schedule(cmd *cobra.Command) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.App.Timeout)
	defer cancel()

	out := a.services.Preview(ctx, userID, a.cfg.Deck, variant)
	printSchedule(cmd, out)
	return nil
}

func printSchedule(cmd *cobra.Command, out scheduler.Output) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tITEM\tCATEGORY\tBASE\tTIME\tCONFIDENCE\tRISK\tPRIORITY\tNOTES")
	for i, b := range out.Breakdowns {
		notes := string(b.Emergency)
		if len(b.Rejected) > 0 {
			notes = strings.TrimSpace(notes + " rejected:" + strings.Join(b.Rejected, ","))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%+.1f\t%.1f\t%d\t%.1f\t%s\n",
			i+1, b.ItemID, b.Category, b.Base, b.TimeTerm, -b.ConfidenceTerm, b.Retention.ForgettingRisk, b.Priority, notes)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\nvibration: %.1f (%s)", out.VibrationScore, out.Vibration.Level)
	if out.RecommendedAction != "" {
		fmt.Fprintf(cmd.OutOrStdout(), ", recommended: %s", out.RecommendedAction)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
