package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/jobtrail-backend/internal/app"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

var version = "dev"

var (
	configPath string
	log        *logger.Logger
	cfg        app.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "jobtrail",
	Short:         "Job-search progress engine",
	Long:          "jobtrail maintains streaks, weekly goals, quests and notifications for job seekers and scores CVs against job descriptions.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv("JOBTRAIL_CONFIG", configPath); err != nil {
				return err
			}
		}
		mode := os.Getenv("LOG_MODE")
		if mode == "" {
			mode = "development"
		}
		var err error
		log, err = logger.New(mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg, err = app.LoadConfig(log)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML overlay with scoring, goal and scorer tunables")

	workerCmd.Flags().DurationVar(&sweepEvery, "sweep-every", 0, "Also enqueue reminder sweeps on this interval (0 disables)")
	scoreCmd.Flags().StringVar(&resumePath, "resume", "", "Path to the resume text")
	scoreCmd.Flags().StringVar(&jdPath, "jd", "", "Path to the job description text")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scoreCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		a, err := app.New(ctx, log, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Migrate()
	},
}

var sweepEvery time.Duration

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the job worker until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		a, err := app.New(ctx, log, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Migrate(); err != nil {
			return err
		}

		a.Metrics.StartServer(ctx, log, cfg.MetricsAddr)
		a.Metrics.StartQueueDepthSampler(ctx, a.DB, log, 15*time.Second)
		if sweepEvery > 0 {
			go runSweeps(ctx, a, sweepEvery)
		}
		log.Info("worker started", "concurrency", cfg.Worker.Concurrency)
		a.Worker.Run(ctx)
		log.Info("worker stopped")
		return nil
	},
}

func runSweeps(ctx context.Context, a *app.App, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Sweeper.Sweep(ctx, time.Now().UTC())
			if err != nil {
				log.Warn("reminder sweep failed", "error", err, "enqueued", n)
				continue
			}
			log.Debug("reminder sweep", "enqueued", n)
		}
	}
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Enqueue one reminder pass per user",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		a, err := app.New(ctx, log, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		n, err := a.Sweeper.Sweep(ctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		fmt.Printf("Enqueued %d reminder sweeps\n", n)
		return nil
	},
}

var (
	resumePath string
	jdPath     string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		resume, err := os.ReadFile(resumePath)
		if err != nil {
			return fmt.Errorf("reading resume: %w", err)
		}
		jd, err := os.ReadFile(jdPath)
		if err != nil {
			return fmt.Errorf("reading job description: %w", err)
		}
		res, err := app.NewAnalyzer(log, cfg).Analyze(cmd.Context(), string(resume), string(jd))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}
