package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ai-fitness-coach/internal/app"
	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/posture"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const logFileName = "fitness-coach.log"

// runtime holds what the subcommands share once the root command has
// loaded the configuration.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	services *app.Services
	profiles *profile.Store
	camera   posture.Camera
	app      *app.App
}

func (rt *runtime) setup(ctx context.Context, interactive bool) error {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := newLogger(cfg, interactive)
	if err != nil {
		return err
	}
	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = logger
	rt.services = services
	rt.profiles = profile.NewStore(services.KV)
	rt.camera = posture.NewDeviceCamera(cfg.CameraDevice)
	rt.app = app.NewApp(rt.profiles, services.Planner, rt.camera, services.Metrics, cfg, os.Stdout, logger)
	return nil
}

// newLogger logs to a file next to the database while the terminal UI owns
// the screen, and to stderr otherwise.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	if !interactive {
		return logging.New(cfg.AppEnv)
	}
	dir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return logging.NewFile(cfg.AppEnv, filepath.Join(dir, logFileName))
}

func (rt *runtime) teardown() {
	if rt.services != nil {
		if err := rt.services.Close(); err != nil {
			rt.logger.Warn("failed to close services", zap.Error(err))
		}
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

func (rt *runtime) runTUI(cmd *cobra.Command, _ []string) error {
	return tui.Run(cmd.Context(), rt.profiles, rt.services.Planner, rt.camera, rt.logger)
}

func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "fitness-coach",
		Short: "AI fitness coach: workouts, meal plans and form feedback",
		Long: `fitness-coach builds a personal workout and meal plan from your profile
and gives live feedback on your exercise form.

Run without arguments to start the interactive terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd.Context(), cmd.Name() == "tui" || !cmd.HasParent())
		},
		RunE: rt.runTUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE:  rt.runTUI,
	}

	var moodFlag string
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate today's workout and meal plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var mood *planner.Mood
			if moodFlag != "" {
				m, err := planner.ParseMood(moodFlag)
				if err != nil {
					return err
				}
				mood = &m
			}
			return rt.app.GeneratePlans(cmd.Context(), mood)
		},
	}
	planCmd.Flags().StringVar(&moodFlag, "mood", "", "how you feel today: Energized, Neutral, Tired or Stressed")

	postureCmd := &cobra.Command{
		Use:   "posture [exercise]",
		Short: "Turn on the camera and get feedback on your form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exercise := ""
			if len(args) == 1 {
				exercise = args[0]
			}
			return rt.app.AnalyzePosture(cmd.Context(), exercise)
		},
	}

	showProfile := func(cmd *cobra.Command, _ []string) error {
		return rt.app.ShowProfile(cmd.Context())
	}
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the saved profile",
		Args:  cobra.NoArgs,
		RunE:  showProfile,
	}
	profileCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved profile as YAML",
		Args:  cobra.NoArgs,
		RunE:  showProfile,
	})

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.app.ResetProfile(cmd.Context())
		},
	}

	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the weekly progress chart",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			rt.app.ShowProgress()
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "issue-token <subject>",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return rt.app.IssueToken(args[0])
		},
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show AI usage for the last week and system health",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return rt.app.ShowMetrics()
		},
	}

	var days int
	cleanupCmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove old metric records",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return rt.app.CleanupMetrics(days)
		},
	}
	cleanupCmd.Flags().IntVar(&days, "days", 30, "keep records for the last N days")

	root.AddCommand(tuiCmd, planCmd, postureCmd, profileCmd, resetCmd, progressCmd, tokenCmd, metricsCmd, cleanupCmd)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := &runtime{}
	err := newRootCmd(rt).ExecuteContext(ctx)
	rt.teardown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
