package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/dashboard"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/posture"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/progress"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNoProfile is returned by commands that need a saved profile.
var ErrNoProfile = errors.New("no profile found; run `fitness-coach tui` to create one")

// Coach is what the CLI needs from the AI pipelines.
type Coach interface {
	dashboard.PlanSource
	posture.Analyzer
}

// App holds the application's dependencies for the one-shot CLI commands.
type App struct {
	profiles     *profile.Store
	coach        Coach
	camera       posture.Camera
	metricsStore *metrics.Store
	cfg          *config.Config
	out          io.Writer
	logger       *zap.Logger
}

// NewApp creates and initializes a new App instance.
func NewApp(
	profiles *profile.Store,
	coach Coach,
	camera posture.Camera,
	metricsStore *metrics.Store,
	cfg *config.Config,
	out io.Writer,
	logger *zap.Logger,
) *App {
	return &App{
		profiles:     profiles,
		coach:        coach,
		camera:       camera,
		metricsStore: metricsStore,
		cfg:          cfg,
		out:          out,
		logger:       logging.OrNop(logger),
	}
}

func (a *App) loadProfile(ctx context.Context) (*profile.UserProfile, error) {
	p, err := a.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoProfile
	}
	return p, nil
}

// GeneratePlans creates today's workout and meal plan and prints them.
func (a *App) GeneratePlans(ctx context.Context, mood *planner.Mood) error {
	p, err := a.loadProfile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Generating plans for %s...\n", p.Name)
	d := dashboard.New(a.coach, *p, a.logger)
	if mood != nil {
		d.PresetMood(*mood)
	}
	if err := d.Load(ctx); err != nil {
		return fmt.Errorf("failed to generate plans: %w", err)
	}

	st := d.Snapshot()
	fmt.Fprint(a.out, FormatWorkout(st.Workout))
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, FormatMeal(st.Meal))
	return nil
}

// AnalyzePosture opens the camera, asks for form feedback on exercise and
// releases the camera again.
func (a *App) AnalyzePosture(ctx context.Context, exercise string) error {
	if strings.TrimSpace(exercise) == "" {
		exercise = dashboard.DefaultExercise
	}

	session := posture.NewSession(a.camera, a.coach, a.logger)
	defer session.Close()

	if err := session.Start(ctx); err != nil {
		fmt.Fprintln(a.out, session.Feedback())
		return err
	}
	fmt.Fprintf(a.out, "Camera on. Analyzing your %s...\n", exercise)
	feedback, err := session.Analyze(ctx, exercise)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\n=== FORM FEEDBACK: %s ===\n%s\n", strings.ToUpper(exercise), feedback)
	return nil
}

// ShowProfile prints the saved profile as YAML.
func (a *App) ShowProfile(ctx context.Context) error {
	p, err := a.loadProfile(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(profileView(*p))
	if err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}
	_, err = a.out.Write(data)
	return err
}

type profileDoc struct {
	Name               string   `yaml:"name"`
	Age                int      `yaml:"age"`
	Gender             string   `yaml:"gender"`
	WeightKG           int      `yaml:"weight_kg"`
	HeightCM           int      `yaml:"height_cm"`
	FitnessLevel       string   `yaml:"fitness_level"`
	Goals              []string `yaml:"goals"`
	DietaryPreferences []string `yaml:"dietary_preferences,omitempty"`
	HealthConditions   string   `yaml:"health_conditions,omitempty"`
}

func profileView(p profile.UserProfile) profileDoc {
	doc := profileDoc{
		Name:             p.Name,
		Age:              p.Age,
		Gender:           string(p.Gender),
		WeightKG:         p.Weight,
		HeightCM:         p.Height,
		FitnessLevel:     string(p.FitnessLevel),
		HealthConditions: strings.TrimSpace(p.HealthConditions),
	}
	for _, g := range p.Goals {
		doc.Goals = append(doc.Goals, string(g))
	}
	for _, d := range p.DietaryPreferences {
		doc.DietaryPreferences = append(doc.DietaryPreferences, string(d))
	}
	return doc
}

// ResetProfile deletes the saved profile.
func (a *App) ResetProfile(ctx context.Context) error {
	if err := a.profiles.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile reset.")
	return nil
}

// ShowProgress prints the progress chart.
func (a *App) ShowProgress() {
	fmt.Fprintln(a.out, progress.Render(progress.Sample()))
}

// IssueToken prints an API token for subject.
func (a *App) IssueToken(subject string) error {
	issuer, err := auth.NewIssuer(a.cfg.APIJWTSecret, 0)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(subject)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// ShowMetrics prints AI usage for the last week and system health.
func (a *App) ShowMetrics() error {
	usage, err := a.metricsStore.GetDailyUsage(7)
	if err != nil {
		return fmt.Errorf("failed to fetch metrics: %w", err)
	}
	fmt.Fprintln(a.out, metrics.Report(usage, metrics.GetSysHealth(a.cfg.DatabasePath, a.cfg.ProfileDir)))
	return nil
}

// CleanupMetrics removes usage records older than days.
func (a *App) CleanupMetrics(days int) error {
	if days <= 0 {
		return fmt.Errorf("days must be greater than 0")
	}
	removed, err := a.metricsStore.Cleanup(days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %d metric records older than %d days.\n", removed, days)
	return nil
}
