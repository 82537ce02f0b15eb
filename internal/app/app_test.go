package app

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/database"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/posture"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCoach struct {
	moods []*planner.Mood
}

func (c *stubCoach) GenerateWorkoutPlan(_ context.Context, _ profile.UserProfile, mood *planner.Mood) *planner.WorkoutPlan {
	c.moods = append(c.moods, mood)
	return &planner.WorkoutPlan{
		Day:       "Tuesday",
		Focus:     "Mobility",
		Exercises: []planner.Exercise{{Name: "Cat-Cow", Sets: 2, Reps: "10", Rest: 30, Description: "Move slowly."}},
	}
}

func (c *stubCoach) GenerateMealPlan(context.Context, profile.UserProfile) *planner.MealPlan {
	return nil
}

func (c *stubCoach) AnalyzePosture(_ context.Context, exercise string) string {
	return "Lift your chest on the " + exercise + "."
}

type nopCloser struct{ closed *bool }

func (n nopCloser) Close() error {
	*n.closed = true
	return nil
}

type stubCamera struct {
	err    error
	closed bool
}

func (c *stubCamera) Open(context.Context) (io.Closer, error) {
	if c.err != nil {
		return nil, c.err
	}
	return nopCloser{closed: &c.closed}, nil
}

type fixture struct {
	app     *App
	out     *bytes.Buffer
	store   *profile.Store
	coach   *stubCoach
	camera  *stubCamera
	metrics *metrics.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Defaults()
	cfg.APIJWTSecret = "0123456789abcdef0123456789abcdef"

	f := &fixture{
		out:     &bytes.Buffer{},
		store:   profile.NewStore(kv),
		coach:   &stubCoach{},
		camera:  &stubCamera{},
		metrics: metrics.NewStore(db.SQL),
	}
	f.app = NewApp(f.store, f.coach, f.camera, f.metrics, cfg, f.out, nil)
	return f
}

func (f *fixture) saveProfile(t *testing.T) {
	t.Helper()
	p := profile.Default()
	p.Name = "Jo"
	p.Goals = []profile.Goal{profile.GoalFlexibility}
	p.DietaryPreferences = []profile.DietaryPreference{profile.DietGlutenFree}
	require.NoError(t, f.store.Save(context.Background(), p))
}

func TestGeneratePlans(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.app.GeneratePlans(context.Background(), nil), ErrNoProfile)

	f.saveProfile(t)
	mood := planner.MoodStressed
	require.NoError(t, f.app.GeneratePlans(context.Background(), &mood))

	out := f.out.String()
	assert.Contains(t, out, "Generating plans for Jo...")
	assert.Contains(t, out, "=== WORKOUT: Mobility (Tuesday) ===")
	assert.Contains(t, out, "Cat-Cow")
	assert.Contains(t, out, "Could not generate a meal plan.")
	require.Len(t, f.coach.moods, 1)
	assert.Equal(t, planner.MoodStressed, *f.coach.moods[0])
}

func TestAnalyzePosture(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.AnalyzePosture(context.Background(), ""))
	assert.Contains(t, f.out.String(), "=== FORM FEEDBACK: SQUAT ===")
	assert.Contains(t, f.out.String(), "Lift your chest on the Squat.")
	assert.True(t, f.camera.closed)
}

func TestAnalyzePosture_CameraDenied(t *testing.T) {
	f := newFixture(t)
	f.camera.err = posture.ErrPermissionDenied

	err := f.app.AnalyzePosture(context.Background(), "Lunge")
	assert.ErrorIs(t, err, posture.ErrPermissionDenied)
	assert.Contains(t, f.out.String(), posture.CameraErrorMessage)
}

func TestShowAndResetProfile(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.app.ShowProfile(context.Background()), ErrNoProfile)

	f.saveProfile(t)
	require.NoError(t, f.app.ShowProfile(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "name: Jo")
	assert.Contains(t, out, "weight_kg: 70")
	assert.Contains(t, out, "- Flexibility")
	assert.Contains(t, out, "- Gluten-Free")
	assert.NotContains(t, out, "health_conditions")

	require.NoError(t, f.app.ResetProfile(context.Background()))
	assert.ErrorIs(t, f.app.ShowProfile(context.Background()), ErrNoProfile)
}

func TestIssueToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.IssueToken("42"))

	issuer, err := auth.NewIssuer(f.app.cfg.APIJWTSecret, 0)
	require.NoError(t, err)
	sub, err := issuer.Parse(strings.TrimSpace(f.out.String()))
	require.NoError(t, err)
	assert.Equal(t, "42", sub)

	f.app.cfg.APIJWTSecret = ""
	assert.ErrorIs(t, f.app.IssueToken("42"), auth.ErrWeakSecret)
}

func TestMetricsCommands(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.metrics.Record(metrics.ExecutionMetric{AgentName: "old", Timestamp: time.Now().AddDate(0, 0, -60)}))
	require.NoError(t, f.metrics.Record(metrics.ExecutionMetric{AgentName: "new", PromptTokens: 12, Succeeded: true}))

	require.NoError(t, f.app.ShowMetrics())
	assert.Contains(t, f.out.String(), "calls 1 (failed 0)")

	require.NoError(t, f.app.CleanupMetrics(30))
	assert.Contains(t, f.out.String(), "Removed 1 metric records older than 30 days.")
	assert.Error(t, f.app.CleanupMetrics(0))
}

func TestShowProgress(t *testing.T) {
	f := newFixture(t)
	f.app.ShowProgress()
	assert.Contains(t, f.out.String(), "Week 1")
}
