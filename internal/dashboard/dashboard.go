// Package dashboard holds the plan panels shown once a profile exists and
// coordinates the requests that fill them.
package dashboard

import (
	"context"
	"sync"

	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/profile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultExercise is used for posture feedback when no workout is loaded.
const DefaultExercise = "Squat"

// PlanSource generates the plans shown on the dashboard. *planner.Planner
// satisfies it.
type PlanSource interface {
	GenerateWorkoutPlan(ctx context.Context, prof profile.UserProfile, mood *planner.Mood) *planner.WorkoutPlan
	GenerateMealPlan(ctx context.Context, prof profile.UserProfile) *planner.MealPlan
}

// State is a point-in-time copy of the dashboard. Plans are shared, not
// copied, and must be treated as read-only.
type State struct {
	Profile        profile.UserProfile
	Workout        *planner.WorkoutPlan
	Meal           *planner.MealPlan
	WorkoutLoading bool
	MealLoading    bool
	Mood           *planner.Mood
}

// Dashboard is safe for concurrent use. Requests run to completion; a workout
// or meal response is stored only if no newer request for the same panel was
// issued meanwhile.
type Dashboard struct {
	source PlanSource
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	workoutN uint64
	mealN    uint64
	onChange func(State)
}

// New creates a dashboard for prof. Nothing is requested until Load.
func New(source PlanSource, prof profile.UserProfile, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		source: source,
		logger: logging.OrNop(logger),
		state:  State{Profile: prof.Clone()},
	}
}

// OnChange registers fn to be called with a snapshot after every state change.
func (d *Dashboard) OnChange(fn func(State)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// SelectedExercise is the exercise used for posture feedback: the first
// exercise of the current workout, or DefaultExercise.
func (d *Dashboard) SelectedExercise() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w := d.state.Workout; w != nil && len(w.Exercises) > 0 && w.Exercises[0].Name != "" {
		return w.Exercises[0].Name
	}
	return DefaultExercise
}

// PresetMood sets the mood used by the next Load without requesting
// anything, e.g. to restore a mood chosen in an earlier session.
func (d *Dashboard) PresetMood(mood planner.Mood) {
	d.mu.Lock()
	d.state.Mood = &mood
	d.notifyLocked()
}

// Load requests the workout (with the current mood) and the meal plan
// concurrently and returns when both have finished. Each panel stops
// loading as soon as its own result arrives.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	prof := d.state.Profile.Clone()
	mood := copyMood(d.state.Mood)
	token := d.beginWorkoutLocked()
	d.mealN++
	mealToken := d.mealN
	d.state.Meal = nil
	d.state.MealLoading = true
	d.notifyLocked()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.fetchWorkout(gctx, prof, mood, token)
		return nil
	})
	g.Go(func() error {
		meal := d.source.GenerateMealPlan(gctx, prof)
		d.mu.Lock()
		if latest := d.mealN; mealToken != latest {
			d.mu.Unlock()
			d.logger.Debug("discarding stale meal plan",
				zap.Uint64("token", mealToken), zap.Uint64("latest", latest))
			return nil
		}
		d.state.Meal = meal
		d.state.MealLoading = false
		d.notifyLocked()
		return nil
	})
	return g.Wait()
}

// SetProfile replaces the profile and reloads both plans.
func (d *Dashboard) SetProfile(ctx context.Context, prof profile.UserProfile) error {
	d.mu.Lock()
	d.state.Profile = prof.Clone()
	d.mu.Unlock()
	return d.Load(ctx)
}

// SelectMood records the mood, clears the workout and requests a new one
// adjusted to the mood. The meal plan is left alone.
func (d *Dashboard) SelectMood(ctx context.Context, mood planner.Mood) {
	d.mu.Lock()
	d.state.Mood = &mood
	prof := d.state.Profile.Clone()
	token := d.beginWorkoutLocked()
	d.notifyLocked()

	d.fetchWorkout(ctx, prof, copyMood(&mood), token)
}

// beginWorkoutLocked discards the current workout and issues a new token.
func (d *Dashboard) beginWorkoutLocked() uint64 {
	d.workoutN++
	d.state.Workout = nil
	d.state.WorkoutLoading = true
	return d.workoutN
}

// fetchWorkout runs unlocked and stores the result if token is still current.
func (d *Dashboard) fetchWorkout(ctx context.Context, prof profile.UserProfile, mood *planner.Mood, token uint64) {
	plan := d.source.GenerateWorkoutPlan(ctx, prof, mood)

	d.mu.Lock()
	if latest := d.workoutN; token != latest {
		d.mu.Unlock()
		d.logger.Debug("discarding stale workout plan",
			zap.Uint64("token", token), zap.Uint64("latest", latest))
		return
	}
	d.state.Workout = plan
	d.state.WorkoutLoading = false
	d.notifyLocked()
}

// notifyLocked releases the lock and then calls the change listener.
func (d *Dashboard) notifyLocked() {
	fn := d.onChange
	snap := d.snapshotLocked()
	d.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (d *Dashboard) snapshotLocked() State {
	s := d.state
	s.Profile = d.state.Profile.Clone()
	s.Mood = copyMood(d.state.Mood)
	return s
}

func copyMood(m *planner.Mood) *planner.Mood {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
