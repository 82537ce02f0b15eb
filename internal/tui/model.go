package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-fitness-coach/internal/dashboard"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/posture"
	"ai-fitness-coach/internal/profile"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const sparkleRows = 3

// Coach is what the terminal UI needs from the AI pipelines.
type Coach interface {
	dashboard.PlanSource
	posture.Analyzer
}

type mode int

const (
	modeLoading mode = iota
	modeWizard
	modeDashboard
)

type profileLoadedMsg struct {
	profile *profile.UserProfile
	err     error
}

type profileSavedMsg struct {
	profile profile.UserProfile
	err     error
}

type profileResetMsg struct{ err error }

type plansLoadedMsg struct{ err error }

type workoutLoadedMsg struct{}

// stateChangedMsg asks for a redraw after the dashboard changed.
type stateChangedMsg struct{}

type cameraMsg struct{ err error }

type feedbackMsg struct {
	text string
	err  error
}

// Model is the root bubbletea model. It shows the setup wizard until a
// profile exists and the dashboard afterwards.
type Model struct {
	ctx      context.Context
	profiles *profile.Store
	coach    Coach
	session  *posture.Session
	logger   *zap.Logger

	styles   Styles
	mode     mode
	wizard   WizardModel
	dash     *dashboard.Dashboard
	changes  chan struct{}
	spinner  spinner.Model
	sparkles Sparkles
	width    int
	err      error
}

// NewModel creates the UI. ctx bounds every request the UI issues.
func NewModel(ctx context.Context, profiles *profile.Store, coach Coach, camera posture.Camera, logger *zap.Logger) Model {
	logger = logging.OrNop(logger)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	styles := DefaultStyles()
	sp.Style = styles.Title
	return Model{
		ctx:      ctx,
		profiles: profiles,
		coach:    coach,
		session:  posture.NewSession(camera, coach, logger),
		logger:   logger,
		styles:   styles,
		mode:     modeLoading,
		changes:  make(chan struct{}, 1),
		spinner:  sp,
		sparkles: NewSparkles(0, sparkleRows, time.Now().UnixNano()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProfile(), m.spinner.Tick, sparkleTick())
}

// Close releases the camera. Run calls it when the program exits.
func (m Model) Close() error {
	return m.session.Close()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.sparkles.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.mode {
		case modeWizard:
			var cmd tea.Cmd
			m.wizard, cmd = m.wizard.Update(msg)
			return m, cmd
		case modeDashboard:
			return m.handleDashboardKey(msg)
		}
		return m, nil

	case profileLoadedMsg:
		if msg.err != nil {
			m.logger.Error("failed to load profile", zap.Error(msg.err))
			m.err = msg.err
		}
		if msg.profile == nil {
			return m.startWizard()
		}
		return m.startDashboard(*msg.profile)

	case wizardDoneMsg:
		return m, m.saveProfile(msg.profile)

	case profileSavedMsg:
		if msg.err != nil {
			m.logger.Error("failed to save profile", zap.Error(msg.err))
			m.err = msg.err
		}
		return m.startDashboard(msg.profile)

	case profileResetMsg:
		if msg.err != nil {
			m.logger.Error("failed to reset profile", zap.Error(msg.err))
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.dash = nil
		return m.startWizard()

	case stateChangedMsg:
		return m, m.waitForChange()

	case plansLoadedMsg:
		m.err = msg.err
		return m, nil

	case workoutLoadedMsg:
		return m, nil

	case cameraMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Warn("camera unavailable", zap.Error(msg.err))
		}
		return m, nil

	case feedbackMsg:
		if msg.err != nil {
			m.logger.Warn("posture analysis skipped", zap.Error(msg.err))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sparkleTickMsg:
		m.sparkles.Step()
		return m, sparkleTick()
	}

	if m.mode == modeWizard {
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc":
		return m.quit()
	case "1", "2", "3", "4":
		mood := planner.Moods[int(key[0]-'1')]
		return m, m.selectMood(mood)
	case "r":
		return m, m.loadPlans()
	case "e":
		if err := m.session.Stop(); err != nil {
			m.logger.Warn("failed to release camera", zap.Error(err))
		}
		return m, m.resetProfile()
	case "c":
		if m.session.CameraOn() {
			if err := m.session.Stop(); err != nil {
				m.logger.Warn("failed to release camera", zap.Error(err))
			}
			return m, nil
		}
		return m, m.startCamera()
	case "a":
		if !m.session.CameraOn() || m.session.Analyzing() {
			return m, nil
		}
		return m, m.analyze(m.dash.SelectedExercise())
	}
	return m, nil
}

func (m Model) startWizard() (tea.Model, tea.Cmd) {
	m.mode = modeWizard
	m.wizard = NewWizardModel(m.styles)
	return m, m.wizard.Init()
}

func (m Model) startDashboard(p profile.UserProfile) (tea.Model, tea.Cmd) {
	m.mode = modeDashboard
	m.dash = dashboard.New(m.coach, p, m.logger)
	changes := m.changes
	m.dash.OnChange(func(dashboard.State) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return m, tea.Batch(m.loadPlans(), m.waitForChange())
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.session.Close(); err != nil {
		m.logger.Warn("failed to release camera", zap.Error(err))
	}
	return m, tea.Quit
}

func (m Model) loadProfile() tea.Cmd {
	profiles, ctx := m.profiles, m.ctx
	return func() tea.Msg {
		p, err := profiles.Load(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (m Model) saveProfile(p profile.UserProfile) tea.Cmd {
	profiles, ctx := m.profiles, m.ctx
	return func() tea.Msg {
		return profileSavedMsg{profile: p, err: profiles.Save(ctx, p)}
	}
}

func (m Model) resetProfile() tea.Cmd {
	profiles, ctx := m.profiles, m.ctx
	return func() tea.Msg {
		return profileResetMsg{err: profiles.Reset(ctx)}
	}
}

// waitForChange turns the next dashboard change notification into a
// redraw. Notifications coalesce; the view always reads a fresh snapshot.
func (m Model) waitForChange() tea.Cmd {
	changes, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) loadPlans() tea.Cmd {
	d, ctx := m.dash, m.ctx
	return func() tea.Msg {
		return plansLoadedMsg{err: d.Load(ctx)}
	}
}

func (m Model) selectMood(mood planner.Mood) tea.Cmd {
	d, ctx := m.dash, m.ctx
	return func() tea.Msg {
		d.SelectMood(ctx, mood)
		return workoutLoadedMsg{}
	}
}

func (m Model) startCamera() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return cameraMsg{err: s.Start(ctx)}
	}
}

func (m Model) analyze(exercise string) tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		text, err := s.Analyze(ctx, exercise)
		return feedbackMsg{text: text, err: err}
	}
}

func (m Model) View() string {
	var body string
	switch m.mode {
	case modeLoading:
		body = m.spinner.View() + " Loading your profile..."
	case modeWizard:
		body = m.wizard.View()
	case modeDashboard:
		body = dashboardView{
			st:        m.styles,
			state:     m.dash.Snapshot(),
			spinner:   m.spinner.View(),
			cameraOn:  m.session.CameraOn(),
			analyzing: m.session.Analyzing(),
			feedback:  m.session.Feedback(),
			exercise:  m.dash.SelectedExercise(),
			width:     m.width,
		}.render()
	}
	if m.err != nil {
		body += "\n" + m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.mode == modeDashboard {
		return m.sparkles.View(m.styles) + "\n" + body
	}
	return body
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, profiles *profile.Store, coach Coach, camera posture.Camera, logger *zap.Logger) error {
	model := NewModel(ctx, profiles, coach, camera, logger)
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}
