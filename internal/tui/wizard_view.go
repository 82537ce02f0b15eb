package tui

import (
	"fmt"
	"strconv"
	"strings"

	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/wizard"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type itemKind int

const (
	itemInput itemKind = iota
	itemSelect
	itemToggle
	itemButton
)

// focusItem is one focusable control on a wizard step.
type focusItem struct {
	kind  itemKind
	key   string
	label string
}

const (
	actionNext   = "next"
	actionBack   = "back"
	actionSubmit = "submit"
)

// wizardDoneMsg carries the completed profile out of the wizard.
type wizardDoneMsg struct {
	profile profile.UserProfile
}

// WizardModel renders the setup wizard and turns key presses into wizard
// transitions.
type WizardModel struct {
	w      *wizard.Wizard
	inputs map[string]textinput.Model
	focus  int
	err    string
	styles Styles
}

func NewWizardModel(styles Styles) WizardModel {
	w := wizard.New()
	d := w.Draft()
	m := WizardModel{
		w:      w,
		inputs: make(map[string]textinput.Model),
		styles: styles,
	}
	m.inputs["name"] = newInput("Your name", "")
	m.inputs["age"] = newInput("Years", strconv.Itoa(d.Age))
	m.inputs["weight"] = newInput("kg", strconv.Itoa(d.Weight))
	m.inputs["height"] = newInput("cm", strconv.Itoa(d.Height))
	m.inputs["health"] = newInput("e.g. asthma, knee injury", "")
	m.applyFocus()
	return m
}

func newInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 80
	in.Width = 30
	in.Prompt = ""
	in.SetValue(value)
	return in
}

func (m WizardModel) items() []focusItem {
	switch m.w.Step() {
	case wizard.StepIdentity:
		return []focusItem{
			{itemInput, "name", "Name"},
			{itemInput, "age", "Age"},
			{itemSelect, "gender", "Gender"},
			{itemInput, "weight", "Weight (kg)"},
			{itemInput, "height", "Height (cm)"},
			{itemButton, actionNext, "Next"},
		}
	case wizard.StepFitness:
		items := []focusItem{{itemSelect, "level", "Fitness Level"}}
		for _, g := range profile.Goals {
			items = append(items, focusItem{itemToggle, "goal:" + string(g), string(g)})
		}
		return append(items,
			focusItem{itemButton, actionBack, "Back"},
			focusItem{itemButton, actionNext, "Next"},
		)
	case wizard.StepDiet:
		var items []focusItem
		for _, d := range profile.DietaryPreferences {
			items = append(items, focusItem{itemToggle, "diet:" + string(d), string(d)})
		}
		return append(items,
			focusItem{itemInput, "health", "Health Conditions"},
			focusItem{itemButton, actionBack, "Back"},
			focusItem{itemButton, actionSubmit, "Create My Plan"},
		)
	}
	return nil
}

func (m WizardModel) focused() focusItem {
	items := m.items()
	if len(items) == 0 {
		return focusItem{}
	}
	return items[min(m.focus, len(items)-1)]
}

// applyFocus gives the keyboard cursor to the focused text input only.
func (m *WizardModel) applyFocus() {
	cur := m.focused()
	for key, in := range m.inputs {
		if cur.kind == itemInput && cur.key == key {
			in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[key] = in
	}
}

func (m *WizardModel) moveFocus(delta int) {
	n := len(m.items())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
	m.applyFocus()
}

func (m WizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m WizardModel) Update(msg tea.Msg) (WizardModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}

	cur := m.focused()
	switch key.String() {
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "left", "right":
		if cur.kind == itemSelect {
			step := 1
			if key.String() == "left" {
				step = -1
			}
			m.cycle(cur.key, step)
			return m, nil
		}
	case "enter", " ", "space":
		switch cur.kind {
		case itemToggle:
			m.toggle(cur.key)
			return m, nil
		case itemButton:
			return m.press(cur.key)
		case itemSelect:
			m.cycle(cur.key, 1)
			return m, nil
		case itemInput:
			if key.String() == "enter" {
				m.moveFocus(1)
				return m, nil
			}
		}
	}
	return m.updateInput(msg)
}

// updateInput feeds msg to the focused text input and copies its value
// into the draft.
func (m WizardModel) updateInput(msg tea.Msg) (WizardModel, tea.Cmd) {
	cur := m.focused()
	if cur.kind != itemInput {
		return m, nil
	}
	in := m.inputs[cur.key]
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[cur.key] = in

	var err error
	value := in.Value()
	switch cur.key {
	case "name":
		err = m.w.SetName(value)
	case "age":
		err = m.w.SetAgeText(value)
	case "weight":
		err = m.w.SetWeightText(value)
	case "height":
		err = m.w.SetHeightText(value)
	case "health":
		err = m.w.SetHealthConditions(value)
	}
	m.err = ""
	if err != nil && strings.TrimSpace(value) != "" {
		m.err = fmt.Sprintf("%s: %v", cur.label, err)
	}
	return m, cmd
}

func (m *WizardModel) cycle(key string, step int) {
	d := m.w.Draft()
	switch key {
	case "gender":
		_ = m.w.SetGender(next(profile.Genders, d.Gender, step))
	case "level":
		_ = m.w.SetFitnessLevel(next(profile.FitnessLevels, d.FitnessLevel, step))
	}
}

func next[T comparable](options []T, cur T, step int) T {
	for i, o := range options {
		if o == cur {
			return options[((i+step)%len(options)+len(options))%len(options)]
		}
	}
	return options[0]
}

func (m *WizardModel) toggle(key string) {
	kind, value, _ := strings.Cut(key, ":")
	switch kind {
	case "goal":
		_ = m.w.ToggleGoal(profile.Goal(value))
	case "diet":
		_ = m.w.ToggleDietaryPreference(profile.DietaryPreference(value))
	}
}

func (m WizardModel) press(action string) (WizardModel, tea.Cmd) {
	m.err = ""
	switch action {
	case actionNext:
		if err := m.w.Next(); err != nil {
			m.err = err.Error()
		}
	case actionBack:
		if err := m.w.Back(); err != nil {
			m.err = err.Error()
		}
	case actionSubmit:
		p, err := m.w.Submit()
		if err != nil {
			if wizard.IsValidationError(err) {
				m.err = wizard.IncompleteMessage
			} else {
				m.err = err.Error()
			}
			return m, nil
		}
		return m, func() tea.Msg { return wizardDoneMsg{profile: p} }
	}
	m.focus = 0
	m.applyFocus()
	return m, nil
}

func (m WizardModel) View() string {
	st := m.styles
	step, total := m.w.Progress()
	d := m.w.Draft()

	var sb strings.Builder
	sb.WriteString(st.Title.Render("Create Your Fitness Profile"))
	sb.WriteString("\n")
	sb.WriteString(st.Subtitle.Render(fmt.Sprintf("Step %d of %d: %s", step, total, m.w.Step())))
	sb.WriteString("  " + progressBar(step, total) + "\n\n")

	cur := m.focused()
	var buttons []string
	for _, it := range m.items() {
		focused := it == cur
		switch it.kind {
		case itemInput:
			in := m.inputs[it.key]
			marker := "  "
			if focused {
				marker = st.Title.Render("›") + " "
			}
			fmt.Fprintf(&sb, "%s%-18s %s\n", marker, st.Label.Render(it.label), in.View())
		case itemSelect:
			var options []string
			current := ""
			if it.key == "gender" {
				for _, g := range profile.Genders {
					options = append(options, string(g))
				}
				current = string(d.Gender)
			} else {
				for _, l := range profile.FitnessLevels {
					options = append(options, string(l))
				}
				current = string(d.FitnessLevel)
			}
			fmt.Fprintf(&sb, "  %-18s %s\n", st.Label.Render(it.label), st.RenderSelect(options, current, focused))
		case itemToggle:
			kind, value, _ := strings.Cut(it.key, ":")
			var checked bool
			if kind == "goal" {
				checked = m.w.HasGoal(profile.Goal(value))
			} else {
				checked = m.w.HasDietaryPreference(profile.DietaryPreference(value))
			}
			sb.WriteString(st.RenderCheckbox(it.label, checked, focused) + "\n")
		case itemButton:
			buttons = append(buttons, st.RenderButton(it.label, focused))
		}
	}
	sb.WriteString("\n" + strings.Join(buttons, " ") + "\n")

	if m.err != "" {
		sb.WriteString("\n" + st.Error.Render(m.err) + "\n")
	}
	sb.WriteString("\n" + st.Muted.Render("tab/↑↓ move • ←→ change • space toggle • enter select • ctrl+c quit"))
	return sb.String()
}

func progressBar(step, total int) string {
	return strings.Repeat("●", step) + strings.Repeat("○", total-step)
}
