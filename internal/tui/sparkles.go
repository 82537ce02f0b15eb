package tui

import (
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const sparkleInterval = 120 * time.Millisecond

var sparkleGlyphs = []rune{'✦', '·', '*', '˚', '✧'}

type sparkleTickMsg time.Time

func sparkleTick() tea.Cmd {
	return tea.Tick(sparkleInterval, func(t time.Time) tea.Msg { return sparkleTickMsg(t) })
}

type particle struct {
	x, y  int
	glyph rune
	life  int
}

// Sparkles is the decorative particle band drawn above the dashboard.
// Particles rise one row per tick and fade out.
type Sparkles struct {
	width, height int
	particles     []particle
	rng           *rand.Rand
}

func NewSparkles(width, height int, seed int64) Sparkles {
	return Sparkles{width: width, height: height, rng: rand.New(rand.NewSource(seed))}
}

func (s *Sparkles) SetWidth(width int) {
	s.width = width
}

// Step advances the animation by one frame.
func (s *Sparkles) Step() {
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.y--
		p.life--
		if p.y >= 0 && p.life > 0 {
			alive = append(alive, p)
		}
	}
	s.particles = alive

	if s.width <= 0 || s.height <= 0 {
		return
	}
	for i := 0; i < 2; i++ {
		s.particles = append(s.particles, particle{
			x:     s.rng.Intn(s.width),
			y:     s.height - 1,
			glyph: sparkleGlyphs[s.rng.Intn(len(sparkleGlyphs))],
			life:  s.height,
		})
	}
}

func (s Sparkles) View(st Styles) string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}
	grid := make([][]rune, s.height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", s.width))
	}
	for _, p := range s.particles {
		if p.y >= 0 && p.y < s.height && p.x >= 0 && p.x < s.width {
			grid[p.y][p.x] = p.glyph
		}
	}
	lines := make([]string, s.height)
	for i, row := range grid {
		lines[i] = st.Sparkle.Render(string(row))
	}
	return strings.Join(lines, "\n")
}
