package progress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	points := Sample()
	require.Len(t, points, 6)

	weights := make([]float64, len(points))
	days := make([]int, len(points))
	for i, p := range points {
		weights[i] = p.Weight
		days[i] = p.WorkoutDays
	}
	assert.Equal(t, []float64{80, 79.5, 79, 78, 77.5, 77}, weights)
	assert.Equal(t, []int{3, 4, 3, 5, 4, 4}, days)
	assert.Equal(t, "Week 1", points[0].Week)
	assert.Equal(t, "Week 6", points[5].Week)
}

func TestRender(t *testing.T) {
	out := Render(Sample())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 7)

	assert.Contains(t, lines[0], "Weight (kg)")
	assert.Contains(t, lines[1], "Week 1")
	assert.Contains(t, lines[1], "80.0")
	assert.Equal(t, barWidth, strings.Count(lines[1], "█"))
	assert.Equal(t, 1, strings.Count(lines[6], "█"))
	assert.Equal(t, 5, strings.Count(lines[4], "■"))
	assert.True(t, strings.HasSuffix(lines[4], " 5"))
}

func TestRender_Edges(t *testing.T) {
	assert.Equal(t, "No progress data yet.", Render(nil))

	out := Render([]Point{{Week: "Week 1", Weight: 70, WorkoutDays: 9}})
	assert.Equal(t, barWidth, strings.Count(out, "█"))
	assert.Equal(t, maxDays, strings.Count(out, "■"))
}
