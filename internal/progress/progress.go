// Package progress provides the sample progress series and renders it as a
// text chart.
package progress

import (
	"fmt"
	"strings"
)

// Point is one week of progress.
type Point struct {
	Week        string  `json:"name"`
	Weight      float64 `json:"weight"`
	WorkoutDays int     `json:"workouts"`
}

// Sample returns the static six-week series shown on the dashboard.
func Sample() []Point {
	return []Point{
		{Week: "Week 1", Weight: 80, WorkoutDays: 3},
		{Week: "Week 2", Weight: 79.5, WorkoutDays: 4},
		{Week: "Week 3", Weight: 79, WorkoutDays: 3},
		{Week: "Week 4", Weight: 78, WorkoutDays: 5},
		{Week: "Week 5", Weight: 77.5, WorkoutDays: 4},
		{Week: "Week 6", Weight: 77, WorkoutDays: 4},
	}
}

const (
	barWidth = 20
	maxDays  = 7
)

// Render draws both series, one line per week. Weight bars are scaled
// between the series minimum and maximum; workout bars are out of 7 days.
func Render(points []Point) string {
	if len(points) == 0 {
		return "No progress data yet."
	}

	lo, hi := points[0].Weight, points[0].Weight
	for _, p := range points[1:] {
		lo = min(lo, p.Weight)
		hi = max(hi, p.Weight)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-7s %-*s %s\n", "", barWidth+8, "Weight (kg)", "Workouts")
	for _, p := range points {
		weightBar := barWidth
		if hi > lo {
			// Keep at least one cell so the lowest week stays visible.
			weightBar = 1 + int((p.Weight-lo)/(hi-lo)*float64(barWidth-1)+0.5)
		}
		days := min(max(p.WorkoutDays, 0), maxDays)
		fmt.Fprintf(&b, "%-7s %s %5.1f  %s%s %d\n",
			p.Week,
			strings.Repeat("█", weightBar)+strings.Repeat(" ", barWidth-weightBar),
			p.Weight,
			strings.Repeat("■", days),
			strings.Repeat("·", maxDays-days),
			p.WorkoutDays)
	}
	return strings.TrimRight(b.String(), "\n")
}
