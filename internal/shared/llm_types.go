package shared

import (
	"time"
)

// Agent names used when recording usage for each kind of generation.
const (
	AgentWorkoutPlanner = "WorkoutPlanner"
	AgentMealPlanner    = "MealPlanner"
	AgentPostureCoach   = "PostureCoach"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for a single generation call.
type AgentMeta struct {
	AgentName string
	RequestID string
	Usage     TokenUsage
	Latency   time.Duration
	Succeeded bool
}
