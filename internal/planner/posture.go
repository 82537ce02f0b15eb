package planner

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/shared"

	"go.uber.org/zap"
)

// FallbackFeedback is shown when posture feedback cannot be generated.
const FallbackFeedback = "Sorry, I couldn't analyze your form right now. Please try again."

//go:embed posture_prompt.md
var posturePrompt string

var postureTemplate = template.Must(template.New("posture").Parse(posturePrompt))

type posturePromptData struct {
	ExerciseName string
}

// AnalyzePosture returns short corrective coaching text for the exercise.
// It never fails: errors and empty responses yield FallbackFeedback.
func (p *Planner) AnalyzePosture(ctx context.Context, exerciseName string) string {
	prompt, err := buildPosturePrompt(posturePromptData{ExerciseName: strings.TrimSpace(exerciseName)})
	if err != nil {
		p.logger.Error("failed to build posture prompt", zap.Error(err))
		return FallbackFeedback
	}

	gen := p.generate(ctx, shared.AgentPostureCoach, llm.Request{Prompt: prompt})
	feedback := plainText(gen.content)
	if gen.err != nil || feedback == "" {
		gen.meta.Succeeded = false
		p.record(gen.meta)
		p.logger.Error("error analyzing posture",
			zap.String("request_id", gen.meta.RequestID),
			zap.String("exercise", exerciseName),
			zap.Error(gen.err))
		return FallbackFeedback
	}

	p.record(gen.meta)
	return feedback
}

func buildPosturePrompt(data posturePromptData) (string, error) {
	var buf bytes.Buffer
	if err := postureTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
