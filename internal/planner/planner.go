package planner

import (
	"context"
	"time"

	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder persists usage metadata for each generation call.
type Recorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Planner generates workout plans, meal plans and posture feedback.
// Every method converts provider and parse failures into a nil or fallback
// result; failures are logged and never returned to the caller.
type Planner struct {
	textGen  llm.TextGenerator
	recorder Recorder
	logger   *zap.Logger
}

// NewPlanner creates a new Planner instance. recorder and logger may be nil.
func NewPlanner(textGen llm.TextGenerator, recorder Recorder, logger *zap.Logger) *Planner {
	return &Planner{
		textGen:  textGen,
		recorder: recorder,
		logger:   logging.OrNop(logger),
	}
}

type generation struct {
	content string
	meta    shared.AgentMeta
	err     error
}

func (p *Planner) generate(ctx context.Context, agentName string, req llm.Request) generation {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := p.textGen.GenerateContent(ctx, req)
	return generation{
		content: resp.Content,
		err:     err,
		meta: shared.AgentMeta{
			AgentName: agentName,
			RequestID: requestID,
			Usage:     resp.Usage,
			Latency:   time.Since(start),
			Succeeded: err == nil,
		},
	}
}

func (p *Planner) record(meta shared.AgentMeta) {
	fields := []zap.Field{
		zap.String("agent", meta.AgentName),
		zap.String("request_id", meta.RequestID),
		zap.String("model", meta.Usage.Model),
		zap.Int("prompt_tokens", meta.Usage.PromptTokens),
		zap.Int("completion_tokens", meta.Usage.CompletionTokens),
		zap.Duration("latency", meta.Latency),
		zap.Bool("succeeded", meta.Succeeded),
	}
	p.logger.Debug("generation finished", fields...)

	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordMeta(meta); err != nil {
		p.logger.Warn("failed to record usage", zap.String("agent", meta.AgentName), zap.Error(err))
	}
}

type validator interface {
	Validate() error
}

// decode parses a JSON generation into out and records its usage. A provider
// error, a malformed document or a schema mismatch all count as a failed
// generation and make decode return false.
func (p *Planner) decode(gen generation, out validator, what string) bool {
	err := gen.err
	if err == nil {
		err = llm.DecodeJSON(gen.content, out)
	}
	if err == nil {
		err = out.Validate()
	}
	if err != nil {
		gen.meta.Succeeded = false
		p.record(gen.meta)
		p.logger.Error("failed to generate "+what,
			zap.String("request_id", gen.meta.RequestID),
			zap.Error(err),
			zap.String("response", gen.content))
		return false
	}
	p.record(gen.meta)
	return true
}
