// Package posture manages the camera session behind the live form check.
package posture

import (
	"context"
	"errors"
	"io"
	"sync"

	"ai-fitness-coach/internal/logging"

	"go.uber.org/zap"
)

// CameraErrorMessage replaces the camera view when the device cannot be opened.
const CameraErrorMessage = "Could not access camera. Please check permissions."

// ErrCameraOff is returned by Analyze when the camera has not been started.
var ErrCameraOff = errors.New("camera is off")

// Analyzer produces coaching text for an exercise. *planner.Planner
// satisfies it.
type Analyzer interface {
	AnalyzePosture(ctx context.Context, exerciseName string) string
}

// Session owns the camera between Start and Stop. Close must be called when
// the session is no longer needed; it is safe to call more than once.
type Session struct {
	camera   Camera
	analyzer Analyzer
	logger   *zap.Logger

	mu        sync.Mutex
	device    io.Closer
	feedback  string
	analyzing bool
}

func NewSession(camera Camera, analyzer Analyzer, logger *zap.Logger) *Session {
	return &Session{
		camera:   camera,
		analyzer: analyzer,
		logger:   logging.OrNop(logger),
	}
}

// Start turns the camera on and clears previous feedback. If the camera
// cannot be opened the camera stays off and the feedback becomes
// CameraErrorMessage.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device != nil {
		return nil
	}
	s.feedback = ""

	device, err := s.camera.Open(ctx)
	if err != nil {
		s.logger.Error("error accessing camera", zap.Error(err))
		s.feedback = CameraErrorMessage
		return err
	}
	s.device = device
	return nil
}

// Stop turns the camera off. Stopping a stopped session does nothing.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked()
}

// Close releases the camera on teardown.
func (s *Session) Close() error {
	return s.Stop()
}

// Analyze requests feedback for exercise while the camera is on. The
// result is also kept as the session's current feedback.
func (s *Session) Analyze(ctx context.Context, exercise string) (string, error) {
	s.mu.Lock()
	if s.device == nil {
		s.mu.Unlock()
		return "", ErrCameraOff
	}
	s.analyzing = true
	s.mu.Unlock()

	feedback := s.analyzer.AnalyzePosture(ctx, exercise)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = false
	s.feedback = feedback
	return feedback, nil
}

// CameraOn reports whether the camera is currently held.
func (s *Session) CameraOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device != nil
}

// Analyzing reports whether a feedback request is in flight.
func (s *Session) Analyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzing
}

// Feedback returns the latest feedback or camera error message.
func (s *Session) Feedback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

func (s *Session) releaseLocked() error {
	if s.device == nil {
		return nil
	}
	err := s.device.Close()
	s.device = nil
	return err
}
