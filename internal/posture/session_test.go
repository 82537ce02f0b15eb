package posture

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu     sync.Mutex
	closed int
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

type fakeCamera struct {
	err     error
	opened  int
	devices []*fakeDevice
}

func (c *fakeCamera) Open(context.Context) (io.Closer, error) {
	c.opened++
	if c.err != nil {
		return nil, c.err
	}
	d := &fakeDevice{}
	c.devices = append(c.devices, d)
	return d, nil
}

type fakeAnalyzer struct {
	exercises []string
}

func (a *fakeAnalyzer) AnalyzePosture(_ context.Context, exercise string) string {
	a.exercises = append(a.exercises, exercise)
	return "Keep your back straight."
}

func TestSession_StartAnalyzeStop(t *testing.T) {
	cam := &fakeCamera{}
	an := &fakeAnalyzer{}
	s := NewSession(cam, an, nil)

	_, err := s.Analyze(context.Background(), "Squat")
	assert.ErrorIs(t, err, ErrCameraOff)
	assert.Empty(t, an.exercises)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.CameraOn())

	// Starting twice keeps the same device.
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, cam.opened)

	fb, err := s.Analyze(context.Background(), "Squat")
	require.NoError(t, err)
	assert.Equal(t, "Keep your back straight.", fb)
	assert.Equal(t, fb, s.Feedback())
	assert.False(t, s.Analyzing())
	assert.Equal(t, []string{"Squat"}, an.exercises)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.CameraOn())
	assert.Equal(t, 1, cam.devices[0].closed)
}

func TestSession_StartClearsFeedback(t *testing.T) {
	s := NewSession(&fakeCamera{}, &fakeAnalyzer{}, nil)
	require.NoError(t, s.Start(context.Background()))
	_, err := s.Analyze(context.Background(), "Lunge")
	require.NoError(t, err)
	require.NoError(t, s.Stop())
	assert.NotEmpty(t, s.Feedback())

	require.NoError(t, s.Start(context.Background()))
	assert.Empty(t, s.Feedback())
	require.NoError(t, s.Close())
}

func TestSession_PermissionDenied(t *testing.T) {
	cam := &fakeCamera{err: ErrPermissionDenied}
	s := NewSession(cam, &fakeAnalyzer{}, nil)

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, s.CameraOn())
	assert.Equal(t, CameraErrorMessage, s.Feedback())
	assert.NoError(t, s.Close())
}

func TestSession_CloseReleasesCamera(t *testing.T) {
	cam := &fakeCamera{}
	s := NewSession(cam, &fakeAnalyzer{}, nil)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, cam.devices[0].closed)
}

func TestDeviceCamera(t *testing.T) {
	missing := NewDeviceCamera(filepath.Join(t.TempDir(), "video9"))
	_, err := missing.Open(context.Background())
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	path := filepath.Join(t.TempDir(), "video0")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	dev, err := NewDeviceCamera(path).Open(context.Background())
	require.NoError(t, err)
	assert.NoError(t, dev.Close())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewDeviceCamera(path).Open(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
