package posture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrPermissionDenied is returned when the camera cannot be acquired.
var ErrPermissionDenied = errors.New("camera permission denied")

// Camera acquires the capture device. The returned closer releases it.
type Camera interface {
	Open(ctx context.Context) (io.Closer, error)
}

// DeviceCamera opens a video device node such as /dev/video0. The node is
// held open for the session but no frames are read.
type DeviceCamera struct {
	Path string
}

func NewDeviceCamera(path string) *DeviceCamera {
	return &DeviceCamera{Path: path}
}

func (c *DeviceCamera) Open(ctx context.Context) (io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("failed to open camera %s: %w", c.Path, err)
	}
	return f, nil
}
