package webcam

import (
	"context"
	"fmt"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

type unavailableCamera struct {
	reason string
}

// NewUnavailableCamera is used by frontends which have no camera at all (IRC).
func NewUnavailableCamera(reason string) domain.Camera {
	return &unavailableCamera{reason: reason}
}

func (u *unavailableCamera) Open(ctx context.Context) (domain.CameraSession, error) {
	return nil, fmt.Errorf("%w: %s", ErrCameraUnavailable, u.reason)
}
