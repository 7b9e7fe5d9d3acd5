package domain

import "context"

// Camera acquires live camera streams.
type Camera interface {
	// Open requests a new stream. Permission and device failures are returned as errors; no session is retained
	// in that case.
	Open(ctx context.Context) (CameraSession, error)
}

// CameraSession is a live, revocable handle to a camera stream.
type CameraSession interface {
	// Snapshot grabs the current frame. A stream which hasn't produced a frame yet yields an empty image.
	Snapshot() (*CapturedImage, error)
	// Release stops the stream. Must be idempotent.
	Release()
}
