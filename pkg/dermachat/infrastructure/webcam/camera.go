package webcam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/filesystem"
)

const (
	outputPlaceholder = "{output}"
	devicePlaceholder = "{device}"
	captureFileName   = "capture.jpg"
	captureMediaType  = "image/jpeg"
)

// DefaultCommand keeps overwriting the output file with the latest frame from a V4L2 device. Each frame is written
// to a temporary file and renamed over the output, so a snapshot never sees a half-written JPEG.
var DefaultCommand = []string{
	"ffmpeg", "-loglevel", "error", "-f", "video4linux2", "-i", devicePlaceholder,
	"-update", "1", "-atomic_writing", "1", "-q:v", "2", "-y", outputPlaceholder,
}

var ErrCameraUnavailable = errors.New("camera unavailable")

// Camera runs an external capture program for every session. The program is expected to keep overwriting a single
// JPEG file with the most recent frame until it's killed; a snapshot is just reading that file.
type Camera struct {
	command              []string
	device               string
	startupGrace         time.Duration
	tempFilePathProvider *filesystem.TempFilePathProvider
	logger               common.Logger
}

func NewCamera(config *common.Config, tempFilePathProvider *filesystem.TempFilePathProvider, logger common.Logger) *Camera {
	return &Camera{
		command:              config.GetStringSliceOrDefault(domain.ConfigKeyCameraCommand, DefaultCommand),
		device:               config.GetStringOrDefault(domain.ConfigKeyCameraDevice, "/dev/video0"),
		startupGrace:         config.GetDurationOrDefault(domain.ConfigKeyCameraStartupGrace, 300*time.Millisecond),
		tempFilePathProvider: tempFilePathProvider,
		logger:               logger,
	}
}

func (c *Camera) Open(ctx context.Context) (domain.CameraSession, error) {
	if len(c.command) == 0 {
		return nil, fmt.Errorf("%w: no capture command configured", ErrCameraUnavailable)
	}
	if strings.HasPrefix(c.device, "/dev/") {
		if _, err := os.Stat(c.device); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
		}
	}
	framePath := c.tempFilePathProvider.GetUniqueTempFilePath("frame-", ".jpg")
	cmd := exec.Command(c.command[0], c.buildArgs(framePath)...)
	session := &session{
		cmd:       cmd,
		framePath: framePath,
		done:      make(chan struct{}),
		logger:    c.logger,
	}
	cmd.Stderr = &session.stderr
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	go session.wait()
	select {
	case <-session.done:
		session.Release()
		return nil, fmt.Errorf("%w: capture program exited: %s", ErrCameraUnavailable, session.describeExit())
	case <-ctx.Done():
		session.Release()
		return nil, ctx.Err()
	case <-time.After(c.startupGrace):
	}
	c.logger.Log(fmt.Sprintf("camera: capturing from %s into %s", c.device, framePath))
	return session, nil
}

func (c *Camera) buildArgs(framePath string) []string {
	args := make([]string, 0, len(c.command)-1)
	for _, arg := range c.command[1:] {
		arg = strings.ReplaceAll(arg, outputPlaceholder, framePath)
		arg = strings.ReplaceAll(arg, devicePlaceholder, c.device)
		args = append(args, arg)
	}
	return args
}

type session struct {
	cmd         *exec.Cmd
	framePath   string
	stderr      bytes.Buffer
	done        chan struct{}
	waitErr     error
	releaseOnce sync.Once
	logger      common.Logger
}

func (s *session) wait() {
	s.waitErr = s.cmd.Wait()
	close(s.done)
}

// Snapshot reads the latest frame. Before the program wrote its first frame the image is empty.
func (s *session) Snapshot() (*domain.CapturedImage, error) {
	data, err := os.ReadFile(s.framePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return &domain.CapturedImage{
		Data:      data,
		MediaType: captureMediaType,
		FileName:  captureFileName,
	}, nil
}

func (s *session) Release() {
	s.releaseOnce.Do(func() {
		select {
		case <-s.done:
		default:
			_ = s.cmd.Process.Kill()
			<-s.done
		}
		err := os.Remove(s.framePath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Log("camera: failed to remove frame file: " + err.Error())
		}
	})
}

// describeExit must only be called after done is closed.
func (s *session) describeExit() string {
	message := strings.TrimSpace(s.stderr.String())
	if message == "" && s.waitErr != nil {
		message = s.waitErr.Error()
	}
	if message == "" {
		message = "no output"
	}
	return message
}
