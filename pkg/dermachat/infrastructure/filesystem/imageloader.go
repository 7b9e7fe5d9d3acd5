package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

const defaultMaxImageSize = 15 * 1024 * 1024

var (
	ErrNotAnImage    = errors.New("not an image")
	ErrImageTooLarge = errors.New("image too large")
)

// ImageLoader turns files (or downloaded bytes) into captured images. The declared media type is sniffed from the
// content, not taken from the file name.
type ImageLoader struct {
	maxImageSize int64
}

func NewImageLoader(config *common.Config) *ImageLoader {
	return &ImageLoader{
		maxImageSize: int64(config.GetIntOrDefault(domain.ConfigKeyMaxImageSize, defaultMaxImageSize)),
	}
}

func (l *ImageLoader) MaxImageSize() int64 {
	return l.maxImageSize
}

func (l *ImageLoader) LoadImage(path string) (*domain.CapturedImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAnImage)
	}
	if info.Size() > l.maxImageSize {
		return nil, fmt.Errorf("%s: %w (%.1f MB)", path, ErrImageTooLarge, float64(info.Size())/(1024*1024))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.NewImage(filepath.Base(path), data)
}

func (l *ImageLoader) NewImage(fileName string, data []byte) (*domain.CapturedImage, error) {
	if int64(len(data)) > l.maxImageSize {
		return nil, fmt.Errorf("%s: %w", fileName, ErrImageTooLarge)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%s: %w (%s)", fileName, ErrNotAnImage, mime.String())
	}
	if filepath.Ext(fileName) == "" {
		fileName += mime.Extension()
	}
	return &domain.CapturedImage{
		Data:      data,
		MediaType: mime.String(),
		FileName:  fileName,
	}, nil
}
