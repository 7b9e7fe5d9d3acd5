package terminal

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

// DescribeImage is the terminal's "preview": name, type, size and, if the image decodes, its dimensions.
func DescribeImage(captured *domain.CapturedImage) string {
	if captured == nil {
		return "no image"
	}
	if captured.IsEmpty() {
		return fmt.Sprintf("%s (%s, empty frame)", captured.FileName, captured.MediaType)
	}
	size := formatSize(len(captured.Data))
	config, _, err := image.DecodeConfig(bytes.NewReader(captured.Data))
	if err != nil {
		return fmt.Sprintf("%s (%s, %s)", captured.FileName, captured.MediaType, size)
	}
	return fmt.Sprintf("%s (%s, %dx%d, %s)", captured.FileName, captured.MediaType, config.Width, config.Height, size)
}

func formatSize(size int) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
