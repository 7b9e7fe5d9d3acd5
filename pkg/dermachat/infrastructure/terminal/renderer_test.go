package terminal

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
)

func TestRenderer_PrintsOnlyChanges(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out)
	var placeholders []string
	renderer.OnPlaceholderChanged(func(placeholder string) {
		placeholders = append(placeholders, placeholder)
	})
	captured := &domain.CapturedImage{Data: []byte("xyz"), MediaType: "image/jpeg", FileName: "photo.jpg"}

	renderer.StateChanged(domain.ViewState{Phase: domain.PhaseHasFile, PreviewVisible: true, PredictEnabled: true, Preview: captured, ChatPlaceholder: domain.ChatPlaceholder, Language: domain.DefaultLanguage})
	renderer.StateChanged(domain.ViewState{Phase: domain.PhaseHasFile, PreviewVisible: true, Predicting: true, Preview: captured, ResultText: domain.AnalyzingMessage, ChatPlaceholder: domain.ChatPlaceholder, Language: domain.DefaultLanguage})
	renderer.StateChanged(domain.ViewState{Phase: domain.PhaseHasFile, PreviewVisible: true, PredictEnabled: true, Preview: captured, ResultText: "Detected: Acne", ChatPlaceholder: "Ask about Acne...", Language: domain.DefaultLanguage})

	output := out.String()
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("[preview] photo.jpg (image/jpeg, 3 B)")))
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte(":predict")))
	assert.Contains(t, output, "Analyzing...")
	assert.Contains(t, output, "Detected: Acne")
	assert.NotContains(t, output, "\033[")
	assert.Equal(t, []string{"Ask about Acne..."}, placeholders)
}

func TestRenderer_CameraToggle(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out)

	renderer.StateChanged(domain.ViewState{Phase: domain.PhaseCameraOpen, CameraVisible: true, ChatPlaceholder: domain.ChatPlaceholder, Language: domain.DefaultLanguage})
	renderer.StateChanged(domain.ViewState{Phase: domain.PhaseEmpty, ChatPlaceholder: domain.ChatPlaceholder, Language: domain.DefaultLanguage})

	assert.Contains(t, out.String(), "[camera on]")
	assert.Contains(t, out.String(), "[camera off]")
}

func TestRenderer_Turns(t *testing.T) {
	var out bytes.Buffer
	renderer := NewRenderer(&out)

	renderer.TurnAppended(domain.ChatTurn{Speaker: domain.SpeakerUser, Text: "hello"})
	renderer.TurnAppended(domain.ChatTurn{Speaker: domain.SpeakerAssistant, Text: "**Acne** is common.\n\n- wash\n- rest"})
	renderer.TurnAppended(domain.ChatTurn{Speaker: domain.SpeakerAssistant, Text: domain.ChatFailedMessage, IsError: true})
	renderer.Alert(domain.CameraAccessFailedMessage)

	output := out.String()
	assert.NotContains(t, output, "hello")
	assert.Contains(t, output, "Assistant:\nAcne is common.")
	assert.Contains(t, output, "• wash")
	assert.Contains(t, output, domain.ChatFailedMessage)
	assert.Contains(t, output, "! "+domain.CameraAccessFailedMessage)
}

func TestDescribeImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 32))))

	assert.Contains(t, DescribeImage(&domain.CapturedImage{Data: buf.Bytes(), MediaType: "image/png", FileName: "a.png"}), "a.png (image/png, 64x32,")
	assert.Equal(t, "capture.jpg (image/jpeg, empty frame)", DescribeImage(&domain.CapturedImage{MediaType: "image/jpeg", FileName: "capture.jpg"}))
	assert.Equal(t, "no image", DescribeImage(nil))
	assert.Equal(t, "2.0 KB", formatSize(2048))
}
