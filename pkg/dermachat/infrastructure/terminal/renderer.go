package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/markup"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

// Renderer draws the controller's output on a terminal. Only what changed since the previous state is printed.
type Renderer struct {
	mutex    sync.Mutex
	out      io.Writer
	colors   bool
	previous domain.ViewState
	// onPlaceholder, if set, is called whenever the chat placeholder changes (used to update the prompt).
	onPlaceholder func(placeholder string)
}

// NewRenderer writes to `out`. Colors are enabled only if `out` is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	colors := false
	if file, ok := out.(*os.File); ok {
		colors = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return &Renderer{
		out:    out,
		colors: colors,
		previous: domain.ViewState{
			ChatPlaceholder: domain.ChatPlaceholder,
			Language:        domain.DefaultLanguage,
		},
	}
}

func (r *Renderer) OnPlaceholderChanged(callback func(placeholder string)) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.onPlaceholder = callback
}

func (r *Renderer) StateChanged(state domain.ViewState) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	previous := r.previous
	r.previous = state
	if state.CameraVisible && !previous.CameraVisible {
		r.println(r.dim("[camera on] type :capture to take a picture, :camera to turn it off"))
	}
	if !state.CameraVisible && previous.CameraVisible && state.Phase == domain.PhaseEmpty {
		r.println(r.dim("[camera off]"))
	}
	if state.PreviewVisible && state.Preview != previous.Preview {
		r.println(r.dim("[preview] " + DescribeImage(state.Preview)))
	}
	if state.PredictEnabled && !previous.PredictEnabled && !previous.Predicting {
		r.println(r.dim("type :predict to analyze the image"))
	}
	if state.ResultText != previous.ResultText || state.ResultIsError != previous.ResultIsError {
		if state.ResultIsError {
			r.println(r.red(state.ResultText))
		} else if state.ResultText != "" {
			r.println(r.bold(state.ResultText))
		}
	}
	if state.Language != previous.Language {
		r.println(r.dim("[language] " + state.Language))
	}
	if state.ChatPlaceholder != previous.ChatPlaceholder && r.onPlaceholder != nil {
		r.onPlaceholder(state.ChatPlaceholder)
	}
}

func (r *Renderer) TurnAppended(turn domain.ChatTurn) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if turn.Speaker == domain.SpeakerUser {
		// the user's own line is already on the screen
		return
	}
	text := markup.ToPlainText(turn.Text)
	if turn.IsError {
		text = r.red(text)
	}
	r.println(r.bold(string(turn.Speaker)+":") + "\n" + text + "\n")
}

func (r *Renderer) Alert(message string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.println(r.red("! " + message))
}

// Println prints a line that isn't part of the controller's output (command feedback).
func (r *Renderer) Println(message string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.println(message)
}

// Errorln prints command feedback in the error style.
func (r *Renderer) Errorln(message string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.println(r.red(message))
}

func (r *Renderer) println(message string) {
	_, _ = fmt.Fprintln(r.out, strings.TrimRight(message, "\n"))
}

func (r *Renderer) red(s string) string {
	return r.paint(colorRed, s)
}

func (r *Renderer) bold(s string) string {
	return r.paint(colorBold, s)
}

func (r *Renderer) dim(s string) string {
	return r.paint(colorDim, s)
}

func (r *Renderer) paint(color, s string) string {
	if !r.colors {
		return s
	}
	return color + s + colorReset
}
