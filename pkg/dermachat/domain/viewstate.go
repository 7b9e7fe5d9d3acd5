package domain

// Phase is the acquisition state of the current image/camera pair.
type Phase int

const (
	// PhaseEmpty no image and no camera.
	PhaseEmpty Phase = iota
	// PhaseHasFile an image was selected from a file.
	PhaseHasFile
	// PhaseCameraOpen a camera session is live; there's no current image.
	PhaseCameraOpen
	// PhaseHasCapture an image was captured from the camera.
	PhaseHasCapture
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseHasFile:
		return "has-file"
	case PhaseCameraOpen:
		return "camera-open"
	case PhaseHasCapture:
		return "has-capture"
	default:
		return "unknown"
	}
}

// ViewState is everything a frontend needs to draw the capture-and-diagnose screen. It's derived from the
// controller's state after every transition, so the controller itself never touches any UI.
type ViewState struct {
	Phase          Phase
	PreviewVisible bool
	CameraVisible  bool
	PredictEnabled bool
	// Predicting is true while a prediction request is in flight.
	Predicting      bool
	ResultText      string
	ResultIsError   bool
	ChatPlaceholder string
	Language        string
	// Preview is the current image, nil unless PreviewVisible.
	Preview *CapturedImage
}

// Listener receives the controller's output. Calls are made while the controller holds its lock, in the order
// the transitions happened; a listener must not call back into the controller.
type Listener interface {
	StateChanged(state ViewState)
	TurnAppended(turn ChatTurn)
	// Alert is an interrupting message (camera failures).
	Alert(message string)
}

type nopListener struct{}

func NewNopListener() Listener {
	return nopListener{}
}

func (nopListener) StateChanged(ViewState) {}

func (nopListener) TurnAppended(ChatTurn) {}

func (nopListener) Alert(string) {}
