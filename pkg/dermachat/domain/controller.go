package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CaptureAndDiagnoseController owns the whole workflow of a single session: which image is current, the camera
// session if any, the last diagnosis and the chat transcript. It mediates between the camera, the Prediction Service
// and the Conversation Service, and reports every transition to a Listener.
//
// All methods are safe for concurrent use. Backend calls and camera acquisition are made without holding the lock,
// and state is only changed before and after them. Chat sends aren't serialized: replies are appended in the order
// they settle, which may differ from the order they were sent.
type CaptureAndDiagnoseController struct {
	mutex               sync.Mutex
	camera              Camera
	predictionService   PredictionService
	conversationService ConversationService
	listener            Listener
	newID               func() string
	now                 func() time.Time

	phase   Phase
	image   *CapturedImage
	session CameraSession
	// cameraOpening is set while a stream is being requested; cameraGeneration is bumped by anything that must
	// win over a request still in flight (file selection, teardown).
	cameraOpening    bool
	cameraGeneration int
	predicting       bool
	diagnosis        *DiagnosisResult
	language         string
	resultText       string
	resultIsError    bool
	placeholder      string
	closed           bool
	transcript       Transcript
}

func NewCaptureAndDiagnoseController(
	camera Camera,
	predictionService PredictionService,
	conversationService ConversationService,
	listener Listener,
	language string,
) *CaptureAndDiagnoseController {
	if listener == nil {
		listener = NewNopListener()
	}
	c := &CaptureAndDiagnoseController{
		camera:              camera,
		predictionService:   predictionService,
		conversationService: conversationService,
		listener:            listener,
		newID:               uuid.NewString,
		now:                 time.Now,
		phase:               PhaseEmpty,
		placeholder:         ChatPlaceholder,
	}
	c.language = normalizeLanguage(language)
	return c
}

// SelectFile makes `image` the current image. Any open camera session is released first. A nil image is ignored.
func (c *CaptureAndDiagnoseController) SelectFile(image *CapturedImage) error {
	if image == nil {
		return nil
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return ErrControllerClosed
	}
	c.cameraGeneration++
	c.releaseSessionLocked()
	c.image = image
	c.phase = PhaseHasFile
	c.notifyLocked()
	return nil
}

// OpenCamera toggles the camera: an open session is released (and the controller goes back to empty), otherwise a
// new stream is requested. If the request fails, the user is alerted and the state stays as it was.
func (c *CaptureAndDiagnoseController) OpenCamera(ctx context.Context) error {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return ErrControllerClosed
	}
	if c.session != nil {
		c.releaseSessionLocked()
		c.phase = PhaseEmpty
		c.notifyLocked()
		c.mutex.Unlock()
		return nil
	}
	if c.cameraOpening {
		c.mutex.Unlock()
		return nil
	}
	c.cameraOpening = true
	generation := c.cameraGeneration
	c.mutex.Unlock()

	session, err := c.camera.Open(ctx)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cameraOpening = false
	if c.closed {
		if err == nil {
			session.Release()
		}
		return ErrControllerClosed
	}
	if err != nil {
		c.listener.Alert(CameraAccessFailedMessage)
		return fmt.Errorf("failed to open camera: %w", err)
	}
	if generation != c.cameraGeneration {
		// a file was selected while we were waiting for the stream
		session.Release()
		return nil
	}
	c.session = session
	c.image = nil
	c.phase = PhaseCameraOpen
	c.notifyLocked()
	return nil
}

// Capture snapshots the current frame into the current image and closes the camera. Without an open session it
// does nothing.
func (c *CaptureAndDiagnoseController) Capture() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.session == nil {
		return ErrNoCameraSession
	}
	image, err := c.session.Snapshot()
	c.releaseSessionLocked()
	if err != nil {
		c.phase = PhaseEmpty
		c.notifyLocked()
		c.listener.Alert(CaptureFailedMessage)
		return fmt.Errorf("failed to capture a frame: %w", err)
	}
	c.image = image
	c.phase = PhaseHasCapture
	c.notifyLocked()
	return nil
}

// Predict sends the current image to the Prediction Service. On success, the diagnosis becomes the chat context and
// an overview of the condition is requested right away. Only one prediction can be in flight at a time.
func (c *CaptureAndDiagnoseController) Predict(ctx context.Context) error {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return ErrControllerClosed
	}
	if c.image == nil {
		c.setResultLocked(NoImageSelectedMessage, false)
		c.notifyLocked()
		c.mutex.Unlock()
		return ErrNoImageSelected
	}
	if c.predicting {
		c.mutex.Unlock()
		return ErrPredictionInProgress
	}
	c.predicting = true
	image := c.image
	c.setResultLocked(AnalyzingMessage, false)
	c.notifyLocked()
	c.mutex.Unlock()

	diagnosis, err := c.predictionService.Predict(ctx, image)

	c.mutex.Lock()
	c.predicting = false
	if err != nil {
		if serviceError, ok := IsServiceError(err); ok {
			c.setResultLocked(fmt.Sprintf(PredictionErrorFormat, serviceError.Message), true)
		} else {
			c.setResultLocked(PredictionFailedMessage, true)
		}
		c.notifyLocked()
		c.mutex.Unlock()
		return err
	}
	c.diagnosis = &DiagnosisResult{
		ConditionLabel: diagnosis.ConditionLabel,
		ImageReference: diagnosis.ImageReference,
	}
	c.setResultLocked(fmt.Sprintf(DetectedMessageFormat, diagnosis.ConditionLabel), false)
	c.placeholder = fmt.Sprintf(ChatPlaceholderFormat, diagnosis.ConditionLabel)
	c.notifyLocked()
	request := c.chatRequestLocked(fmt.Sprintf(OverviewRequestFormat, diagnosis.ConditionLabel))
	c.mutex.Unlock()

	// The explanation is best effort: its failure ends up in the transcript, the prediction itself succeeded.
	_ = c.requestReply(ctx, request, InitialDetailsFailedMessage)
	return nil
}

// SendChatMessage appends the user's message to the transcript immediately, then appends the assistant's reply
// (or an error-styled turn) once the Conversation Service answers. Blank messages are ignored.
func (c *CaptureAndDiagnoseController) SendChatMessage(ctx context.Context, text string) error {
	message := strings.TrimSpace(text)
	if message == "" {
		return ErrEmptyMessage
	}
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return ErrControllerClosed
	}
	c.appendTurnLocked(SpeakerUser, message, false)
	request := c.chatRequestLocked(message)
	c.mutex.Unlock()
	return c.requestReply(ctx, request, ChatFailedMessage)
}

// SetLanguage changes the language of subsequent replies. An empty name resets it to the default.
func (c *CaptureAndDiagnoseController) SetLanguage(language string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.language = normalizeLanguage(language)
	c.notifyLocked()
}

func (c *CaptureAndDiagnoseController) State() ViewState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.viewStateLocked()
}

// Diagnosis returns the current chat context, if there's one.
func (c *CaptureAndDiagnoseController) Diagnosis() (DiagnosisResult, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.diagnosis == nil {
		return DiagnosisResult{}, false
	}
	return *c.diagnosis, true
}

func (c *CaptureAndDiagnoseController) Transcript() []ChatTurn {
	return c.transcript.Turns()
}

// HasOpenCamera is true while a camera session is live.
func (c *CaptureAndDiagnoseController) HasOpenCamera() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.session != nil
}

// Close releases the camera. Replies still in flight are appended to the transcript when they settle, but every
// other operation fails afterwards.
func (c *CaptureAndDiagnoseController) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cameraGeneration++
	c.releaseSessionLocked()
}

func (c *CaptureAndDiagnoseController) requestReply(ctx context.Context, request ChatRequest, failureMessage string) error {
	reply, err := c.conversationService.Reply(ctx, request)
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if err != nil {
		if serviceError, ok := IsServiceError(err); ok {
			c.appendTurnLocked(SpeakerAssistant, serviceError.Message, true)
		} else {
			c.appendTurnLocked(SpeakerAssistant, failureMessage, true)
		}
		return err
	}
	c.appendTurnLocked(SpeakerAssistant, reply, false)
	return nil
}

func (c *CaptureAndDiagnoseController) chatRequestLocked(message string) ChatRequest {
	request := ChatRequest{
		Message:  message,
		Language: c.language,
	}
	if c.diagnosis != nil {
		request.Disease = c.diagnosis.ConditionLabel
		request.ImageData = c.diagnosis.ImageReference
	}
	return request
}

func (c *CaptureAndDiagnoseController) appendTurnLocked(speaker Speaker, text string, isError bool) {
	turn := ChatTurn{
		ID:        c.newID(),
		Speaker:   speaker,
		Text:      text,
		IsError:   isError,
		CreatedAt: c.now(),
	}
	c.transcript.append(turn)
	c.listener.TurnAppended(turn)
}

func (c *CaptureAndDiagnoseController) releaseSessionLocked() {
	if c.session == nil {
		return
	}
	c.session.Release()
	c.session = nil
}

func (c *CaptureAndDiagnoseController) setResultLocked(text string, isError bool) {
	c.resultText = text
	c.resultIsError = isError
}

func (c *CaptureAndDiagnoseController) notifyLocked() {
	c.listener.StateChanged(c.viewStateLocked())
}

func (c *CaptureAndDiagnoseController) viewStateLocked() ViewState {
	hasImage := c.image != nil && c.phase != PhaseCameraOpen
	state := ViewState{
		Phase:           c.phase,
		PreviewVisible:  hasImage,
		CameraVisible:   c.phase == PhaseCameraOpen,
		PredictEnabled:  hasImage && !c.predicting,
		Predicting:      c.predicting,
		ResultText:      c.resultText,
		ResultIsError:   c.resultIsError,
		ChatPlaceholder: c.placeholder,
		Language:        c.language,
	}
	if hasImage {
		state.Preview = c.image
	}
	return state
}

func normalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return DefaultLanguage
	}
	return language
}
