package domain

// User-visible texts.
// TODO internationalize along with the assistant's language setting
const (
	NoImageSelectedMessage      = "No image selected."
	AnalyzingMessage            = "Analyzing..."
	DetectedMessageFormat       = "Detected: %s"
	PredictionErrorFormat       = "Error: %s"
	PredictionFailedMessage     = "An error occurred during prediction."
	ChatPlaceholder             = "Type your question..."
	ChatPlaceholderFormat       = "Ask about %s..."
	OverviewRequestFormat       = "Give a brief, user-friendly overview of %s."
	ChatFailedMessage           = "Sorry, an error occurred. Please try again."
	InitialDetailsFailedMessage = "Sorry, could not fetch initial details."
	CameraAccessFailedMessage   = "Could not access the camera. Please ensure you have given permission."
	CaptureFailedMessage        = "Could not capture an image from the camera."
)
