package domain

// A list of config keys shared by the frontends and adapters.

const (
	// ConfigKeyBaseURL root URL of the detection backend
	ConfigKeyBaseURL = "baseURL"
	// ConfigKeyLanguage language of the assistant's replies until changed by the user
	ConfigKeyLanguage = "language"
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyRequestTimeout timeout of a single backend request, in milliseconds
	ConfigKeyRequestTimeout = "requestTimeout"
	// ConfigKeyCameraCommand the capture program; it must keep overwriting a single JPEG file with the latest frame,
	// replacing it atomically (write elsewhere, then rename) since snapshots read it at any moment
	ConfigKeyCameraCommand = "cameraCommand"
	// ConfigKeyCameraDevice the video device passed to the capture program
	ConfigKeyCameraDevice = "cameraDevice"
	// ConfigKeyCameraStartupGrace how long (in milliseconds) the capture program must survive to count as started;
	// permission and device errors make it exit earlier than that
	ConfigKeyCameraStartupGrace = "cameraStartupGrace"
	// ConfigKeyTempDirectory where camera frames and downloaded images are kept
	ConfigKeyTempDirectory = "tempDirectory"
	// ConfigKeyMaxImageSize images larger than this (in bytes) are refused before upload
	ConfigKeyMaxImageSize = "maxImageSize"
	// ConfigKeyWikiSentenceCount how many sentences of the encyclopedia article to show
	ConfigKeyWikiSentenceCount = "wikiSentenceCount"
)

const DefaultLanguage = "English"
