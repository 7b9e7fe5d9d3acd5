package api

import (
	"context"
	"errors"
	"time"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/backend"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/filesystem"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/logging"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/web"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/webcam"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/wiki"
)

// See domain/config.go
const (
	ConfigKeyBaseURL  = domain.ConfigKeyBaseURL
	ConfigKeyLanguage = domain.ConfigKeyLanguage
	ConfigKeyLogPath  = domain.ConfigKeyLogPath
)

var ErrNoDiagnosis = errors.New("nothing has been detected yet")

// API is the entrypoint to dermachat. It doesn't contain any logic of its own: it glues the components together.
// Frontends (console, IRC) create one Session per conversation; backend login and history management are shared.
type API interface {
	// Login authenticates against the backend with the configured credentials. It does nothing if there are none.
	Login(ctx context.Context) error
	// NewSession creates an independent capture-and-diagnose workflow reporting to `listener`. Without a camera,
	// OpenCamera always alerts the user.
	NewSession(listener domain.Listener, cameraEnabled bool) Session
	// DeleteHistoryEntry removes a saved diagnosis from the user's dashboard. Returns false if the backend refused.
	DeleteHistoryEntry(ctx context.Context, id int) (bool, error)
	// FindURLs extracts links from a chat line.
	FindURLs(text string) []string
	// Logger is the logger every component writes to.
	Logger() common.Logger
}

// Session is a single capture-and-diagnose workflow. See domain.CaptureAndDiagnoseController.
type Session interface {
	SelectFile(path string) error
	SelectImageURL(ctx context.Context, url string) error
	OpenCamera(ctx context.Context) error
	Capture() error
	Predict(ctx context.Context) error
	SendChatMessage(ctx context.Context, text string) error
	SetLanguage(language string)
	// AboutCondition returns an encyclopedia summary of the currently detected condition.
	AboutCondition() (string, error)
	State() domain.ViewState
	Transcript() []domain.ChatTurn
	Close()
}

type api struct {
	config               *common.Config
	credentials          common.Credentials
	logger               common.Logger
	sessionService       domain.SessionService
	predictionService    domain.PredictionService
	conversationService  domain.ConversationService
	historyService       domain.HistoryService
	referenceProvider    domain.ConditionReferenceProvider
	imageLoader          *filesystem.ImageLoader
	imageDownloader      *web.ImageDownloader
	urlFinder            *web.URLFinder
	tempFilePathProvider *filesystem.TempFilePathProvider
}

func NewAPI(config *common.Config, credentials common.Credentials) API {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	return newAPI(config, credentials, logger, wiki.NewArticleProvider(config))
}

func newAPI(
	config *common.Config,
	credentials common.Credentials,
	logger common.Logger,
	referenceProvider domain.ConditionReferenceProvider,
) *api {
	client := backend.NewClientFromConfig(config)
	imageLoader := filesystem.NewImageLoader(config)
	return &api{
		config:               config,
		credentials:          credentials,
		logger:               logger,
		sessionService:       backend.NewSessionService(client),
		predictionService:    logging.NewPredictionServiceDecorator(backend.NewPredictionService(client), logger),
		conversationService:  logging.NewConversationServiceDecorator(backend.NewConversationService(client), logger),
		historyService:       backend.NewHistoryService(client),
		referenceProvider:    referenceProvider,
		imageLoader:          imageLoader,
		imageDownloader:      web.NewImageDownloader(imageLoader, config.GetDurationOrDefault(domain.ConfigKeyRequestTimeout, 60*time.Second)),
		urlFinder:            web.NewURLFinder(),
		tempFilePathProvider: filesystem.NewTempFilePathProvider(config),
	}
}

func (a *api) Login(ctx context.Context) error {
	if a.credentials.IsEmpty() {
		return nil
	}
	err := a.sessionService.Login(ctx, a.credentials.Email, a.credentials.Password)
	if err != nil {
		a.logger.Log("login failed: " + err.Error())
		return err
	}
	a.logger.Log("logged in as " + a.credentials.Email)
	return nil
}

func (a *api) NewSession(listener domain.Listener, cameraEnabled bool) Session {
	var camera domain.Camera
	if cameraEnabled {
		camera = webcam.NewCamera(a.config, a.tempFilePathProvider, a.logger)
	} else {
		camera = webcam.NewUnavailableCamera("this frontend has no camera")
	}
	return &session{
		api: a,
		controller: domain.NewCaptureAndDiagnoseController(
			camera,
			a.predictionService,
			a.conversationService,
			listener,
			a.config.GetStringOrDefault(ConfigKeyLanguage, domain.DefaultLanguage),
		),
	}
}

func (a *api) DeleteHistoryEntry(ctx context.Context, id int) (bool, error) {
	return a.historyService.DeleteHistoryEntry(ctx, id)
}

func (a *api) FindURLs(text string) []string {
	return a.urlFinder.FindURLs(text)
}

func (a *api) Logger() common.Logger {
	return a.logger
}

type session struct {
	api        *api
	controller *domain.CaptureAndDiagnoseController
}

func (s *session) SelectFile(path string) error {
	image, err := s.api.imageLoader.LoadImage(path)
	if err != nil {
		return err
	}
	return s.controller.SelectFile(image)
}

func (s *session) SelectImageURL(ctx context.Context, url string) error {
	image, err := s.api.imageDownloader.Download(ctx, url)
	if err != nil {
		return err
	}
	return s.controller.SelectFile(image)
}

func (s *session) OpenCamera(ctx context.Context) error {
	return s.controller.OpenCamera(ctx)
}

func (s *session) Capture() error {
	return s.controller.Capture()
}

func (s *session) Predict(ctx context.Context) error {
	return s.controller.Predict(ctx)
}

func (s *session) SendChatMessage(ctx context.Context, text string) error {
	return s.controller.SendChatMessage(ctx, text)
}

func (s *session) SetLanguage(language string) {
	s.controller.SetLanguage(language)
}

func (s *session) AboutCondition() (string, error) {
	diagnosis, ok := s.controller.Diagnosis()
	if !ok {
		return "", ErrNoDiagnosis
	}
	return s.api.referenceProvider.GetConditionSummary(diagnosis.ConditionLabel)
}

func (s *session) State() domain.ViewState {
	return s.controller.State()
}

func (s *session) Transcript() []domain.ChatTurn {
	return s.controller.Transcript()
}

func (s *session) Close() {
	s.controller.Close()
}
