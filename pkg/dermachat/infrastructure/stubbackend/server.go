// Package stubbackend is a local stand-in for the detection backend. It implements the same HTTP contract
// (login, predict, chatbot, delete_history) with canned answers, for development and tests.
package stubbackend

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"kgeyst.com/dermachat/pkg/common"
)

const (
	sessionCookieName = "session"
	maxUploadSize     = 16 << 20
)

// ErrNoLabels is returned by a HashClassifier that has nothing to choose from.
var ErrNoLabels = errors.New("classifier has no labels")

var DefaultLabels = []string{"Acne", "Eczema", "Melanoma", "Psoriasis", "Ringworm"}

// Classifier maps image bytes to a condition label.
type Classifier func(data []byte) (string, error)

// Responder produces the assistant's reply.
type Responder func(disease, message, language string) (string, error)

type HistoryEntry struct {
	ID        int
	ImageData string
	Disease   string
	Query     string
	Response  string
}

type Options struct {
	// Email and Password enable the login guard; leave empty to allow anonymous access.
	Email      string
	Password   string
	Classifier Classifier
	Responder  Responder
	Logger     common.Logger
}

type Server struct {
	options  Options
	mutex    sync.Mutex
	sessions map[string]bool
	history  []HistoryEntry
	nextID   int
}

func NewServer(options Options) *Server {
	if options.Classifier == nil {
		options.Classifier = HashClassifier(DefaultLabels)
	}
	if options.Responder == nil {
		options.Responder = CannedResponder
	}
	if options.Logger == nil {
		options.Logger = common.NewNopLogger()
	}
	return &Server{
		options:  options,
		sessions: make(map[string]bool),
		nextID:   1,
	}
}

func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post("/login", s.login)
	router.Get("/login", s.loginPage)
	router.Group(func(r chi.Router) {
		r.Use(s.requireLogin)
		r.Get("/home", s.home)
		r.Post("/predict", s.predict)
		r.Post("/chatbot", s.chatbot)
		r.Post("/delete_history/{id}", s.deleteHistory)
	})
	return router
}

// History returns a copy of the saved chat history.
func (s *Server) History() []HistoryEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result := make([]HistoryEntry, len(s.history))
	copy(result, s.history)
	return result
}

func (s *Server) loginRequired() bool {
	return s.options.Email != "" || s.options.Password != ""
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.loginRequired() && !s.hasSession(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) hasSession(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sessions[cookie.Value]
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		writeHTML(w, "Please fill in all fields.")
		return
	}
	if email != s.options.Email || password != s.options.Password {
		writeHTML(w, "Invalid email or password.")
		return
	}
	token := uuid.NewString()
	s.mutex.Lock()
	s.sessions[token] = true
	s.mutex.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: token, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/home", http.StatusFound)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, "Log in")
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, "Welcome")
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		writeJSON(w, map[string]any{"error": "No file part"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, map[string]any{"error": "No file part"})
		return
	}
	defer func() {
		_ = file.Close()
	}()
	if header.Filename == "" {
		writeJSON(w, map[string]any{"error": "No selected file"})
		return
	}
	data, err := io.ReadAll(file)
	if err == nil && len(data) == 0 {
		err = fmt.Errorf("cannot identify image file")
	}
	var label string
	if err == nil {
		label, err = s.options.Classifier(data)
	}
	if err != nil {
		writeJSON(w, map[string]any{"error": "An error occurred during prediction: " + err.Error()})
		return
	}
	s.options.Logger.Log(fmt.Sprintf("stub predict: %s (%d bytes) -> %s", header.Filename, len(data), label))
	writeJSON(w, map[string]any{
		"disease":    label,
		"image_data": base64.StdEncoding.EncodeToString(data),
	})
}

type chatbotRequest struct {
	Disease   string `json:"disease"`
	Message   string `json:"message"`
	ImageData string `json:"imageData"`
	Language  string `json:"language"`
}

func (s *Server) chatbot(w http.ResponseWriter, r *http.Request) {
	var request chatbotRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		writeJSON(w, map[string]any{"error": "Invalid request."})
		return
	}
	if request.Language == "" {
		request.Language = "English"
	}
	if request.Disease == "" {
		writeJSON(w, map[string]any{"error": "Disease not provided."})
		return
	}
	if request.Message == "" {
		writeJSON(w, map[string]any{"error": "No message provided."})
		return
	}
	response, err := s.options.Responder(request.Disease, request.Message, request.Language)
	if err != nil {
		writeJSON(w, map[string]any{"error": "Failed to get a response: " + err.Error()})
		return
	}
	if request.ImageData != "" {
		s.mutex.Lock()
		s.history = append(s.history, HistoryEntry{
			ID:        s.nextID,
			ImageData: request.ImageData,
			Disease:   request.Disease,
			Query:     request.Message,
			Response:  response,
		})
		s.nextID++
		s.mutex.Unlock()
	}
	writeJSON(w, map[string]any{"response": response})
}

func (s *Server) deleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.mutex.Lock()
	for i, entry := range s.history {
		if entry.ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}
	s.mutex.Unlock()
	// the real backend reports success even for ids it doesn't know
	writeJSON(w, map[string]any{"success": true})
}

// HashClassifier picks a label deterministically from the image bytes.
func HashClassifier(labels []string) Classifier {
	return func(data []byte) (string, error) {
		if len(labels) == 0 {
			return "", ErrNoLabels
		}
		hash := fnv.New32a()
		_, _ = hash.Write(data)
		return labels[int(hash.Sum32()%uint32(len(labels)))], nil
	}
}

func CannedResponder(disease, message, language string) (string, error) {
	return fmt.Sprintf(
		"**%s** (%s)\n\n- What it is: a common skin condition.\n- Your question: %s\n- Management: keep the area clean and dry.\n\nAlways consult a certified dermatologist.",
		disease, language, message,
	), nil
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

func writeHTML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", message)
}
