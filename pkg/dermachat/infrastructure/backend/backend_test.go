package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/stubbackend"
)

func newStub(t *testing.T, options stubbackend.Options) (*stubbackend.Server, *Client) {
	t.Helper()
	stub := stubbackend.NewServer(options)
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)
	return stub, NewClient(server.URL, 5*time.Second)
}

func jpeg() *domain.CapturedImage {
	return &domain.CapturedImage{Data: []byte{0xff, 0xd8, 0xff, 0xe0}, MediaType: "image/jpeg", FileName: "photo.jpg"}
}

func TestPredictionService_Success(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{
		Classifier: func(data []byte) (string, error) {
			return "Eczema", nil
		},
	})

	result, err := NewPredictionService(client).Predict(context.Background(), jpeg())

	require.NoError(t, err)
	assert.Equal(t, "Eczema", result.ConditionLabel)
	assert.Equal(t, "/9j/4A==", result.ImageReference)
}

func TestPredictionService_ServiceError(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{
		Classifier: func(data []byte) (string, error) {
			return "", errors.New("model unavailable")
		},
	})

	_, err := NewPredictionService(client).Predict(context.Background(), jpeg())

	serviceError, ok := domain.IsServiceError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "An error occurred during prediction: model unavailable", serviceError.Message)
}

func TestPredictionService_EmptyCaptureUsesDefaultFileName(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{})

	_, err := NewPredictionService(client).Predict(context.Background(), &domain.CapturedImage{MediaType: "image/jpeg"})

	serviceError, ok := domain.IsServiceError(err)
	require.True(t, ok, "got %v", err)
	assert.Contains(t, serviceError.Message, "cannot identify image file")
}

func TestPredictionService_UnreachableBackendIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := NewClient(server.URL, time.Second)

	_, err := NewPredictionService(client).Predict(context.Background(), jpeg())

	require.Error(t, err)
	_, ok := domain.IsServiceError(err)
	assert.False(t, ok)
}

func TestPredictionService_RequiresLogin(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{Email: "a@b.c", Password: "secret"})

	_, err := NewPredictionService(client).Predict(context.Background(), jpeg())

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestSessionService_LoginAuthenticatesOtherServices(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{
		Email:    "a@b.c",
		Password: "secret",
		Classifier: func(data []byte) (string, error) {
			return "Acne", nil
		},
	})

	require.NoError(t, NewSessionService(client).Login(context.Background(), "a@b.c", "secret"))

	result, err := NewPredictionService(client).Predict(context.Background(), jpeg())
	require.NoError(t, err)
	assert.Equal(t, "Acne", result.ConditionLabel)
}

func TestSessionService_WrongPassword(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{Email: "a@b.c", Password: "secret"})

	err := NewSessionService(client).Login(context.Background(), "a@b.c", "nope")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConversationService_ReplyAndHistory(t *testing.T) {
	stub, client := newStub(t, stubbackend.Options{
		Responder: func(disease, message, language string) (string, error) {
			return disease + "|" + message + "|" + language, nil
		},
	})

	reply, err := NewConversationService(client).Reply(context.Background(), domain.ChatRequest{
		Disease:   "Eczema",
		Message:   "What is the treatment?",
		ImageData: "abc",
		Language:  "French",
	})

	require.NoError(t, err)
	assert.Equal(t, "Eczema|What is the treatment?|French", reply)
	history := stub.History()
	require.Len(t, history, 1)
	assert.Equal(t, "abc", history[0].ImageData)
}

func TestConversationService_MissingDiseaseIsServiceError(t *testing.T) {
	_, client := newStub(t, stubbackend.Options{})

	_, err := NewConversationService(client).Reply(context.Background(), domain.ChatRequest{Message: "hi"})

	serviceError, ok := domain.IsServiceError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "Disease not provided.", serviceError.Message)
}

func TestHistoryService_Delete(t *testing.T) {
	stub, client := newStub(t, stubbackend.Options{})
	_, err := NewConversationService(client).Reply(context.Background(), domain.ChatRequest{
		Disease: "Acne", Message: "hi", ImageData: "abc", Language: "English",
	})
	require.NoError(t, err)
	require.Len(t, stub.History(), 1)

	success, err := NewHistoryService(client).DeleteHistoryEntry(context.Background(), stub.History()[0].ID)

	require.NoError(t, err)
	assert.True(t, success)
	assert.Empty(t, stub.History())
}

func TestHistoryService_Refused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete_history/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	t.Cleanup(server.Close)

	success, err := NewHistoryService(NewClient(server.URL, time.Second)).DeleteHistoryEntry(context.Background(), 42)

	require.NoError(t, err)
	assert.False(t, success)
}
