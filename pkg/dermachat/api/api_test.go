package api

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgeyst.com/dermachat/pkg/common"
	"kgeyst.com/dermachat/pkg/dermachat/domain"
	"kgeyst.com/dermachat/pkg/dermachat/infrastructure/stubbackend"
)

type staticReferenceProvider map[string]string

func (s staticReferenceProvider) GetConditionSummary(conditionLabel string) (string, error) {
	return s[conditionLabel], nil
}

type alertRecorder struct {
	domain.Listener
	alerts []string
}

func (a *alertRecorder) Alert(message string) {
	a.alerts = append(a.alerts, message)
}

func newTestAPI(t *testing.T, credentials common.Credentials) (*api, *stubbackend.Server) {
	t.Helper()
	stub := stubbackend.NewServer(stubbackend.Options{
		Email:    "user@example.com",
		Password: "secret",
		Classifier: func(data []byte) (string, error) {
			return "Psoriasis", nil
		},
	})
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)
	config := common.NewConfig(map[string]any{
		ConfigKeyBaseURL:              server.URL,
		domain.ConfigKeyTempDirectory: t.TempDir(),
	})
	references := staticReferenceProvider{"Psoriasis": "Psoriasis is a long-lasting skin disease."}
	return newAPI(config, credentials, common.NewNopLogger(), references), stub
}

func writePNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	path := filepath.Join(t.TempDir(), "arm.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestAPI_FullWorkflow(t *testing.T) {
	a, stub := newTestAPI(t, common.Credentials{Email: "user@example.com", Password: "secret"})
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))
	session := a.NewSession(domain.NewNopListener(), false)
	defer session.Close()

	require.NoError(t, session.SelectFile(writePNG(t)))
	require.NoError(t, session.Predict(ctx))
	assert.Equal(t, "Detected: Psoriasis", session.State().ResultText)

	session.SetLanguage("German")
	require.NoError(t, session.SendChatMessage(ctx, "Is it contagious?"))
	transcript := session.Transcript()
	require.Len(t, transcript, 3)
	assert.Contains(t, transcript[2].Text, "Is it contagious?")
	assert.Contains(t, transcript[2].Text, "German")

	about, err := session.AboutCondition()
	require.NoError(t, err)
	assert.Equal(t, "Psoriasis is a long-lasting skin disease.", about)

	history := stub.History()
	require.Len(t, history, 2)
	success, err := a.DeleteHistoryEntry(ctx, history[0].ID)
	require.NoError(t, err)
	assert.True(t, success)
	assert.Len(t, stub.History(), 1)
}

func TestAPI_WithoutLoginPredictionFailsGracefully(t *testing.T) {
	a, _ := newTestAPI(t, common.Credentials{})
	ctx := context.Background()
	require.NoError(t, a.Login(ctx))
	session := a.NewSession(domain.NewNopListener(), false)

	require.NoError(t, session.SelectFile(writePNG(t)))
	assert.Error(t, session.Predict(ctx))

	state := session.State()
	assert.Equal(t, domain.PredictionFailedMessage, state.ResultText)
	assert.True(t, state.PredictEnabled)
}

func TestAPI_WrongCredentials(t *testing.T) {
	a, _ := newTestAPI(t, common.Credentials{Email: "user@example.com", Password: "wrong"})
	assert.Error(t, a.Login(context.Background()))
}

func TestAPI_AboutConditionNeedsDiagnosis(t *testing.T) {
	a, _ := newTestAPI(t, common.Credentials{})
	session := a.NewSession(domain.NewNopListener(), false)

	_, err := session.AboutCondition()

	assert.ErrorIs(t, err, ErrNoDiagnosis)
}

func TestAPI_SessionWithoutCameraAlerts(t *testing.T) {
	a, _ := newTestAPI(t, common.Credentials{})
	listener := &alertRecorder{Listener: domain.NewNopListener()}
	session := a.NewSession(listener, false)

	assert.Error(t, session.OpenCamera(context.Background()))
	assert.Equal(t, []string{domain.CameraAccessFailedMessage}, listener.alerts)
	assert.Equal(t, domain.PhaseEmpty, session.State().Phase)
}

func TestAPI_SelectMissingFileKeepsState(t *testing.T) {
	a, _ := newTestAPI(t, common.Credentials{})
	session := a.NewSession(domain.NewNopListener(), false)

	assert.Error(t, session.SelectFile(filepath.Join(t.TempDir(), "missing.png")))
	assert.Equal(t, domain.PhaseEmpty, session.State().Phase)
}
