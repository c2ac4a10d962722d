package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResilient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"utilities"}}]}`))
	}))
	defer server.Close()

	cfg := Config{APIKey: "k", BaseURL: server.URL, RetryDelay: time.Millisecond, MaxRetries: 3}
	client, err := New(cfg, nil)
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), CompletionRequest{Messages: []Message{User("electric bill")}})
	require.NoError(t, err)
	assert.Equal(t, "utilities", reply)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestResilient_DoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "k", BaseURL: server.URL, RetryDelay: time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{Messages: []Message{User("x")}})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestResilient_GenerateImageUnsupported(t *testing.T) {
	r := NewResilient(completeOnly{}, Config{}, nil)

	_, err := r.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestResilient_GenerateImage(t *testing.T) {
	mock := NewMockClient()
	mock.ImageURL = "https://img.example/a.png"
	r := NewResilient(mock, Config{RetryDelay: time.Millisecond}, nil)

	url, err := r.GenerateImage(context.Background(), ImageRequest{Prompt: "cake"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/a.png", url)
	assert.Len(t, mock.ImageCalls(), 1)
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify(&APIError{StatusCode: 429}), common.ErrRateLimit)
	assert.True(t, common.IsRetryable(classify(&APIError{StatusCode: 503})))
	assert.False(t, common.IsRetryable(classify(&APIError{StatusCode: 404})))
	assert.False(t, common.IsRetryable(classify(context.Canceled)))
	assert.True(t, common.IsRetryable(classify(errors.New("connection reset"))))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)

	_, err = NewClient(Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)

	_, err = NewClient(Config{Provider: "claudecode"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

type completeOnly struct{}

func (completeOnly) Complete(context.Context, CompletionRequest) (string, error) {
	return "ok", nil
}
