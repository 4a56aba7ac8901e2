package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatClientComplete(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"T\"}"}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(server.URL+"/v1/", "secret", "test-model", time.Second)
	out, err := client.Complete(context.Background(), "make a test")
	require.NoError(t, err)

	assert.Equal(t, `{"title":"T"}`, out)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "make a test", got.Messages[0].Content)
}

func TestChatClientOmitsPlaceholderKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	_, err := NewChatClient(server.URL, "none", "m", time.Second).Complete(context.Background(), "p")
	require.NoError(t, err)
}

func TestChatClientErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, strings.Repeat("x", 1000), http.StatusTooManyRequests)
		},
		"decode": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			_, err := NewChatClient(server.URL, "k", "m", time.Second).Complete(context.Background(), "p")
			require.Error(t, err)
			assert.Less(t, len(err.Error()), 600)
		})
	}
}

func TestChatClientHonorsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	// Runs before Close, which waits for the handler to return.
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewChatClient(server.URL, "k", "m", 5*time.Second).Complete(ctx, "p")
	assert.Error(t, err)
}
