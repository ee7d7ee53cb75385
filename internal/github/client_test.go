package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/github"
)

func TestPublicEvents_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/events/public", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"1","type":"PushEvent","created_at":"2026-10-01T12:00:00Z","repo":{"name":"octocat/hello"}},
			{"id":"2","type":"WatchEvent","created_at":"2026-09-30T08:30:00Z","repo":{"name":"octocat/world"}}
		]`))
	}))
	defer srv.Close()

	client := github.NewClient(srv.URL+"/", "tok", time.Second)
	events, err := client.PublicEvents(context.Background(), "octocat", 100)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, github.PushEvent, events[0].Type)
	assert.Equal(t, "octocat/hello", events[0].Repo.Name)
	assert.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), events[0].CreatedAt.UTC())
}

func TestPublicEvents_ClampsPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	events, err := github.NewClient(srv.URL, "", time.Second).PublicEvents(context.Background(), "octocat", 500)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPublicEvents_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := github.NewClient(srv.URL, "", time.Second).PublicEvents(context.Background(), "octocat", 100)
	var statusErr *github.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestPublicEvents_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"not a list"}`))
	}))
	defer srv.Close()

	_, err := github.NewClient(srv.URL, "", time.Second).PublicEvents(context.Background(), "octocat", 100)
	require.Error(t, err)
}

func TestPublicEvents_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := github.NewClient(srv.URL, "", time.Second).PublicEvents(ctx, "octocat", 100)
	require.ErrorIs(t, err, context.Canceled)
}
