package jsonplaceholder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_GetPostsEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		gotQuery = r.URL.Query()
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Post{
			{ID: 31, UserID: 4, Title: "qui est esse", Body: "line one\nline two"},
		})
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL+"/", time.Second, quietLogger())
	posts, err := c.GetPosts(context.Background(), domain.PostQuery{Filter: "qui est", Start: 30, Limit: 30})
	require.NoError(t, err)

	assert.Equal(t, "30", gotQuery.Get("_start"))
	assert.Equal(t, "30", gotQuery.Get("_limit"))
	assert.Equal(t, "qui est", gotQuery.Get("title_like"))
	assert.Equal(t, userAgent, gotUserAgent)
	require.Len(t, posts, 1)
	assert.Equal(t, domain.Post{ID: 31, UserID: 4, Title: "qui est esse", Body: "line one\nline two"}, posts[0])
}

func TestClient_GetPostsOmitsEmptyFilter(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, time.Second, quietLogger())
	posts, err := c.GetPosts(context.Background(), domain.PostQuery{Start: 0, Limit: 30})
	require.NoError(t, err)

	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	_, present := gotQuery["title_like"]
	assert.False(t, present)
}

func TestClient_GetUsers(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Leanne Graham","username":"Bret","address":{"city":"Gwenborough"},"company":{"name":"Romaguera-Crona"}}]`))
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, time.Second, quietLogger())
	users, err := c.GetUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Leanne Graham", users[0].Name)
	assert.Equal(t, "Gwenborough", users[0].Address.City)
	assert.Equal(t, "Romaguera-Crona", users[0].Company.Name)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, time.Second, quietLogger())
	_, err := c.GetPosts(context.Background(), domain.PostQuery{Limit: 30})

	var statusErr *domain.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "/posts", statusErr.Path)
	assert.True(t, domain.IsTransportFailure(err))
	assert.False(t, domain.IsCanceled(err))
}

func TestClient_UnreachableServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c := NewClient(addr, time.Second, quietLogger())
	_, err := c.GetUsers(context.Background())

	require.ErrorIs(t, err, domain.ErrServerOffline)
	assert.True(t, domain.IsTransportFailure(err))
}

func TestClient_CancellationIsNotTransportFailure(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(server.URL, 5*time.Second, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := c.GetPosts(ctx, domain.PostQuery{Limit: 30})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrServerOffline))
	assert.False(t, domain.IsTransportFailure(err))
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"`))
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, time.Second, quietLogger())
	_, err := c.GetPosts(context.Background(), domain.PostQuery{Limit: 30})
	require.Error(t, err)
	assert.False(t, domain.IsCanceled(err))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", 0, nil)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}
