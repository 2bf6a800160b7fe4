package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devconnector/internal/core/cache"
	"devconnector/internal/domain"
)

const reposBody = `[ {"name": "alpha", "stargazers_count": 3} ]`

func fakeGithub(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created", r.URL.Query().Get("sort"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "cid", id)
		assert.Equal(t, "csecret", secret)

		switch r.URL.Path {
		case "/users/octo/repos":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(reposBody))
		case "/users/huge/repos":
			_, _ = w.Write([]byte(`[` + strings.Repeat(`{"name":"x"},`, 200) + `{}]`))
		case "/users/slow/repos":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`[]`))
		default:
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGithubRepos(t *testing.T) {
	var hits int32
	srv := fakeGithub(t, &hits)
	s := NewGithubService(GithubOptions{
		BaseURL:      srv.URL,
		ClientID:     "cid",
		ClientSecret: "csecret",
		Timeout:      100 * time.Millisecond,
	}, nil, zap.NewNop())
	ctx := context.Background()

	b, err := s.Repos(ctx, "octo")
	require.NoError(t, err)
	assert.Equal(t, reposBody, string(b))

	_, err = s.Repos(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrGithubNotFound)

	_, err = s.Repos(ctx, "slow")
	assert.ErrorIs(t, err, domain.ErrGithubNotFound)
}

func TestGithubRejectsOversizedBody(t *testing.T) {
	defer func(n int64) { maxGithubBody = n }(maxGithubBody)
	maxGithubBody = 1024

	var hits int32
	srv := fakeGithub(t, &hits)
	s := NewGithubService(GithubOptions{BaseURL: srv.URL, ClientID: "cid", ClientSecret: "csecret"}, nil, zap.NewNop())

	_, err := s.Repos(context.Background(), "huge")
	assert.ErrorIs(t, err, domain.ErrGithubNotFound)

	b, err := s.Repos(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, reposBody, string(b))
}

func TestGithubUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	s := NewGithubService(GithubOptions{BaseURL: base, Timeout: time.Second}, nil, zap.NewNop())
	_, err := s.Repos(context.Background(), "octo")
	assert.ErrorIs(t, err, domain.ErrGithubNotFound)
}

func TestGithubReposCached(t *testing.T) {
	var hits int32
	srv := fakeGithub(t, &hits)
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	s := NewGithubService(GithubOptions{
		BaseURL:      srv.URL,
		ClientID:     "cid",
		ClientSecret: "csecret",
		CacheTTL:     time.Minute,
	}, c, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.Repos(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrGithubNotFound)
	}
	assert.False(t, mr.Exists("github:repos:ghost"))

	for i := 0; i < 3; i++ {
		b, err := s.Repos(ctx, "octo")
		require.NoError(t, err)
		assert.Equal(t, reposBody, string(b))
	}
	assert.True(t, mr.Exists("github:repos:octo"))

	b, err := s.Repos(ctx, "OCTO")
	require.NoError(t, err)
	assert.Equal(t, reposBody, string(b))
	// misses are not cached; the hit is fetched once
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}
