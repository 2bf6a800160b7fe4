package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"devconnector/internal/core/cache"
	"devconnector/internal/domain"
)

var githubRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "github_repo_requests_total", Help: "Upstream GitHub repo listings by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(githubRequests) }

var maxGithubBody int64 = 4 << 20 // 4MB

type GithubOptions struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	CacheTTL     time.Duration
}

// GithubService lists a user's most recent public repositories.
type GithubService struct {
	opt   GithubOptions
	http  *http.Client
	cache *cache.Cache // optional
	log   *zap.Logger
}

func NewGithubService(opt GithubOptions, c *cache.Cache, l *zap.Logger) *GithubService {
	if opt.BaseURL == "" {
		opt.BaseURL = "https://api.github.com"
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 5 * time.Second
	}
	return &GithubService{
		opt:   opt,
		http:  &http.Client{Timeout: opt.Timeout},
		cache: c,
		log:   l,
	}
}

// Repos returns the upstream JSON body unchanged. Every failure wraps
// domain.ErrGithubNotFound.
func (s *GithubService) Repos(ctx context.Context, username string) ([]byte, error) {
	if s.cache == nil || s.opt.CacheTTL <= 0 {
		return s.fetch(ctx, username)
	}
	key := "github:repos:" + strings.ToLower(username)
	return s.cache.GetOrLoad(ctx, key, s.opt.CacheTTL, func(ctx context.Context) ([]byte, error) {
		return s.fetch(ctx, username)
	})
}

func (s *GithubService) fetch(ctx context.Context, username string) ([]byte, error) {
	q := url.Values{"per_page": {"5"}, "sort": {"created"}, "direction": {"asc"}}
	u := strings.TrimRight(s.opt.BaseURL, "/") + "/users/" + url.PathEscape(username) + "/repos?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGithubNotFound, err)
	}
	req.Header.Set("User-Agent", "devconnector")
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.opt.ClientID != "" {
		req.SetBasicAuth(s.opt.ClientID, s.opt.ClientSecret)
	}

	res, err := s.http.Do(req)
	if err != nil {
		githubRequests.WithLabelValues("error").Inc()
		s.log.Warn("github request failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrGithubNotFound, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		githubRequests.WithLabelValues("not_found").Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxGithubBody))
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrGithubNotFound, res.StatusCode)
	}
	// 多读一个字节用来判断是否超限，截断的 JSON 不能原样返回
	b, err := io.ReadAll(io.LimitReader(res.Body, maxGithubBody+1))
	if err != nil {
		githubRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrGithubNotFound, err)
	}
	if int64(len(b)) > maxGithubBody {
		githubRequests.WithLabelValues("too_large").Inc()
		s.log.Warn("github response too large", zap.String("username", username))
		return nil, fmt.Errorf("%w: upstream body over %d bytes", domain.ErrGithubNotFound, maxGithubBody)
	}
	githubRequests.WithLabelValues("ok").Inc()
	return b, nil
}
