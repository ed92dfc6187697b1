// Package session owns per-source network identity and pacing: proxy
// rotation with cooldown backoff, retry of blocked requests, and a fixed
// inter-request delay when no proxies are configured. Each source task
// gets its own Session built from shared configuration, so no state is
// ever shared across concurrently running sources.
package session

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrBlocked marks a request that was refused by the source's
// anti-automation defense on every attempt.
var ErrBlocked = errors.New("request blocked by source")

const (
	defaultMaxAttempts  = 3
	defaultRequestDelay = 2 * time.Second
	defaultBackoffBase  = 30 * time.Second
	defaultBackoffCap   = 10 * time.Minute
	defaultTimeout      = 30 * time.Second
	defaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Config is the shared session configuration. The proxy list may be
// empty, which means direct connection paced by RequestDelay.
type Config struct {
	Proxies      []string
	CACert       string
	UserAgent    string
	MaxAttempts  int
	RequestDelay time.Duration
	BackoffBase  time.Duration
	BackoffCap   time.Duration
	Timeout      time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = defaultRequestDelay
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = defaultBackoffCap
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// Counters accumulates proxy-usage numbers for the stats summary.
type Counters struct {
	Requests  int `json:"requests"`
	Rotations int `json:"rotations"`
	Blocked   int `json:"blocked"`
}

// identity is one egress identity: a proxy URL, or nil for direct.
type identity struct {
	proxyURL      *url.URL
	strikes       int
	cooldownUntil time.Time
}

// Session rotates between configured proxy identities and paces
// requests. Mutated only by its owning source task; the mutex exists
// because colly delivers callbacks on its own goroutine.
type Session struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger

	mu       sync.Mutex
	ids      []*identity
	next     int
	current  *identity
	limiter  *rate.Limiter
	counters Counters
}

// New builds a session from shared configuration. The proxy list is
// parsed eagerly so a bad entry fails the source before any request.
func New(cfg Config, log *zap.Logger) (*Session, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	proxies, err := ParseProxies(cfg.Proxies)
	if err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, log: log}
	for _, p := range proxies {
		s.ids = append(s.ids, &identity{proxyURL: p})
	}
	if len(s.ids) > 0 {
		s.current = s.ids[0]
	}
	// Direct mode trades rotation for a fixed inter-request delay.
	s.limiter = rate.NewLimiter(rate.Every(cfg.RequestDelay), 1)

	transport := &http.Transport{
		Proxy:           s.proxyFor,
		MaxIdleConns:    10,
		IdleConnTimeout: 30 * time.Second,
	}
	if cfg.CACert != "" {
		pool, err := loadCertPool(cfg.CACert)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}
	s.client = &http.Client{Timeout: cfg.Timeout, Transport: transport}

	return s, nil
}

// UserAgent returns the configured browser identity string.
func (s *Session) UserAgent() string { return s.cfg.UserAgent }

// Counters returns a snapshot of the proxy-usage counters.
func (s *Session) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// CountRequest records one request made by an HTTP stack that bypasses
// Do (colly owns its own client and only borrows ProxyFunc).
func (s *Session) CountRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.Requests++
}

// ProxyFunc exposes identity selection for HTTP stacks that manage
// their own transport (colly). It honors cooldowns like Do does, and
// remembers the pick so a later MarkBlocked penalizes the identity the
// request actually used.
func (s *Session) ProxyFunc(_ *http.Request) (*url.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.pickLocked()
	s.current = id
	return id.proxyURL, nil
}

// Get performs a paced GET with the session's default headers.
func (s *Session) Get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.Do(ctx, req)
}

// Do performs one logical request, retrying across identities when the
// response classifies as blocked or rate-limited, up to the configured
// attempt limit. Responses with other statuses are returned to the
// caller unchanged; status interpretation beyond blocking is adapter
// business.
func (s *Session) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		if err := s.pace(ctx); err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.current = s.pickLocked()
		s.counters.Requests++
		via := redacted(s.current.proxyURL)
		s.mu.Unlock()

		resp, err := s.client.Do(req.Clone(ctx))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request via %s: %w", via, err)
			s.log.Debug("transport error, retrying",
				zap.String("proxy", via), zap.Int("attempt", attempt+1), zap.Error(err))
			s.rotate()
			continue
		}

		if blockedStatus(resp.StatusCode) {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: status %d via %s", ErrBlocked, resp.StatusCode, via)
			s.log.Debug("blocked response, rotating identity",
				zap.String("proxy", via), zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt+1))
			s.MarkBlocked()
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("attempts exhausted after %d tries: %w", s.cfg.MaxAttempts, lastErr)
}

// MarkBlocked records a content-level block (captcha page, interstitial)
// detected by the adapter: the current identity goes into exponential
// cooldown, so the next pick skips past it.
func (s *Session) MarkBlocked() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.Blocked++
	id := s.current
	if id == nil || id.proxyURL == nil {
		return
	}
	id.strikes++
	backoff := s.cfg.BackoffBase << (id.strikes - 1)
	if backoff > s.cfg.BackoffCap || backoff <= 0 {
		backoff = s.cfg.BackoffCap
	}
	id.cooldownUntil = time.Now().Add(backoff)
	s.counters.Rotations++
	s.log.Debug("identity cooled down",
		zap.String("proxy", redacted(id.proxyURL)), zap.Duration("backoff", backoff))
}

// rotate records a forced identity change after a transport error
// without penalizing the current one (transport errors may be the
// proxy's fault, not a block). Round-robin selection already moves on.
func (s *Session) rotate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) > 0 {
		s.counters.Rotations++
	}
}

// pickLocked selects the next identity round-robin, skipping identities
// still in cooldown, and advances past the pick so successive healthy
// requests distribute across the pool. When every identity is cooling
// down it returns the one whose window expires soonest rather than
// stalling the source.
func (s *Session) pickLocked() *identity {
	if len(s.ids) == 0 {
		return &identity{}
	}
	now := time.Now()
	for i := 0; i < len(s.ids); i++ {
		idx := (s.next + i) % len(s.ids)
		id := s.ids[idx]
		if id.cooldownUntil.Before(now) {
			s.next = (idx + 1) % len(s.ids)
			return id
		}
	}
	soonest := s.ids[0]
	for _, id := range s.ids[1:] {
		if id.cooldownUntil.Before(soonest.cooldownUntil) {
			soonest = id
		}
	}
	return soonest
}

// proxyFor is the transport hook; it reports the identity chosen by the
// surrounding Do call.
func (s *Session) proxyFor(_ *http.Request) (*url.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, nil
	}
	return s.current.proxyURL, nil
}

func (s *Session) pace(ctx context.Context) error {
	if len(s.ids) > 0 {
		// Rotation replaces pacing when proxies are configured.
		return nil
	}
	return s.limiter.Wait(ctx)
}

func blockedStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusTooManyRequests
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ca cert: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("ca cert %s: no certificates found", path)
	}
	return pool, nil
}
