package credentials

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Tokens issued by the workspace expire after 60 minutes; refresh at 50
// so a connection opened right before the threshold still authenticates.
const refreshThreshold = 50 * time.Minute

var ErrInstanceNotConfigured = errors.New("credentials: instance name is not configured")

// Issuer requests a fresh database credential from the identity service.
type Issuer interface {
	Issue(ctx context.Context, requestID, instanceName string) (string, error)
}

// Provider caches the current credential and replaces it once it ages past
// the refresh threshold. The check-and-refresh sequence is one critical
// section, so concurrent callers racing the threshold issue at most one
// upstream request.
type Provider struct {
	issuer       Issuer
	instanceName string
	now          func() time.Time

	mu          sync.Mutex
	token       string
	lastRefresh time.Time
}

func NewProvider(issuer Issuer, instanceName string) *Provider {
	return &Provider{
		issuer:       issuer,
		instanceName: instanceName,
		now:          time.Now,
	}
}

func (p *Provider) Token(ctx context.Context) (string, error) {
	if p.instanceName == "" {
		return "", ErrInstanceNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	age := p.now().Sub(p.lastRefresh)
	if p.token != "" && age < refreshThreshold {
		return p.token, nil
	}

	slog.Info("database credential refresh needed", "age_minutes", age.Minutes())
	tok, err := p.issuer.Issue(ctx, uuid.NewString(), p.instanceName)
	if err != nil {
		return "", errors.Wrap(err, "issue credential")
	}

	p.token = tok
	p.lastRefresh = p.now()
	return p.token, nil
}

// Static returns the same token forever. Used for local development where
// a personal access token replaces the issued credential.
type Static struct {
	token string
}

func NewStatic(token string) *Static {
	return &Static{token: token}
}

func (s *Static) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("credentials: static token is empty")
	}
	return s.token, nil
}
