package credentials

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	mu        sync.Mutex
	calls     int32
	tokens    []string
	err       error
	lastReqID string
}

func (f *fakeIssuer) Issue(ctx context.Context, requestID, instanceName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.lastReqID = requestID
	n := atomic.AddInt32(&f.calls, 1)
	if int(n) <= len(f.tokens) {
		return f.tokens[n-1], nil
	}
	return "tok", nil
}

func TestProvider_noInstanceName(t *testing.T) {
	p := NewProvider(&fakeIssuer{}, "")
	_, err := p.Token(context.Background())
	require.ErrorIs(t, err, ErrInstanceNotConfigured)
}

func TestProvider_cachesUnderThreshold(t *testing.T) {
	iss := &fakeIssuer{tokens: []string{"t1", "t2"}}
	p := NewProvider(iss, "inst-1")

	now := time.Now()
	p.now = func() time.Time { return now }

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t1", tok)
	require.NotEmpty(t, iss.lastReqID)

	// 49 minutes later the cached token is still good.
	p.now = func() time.Time { return now.Add(49 * time.Minute) }
	tok, err = p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t1", tok)
	require.Equal(t, int32(1), atomic.LoadInt32(&iss.calls))
}

func TestProvider_refreshesPastThreshold(t *testing.T) {
	iss := &fakeIssuer{tokens: []string{"t1", "t2"}}
	p := NewProvider(iss, "inst-1")

	now := time.Now()
	p.now = func() time.Time { return now }
	_, err := p.Token(context.Background())
	require.NoError(t, err)

	p.now = func() time.Time { return now.Add(50 * time.Minute) }
	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t2", tok)
	require.Equal(t, int32(2), atomic.LoadInt32(&iss.calls))

	// The cache timestamp advanced: the next read is a cache hit again.
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&iss.calls))
}

func TestProvider_concurrentRefreshIssuesOnce(t *testing.T) {
	iss := &fakeIssuer{}
	p := NewProvider(iss, "inst-1")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := p.Token(context.Background())
			require.NoError(t, err)
			require.Equal(t, "tok", tok)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&iss.calls))
}

func TestProvider_issueError(t *testing.T) {
	iss := &fakeIssuer{err: context.DeadlineExceeded}
	p := NewProvider(iss, "inst-1")
	_, err := p.Token(context.Background())
	require.Error(t, err)
}

func TestStatic(t *testing.T) {
	s := NewStatic("pat-token")
	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pat-token", tok)

	_, err = NewStatic("").Token(context.Background())
	require.Error(t, err)
}
