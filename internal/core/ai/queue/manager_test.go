package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"food-compare/internal/core/ai/provider"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	err     error
	content string
}

func (p *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Content: p.content + req.Messages[0].Content}, nil
}

func (p *fakeProvider) GetModel() string          { return "fake" }
func (p *fakeProvider) GetTimeout() time.Duration { return 0 }
func (p *fakeProvider) Close() error              { return nil }

func TestSubmit(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 4})
	m.Start(&fakeProvider{content: "echo:"})
	defer m.Close()

	resp, err := m.Submit(context.Background(), provider.NewUserRequest("hi", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", resp.Content)

	assert.Eventually(t, func() bool {
		return m.GetQueueStatus().ProcessedCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitProviderError(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	m.Start(&fakeProvider{err: errors.New("boom")})
	defer m.Close()

	_, err := m.Submit(context.Background(), provider.NewUserRequest("hi", 0, 0))
	assert.EqualError(t, err, "boom")
}

func TestEnqueueQueueFull(t *testing.T) {
	// 不啟動 worker，隊列只能放一個請求
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	defer m.Close()

	_, err := m.Enqueue(context.Background(), provider.NewUserRequest("a", 0, 0))
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), provider.NewUserRequest("b", 0, 0))
	assert.ErrorIs(t, err, common.ErrQueueFull)
	assert.Equal(t, 1, m.GetQueueStatus().QueueLength)
}

func TestSubmitContextCancelled(t *testing.T) {
	p := &fakeProvider{block: make(chan struct{})}
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 2})
	m.Start(p)
	defer m.Close()
	defer close(p.block)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := m.Submit(ctx, provider.NewUserRequest("slow", 0, 0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnqueueAfterClose(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	m.Start(&fakeProvider{})
	m.Close()

	_, err := m.Enqueue(context.Background(), provider.NewUserRequest("a", 0, 0))
	assert.Error(t, err)
}

func TestNewManagerDefaults(t *testing.T) {
	status := NewManager(config.QueueConfig{}).GetQueueStatus()
	assert.Equal(t, 1, status.Workers)
	assert.Equal(t, 1, status.MaxQueueSize)
}
