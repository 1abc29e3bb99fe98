package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"food-compare/internal/core/ai/provider"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器，以固定數量的 worker 限制同時進行的 AI 請求
type Manager struct {
	config    config.QueueConfig
	queue     chan *Request
	done      chan struct{}
	processed int64
	wg        sync.WaitGroup
	once      sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1
	}
	return &Manager{
		config: cfg,
		queue:  make(chan *Request, cfg.MaxSize),
		done:   make(chan struct{}),
	}
}

// Start 啟動 worker
func (m *Manager) Start(p provider.Provider) {
	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i, p)
	}
	common.LogInfo("AI 隊列已啟動",
		zap.Int("workers", m.config.Workers),
		zap.Int("max_queue_size", m.config.MaxSize),
	)
}

func (m *Manager) worker(id int, p provider.Provider) {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.process(id, p, req)
		}
	}
}

func (m *Manager) process(id int, p provider.Provider, req *Request) {
	defer m.IncrementProcessed()

	// 呼叫端已放棄的請求不送出
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}

	resp, err := p.Generate(req.Context, req.Request)
	if err != nil {
		common.LogDebug("AI worker request failed", zap.Int("worker", id), zap.Error(err))
	}
	req.Result <- Result{Response: resp, Error: err}
}

// Enqueue 將請求加入隊列，隊列已滿時回傳 common.ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (chan Result, error) {
	select {
	case <-m.done:
		return nil, fmt.Errorf("queue manager is closed")
	default:
	}

	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return queueReq.Result, nil
	default:
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	result, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-result:
		return res.Response, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// IncrementProcessed 增加處理計數
func (m *Manager) IncrementProcessed() {
	atomic.AddInt64(&m.processed, 1)
}

// Close 關閉隊列管理器並等待 worker 結束
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
