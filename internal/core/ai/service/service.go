package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"food-compare/internal/core/ai/provider"
	"food-compare/internal/core/ai/queue"
	"food-compare/internal/core/cache"
	"food-compare/internal/infrastructure/config"
	"food-compare/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 服務：快取 + 隊列 + 提供者
type Service struct {
	provider provider.Provider
	queue    *queue.Manager
	cache    cache.Store
	cacheTTL time.Duration
	config   config.OpenRouterConfig
}

// NewService 創建 AI 服務，queue 與 store 可為 nil
func NewService(cfg *config.Config, p provider.Provider, q *queue.Manager, store cache.Store) *Service {
	return &Service{
		provider: p,
		queue:    q,
		cache:    store,
		cacheTTL: cfg.Cache.TTL,
		config:   cfg.OpenRouter,
	}
}

// normalizePrompt 去除前後空白並合併連續空白，確保快取 key 一致
func normalizePrompt(prompt string) string {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

// Complete 送出提示詞並回傳模型文字，相同提示詞會命中快取
func (s *Service) Complete(ctx context.Context, purpose, prompt string) (string, error) {
	prompt = normalizePrompt(prompt)
	key := cache.Key("ai:"+purpose, s.provider.GetModel(), prompt)

	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			common.LogCacheHit("ai", purpose)
			return val, nil
		} else if err != nil && !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取 AI 快取失敗", zap.Error(err))
		}
		common.LogCacheMiss("ai", purpose)
	}

	if timeout := s.provider.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := provider.NewUserRequest(prompt, s.config.MaxTokens, s.config.Temperature)

	start := time.Now()
	resp, err := s.generate(ctx, req)
	common.LogAICall(purpose, time.Since(start), err)
	if err != nil {
		if errors.Is(err, common.ErrQueueFull) {
			return "", err
		}
		return "", common.ErrAIServiceError.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp.Content, s.cacheTTL); err != nil {
			common.LogWarn("寫入 AI 快取失敗", zap.Error(err))
		}
	}
	return resp.Content, nil
}

func (s *Service) generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if s.queue == nil {
		return s.provider.Generate(ctx, req)
	}
	return s.queue.Submit(ctx, req)
}

// Status 隊列與快取狀態
func (s *Service) Status() map[string]interface{} {
	status := map[string]interface{}{
		"model": s.provider.GetModel(),
	}
	if s.queue != nil {
		status["queue"] = s.queue.GetQueueStatus()
	}
	if s.cache != nil {
		status["cache"] = s.cache.Stats()
	}
	return status
}
