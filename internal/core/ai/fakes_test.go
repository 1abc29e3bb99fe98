package ai

import (
	"context"
	"sync"
)

type fakeCompleter struct {
	mu       sync.Mutex
	content  string
	err      error
	prompts  []string
	purposes []string
}

func (f *fakeCompleter) Complete(ctx context.Context, purpose, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.purposes = append(f.purposes, purpose)
	return f.content, f.err
}
