// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package prompt

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter measures prompt sizes with the cl100k_base encoding, a close
// approximation for the hosted models in use. When the encoding cannot be
// loaded it falls back to a chars/4 estimate.
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
	mu      sync.Mutex
}

var (
	globalCounter *TokenCounter
	counterOnce   sync.Once
)

// GetTokenCounter returns the singleton counter.
func GetTokenCounter() *TokenCounter {
	counterOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			globalCounter = &TokenCounter{}
			return
		}
		globalCounter = &TokenCounter{encoder: enc}
	})
	return globalCounter
}

// Count returns the token count for text.
func (tc *TokenCounter) Count(text string) int {
	if tc.encoder == nil {
		return len(text) / 4
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.encoder.Encode(text, nil, nil))
}
