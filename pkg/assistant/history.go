// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package assistant

import (
	"sync"

	"github.com/google/uuid"
)

func newResponseID() string { return uuid.New().String() }

// History is the append-only record of answered queries in a session.
type History struct {
	mu      sync.Mutex
	entries []*Response
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends a response.
func (h *History) Add(r *Response) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, r)
}

// Len returns the number of recorded responses.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a snapshot of the recorded responses in order.
func (h *History) Entries() []*Response {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Response, len(h.entries))
	copy(out, h.entries)
	return out
}
