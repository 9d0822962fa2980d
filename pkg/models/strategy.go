// Package models owns every model handle the enrichment pipeline uses. A
// Registry is built once at startup, injected into the orchestrator and the
// media adapters, and closed on shutdown.
package models

import (
	"context"
	"fmt"

	"smart-notes-be/internal/pkg/logger"
)

// TierFallback is reported for a capability when no strategy initialised.
const TierFallback = "fallback"

// Strategy is one way of bringing a capability up, e.g. "onnx-cuda".
type Strategy[T any] struct {
	Name string
	Init func(ctx context.Context) (T, error)
}

type Attempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

// Capability records which strategy won for a named capability and why the
// ones before it did not.
type Capability struct {
	Name     string    `json:"name"`
	Tier     string    `json:"tier"`
	Ready    bool      `json:"ready"`
	Attempts []Attempt `json:"attempts"`
}

// Resolve tries strategies in order and returns the first that initialises.
// When all fail the zero T is returned with Tier set to TierFallback.
func Resolve[T any](ctx context.Context, name string, strategies []Strategy[T], log logger.ILogger) (T, Capability) {
	c := Capability{Name: name, Tier: TierFallback, Attempts: []Attempt{}}

	for _, s := range strategies {
		handle, err := safeInit(ctx, s)
		if err != nil {
			c.Attempts = append(c.Attempts, Attempt{Strategy: s.Name, Error: err.Error()})
			log.Warn("Models", "Strategy failed", map[string]interface{}{
				"capability": name,
				"strategy":   s.Name,
				"error":      err.Error(),
			})
			continue
		}

		c.Attempts = append(c.Attempts, Attempt{Strategy: s.Name})
		c.Tier = s.Name
		c.Ready = true
		log.Info("Models", "Capability ready", map[string]interface{}{"capability": name, "strategy": s.Name})
		return handle, c
	}

	log.Warn("Models", "Capability using fallback", map[string]interface{}{"capability": name})
	var zero T
	return zero, c
}

func safeInit[T any](ctx context.Context, s Strategy[T]) (handle T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init panicked: %v", r)
		}
	}()
	return s.Init(ctx)
}
