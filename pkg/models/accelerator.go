package models

import (
	"context"
)

// Accelerator serializes local inference on a single device. Acquisition
// honours ctx; once started, work runs to completion.
type Accelerator struct {
	sem chan struct{}
}

func NewAccelerator() *Accelerator {
	return &Accelerator{sem: make(chan struct{}, 1)}
}

func (a *Accelerator) Do(ctx context.Context, fn func() error) error {
	select {
	case a.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-a.sem }()
	return fn()
}
