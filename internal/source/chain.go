package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var ErrAllStrategiesFailed = errors.New("all strategies failed")

// Strategy is one named way of producing a value. A positive Timeout bounds
// Fetch independently of the other strategies in the chain.
type Strategy[T any] struct {
	Name    string
	Timeout time.Duration
	Fetch   func(ctx context.Context) (T, error)
}

func (s Strategy[T]) run(ctx context.Context) (T, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.Fetch(ctx)
}

// FirstSuccess tries strategies in order and returns the first value fetched
// without error together with the name of the strategy that produced it.
// Failures are logged at warn level and the chain moves on.
func FirstSuccess[T any](ctx context.Context, source string, strategies ...Strategy[T]) (T, string, error) {
	var errs []error
	for _, s := range strategies {
		v, err := s.run(ctx)
		if err == nil {
			return v, s.Name, nil
		}
		slog.Warn("strategy failed", "source", source, "strategy", s.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
	}

	var zero T
	return zero, "", fmt.Errorf("%s: %w: %w", source, ErrAllStrategiesFailed, errors.Join(errs...))
}
