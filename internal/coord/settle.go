// Package coord runs the upstream adapters concurrently and merges their
// output into one ranked, capped item list.
package coord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrPanic is wrapped by the error of a task that panicked.
var ErrPanic = errors.New("task panicked")

// Task is one unit of concurrent work.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the settled outcome of one Task.
type Result[T any] struct {
	Value T
	Err   error
	Dur   time.Duration
}

// Settle runs every task concurrently and waits for all of them. Results are
// returned in task order. A failing or panicking task never cancels its
// siblings.
func Settle[T any](ctx context.Context, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = run(ctx, task)
			return nil // never fail the group - errors are reported per task
		})
	}
	_ = g.Wait()

	return results
}

func run[T any](ctx context.Context, task Task[T]) (res Result[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res = Result[T]{Value: zero, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
		res.Dur = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		return Result[T]{Err: err}
	}
	v, err := task(ctx)
	return Result[T]{Value: v, Err: err}
}
