// Package ensure implements the get-or-create pattern shared by every
// provisioning step.
//
// A lookup yields one of three outcomes. Found returns the existing resource
// unchanged: there is no field comparison and no drift correction. NotFound
// creates the resource once and waits for the provider to finish. Error
// never creates: transient failures are retried with backoff, anything else
// aborts the step.
package ensure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kompox/amlops/domain/model"
	"github.com/kompox/amlops/internal/logging"
	"github.com/kompox/amlops/internal/retry"
)

// Result reports which branch Execute took.
type Result int

const (
	ResultFound Result = iota + 1
	ResultCreated
)

func (r Result) String() string {
	switch r {
	case ResultFound:
		return "found"
	case ResultCreated:
		return "created"
	default:
		return "none"
	}
}

// Operation describes one ensure step.
type Operation[T any] struct {
	// Kind names the resource category for messages (e.g., "workspace").
	Kind string
	// Name is the lookup key within Kind.
	Name string
	// Lookup queries the provider by name.
	Lookup func(ctx context.Context, name string) model.Lookup[T]
	// Create builds the resource from its descriptor and blocks until done.
	Create func(ctx context.Context) (T, error)
	// Retry tunes the backoff applied to transient lookup failures.
	Retry []retry.Option
}

// Execute looks the resource up and creates it when the provider reports it absent.
func (op *Operation[T]) Execute(ctx context.Context) (T, Result, error) {
	var zero T
	if strings.TrimSpace(op.Name) == "" {
		return zero, 0, fmt.Errorf("%s name must not be empty: %w", op.Kind, model.ErrInvalid)
	}
	if op.Lookup == nil || op.Create == nil {
		return zero, 0, fmt.Errorf("%s %q: lookup and create are required: %w", op.Kind, op.Name, model.ErrInvalid)
	}

	log := logging.FromContext(ctx).With("kind", op.Kind, "name", op.Name)

	var lookup model.Lookup[T]
	attempt := 0
	err := retry.Do(ctx, func() error {
		attempt++
		lookup = op.Lookup(ctx, op.Name)
		switch lookup.Kind {
		case model.LookupFound, model.LookupNotFound:
			return nil
		case model.LookupError:
			cause := lookup.Err
			if cause == nil {
				cause = errors.New("lookup failed without cause")
			}
			if model.IsTransient(cause) {
				log.Warn(ctx, "transient lookup failure", "attempt", attempt, "err", cause)
				return cause
			}
			return retry.Fatal(cause)
		default:
			return retry.Fatal(fmt.Errorf("unexpected lookup outcome %v", lookup.Kind))
		}
	}, op.Retry...)
	if err != nil {
		return zero, 0, fmt.Errorf("failed to get %s %q: %w", op.Kind, op.Name, err)
	}

	if lookup.Kind == model.LookupFound {
		log.Debug(ctx, "resource exists")
		return lookup.Resource, ResultFound, nil
	}

	log.Debug(ctx, "resource absent, creating")
	created, err := op.Create(ctx)
	if err != nil {
		return zero, 0, fmt.Errorf("failed to create %s %q: %w", op.Kind, op.Name, err)
	}
	return created, ResultCreated, nil
}
