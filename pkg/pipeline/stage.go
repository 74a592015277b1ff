// Package pipeline holds the render session types and the stage plumbing
// shared by the mirrorbeat stages.
package pipeline

import "context"

// Stage is one step of a render: layout, streaming or encoding.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function stand in for a Stage, as tests do to
// replace the stream stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
