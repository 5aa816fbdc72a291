package ports

import (
	"context"

	"statusflow/internal/core/domain/model/transition"
)

// TransitionPublisher announces newly recorded transition events so that
// interested parties (the immediate dispatch pass, in particular) can react
// without waiting for the next scheduler tick.
type TransitionPublisher interface {
	PublishRecorded(ctx context.Context, event *transition.Event) error
}
