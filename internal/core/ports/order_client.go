package ports

import (
	"context"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
)

// OrderClient is the gateway to the host order system. The engine never
// touches order rows directly; status changes, invoice resends, counting
// and bulk reassignment all go through this collaborator.
//
// Implementations must use bounded timeouts: a stalled call for one order
// must not be able to stall a whole dispatch pass.
type OrderClient interface {
	// SetStatus moves the order to the status identified by its prefixed
	// slug, attaching an audit note naming this engine as the origin.
	SetStatus(ctx context.Context, orderID kernel.UUID, statusKey string, note string) error

	// ResendInvoice asks the host to resend the order invoice to the target.
	ResendInvoice(ctx context.Context, orderID kernel.UUID, target status.ResendTarget) error

	// CountByStatus returns how many orders currently hold the status
	// identified by its prefixed slug.
	CountByStatus(ctx context.Context, statusKey string) (int, error)

	// Reassign retags every order from one status key to another and
	// returns the number of orders updated.
	Reassign(ctx context.Context, fromKey string, toKey string) (int, error)
}
