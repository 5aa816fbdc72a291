package status

import (
	"fmt"

	"statusflow/internal/pkg/errs"
)

// Kind classifies a status as part of the built-in core set or user-defined.
//
// Core statuses are seeded from the core preset definitions, cannot be
// deleted, and are always considered enabled regardless of their stored
// enabled flag. Custom statuses are fully managed by the user.
type Kind string

const (
	// KindCore marks a status seeded from the built-in definition set.
	KindCore Kind = "core"

	// KindCustom marks a user-defined status.
	KindCustom Kind = "custom"
)

// Validate checks that the kind is one of the known values.
func (k Kind) Validate() error {
	switch k {
	case KindCore, KindCustom:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"kind is invalid",
			fmt.Errorf("%q is not a valid status kind", string(k)),
		)
	}
}

// String returns the persisted representation of the kind.
func (k Kind) String() string {
	return string(k)
}
