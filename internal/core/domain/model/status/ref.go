package status

import (
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/pkg/errs"
)

// Ref points at another status, either by id or, right after a preset import,
// by slug only. Preset definitions reference their successors by slug because
// they are authored independently of any live directory; the import's edge
// resolution pass converts slug refs into id refs once all targets exist.
//
// A Ref is in exactly one of two states:
//   - Unresolved: carries a slug, no id yet
//   - Resolved: carries the id of a persisted status
type Ref struct {
	id   kernel.UUID
	slug string
}

// RefFromID creates a resolved reference to a persisted status.
func RefFromID(id kernel.UUID) (Ref, error) {
	if err := id.Validate(); err != nil {
		return Ref{}, err
	}
	return Ref{id: id}, nil
}

// RefFromSlug creates an unresolved reference by slug.
// The slug is normalized the same way status slugs are.
func RefFromSlug(slug string) (Ref, error) {
	normalized := NormalizeSlug(slug)
	if normalized == "" {
		return Ref{}, errs.NewValueIsRequiredError("next status slug")
	}
	return Ref{slug: normalized}, nil
}

// IsResolved reports whether the reference carries a status id.
func (r Ref) IsResolved() bool {
	return r.id.Validate() == nil
}

// ID returns the referenced status id. Only meaningful when IsResolved.
func (r Ref) ID() kernel.UUID {
	return r.id
}

// Slug returns the referenced slug. Only meaningful when not IsResolved.
func (r Ref) Slug() string {
	return r.slug
}

// IsEqual compares two references by their payload.
func (r Ref) IsEqual(other Ref) bool {
	if r.IsResolved() != other.IsResolved() {
		return false
	}
	if r.IsResolved() {
		return r.id.IsEqual(other.id)
	}
	return r.slug == other.slug
}
