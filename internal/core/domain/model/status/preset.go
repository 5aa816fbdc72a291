package status

import (
	"fmt"

	"statusflow/internal/pkg/errs"
)

// Preset names a bundled set of status definitions that can be imported into
// the live directory. Each preset is a superset of the core definitions with
// a different successor chain after "processing".
type Preset string

const (
	// PresetCore resets the directory to the built-in definitions.
	PresetCore Preset = "core"

	// PresetManufactory adds a production chain after processing.
	PresetManufactory Preset = "manufactory"

	// PresetFoodDelivery adds a kitchen-and-courier chain after processing.
	PresetFoodDelivery Preset = "food_delivery"
)

// Validate checks that the preset is one of the known bundles.
func (p Preset) Validate() error {
	switch p {
	case PresetCore, PresetManufactory, PresetFoodDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"preset is invalid",
			fmt.Errorf("%q is not a known preset", string(p)),
		)
	}
}

// Definition is one preset entry: the attributes of a status as authored in
// the bundle. Successors are expressed as slugs because presets are authored
// independently of any live directory; the import's edge resolution pass
// converts them to ids.
type Definition struct {
	Slug           string
	Name           string
	Description    string
	Kind           Kind
	DaysEstimation int
	Color          string
	Background     string
	Icon           string
	IsPaid         bool
	NextStatuses   []string
}

// Definitions returns the ordered status definitions of the preset.
func (p Preset) Definitions() []Definition {
	switch p {
	case PresetManufactory:
		return manufactoryDefinitions()
	case PresetFoodDelivery:
		return foodDeliveryDefinitions()
	default:
		return coreDefinitions()
	}
}

// isCoreSlug reports whether the slug belongs to the built-in definition set.
func isCoreSlug(slug string) bool {
	for _, def := range coreDefinitions() {
		if def.Slug == slug {
			return true
		}
	}
	return false
}

func coreDefinitions() []Definition {
	return []Definition{
		{
			Slug:         "pending",
			Name:         "Pending payment",
			Description:  "Order received, no payment initiated.",
			Kind:         KindCore,
			Color:        "#fff",
			Background:   "#e5a615",
			NextStatuses: []string{"processing", "on-hold", "cancelled"},
		},
		{
			Slug:         "processing",
			Name:         "Processing",
			Description:  "Payment received and stock reduced, awaiting fulfillment.",
			Kind:         KindCore,
			Color:        "#fff",
			Background:   "#2471a3",
			IsPaid:       true,
			NextStatuses: []string{"completed", "on-hold", "cancelled"},
		},
		{
			Slug:         "on-hold",
			Name:         "On Hold",
			Description:  "Awaiting payment confirmation, stock is reduced.",
			Kind:         KindCore,
			Color:        "#fff",
			Background:   "#f39c12",
			NextStatuses: []string{"processing", "cancelled"},
		},
		{
			Slug:         "completed",
			Name:         "Completed",
			Description:  "Order fulfilled and complete.",
			Kind:         KindCore,
			Color:        "#fff",
			Background:   "#27ae60",
			IsPaid:       true,
			NextStatuses: []string{"refunded"},
		},
		{
			Slug:        "cancelled",
			Name:        "Cancelled",
			Description: "Order cancelled by an admin or the customer.",
			Kind:        KindCore,
			Color:       "#fff",
			Background:  "#839192",
		},
		{
			Slug:        "refunded",
			Name:        "Refunded",
			Description: "Order refunded by an admin.",
			Kind:        KindCore,
			Color:       "#fff",
			Background:  "#a569bd",
		},
		{
			Slug:         "failed",
			Name:         "Failed",
			Description:  "Payment failed or was declined.",
			Kind:         KindCore,
			Color:        "#fff",
			Background:   "#c0392b",
			NextStatuses: []string{"pending", "processing"},
		},
	}
}

func manufactoryDefinitions() []Definition {
	defs := coreDefinitions()

	for i := range defs {
		if defs[i].Slug == "processing" {
			defs[i].NextStatuses = []string{"manufacturing", "on-hold", "cancelled"}
		}
	}

	return append(defs,
		Definition{
			Slug:           "manufacturing",
			Name:           "Manufacturing",
			Description:    "Order is in production.",
			Kind:           KindCustom,
			DaysEstimation: 7,
			Color:          "#fff",
			Background:     "#7d6608",
			IsPaid:         true,
			NextStatuses:   []string{"quality-check", "on-hold", "cancelled"},
		},
		Definition{
			Slug:           "quality-check",
			Name:           "Quality Check",
			Description:    "Produced items are under inspection.",
			Kind:           KindCustom,
			DaysEstimation: 2,
			Color:          "#fff",
			Background:     "#6c3483",
			IsPaid:         true,
			NextStatuses:   []string{"packing", "manufacturing"},
		},
		Definition{
			Slug:           "packing",
			Name:           "Packing",
			Description:    "Order is being packed for shipment.",
			Kind:           KindCustom,
			DaysEstimation: 1,
			Color:          "#fff",
			Background:     "#1f618d",
			IsPaid:         true,
			NextStatuses:   []string{"shipping"},
		},
		Definition{
			Slug:           "shipping",
			Name:           "Shipping",
			Description:    "Order left the facility and is on its way.",
			Kind:           KindCustom,
			DaysEstimation: 5,
			Color:          "#fff",
			Background:     "#117864",
			IsPaid:         true,
			NextStatuses:   []string{"completed"},
		},
	)
}

func foodDeliveryDefinitions() []Definition {
	defs := coreDefinitions()

	for i := range defs {
		if defs[i].Slug == "processing" {
			defs[i].NextStatuses = []string{"preparing", "on-hold", "cancelled"}
		}
	}

	return append(defs,
		Definition{
			Slug:           "preparing",
			Name:           "Preparing",
			Description:    "The kitchen is preparing the order.",
			Kind:           KindCustom,
			DaysEstimation: 1,
			Color:          "#fff",
			Background:     "#b9770e",
			IsPaid:         true,
			NextStatuses:   []string{"out-for-delivery", "cancelled"},
		},
		Definition{
			Slug:           "out-for-delivery",
			Name:           "Out for Delivery",
			Description:    "A courier picked up the order.",
			Kind:           KindCustom,
			DaysEstimation: 1,
			Color:          "#fff",
			Background:     "#148f77",
			IsPaid:         true,
			NextStatuses:   []string{"completed", "failed"},
		},
	)
}
