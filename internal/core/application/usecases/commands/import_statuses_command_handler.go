package commands

import (
	"context"
	"log/slog"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/ports"
)

// ImportStatusesCommandHandler merges a preset bundle of status definitions
// into the live directory. The merge preserves identity by slug, resolves
// slug-valued edges into ids, and prunes custom statuses the preset no
// longer mentions, as long as they hold no live orders.
//
// The algorithm runs in four passes, in this order:
//  1. Identity merge: carry over the id of any existing status sharing the
//     definition's slug, so the update lands on the existing row
//  2. Create/update: persist each definition; successor edges stay
//     slug-valued here because later definitions may not have ids yet
//  3. Edge resolution: convert slug edges into id edges now that every
//     target exists
//  4. Prune: delete custom statuses absent from the preset when they hold
//     no orders; statuses with live orders are never silently removed
//
// Failures on one definition are logged and do not abort the import;
// each status is persisted independently.
type ImportStatusesCommandHandler struct {
	uowFactory  StatusUoWFactory
	orderClient ports.OrderClient
	logger      *slog.Logger
}

// NewImportStatusesCommandHandler creates a handler for preset imports.
func NewImportStatusesCommandHandler(
	uowFactory StatusUoWFactory,
	orderClient ports.OrderClient,
	logger *slog.Logger,
) ImportStatusesCommandHandler {
	return ImportStatusesCommandHandler{
		uowFactory:  uowFactory,
		orderClient: orderClient,
		logger:      logger.With("component", "import_statuses"),
	}
}

// Handle processes the preset import command.
func (h ImportStatusesCommandHandler) Handle(ctx context.Context, cmd ImportStatusesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	statusRepo := uow.StatusRepository()

	loaded, err := statusRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	definitions := cmd.Preset().Definitions()

	// Pass 1+2: identity merge by slug, then persist each definition.
	imported := make(map[string]*status.Status, len(definitions))
	importedIDs := make(map[kernel.UUID]bool, len(definitions))
	for sortOrder, def := range definitions {
		var carriedID kernel.UUID
		exists := false
		for _, current := range loaded {
			if current.Slug() == def.Slug {
				carriedID = current.ID()
				exists = true
				break
			}
		}
		if !exists {
			carriedID = kernel.NewUUID()
		}

		aggregate, defErr := aggregateFromDefinition(carriedID, def, sortOrder)
		if defErr != nil {
			h.logger.ErrorContext(ctx, "Skipping invalid preset definition",
				"slug", def.Slug, "error", defErr)
			continue
		}

		if exists {
			defErr = statusRepo.Update(ctx, aggregate)
		} else {
			defErr = statusRepo.Add(ctx, aggregate)
		}
		if defErr != nil {
			h.logger.ErrorContext(ctx, "Failed to persist preset definition",
				"slug", def.Slug, "error", defErr)
			continue
		}

		imported[def.Slug] = aggregate
		importedIDs[aggregate.ID()] = true
	}

	// Pass 3: resolve slug edges now that every target has an id.
	lookup := func(slug string) (kernel.UUID, bool) {
		if target, ok := imported[slug]; ok {
			return target.ID(), true
		}
		for _, current := range loaded {
			if current.Slug() == slug {
				return current.ID(), true
			}
		}
		return kernel.UUID{}, false
	}

	for _, aggregate := range imported {
		if !aggregate.ResolveNextStatuses(lookup) {
			continue
		}
		if resolveErr := statusRepo.Update(ctx, aggregate); resolveErr != nil {
			h.logger.ErrorContext(ctx, "Failed to persist resolved edges",
				"slug", aggregate.Slug(), "error", resolveErr)
		}
	}

	// Pass 4: prune custom statuses the preset no longer mentions.
	for _, current := range loaded {
		if current.IsCore() {
			continue
		}
		if _, ok := imported[current.Slug()]; ok {
			continue
		}
		if importedIDs[current.ID()] {
			continue
		}

		count, countErr := h.orderClient.CountByStatus(ctx, current.PrefixedSlug())
		if countErr != nil {
			count = current.OrdersCount()
		}

		if count > 0 {
			// Orphans holding live orders stay; refresh the cached count.
			current.SetOrdersCount(count)
			if updateErr := statusRepo.Update(ctx, current); updateErr != nil {
				h.logger.ErrorContext(ctx, "Failed to refresh orphan status count",
					"slug", current.Slug(), "error", updateErr)
			}
			continue
		}

		if deleteErr := statusRepo.Delete(ctx, current.ID()); deleteErr != nil {
			h.logger.ErrorContext(ctx, "Failed to prune unused status",
				"slug", current.Slug(), "error", deleteErr)
		}
	}

	return uow.Commit(ctx)
}

// aggregateFromDefinition builds a status aggregate from one preset entry.
// Successor edges stay slug-valued; the edge resolution pass converts them.
func aggregateFromDefinition(id kernel.UUID, def status.Definition, sortOrder int) (*status.Status, error) {
	refs := make([]status.Ref, 0, len(def.NextStatuses))
	for _, slug := range def.NextStatuses {
		ref, err := status.RefFromSlug(slug)
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}

	emailRule := status.NewEmailRule(false, nil, "", "", true, nil, status.NewCondition(false, nil, false))

	return status.RestoreStatus(
		id,
		def.Slug,
		def.Name,
		def.Description,
		def.Kind,
		true,
		def.DaysEstimation,
		sortOrder,
		def.Color, def.Background, def.Icon,
		def.IsPaid, true, true,
		refs,
		emailRule,
		nil,
		0,
	)
}
