package eventrepo

import (
	"context"
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/core/ports"
	"statusflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEventRepository creates a new GORM transition event repository.
func NewGormEventRepository(db *gorm.DB, tracker aggregateTracker) *GormEventRepository {
	return &GormEventRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new transition event to the database.
func (r *GormEventRepository) Add(ctx context.Context, aggregate *transition.Event) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the processed stamps of an existing event. The write is
// set-if-null: a stamp already present on the row is never overwritten or
// cleared, so concurrent dispatcher passes cannot regress each other.
func (r *GormEventRepository) Update(ctx context.Context, aggregate *transition.Event) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&EventDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"trigger_processed_at": gorm.Expr("COALESCE(trigger_processed_at, ?)", dto.TriggerProcessedAt),
			"notified_at":          gorm.Expr("COALESCE(notified_at, ?)", dto.NotifiedAt),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a transition event by ID.
func (r *GormEventRepository) Get(ctx context.Context, id kernel.UUID) (*transition.Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transition event", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Query retrieves the events matching the filter, oldest first. The order
// matters: dispatcher passes must process events in the sequence they were
// observed so chained trigger rules fire in a stable order.
func (r *GormEventRepository) Query(ctx context.Context, filter ports.EventFilter) ([]*transition.Event, error) {
	db := r.db.WithContext(ctx).Model(&EventDTO{})

	db = applyStampFilter(db, "trigger_processed_at", filter.TriggerProcessed)
	db = applyStampFilter(db, "notified_at", filter.Notified)

	if filter.OrderID != nil {
		db = db.Where("order_id = ?", filter.OrderID.Bytes())
	}
	if filter.FromStatusID != nil {
		db = db.Where("from_status_id = ?", filter.FromStatusID.Bytes())
	}
	if filter.ToStatusID != nil {
		db = db.Where("to_status_id = ?", filter.ToStatusID.Bytes())
	}
	if filter.OlderThanDays > 0 {
		db = db.Where("occurred_at < NOW() - make_interval(days => ?)", filter.OlderThanDays)
	}

	var dtos []EventDTO
	if err := db.Order("occurred_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]*transition.Event, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// Delete removes an event row by ID. Used when a re-recorded transition
// supersedes a still-unresolved duplicate.
func (r *GormEventRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&EventDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("transition event", id.String())
	}

	return nil
}

func applyStampFilter(db *gorm.DB, column string, filter ports.StampFilter) *gorm.DB {
	switch filter {
	case ports.StampEmpty:
		return db.Where(column + " IS NULL")
	case ports.StampSet:
		return db.Where(column + " IS NOT NULL")
	default:
		return db
	}
}
