package statusrepo

import (
	"context"
	"errors"

	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStatusRepository implements StatusRepository using GORM.
type GormStatusRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStatusRepository creates a new GORM status repository.
func NewGormStatusRepository(db *gorm.DB, tracker aggregateTracker) *GormStatusRepository {
	return &GormStatusRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new status to the database.
func (r *GormStatusRepository) Add(ctx context.Context, aggregate *status.Status) error {
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

// Update saves an existing status to the database. All columns are written,
// so flags cleared on the aggregate are cleared on the row too.
func (r *GormStatusRepository) Update(ctx context.Context, aggregate *status.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&StatusDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a status by ID.
func (r *GormStatusRepository) Get(ctx context.Context, id kernel.UUID) (*status.Status, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StatusDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("status", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBySlug retrieves a status by its normalized slug.
func (r *GormStatusRepository) GetBySlug(ctx context.Context, slug string) (*status.Status, error) {
	normalized := status.NormalizeSlug(slug)
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("slug")
	}

	var dto StatusDTO
	if err := r.db.WithContext(ctx).First(&dto, "slug = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("status", normalized)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves the whole directory ordered for display.
func (r *GormStatusRepository) GetAll(ctx context.Context) ([]*status.Status, error) {
	var dtos []StatusDTO
	if err := r.db.WithContext(ctx).Order("sort_order, name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	statuses := make([]*status.Status, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	return statuses, nil
}

// Delete removes a status row by ID.
func (r *GormStatusRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&StatusDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("status", id.String())
	}

	return nil
}
