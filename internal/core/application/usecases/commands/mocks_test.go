package commands_test

import (
	"context"
	"io"
	"log/slog"

	"statusflow/internal/core/application/usecases/commands"
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// Shared mocks for the command handler tests. All handlers talk to the same
// repositories and collaborators, so the mocks live in one place.

type StatusRepoMock struct{ mock.Mock }

func (m *StatusRepoMock) Add(ctx context.Context, aggregate *status.Status) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *StatusRepoMock) Update(ctx context.Context, aggregate *status.Status) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *StatusRepoMock) Get(ctx context.Context, id kernel.UUID) (*status.Status, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*status.Status), args.Error(1)
}

func (m *StatusRepoMock) GetBySlug(ctx context.Context, slug string) (*status.Status, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*status.Status), args.Error(1)
}

func (m *StatusRepoMock) GetAll(ctx context.Context) ([]*status.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*status.Status), args.Error(1)
}

func (m *StatusRepoMock) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type EventRepoMock struct{ mock.Mock }

func (m *EventRepoMock) Add(ctx context.Context, aggregate *transition.Event) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *EventRepoMock) Update(ctx context.Context, aggregate *transition.Event) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *EventRepoMock) Get(ctx context.Context, id kernel.UUID) (*transition.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transition.Event), args.Error(1)
}

func (m *EventRepoMock) Query(ctx context.Context, filter ports.EventFilter) ([]*transition.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transition.Event), args.Error(1)
}

func (m *EventRepoMock) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// StatusUnitOfWorkMock implements commands.StatusUoW for directory-only handlers.
type StatusUnitOfWorkMock struct{ mock.Mock }

func (m *StatusUnitOfWorkMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StatusUnitOfWorkMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StatusUnitOfWorkMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StatusUnitOfWorkMock) StatusRepository() ports.StatusRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusRepository)
}

type StatusUoWFactoryMock struct{ mock.Mock }

func (m *StatusUoWFactoryMock) Create() commands.StatusUoW {
	args := m.Called()
	return args.Get(0).(commands.StatusUoW)
}

// UnitOfWorkMock implements commands.UoW for handlers that touch both the
// status directory and the event log.
type UnitOfWorkMock struct{ mock.Mock }

func (m *UnitOfWorkMock) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *UnitOfWorkMock) StatusRepository() ports.StatusRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusRepository)
}

func (m *UnitOfWorkMock) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}

type UoWFactoryMock struct{ mock.Mock }

func (m *UoWFactoryMock) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type OrderClientMock struct{ mock.Mock }

func (m *OrderClientMock) SetStatus(ctx context.Context, orderID kernel.UUID, statusKey string, note string) error {
	args := m.Called(ctx, orderID, statusKey, note)
	return args.Error(0)
}

func (m *OrderClientMock) ResendInvoice(ctx context.Context, orderID kernel.UUID, target status.ResendTarget) error {
	args := m.Called(ctx, orderID, target)
	return args.Error(0)
}

func (m *OrderClientMock) CountByStatus(ctx context.Context, statusKey string) (int, error) {
	args := m.Called(ctx, statusKey)
	return args.Int(0), args.Error(1)
}

func (m *OrderClientMock) Reassign(ctx context.Context, fromKey string, toKey string) (int, error) {
	args := m.Called(ctx, fromKey, toKey)
	return args.Int(0), args.Error(1)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(ctx context.Context, message ports.MailMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishRecorded(ctx context.Context, event *transition.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
