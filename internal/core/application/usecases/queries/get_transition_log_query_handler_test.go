package queries_test

import (
	"context"
	"testing"
	"time"

	"statusflow/internal/adapters/out/postgres/eventrepo"
	"statusflow/internal/adapters/out/postgres/statusrepo"
	"statusflow/internal/core/application/usecases/queries"
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetTransitionLogQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetTransitionLogQueryHandler
}

func (suite *GetTransitionLogQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&statusrepo.StatusDTO{}, &eventrepo.EventDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetTransitionLogQueryHandler(db)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetTransitionLogQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE transition_events CASCADE").Error
	suite.Require().NoError(err)
	err = suite.db.Exec("TRUNCATE TABLE statuses CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query, err := queries.NewGetTransitionLogQuery(nil, 0)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_ReturnsEventsNewestFirst() {
	// Distinct destinations keep the unprocessed-transition unique index out
	// of the way.
	orderID := kernel.NewUUID()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	first := suite.createEvent(orderID, kernel.UUID{}, kernel.NewUUID(), base)
	second := suite.createEvent(orderID, kernel.UUID{}, kernel.NewUUID(), base.Add(time.Hour))
	third := suite.createEvent(orderID, kernel.UUID{}, kernel.NewUUID(), base.Add(2*time.Hour))
	suite.saveEvents(first, second, third)

	query, err := queries.NewGetTransitionLogQuery(nil, 0)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.True(result[0].ID.IsEqual(third.ID()))
	suite.True(result[1].ID.IsEqual(second.ID()))
	suite.True(result[2].ID.IsEqual(first.ID()))
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_FiltersByOrder() {
	wantedOrderID := kernel.NewUUID()
	otherOrderID := kernel.NewUUID()
	toStatusID := kernel.NewUUID()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	wanted := suite.createEvent(wantedOrderID, kernel.UUID{}, toStatusID, base)
	other := suite.createEvent(otherOrderID, kernel.UUID{}, toStatusID, base.Add(time.Minute))
	suite.saveEvents(wanted, other)

	query, err := queries.NewGetTransitionLogQuery(&wantedOrderID, 0)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(wanted.ID()))
	suite.True(result[0].OrderID.IsEqual(wantedOrderID))
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_AppliesLimit() {
	orderID := kernel.NewUUID()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := range 5 {
		event := suite.createEvent(orderID, kernel.UUID{}, kernel.NewUUID(), base.Add(time.Duration(i)*time.Minute))
		suite.saveEvents(event)
	}

	query, err := queries.NewGetTransitionLogQuery(nil, 2)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.WithinDuration(base.Add(4*time.Minute), result[0].OccurredAt, time.Second)
	suite.WithinDuration(base.Add(3*time.Minute), result[1].OccurredAt, time.Second)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_ResolvesStatusSlugsThroughTheDirectory() {
	processing := suite.createStatus("processing", "Processing")
	shipping := suite.createStatus("shipping", "Shipping")
	suite.saveStatuses(processing, shipping)

	orderID := kernel.NewUUID()
	event := suite.createEvent(
		orderID,
		processing.ID(),
		shipping.ID(),
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	)
	suite.saveEvents(event)

	query, err := queries.NewGetTransitionLogQuery(nil, 0)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("processing", result[0].FromStatusSlug)
	suite.Equal("shipping", result[0].ToStatusSlug)
	suite.Equal("Shipping", result[0].ToStatusName)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_UnknownStatuses_ResolveToEmptyStrings() {
	// A zero origin and a destination deleted after recording both fall out
	// of the outer joins.
	orderID := kernel.NewUUID()
	event := suite.createEvent(
		orderID,
		kernel.UUID{},
		kernel.NewUUID(),
		time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	)
	suite.saveEvents(event)

	query, err := queries.NewGetTransitionLogQuery(nil, 0)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Empty(result[0].FromStatusSlug)
	suite.Empty(result[0].ToStatusSlug)
	suite.Empty(result[0].ToStatusName)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_MapsDispatchStamps() {
	occurredAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	triggerProcessedAt := occurredAt.Add(time.Minute)
	notifiedAt := occurredAt.Add(2 * time.Minute)

	stamped, err := transition.RestoreEvent(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.UUID{},
		kernel.NewUUID(),
		occurredAt,
		&triggerProcessedAt,
		&notifiedAt,
	)
	suite.Require().NoError(err)

	fresh := suite.createEvent(kernel.NewUUID(), kernel.UUID{}, kernel.NewUUID(), occurredAt.Add(time.Hour))
	suite.saveEvents(stamped, fresh)

	query, err := queries.NewGetTransitionLogQuery(nil, 0)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	suite.Nil(result[0].TriggerProcessedAt)
	suite.Nil(result[0].NotifiedAt)

	suite.Require().NotNil(result[1].TriggerProcessedAt)
	suite.Require().NotNil(result[1].NotifiedAt)
	suite.WithinDuration(triggerProcessedAt, *result[1].TriggerProcessedAt, time.Second)
	suite.WithinDuration(notifiedAt, *result[1].NotifiedAt, time.Second)
}

func (suite *GetTransitionLogQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetTransitionLogQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetTransitionLogQuery constructor")
}

func (suite *GetTransitionLogQueryHandlerTestSuite) createStatus(slug, name string) *status.Status {
	aggregate, err := status.NewStatus(kernel.NewUUID(), slug, name)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *GetTransitionLogQueryHandlerTestSuite) saveStatuses(statuses ...*status.Status) {
	repo := statusrepo.NewGormStatusRepository(suite.db, &mockAggregateTracker{})
	for _, s := range statuses {
		err := repo.Add(context.Background(), s)
		suite.Require().NoError(err)
	}
}

func (suite *GetTransitionLogQueryHandlerTestSuite) createEvent(
	orderID, fromStatusID, toStatusID kernel.UUID,
	occurredAt time.Time,
) *transition.Event {
	event, err := transition.NewEvent(kernel.NewUUID(), orderID, fromStatusID, toStatusID, occurredAt)
	suite.Require().NoError(err)
	return event
}

func (suite *GetTransitionLogQueryHandlerTestSuite) saveEvents(events ...*transition.Event) {
	repo := eventrepo.NewGormEventRepository(suite.db, &mockAggregateTracker{})
	for _, e := range events {
		err := repo.Add(context.Background(), e)
		suite.Require().NoError(err)
	}
}

func TestGetTransitionLogQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetTransitionLogQueryHandlerTestSuite))
}
