package commands_test

import (
	"errors"
	"testing"
	"time"

	"statusflow/internal/core/application/usecases/commands"
	"statusflow/internal/core/domain/model/kernel"
	"statusflow/internal/core/domain/model/status"
	"statusflow/internal/core/domain/model/transition"
	"statusflow/internal/core/domain/services"
	"statusflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func restoreDispatchStatus(
	t *testing.T,
	id kernel.UUID,
	slug string,
	enabled bool,
	emailRule status.EmailRule,
	triggerRules []status.TriggerRule,
) *status.Status {
	t.Helper()

	s, err := status.RestoreStatus(
		id, slug, "Step "+slug, "", status.KindCustom,
		enabled, 0, 0,
		"#fff", "#777", "",
		false, false, false,
		nil, emailRule, triggerRules, 0,
	)
	require.NoError(t, err)
	return s
}

func disabledEmailRule() status.EmailRule {
	// An email rule whose condition never fires for the trigger tests.
	return status.NewEmailRule(false, nil, "", "", true, nil, status.NewCondition(true, []kernel.UUID{kernel.NewUUID()}, false))
}

func alwaysCondition() status.Condition {
	return status.NewCondition(false, nil, false)
}

func unprocessedEvent(t *testing.T, orderID, fromID, toID kernel.UUID) *transition.Event {
	t.Helper()
	event, err := transition.NewEvent(kernel.NewUUID(), orderID, fromID, toID, time.Now())
	require.NoError(t, err)
	return event
}

func TestProcessTriggersCommandHandler_Handle_AllMatchingRulesFire(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()
	stampedAt := time.Date(2026, 4, 2, 6, 0, 0, 0, time.UTC)

	owningID := kernel.NewUUID()
	targetID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	// One status owning two rules; both match the same event, both fire.
	changeRule, err := status.NewChangeStatusRule(kernel.NewUUID(), targetID, alwaysCondition())
	require.NoError(t, err)
	resendRule, err := status.NewResendInvoiceRule(kernel.NewUUID(), status.ResendToClient, alwaysCondition())
	require.NoError(t, err)

	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, disabledEmailRule(),
		[]status.TriggerRule{changeRule, resendRule})
	target := restoreDispatchStatus(t, targetID, "archived", true, disabledEmailRule(), nil)

	event := unprocessedEvent(t, orderID, kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	orderClient := new(OrderClientMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	note := "Status changed automatically by a trigger rule on status " + owning.Name()

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning, target}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		orderClient.On("SetStatus", ctx, orderID, "wc-archived", note).Return(nil).Once(),
		orderClient.On("ResendInvoice", ctx, orderID, status.ResendToClient).Return(nil).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessTriggersCommandHandlerWithClock(
		factory, orderClient, services.NewConditionEvaluator(), testLogger(),
		func() time.Time { return stampedAt })
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, event.IsTriggerProcessed())
	assert.Equal(t, stampedAt, *event.TriggerProcessedAt())
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	statusRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	orderClient.AssertExpectations(t)
}

func TestProcessTriggersCommandHandler_Handle_UnmatchedEventStaysUnstamped(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()

	owningID := kernel.NewUUID()
	requiredOrigin := kernel.NewUUID()

	// The rule only fires for transitions out of a specific origin.
	rule, err := status.NewChangeStatusRule(kernel.NewUUID(), kernel.NewUUID(),
		status.NewCondition(true, []kernel.UUID{requiredOrigin}, false))
	require.NoError(t, err)

	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, disabledEmailRule(),
		[]status.TriggerRule{rule})
	event := unprocessedEvent(t, kernel.NewUUID(), kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	orderClient := new(OrderClientMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessTriggersCommandHandler(
		factory, orderClient, services.NewConditionEvaluator(), testLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, event.IsTriggerProcessed())
	eventRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	orderClient.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestProcessTriggersCommandHandler_Handle_DisabledStatusIsSkipped(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()

	owningID := kernel.NewUUID()
	rule, err := status.NewChangeStatusRule(kernel.NewUUID(), kernel.NewUUID(), alwaysCondition())
	require.NoError(t, err)

	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", false, disabledEmailRule(),
		[]status.TriggerRule{rule})
	event := unprocessedEvent(t, kernel.NewUUID(), kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	orderClient := new(OrderClientMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessTriggersCommandHandler(
		factory, orderClient, services.NewConditionEvaluator(), testLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, event.IsTriggerProcessed())
	orderClient.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestProcessTriggersCommandHandler_Handle_ActionFailureStillStamps(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()

	owningID := kernel.NewUUID()
	targetID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	rule, err := status.NewChangeStatusRule(kernel.NewUUID(), targetID, alwaysCondition())
	require.NoError(t, err)

	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, disabledEmailRule(),
		[]status.TriggerRule{rule})
	target := restoreDispatchStatus(t, targetID, "archived", true, disabledEmailRule(), nil)
	event := unprocessedEvent(t, orderID, kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	orderClient := new(OrderClientMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning, target}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		orderClient.On("SetStatus", ctx, orderID, "wc-archived", mock.AnythingOfType("string")).
			Return(errors.New("order system down")).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessTriggersCommandHandler(
		factory, orderClient, services.NewConditionEvaluator(), testLogger())
	err = handler.Handle(ctx, cmd)

	// The transition is processed once, not retried until the collaborator recovers.
	require.NoError(t, err)
	assert.True(t, event.IsTriggerProcessed())
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	orderClient.AssertExpectations(t)
}

func TestProcessTriggersCommandHandler_Handle_MissingTargetIsLoggedNotExecuted(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()

	owningID := kernel.NewUUID()
	// The rule points at a status that no longer exists in the directory.
	rule, err := status.NewChangeStatusRule(kernel.NewUUID(), kernel.NewUUID(), alwaysCondition())
	require.NoError(t, err)

	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, disabledEmailRule(),
		[]status.TriggerRule{rule})
	event := unprocessedEvent(t, kernel.NewUUID(), kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	orderClient := new(OrderClientMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessTriggersCommandHandler(
		factory, orderClient, services.NewConditionEvaluator(), testLogger())
	err = handler.Handle(ctx, cmd)

	// The rule matched, so the event is stamped even though nothing could run.
	require.NoError(t, err)
	assert.True(t, event.IsTriggerProcessed())
	orderClient.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestProcessTriggersCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.ProcessTriggersCommand{} // not constructed properly

	handler := commands.NewProcessTriggersCommandHandler(
		new(UoWFactoryMock), new(OrderClientMock), services.NewConditionEvaluator(), testLogger())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrProcessTriggersCommandIsNotConstructed)
}

func TestProcessTriggersCommandHandler_Handle_QueryError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{TriggerProcessed: ports.StampEmpty}).
			Return(nil, errors.New("query error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessTriggersCommandHandler(
		factory, new(OrderClientMock), services.NewConditionEvaluator(), testLogger())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query error")
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestProcessTriggersCommandHandler_Handle_OverlappingPassIsSkipped(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessTriggersCommand()

	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	firstEntered := make(chan struct{})
	release := make(chan struct{})

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Run(func(mock.Arguments) {
		close(firstEntered)
		<-release
	}).Return(errors.New("pass interrupted")).Once()

	handler := commands.NewProcessTriggersCommandHandler(
		factory, new(OrderClientMock), services.NewConditionEvaluator(), testLogger())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- handler.Handle(ctx, cmd)
	}()

	<-firstEntered

	// The second pass collapses into the running one without opening a
	// transaction or touching the event log.
	require.NoError(t, handler.Handle(ctx, cmd))

	close(release)
	require.Error(t, <-firstDone)

	factory.AssertNumberOfCalls(t, "Create", 1)
	uow.AssertExpectations(t)
}
