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

func TestProcessNotificationsCommandHandler_Handle_SendsMatchingMail(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessNotificationsCommand()
	stampedAt := time.Date(2026, 4, 2, 6, 0, 0, 0, time.UTC)

	owningID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	emailRule := status.NewEmailRule(
		true, []string{"ops@example.com"}, "Order update", "Your order moved on.", true,
		[]string{"manual.pdf"}, alwaysCondition())
	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, emailRule, nil)

	occurredAt := time.Date(2026, 4, 1, 15, 4, 0, 0, time.UTC)
	event, err := transition.NewEvent(kernel.NewUUID(), orderID, kernel.NewUUID(), owningID, occurredAt)
	require.NoError(t, err)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	mailer := new(MailerMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	matchMessage := mock.MatchedBy(func(message ports.MailMessage) bool {
		return len(message.Recipients) == 1 &&
			message.Recipients[0] == "ops@example.com" &&
			message.Subject == "Order update" &&
			len(message.Attachments) == 1
	})

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{Notified: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		mailer.On("Send", ctx, matchMessage).Return(nil).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessNotificationsCommandHandlerWithClock(
		factory, mailer, services.NewConditionEvaluator(), testLogger(),
		func() time.Time { return stampedAt })
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, event.IsNotified())
	assert.Equal(t, stampedAt, *event.NotifiedAt())
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestProcessNotificationsCommandHandler_Handle_BodyEmbedsOrderDetails(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessNotificationsCommand()

	owningID := kernel.NewUUID()
	orderID := kernel.NewUUID()

	emailRule := status.NewEmailRule(
		true, []string{"ops@example.com"}, "", "Heads up.", true, nil, alwaysCondition())
	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, emailRule, nil)

	occurredAt := time.Date(2026, 4, 1, 15, 4, 0, 0, time.UTC)
	event, err := transition.NewEvent(kernel.NewUUID(), orderID, kernel.NewUUID(), owningID, occurredAt)
	require.NoError(t, err)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	mailer := new(MailerMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	var sent ports.MailMessage
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{Notified: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		mailer.On("Send", ctx, mock.AnythingOfType("ports.MailMessage")).
			Run(func(args mock.Arguments) { sent = args.Get(1).(ports.MailMessage) }).
			Return(nil).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessNotificationsCommandHandler(
		factory, mailer, services.NewConditionEvaluator(), testLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	// An empty subject falls back to one derived from the status name.
	assert.Equal(t, "Order status changed to "+owning.Name(), sent.Subject)
	assert.Contains(t, sent.Body, "Heads up.")
	assert.Contains(t, sent.Body, "Order: "+orderID.String())
	assert.Contains(t, sent.Body, "New status: "+owning.Name())
	assert.Contains(t, sent.Body, occurredAt.Format(time.RFC1123))
	mailer.AssertExpectations(t)
}

func TestProcessNotificationsCommandHandler_Handle_DisabledRuleStampsWithoutSending(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessNotificationsCommand()

	owningID := kernel.NewUUID()

	// The condition matches, the rule is off: no mail, but the event is
	// settled so later passes do not rescan it.
	emailRule := status.NewEmailRule(
		false, []string{"ops@example.com"}, "Subject", "Body", false, nil, alwaysCondition())
	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, emailRule, nil)
	event := unprocessedEvent(t, kernel.NewUUID(), kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	mailer := new(MailerMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{Notified: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessNotificationsCommandHandler(
		factory, mailer, services.NewConditionEvaluator(), testLogger())
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, event.IsNotified())
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestProcessNotificationsCommandHandler_Handle_SendFailureStillStamps(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessNotificationsCommand()

	owningID := kernel.NewUUID()
	emailRule := status.NewEmailRule(
		true, []string{"ops@example.com"}, "Subject", "Body", false, nil, alwaysCondition())
	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, emailRule, nil)
	event := unprocessedEvent(t, kernel.NewUUID(), kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	mailer := new(MailerMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{Notified: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		mailer.On("Send", ctx, mock.AnythingOfType("ports.MailMessage")).
			Return(errors.New("smtp timeout")).Once(),
		eventRepo.On("Update", ctx, event).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessNotificationsCommandHandler(
		factory, mailer, services.NewConditionEvaluator(), testLogger())
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, event.IsNotified())
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestProcessNotificationsCommandHandler_Handle_UnmatchedEventStaysUnstamped(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessNotificationsCommand()

	owningID := kernel.NewUUID()
	requiredOrigin := kernel.NewUUID()

	emailRule := status.NewEmailRule(
		true, []string{"ops@example.com"}, "Subject", "Body", false, nil,
		status.NewCondition(true, []kernel.UUID{requiredOrigin}, false))
	owning := restoreDispatchStatus(t, owningID, "awaiting-pickup", true, emailRule, nil)
	event := unprocessedEvent(t, kernel.NewUUID(), kernel.NewUUID(), owningID)

	statusRepo := new(StatusRepoMock)
	eventRepo := new(EventRepoMock)
	mailer := new(MailerMock)
	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("StatusRepository").Return(statusRepo).Once(),
		uow.On("EventRepository").Return(eventRepo).Once(),
		statusRepo.On("GetAll", ctx).Return([]*status.Status{owning}, nil).Once(),
		eventRepo.On("Query", ctx, ports.EventFilter{Notified: ports.StampEmpty}).
			Return([]*transition.Event{event}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewProcessNotificationsCommandHandler(
		factory, mailer, services.NewConditionEvaluator(), testLogger())
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, event.IsNotified())
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestProcessNotificationsCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.ProcessNotificationsCommand{} // not constructed properly

	handler := commands.NewProcessNotificationsCommandHandler(
		new(UoWFactoryMock), new(MailerMock), services.NewConditionEvaluator(), testLogger())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrProcessNotificationsCommandIsNotConstructed)
}

func TestProcessNotificationsCommandHandler_Handle_OverlappingPassIsSkipped(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewProcessNotificationsCommand()

	uow := new(UnitOfWorkMock)
	factory := new(UoWFactoryMock)

	firstEntered := make(chan struct{})
	release := make(chan struct{})
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Run(func(mock.Arguments) {
		close(firstEntered)
		<-release
	}).Return(errors.New("pass interrupted")).Once()

	handler := commands.NewProcessNotificationsCommandHandler(
		factory, new(MailerMock), services.NewConditionEvaluator(), testLogger())

	firstDone := make(chan error, 1)
	go func() { firstDone <- handler.Handle(ctx, cmd) }()
	<-firstEntered

	// The second pass collapses into the running one without opening a
	// transaction or touching the event log.
	require.NoError(t, handler.Handle(ctx, cmd))

	close(release)
	require.Error(t, <-firstDone)
	factory.AssertNumberOfCalls(t, "Create", 1)
	uow.AssertExpectations(t)
}
