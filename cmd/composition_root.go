package cmd

import (
	"log/slog"
	"os"

	inpubsub "statusflow/internal/adapters/in/pubsub"
	"statusflow/internal/adapters/out/mail"
	"statusflow/internal/adapters/out/orders"
	"statusflow/internal/adapters/out/postgres"
	outpubsub "statusflow/internal/adapters/out/pubsub"
	"statusflow/internal/core/application/usecases/commands"
	"statusflow/internal/core/application/usecases/queries"
	"statusflow/internal/core/domain/services"
	"statusflow/internal/jobs"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	orderClient *orders.Client
	mailer      *mail.SMTPMailer
	channel     *gochannel.GoChannel
	publisher   *outpubsub.WatermillPublisher
	evaluator   services.ConditionEvaluator
	logger      *slog.Logger

	// The dispatch pass handlers are single-flight, so the scheduler and
	// the transition consumer must share the same instances.
	triggersHandler      *commands.ProcessTriggersCommandHandler
	notificationsHandler *commands.ProcessNotificationsCommandHandler
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	channel := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	root := CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		orderClient: orders.NewClient(config.OrdersAPIBaseURL, config.OrdersAPIKey),
		mailer:      mail.NewSMTPMailer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword, config.MailFrom),
		channel:     channel,
		publisher:   outpubsub.NewWatermillPublisher(channel),
		evaluator:   services.NewConditionEvaluator(),
		logger:      logger,
	}

	triggersHandler := commands.NewProcessTriggersCommandHandler(
		root.createUoWFactory(), root.orderClient, root.evaluator, logger,
	)
	root.triggersHandler = &triggersHandler

	notificationsHandler := commands.NewProcessNotificationsCommandHandler(
		root.createUoWFactory(), root.mailer, root.evaluator, logger,
	)
	root.notificationsHandler = &notificationsHandler

	return root
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) createStatusUoWFactory() commands.StatusUoWFactory {
	return FuncStatusUoWFactory(func() commands.StatusUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateStatusCommandHandler() commands.CreateStatusCommandHandler {
	return commands.NewCreateStatusCommandHandler(c.createStatusUoWFactory())
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() commands.UpdateStatusCommandHandler {
	return commands.NewUpdateStatusCommandHandler(c.createStatusUoWFactory())
}

func (c *CompositionRoot) CreateDeleteStatusCommandHandler() commands.DeleteStatusCommandHandler {
	return commands.NewDeleteStatusCommandHandler(c.createStatusUoWFactory(), c.orderClient)
}

func (c *CompositionRoot) CreateImportStatusesCommandHandler() commands.ImportStatusesCommandHandler {
	return commands.NewImportStatusesCommandHandler(c.createStatusUoWFactory(), c.orderClient, c.logger)
}

func (c *CompositionRoot) CreateRecordTransitionCommandHandler() commands.RecordTransitionCommandHandler {
	return commands.NewRecordTransitionCommandHandler(c.createUoWFactory(), c.publisher, c.logger)
}

func (c *CompositionRoot) ProcessTriggersCommandHandler() *commands.ProcessTriggersCommandHandler {
	return c.triggersHandler
}

func (c *CompositionRoot) ProcessNotificationsCommandHandler() *commands.ProcessNotificationsCommandHandler {
	return c.notificationsHandler
}

func (c *CompositionRoot) CreateGetAllStatusesQueryHandler() queries.GetAllStatusesQueryHandler {
	return queries.NewGetAllStatusesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTransitionLogQueryHandler() queries.GetTransitionLogQueryHandler {
	return queries.NewGetTransitionLogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.triggersHandler, c.notificationsHandler, c.config.ProcessInterval, c.logger)
}

func (c *CompositionRoot) CreateTransitionConsumer() *inpubsub.TransitionConsumer {
	return inpubsub.NewTransitionConsumer(c.channel, c.triggersHandler, c.notificationsHandler, c.logger)
}

type FuncStatusUoWFactory func() commands.StatusUoW

func (f FuncStatusUoWFactory) Create() commands.StatusUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
