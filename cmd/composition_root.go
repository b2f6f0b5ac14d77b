package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/geo"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/notifier/kafka"
	"dispatch/internal/adapters/out/notifier/logging"
	"dispatch/internal/adapters/out/notifier/rabbitmq"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/partnerrepo"
	"dispatch/internal/core/application/tracking"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/clock"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      clock.Clock
	logger     *slog.Logger

	timer  services.SLATimer
	policy services.CommissionPolicy

	publisher      ports.EventPublisher
	closePublisher func() error
	notifier       *commands.OrderEventNotifier

	locations *memory.LocationStore
	etas      *memory.ETACache
	engine    *tracking.Engine
}

// NewCompositionRoot validates the domain settings and connects the event channel.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	timer, err := services.NewSLATimer(cfg.SLABudget, cfg.PartnerSLABudget)
	if err != nil {
		return nil, err
	}
	policy, err := services.NewCommissionPolicy(cfg.CommissionRate)
	if err != nil {
		return nil, err
	}
	estimator, err := services.NewStraightLineEstimator(cfg.FallbackSpeedKmh)
	if err != nil {
		return nil, err
	}
	geoClient, err := geo.NewClient(cfg.GeoBaseURL, &http.Client{Timeout: cfg.GeoTimeout})
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      clock.System{},
		logger:     logger,
		timer:      timer,
		policy:     policy,
		locations:  memory.NewLocationStore(),
		etas:       memory.NewETACache(),
	}

	if err := c.connectPublisher(); err != nil {
		return nil, err
	}

	c.notifier = commands.NewOrderEventNotifier(
		c.uowFactory.PartnerRepository(),
		services.NewRecipientSelector(cfg.RecipientLimit),
		c.publisher,
		c.clock,
		logger,
	)

	c.engine = tracking.NewEngine(
		c.uowFactory.OrderRepository(),
		c.uowFactory.PartnerRepository(),
		c.locations,
		c.etas,
		geoClient,
		geoClient,
		estimator,
		c.clock,
		logger,
		tracking.Config{
			Workers:     cfg.TrackingWorkers,
			QueueSize:   cfg.TrackingQueueSize,
			MinInterval: cfg.TrackingMinInterval,
			GeoTimeout:  cfg.GeoTimeout,
		},
	)

	return c, nil
}

func (c *CompositionRoot) connectPublisher() error {
	switch c.cfg.NotifierDriver {
	case NotifierKafka:
		p, err := kafka.Dial(c.cfg.KafkaBrokers, c.cfg.KafkaOrderEventsTopic, c.logger)
		if err != nil {
			return err
		}
		c.publisher, c.closePublisher = p, p.Close
	case NotifierRabbitMQ:
		p, err := rabbitmq.Dial(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange, c.logger)
		if err != nil {
			return err
		}
		c.publisher, c.closePublisher = p, p.Close
	case NotifierLog:
		c.publisher, c.closePublisher = logging.NewPublisher(c.logger), func() error { return nil }
	default:
		return fmt.Errorf("unknown notifier driver %q", c.cfg.NotifierDriver)
	}

	c.logger.Info("event channel connected", "component", "CompositionRoot", "driver", c.cfg.NotifierDriver)
	return nil
}

// TrackingEngine is started and stopped by the caller.
func (c *CompositionRoot) TrackingEngine() *tracking.Engine {
	return c.engine
}

// Close waits for in-flight event fan-out and releases the event channel.
func (c *CompositionRoot) Close() error {
	c.notifier.Wait()
	return c.closePublisher()
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) partnerUoW() commands.PartnerUoWFactory {
	return FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.uow(), c.policy, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(
		c.uow(), partnerrepo.NewStoredKYCVerifier(c.gormDB), c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.uow(), c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.cfg.CancellationWindow, c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateRecordEarningCommandHandler() commands.RecordEarningCommandHandler {
	return commands.NewRecordEarningCommandHandler(c.uow(), c.policy, c.clock)
}

func (c *CompositionRoot) CreateRegisterPartnerCommandHandler() commands.RegisterPartnerCommandHandler {
	return commands.NewRegisterPartnerCommandHandler(c.partnerUoW())
}

func (c *CompositionRoot) CreateChangeKYCStatusCommandHandler() commands.ChangeKYCStatusCommandHandler {
	return commands.NewChangeKYCStatusCommandHandler(c.partnerUoW(), c.logger)
}

func (c *CompositionRoot) CreateSetPartnerAvailabilityCommandHandler() commands.SetPartnerAvailabilityCommandHandler {
	return commands.NewSetPartnerAvailabilityCommandHandler(c.partnerUoW())
}

func (c *CompositionRoot) CreateRequestWithdrawalCommandHandler() commands.RequestWithdrawalCommandHandler {
	return commands.NewRequestWithdrawalCommandHandler(c.uow(), kernel.Money(c.cfg.MinimumWithdrawal), c.clock, c.logger)
}

func (c *CompositionRoot) CreateResolveWithdrawalCommandHandler() commands.ResolveWithdrawalCommandHandler {
	return commands.NewResolveWithdrawalCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateRebroadcastClaimableCommandHandler() commands.RebroadcastClaimableCommandHandler {
	return commands.NewRebroadcastClaimableCommandHandler(c.uow(), c.notifier)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.timer, c.clock)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB, c.locations, c.etas)
}

func (c *CompositionRoot) CreateGetClaimableOrdersQueryHandler() queries.GetClaimableOrdersQueryHandler {
	return queries.NewGetClaimableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOverdueOrdersQueryHandler() queries.GetOverdueOrdersQueryHandler {
	return queries.NewGetOverdueOrdersQueryHandler(c.gormDB, c.timer, c.clock)
}

func (c *CompositionRoot) CreateGetPartnerBalanceQueryHandler() queries.GetPartnerBalanceQueryHandler {
	return queries.NewGetPartnerBalanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		TransitionOrder:   c.CreateTransitionOrderCommandHandler(),
		ClaimOrder:        c.CreateClaimOrderCommandHandler(),
		RejectOrder:       c.CreateRejectOrderCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		RecordEarning:     c.CreateRecordEarningCommandHandler(),
		RegisterPartner:   c.CreateRegisterPartnerCommandHandler(),
		ChangeKYCStatus:   c.CreateChangeKYCStatusCommandHandler(),
		SetAvailability:   c.CreateSetPartnerAvailabilityCommandHandler(),
		RequestWithdrawal: c.CreateRequestWithdrawalCommandHandler(),
		ResolveWithdrawal: c.CreateResolveWithdrawalCommandHandler(),
		Locations:         c.engine,

		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetOrderHistory:    c.CreateGetOrderHistoryQueryHandler(),
		GetOrderTracking:   c.CreateGetOrderTrackingQueryHandler(),
		GetClaimableOrders: c.CreateGetClaimableOrdersQueryHandler(),
		GetOverdueOrders:   c.CreateGetOverdueOrdersQueryHandler(),
		GetPartnerBalance:  c.CreateGetPartnerBalanceQueryHandler(),
	}, c.clock, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetOverdueOrdersQueryHandler(),
		c.CreateRebroadcastClaimableCommandHandler(),
		c.cfg.RebroadcastLimit,
		c.logger,
	)
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
