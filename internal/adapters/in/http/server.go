package http

import (
	"context"
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/location"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Use case ports of the HTTP adapter. Each is satisfied by the matching
// command or query handler.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (string, error)
	}
	OrderTransitioner interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error)
	}
	OrderClaimer interface {
		Handle(ctx context.Context, cmd commands.ClaimOrderCommand) (*order.Order, error)
	}
	OrderRejecter interface {
		Handle(ctx context.Context, cmd commands.RejectOrderCommand) (*order.Order, error)
	}
	OrderCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	EarningRecorder interface {
		Handle(ctx context.Context, cmd commands.RecordEarningCommand) (earning.Record, bool, error)
	}
	PartnerRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterPartnerCommand) (*partner.Profile, error)
	}
	KYCStatusChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeKYCStatusCommand) (*partner.Profile, error)
	}
	AvailabilitySetter interface {
		Handle(ctx context.Context, cmd commands.SetPartnerAvailabilityCommand) (*partner.Profile, error)
	}
	WithdrawalRequester interface {
		Handle(ctx context.Context, cmd commands.RequestWithdrawalCommand) (earning.Withdrawal, error)
	}
	WithdrawalResolver interface {
		Handle(ctx context.Context, cmd commands.ResolveWithdrawalCommand) (earning.Withdrawal, error)
	}
	LocationIngester interface {
		Ingest(ctx context.Context, sample location.Sample) error
	}

	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	OrderHistoryReader interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]queries.GetOrderHistoryQueryResponse, error)
	}
	OrderTrackingReader interface {
		Handle(ctx context.Context, query queries.GetOrderTrackingQuery) (queries.GetOrderTrackingQueryResponse, error)
	}
	ClaimableOrdersReader interface {
		Handle(ctx context.Context, query queries.GetClaimableOrdersQuery) ([]queries.GetClaimableOrdersQueryResponse, error)
	}
	OverdueOrdersReader interface {
		Handle(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]queries.GetOverdueOrdersQueryResponse, error)
	}
	PartnerBalanceReader interface {
		Handle(ctx context.Context, query queries.GetPartnerBalanceQuery) (queries.GetPartnerBalanceQueryResponse, error)
	}
)

// Handlers groups every use case the API exposes.
type Handlers struct {
	CreateOrder       OrderCreator
	TransitionOrder   OrderTransitioner
	ClaimOrder        OrderClaimer
	RejectOrder       OrderRejecter
	CancelOrder       OrderCanceller
	RecordEarning     EarningRecorder
	RegisterPartner   PartnerRegistrar
	ChangeKYCStatus   KYCStatusChanger
	SetAvailability   AvailabilitySetter
	RequestWithdrawal WithdrawalRequester
	ResolveWithdrawal WithdrawalResolver
	Locations         LocationIngester

	GetOrder           OrderReader
	GetOrderHistory    OrderHistoryReader
	GetOrderTracking   OrderTrackingReader
	GetClaimableOrders ClaimableOrdersReader
	GetOverdueOrders   OverdueOrdersReader
	GetPartnerBalance  PartnerBalanceReader
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	clock    clock.Clock
	logger   *slog.Logger
}

func NewServer(handlers Handlers, clk clock.Clock, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		clock:    clk,
		logger:   logger.With("component", "HTTPServer"),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/claimable", s.GetClaimableOrders)
	v1.GET("/orders/overdue", s.GetOverdueOrders)
	v1.GET("/orders/:order_id", s.GetOrder)
	v1.GET("/orders/:order_id/history", s.GetOrderHistory)
	v1.GET("/orders/:order_id/tracking", s.GetOrderTracking)
	v1.POST("/orders/:order_id/transitions", s.TransitionOrder)
	v1.POST("/orders/:order_id/claim", s.ClaimOrder)
	v1.POST("/orders/:order_id/reject", s.RejectOrder)
	v1.POST("/orders/:order_id/cancel", s.CancelOrder)
	v1.POST("/earnings", s.RecordEarning)

	v1.POST("/partners", s.RegisterPartner)
	v1.PUT("/partners/:partner_id/kyc", s.ChangeKYCStatus)
	v1.PUT("/partners/:partner_id/online", s.SetAvailability)
	v1.POST("/partners/:partner_id/locations", s.ReportLocation)
	v1.GET("/partners/:partner_id/balance", s.GetPartnerBalance)
	v1.POST("/partners/:partner_id/withdrawals", s.RequestWithdrawal)
	v1.POST("/withdrawals/:withdrawal_id/resolve", s.ResolveWithdrawal)
}

// NewEcho builds the HTTP stack: recovery, slog request logging, health,
// the API document and the API routes.
func NewEcho(s *Server, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	requestLogger := logger.With("component", "HTTP")
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			requestLogger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", serveOpenAPI)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s.RegisterRoutes(e)
	return e
}
