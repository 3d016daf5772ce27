// Package http exposes the freight command and query surface over echo.
//
// Reads return the aggregate's concurrency token in the ETag header and in
// the body; writes accept it back in If-Match and answer 412 when the
// aggregate changed in between.
package http

import (
	"context"
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler is implemented by every command and query handler.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

func (f HandlerFunc[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// ShipmentCreator is implemented by commands.CreateShipmentCommandHandler.
type ShipmentCreator interface {
	Handle(ctx context.Context, cmd commands.CreateShipmentCommand) (*shipment.Shipment, bool, error)
}

type Handlers struct {
	// Load commands
	CreateLoad             Handler[commands.CreateLoadCommand, *load.Load]
	AddShipmentsToLoad     Handler[commands.AddShipmentsToLoadCommand, *load.Load]
	RemoveShipmentFromLoad Handler[commands.RemoveShipmentFromLoadCommand, *load.Load]
	AssignCarrier          Handler[commands.AssignCarrierCommand, *load.Load]
	UnassignCarrier        Handler[commands.UnassignCarrierCommand, *load.Load]
	RateLoad               Handler[commands.RateLoadCommand, ports.ShippingCost]
	TenderLoad             Handler[commands.TenderLoadCommand, *load.Load]
	SubmitTenderToCarrier  Handler[commands.SubmitTenderToCarrierCommand, *load.Load]
	CancelTender           Handler[commands.CancelTenderCommand, *load.Load]
	RecordTenderDecision   Handler[commands.RecordTenderDecisionCommand, *load.Load]
	BookLoad               Handler[commands.BookLoadCommand, *load.Load]
	SchedulePickup         Handler[commands.SchedulePickupCommand, *load.Load]
	CancelPickup           Handler[commands.CancelPickupCommand, *load.Load]
	ShipLoad               Handler[commands.ShipLoadCommand, *load.Load]
	ConfirmDelivery        Handler[commands.ConfirmDeliveryCommand, *load.Load]
	CancelLoad             Handler[commands.CancelLoadCommand, *load.Load]
	DeleteLoad             Handler[commands.DeleteLoadCommand, *load.Load]

	// Shipment commands
	CreateShipment         ShipmentCreator
	DispatchShipment       Handler[commands.DispatchShipmentCommand, *shipment.Shipment]
	UpdateShipmentTracking Handler[commands.UpdateShipmentTrackingCommand, *shipment.Shipment]

	// Operator commands
	ReplayDeadLetter Handler[commands.ReplayDeadLetterCommand, *outbox.Event]

	// Queries
	GetLoad         Handler[queries.GetLoadQuery, queries.GetLoadQueryResponse]
	GetShipment     Handler[queries.GetShipmentQuery, queries.GetShipmentQueryResponse]
	ListDeadLetters Handler[queries.ListDeadLettersQuery, []queries.ListDeadLettersQueryResponse]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	logger   *zap.Logger
}

func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	return &Server{handlers: handlers, logger: logger.With(zap.String("component", "http"))}
}

// Register mounts the API, /health and /metrics on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	loads := api.Group("/loads")
	loads.POST("", s.CreateLoad)
	loads.GET("/:id", s.GetLoad)
	loads.DELETE("/:id", s.DeleteLoad)
	loads.POST("/:id/shipments", s.AddShipmentsToLoad)
	loads.DELETE("/:id/shipments/:shipmentId", s.RemoveShipmentFromLoad)
	loads.PUT("/:id/carrier", s.AssignCarrier)
	loads.DELETE("/:id/carrier", s.UnassignCarrier)
	loads.GET("/:id/rate", s.RateLoad)
	loads.POST("/:id/tender", s.TenderLoad)
	loads.DELETE("/:id/tender", s.CancelTender)
	loads.POST("/:id/tender/submit", s.SubmitTenderToCarrier)
	loads.POST("/:id/tender/decision", s.RecordTenderDecision)
	loads.POST("/:id/book", s.BookLoad)
	loads.POST("/:id/pickup", s.SchedulePickup)
	loads.DELETE("/:id/pickup", s.CancelPickup)
	loads.POST("/:id/ship", s.ShipLoad)
	loads.POST("/:id/deliver", s.ConfirmDelivery)
	loads.POST("/:id/cancel", s.CancelLoad)

	shipments := api.Group("/shipments")
	shipments.POST("", s.CreateShipment)
	shipments.GET("/:id", s.GetShipment)
	shipments.POST("/:id/dispatch", s.DispatchShipment)
	shipments.POST("/:id/tracking", s.UpdateShipmentTracking)

	deadLetters := api.Group("/outbox/dead-letters")
	deadLetters.GET("", s.ListDeadLetters)
	deadLetters.POST("/:id/replay", s.ReplayDeadLetter)
}

// target reads the path id and the If-Match token shared by every mutating
// load and shipment route.
func target(c echo.Context) (kernel.UUID, kernel.ConcurrencyToken, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return kernel.UUID{}, kernel.ConcurrencyToken{}, err
	}
	token, err := ifMatch(c)
	if err != nil {
		return kernel.UUID{}, kernel.ConcurrencyToken{}, err
	}
	return id, token, nil
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func parseIDs(param string, raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromString(r)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// respondLoad writes the load with its fresh token.
func respondLoad(c echo.Context, code int, l *load.Load) error {
	setETag(c, l.ConcurrencyToken())
	return c.JSON(code, toLoad(l))
}

func respondShipment(c echo.Context, code int, sh *shipment.Shipment) error {
	setETag(c, sh.ConcurrencyToken())
	return c.JSON(code, toShipment(sh))
}
