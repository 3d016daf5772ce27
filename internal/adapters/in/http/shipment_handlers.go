package http

import (
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
)

// CreateShipment handles POST /api/v1/shipments. Repeating a request for the
// same order returns the existing shipment with 200.
func (s *Server) CreateShipment(c echo.Context) error {
	var req NewShipment
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCreateShipmentCommand(req.OrderID, req.CarrierName)
	if err != nil {
		return s.fail(c, err)
	}
	sh, created, err := s.handlers.CreateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/shipments/"+sh.ID().String())
	if created {
		return respondShipment(c, http.StatusCreated, sh)
	}
	return respondShipment(c, http.StatusOK, sh)
}

// GetShipment handles GET /api/v1/shipments/:id.
func (s *Server) GetShipment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	sh, err := s.handlers.GetShipment.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	setETag(c, sh.Token)
	return c.JSON(http.StatusOK, toShipmentFromReadModel(sh))
}

// DispatchShipment handles POST /api/v1/shipments/:id/dispatch.
func (s *Server) DispatchShipment(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Dispatch
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewDispatchShipmentCommand(id, commands.DispatchParams{
		TrackingNumber: req.TrackingNumber,
		WeightGrams:    req.WeightGrams,
		Description:    req.Description,
	}, token)
	if err != nil {
		return s.fail(c, err)
	}
	sh, err := s.handlers.DispatchShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondShipment(c, http.StatusOK, sh)
}

// UpdateShipmentTracking handles POST /api/v1/shipments/:id/tracking, used by
// carriers that push scans instead of being polled.
func (s *Server) UpdateShipmentTracking(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req TrackingUpdate
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	outcome, err := shipment.ParseTrackingOutcome(req.Outcome)
	if err != nil {
		return s.fail(c, err)
	}
	events := make([]shipment.TrackingEvent, 0, len(req.Events))
	for _, e := range req.Events {
		ev, err := shipment.NewTrackingEvent(e.Status, e.Description, e.Location, e.OccurredAt, e.CarrierEventCode, e.Detail)
		if err != nil {
			return s.fail(c, err)
		}
		events = append(events, ev)
	}

	cmd, err := commands.NewUpdateShipmentTrackingCommand(id, events, outcome, token)
	if err != nil {
		return s.fail(c, err)
	}
	sh, err := s.handlers.UpdateShipmentTracking.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondShipment(c, http.StatusOK, sh)
}
