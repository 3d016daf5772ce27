package http

import (
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"

	"github.com/labstack/echo/v4"
)

// CreateLoad handles POST /api/v1/loads.
func (s *Server) CreateLoad(c echo.Context) error {
	var req NewLoad
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	origin, err := kernel.LocationFromSnapshot(req.Origin)
	if err != nil {
		return s.fail(c, err)
	}
	destination, err := kernel.LocationFromSnapshot(req.Destination)
	if err != nil {
		return s.fail(c, err)
	}
	shipmentIDs, err := parseIDs("shipmentIds", req.ShipmentIDs)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateLoadCommand(load.Params{
		Reference:             req.Reference,
		Origin:                origin,
		Destination:           destination,
		ShipmentIDs:           shipmentIDs,
		RequestedPickupDate:   req.RequestedPickupDate,
		RequestedDeliveryDate: req.RequestedDeliveryDate,
		Notes:                 req.Notes,
	})
	if err != nil {
		return s.fail(c, err)
	}

	l, err := s.handlers.CreateLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/loads/"+l.ID().String())
	return respondLoad(c, http.StatusCreated, l)
}

// GetLoad handles GET /api/v1/loads/:id.
func (s *Server) GetLoad(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetLoadQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	l, err := s.handlers.GetLoad.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	setETag(c, l.Token)
	return c.JSON(http.StatusOK, toLoadFromReadModel(l))
}

// DeleteLoad handles DELETE /api/v1/loads/:id.
func (s *Server) DeleteLoad(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewDeleteLoadCommand(id, token)
	if err != nil {
		return s.fail(c, err)
	}
	if _, err = s.handlers.DeleteLoad.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddShipmentsToLoad handles POST /api/v1/loads/:id/shipments.
func (s *Server) AddShipmentsToLoad(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ShipmentIDs
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	shipmentIDs, err := parseIDs("shipmentIds", req.ShipmentIDs)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAddShipmentsToLoadCommand(id, shipmentIDs, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.AddShipmentsToLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// RemoveShipmentFromLoad handles DELETE /api/v1/loads/:id/shipments/:shipmentId.
func (s *Server) RemoveShipmentFromLoad(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	shipmentID, err := pathID(c, "shipmentId")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRemoveShipmentFromLoadCommand(id, shipmentID, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.RemoveShipmentFromLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// AssignCarrier handles PUT /api/v1/loads/:id/carrier.
func (s *Server) AssignCarrier(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CarrierAssignment
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewAssignCarrierCommand(id, req.CarrierName, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.AssignCarrier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// UnassignCarrier handles DELETE /api/v1/loads/:id/carrier.
func (s *Server) UnassignCarrier(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewUnassignCarrierCommand, s.handlers.UnassignCarrier)
}

// RateLoad handles GET /api/v1/loads/:id/rate?carrier=NAME.
func (s *Server) RateLoad(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRateLoadCommand(id, c.QueryParam("carrier"))
	if err != nil {
		return s.fail(c, err)
	}

	cost, err := s.handlers.RateLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRate(cost))
}

// TenderLoad handles POST /api/v1/loads/:id/tender.
func (s *Server) TenderLoad(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req NewTender
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewTenderLoadCommand(id, req.ExpiresAt, req.Notes, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.TenderLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// SubmitTenderToCarrier handles POST /api/v1/loads/:id/tender/submit.
func (s *Server) SubmitTenderToCarrier(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewSubmitTenderToCarrierCommand, s.handlers.SubmitTenderToCarrier)
}

// CancelTender handles DELETE /api/v1/loads/:id/tender.
func (s *Server) CancelTender(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewCancelTenderCommand, s.handlers.CancelTender)
}

// RecordTenderDecision handles POST /api/v1/loads/:id/tender/decision.
func (s *Server) RecordTenderDecision(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req TenderDecision
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	decision, err := load.ParseDecision(req.Decision)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRecordTenderDecisionCommand(id, decision, req.RespondedBy, req.Reason, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.RecordTenderDecision.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// BookLoad handles POST /api/v1/loads/:id/book.
func (s *Server) BookLoad(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewBookLoadCommand, s.handlers.BookLoad)
}

// SchedulePickup handles POST /api/v1/loads/:id/pickup.
func (s *Server) SchedulePickup(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req PickupRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	params := commands.PickupParams{
		RequestedFor: req.RequestedFor,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Instructions: req.Instructions,
	}
	if req.Location != nil {
		if params.Location, err = kernel.LocationFromSnapshot(*req.Location); err != nil {
			return s.fail(c, err)
		}
	}

	cmd, err := commands.NewSchedulePickupCommand(id, params, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.SchedulePickup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// CancelPickup handles DELETE /api/v1/loads/:id/pickup.
func (s *Server) CancelPickup(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewCancelPickupCommand, s.handlers.CancelPickup)
}

// ShipLoad handles POST /api/v1/loads/:id/ship.
func (s *Server) ShipLoad(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewShipLoadCommand, s.handlers.ShipLoad)
}

// ConfirmDelivery handles POST /api/v1/loads/:id/deliver.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	return runLoadTransition(s, c, commands.NewConfirmDeliveryCommand, s.handlers.ConfirmDelivery)
}

// CancelLoad handles POST /api/v1/loads/:id/cancel.
func (s *Server) CancelLoad(c echo.Context) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Cancellation
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCancelLoadCommand(id, req.Reason, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := s.handlers.CancelLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}

// runLoadTransition serves the load commands that carry nothing but the
// target id and token.
func runLoadTransition[C any](
	s *Server,
	c echo.Context,
	newCommand func(kernel.UUID, kernel.ConcurrencyToken) (C, error),
	handler Handler[C, *load.Load],
) error {
	id, token, err := target(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := newCommand(id, token)
	if err != nil {
		return s.fail(c, err)
	}
	l, err := handler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return respondLoad(c, http.StatusOK, l)
}
