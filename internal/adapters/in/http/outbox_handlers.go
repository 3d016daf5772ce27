package http

import (
	"net/http"
	"strconv"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ListDeadLetters handles GET /api/v1/outbox/dead-letters?limit=N.
func (s *Server) ListDeadLetters(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return s.fail(c, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
		limit = n
	}

	query, err := queries.NewListDeadLettersQuery(limit)
	if err != nil {
		return s.fail(c, err)
	}
	rows, err := s.handlers.ListDeadLetters.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]OutboxEvent, len(rows))
	for i, r := range rows {
		response[i] = toDeadLetter(r)
	}
	return c.JSON(http.StatusOK, response)
}

// ReplayDeadLetter handles POST /api/v1/outbox/dead-letters/:id/replay. The
// response is the new PENDING row.
func (s *Server) ReplayDeadLetter(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewReplayDeadLetterCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	ev, err := s.handlers.ReplayDeadLetter.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toOutboxEvent(ev))
}
