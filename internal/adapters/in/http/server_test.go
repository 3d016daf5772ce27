package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	httpadapter "freight/internal/adapters/in/http"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockHandler[In, Out any] struct {
	mock.Mock
}

func (m *MockHandler[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(Out)
	return out, args.Error(1)
}

type MockShipmentCreator struct {
	mock.Mock
}

func (m *MockShipmentCreator) Handle(
	ctx context.Context,
	cmd commands.CreateShipmentCommand,
) (*shipment.Shipment, bool, error) {
	args := m.Called(ctx, cmd)
	sh, _ := args.Get(0).(*shipment.Shipment)
	return sh, args.Bool(1), args.Error(2)
}

func newEcho(handlers httpadapter.Handlers) *echo.Echo {
	e := echo.New()
	httpadapter.NewServer(handlers, zap.NewNop()).Register(e)
	return e
}

func serve(e *echo.Echo, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newLoad(t *testing.T) *load.Load {
	t.Helper()
	origin, err := kernel.NewLocation("Dock 4", "1 Depot Rd", "Memphis", "TN", "38118", "US")
	require.NoError(t, err)
	destination, err := kernel.NewLocation("", "", "Dallas", "TX", "", "US")
	require.NoError(t, err)

	l, err := load.NewLoad(time.Now(), load.Params{
		Reference:   "L-1",
		Origin:      origin,
		Destination: destination,
		ShipmentIDs: []kernel.UUID{kernel.NewUUID()},
	})
	require.NoError(t, err)
	return l
}

func quoted(token kernel.ConcurrencyToken) string {
	return strconv.Quote(token.String())
}

func TestHealth(t *testing.T) {
	rec := serve(newEcho(httpadapter.Handlers{}), http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestGetLoad_SetsETag(t *testing.T) {
	id := kernel.NewUUID()
	token := kernel.NewConcurrencyToken(time.Now())
	handler := new(MockHandler[queries.GetLoadQuery, queries.GetLoadQueryResponse])
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetLoadQuery) bool {
		return q.LoadID() == id
	})).Return(queries.GetLoadQueryResponse{
		ID:           id,
		Reference:    "L-1",
		Status:       "PLANNED",
		TenderStatus: "NOT_TENDERED",
		Token:        token,
	}, nil).Once()

	rec := serve(newEcho(httpadapter.Handlers{GetLoad: handler}), http.MethodGet, "/api/v1/loads/"+id.String(), "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, quoted(token), rec.Header().Get("ETag"))

	var body httpadapter.Load
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id.String(), body.ID)
	assert.Equal(t, "NOT_TENDERED", body.Tender.Status)
	assert.Equal(t, token.String(), body.Token)
	assert.Nil(t, body.Pickup)
	handler.AssertExpectations(t)
}

func TestGetLoad_Errors(t *testing.T) {
	handler := new(MockHandler[queries.GetLoadQuery, queries.GetLoadQueryResponse])
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetLoadQueryResponse{}, errs.NewObjectNotFoundError("loadID", "x")).Once()
	e := newEcho(httpadapter.Handlers{GetLoad: handler})

	t.Run("unknown load", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/v1/loads/"+kernel.NewUUID().String(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/v1/loads/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	handler.AssertExpectations(t)
}

func TestBookLoad_PassesIfMatchToken(t *testing.T) {
	l := newLoad(t)
	sent := kernel.NewConcurrencyToken(time.Now().Add(-time.Minute))
	handler := new(MockHandler[commands.BookLoadCommand, *load.Load])
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.BookLoadCommand) bool {
		return cmd.LoadID() == l.ID() && cmd.Token().IsEqual(sent)
	})).Return(l, nil).Once()

	rec := serve(newEcho(httpadapter.Handlers{BookLoad: handler}), http.MethodPost,
		"/api/v1/loads/"+l.ID().String()+"/book", "", map[string]string{"If-Match": quoted(sent)})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, quoted(l.ConcurrencyToken()), rec.Header().Get("ETag"))
	handler.AssertExpectations(t)
}

func TestBookLoad_IfMatchHeaders(t *testing.T) {
	tests := []struct {
		name     string
		ifMatch  string
		wantCode int
		calls    bool
	}{
		{name: "absent", ifMatch: "", wantCode: http.StatusOK, calls: true},
		{name: "wildcard", ifMatch: "*", wantCode: http.StatusOK, calls: true},
		{name: "unquoted", ifMatch: "1700000000000000", wantCode: http.StatusBadRequest},
		{name: "weak", ifMatch: `W/"1700000000000000"`, wantCode: http.StatusBadRequest},
		{name: "not a number", ifMatch: `"abc"`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLoad(t)
			handler := new(MockHandler[commands.BookLoadCommand, *load.Load])
			if tt.calls {
				handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.BookLoadCommand) bool {
					return cmd.Token().IsZero()
				})).Return(l, nil).Once()
			}

			header := map[string]string{}
			if tt.ifMatch != "" {
				header["If-Match"] = tt.ifMatch
			}
			rec := serve(newEcho(httpadapter.Handlers{BookLoad: handler}), http.MethodPost,
				"/api/v1/loads/"+l.ID().String()+"/book", "", header)

			assert.Equal(t, tt.wantCode, rec.Code)
			handler.AssertExpectations(t)
		})
	}
}

func TestCommandErrors_MapToStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"stale token", errs.NewPreconditionFailedError("load", "id", "1", "2"), http.StatusPreconditionFailed},
		{"wrong state", errs.NewInvalidStateTransitionError("BOOKED", "assignCarrier"), http.StatusConflict},
		{"unknown carrier", errs.NewNoAdapterForCarrierError("DHL"), http.StatusUnprocessableEntity},
		{"carrier down", errs.NewCarrierTransientError("UPS", "tender", errors.New("timeout")), http.StatusServiceUnavailable},
		{"missing load", errs.NewObjectNotFoundError("loadID", "id"), http.StatusNotFound},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := new(MockHandler[commands.AssignCarrierCommand, *load.Load])
			handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignCarrierCommand) bool {
				return cmd.CarrierName() == "DHL"
			})).Return(nil, tt.err).Once()

			rec := serve(newEcho(httpadapter.Handlers{AssignCarrier: handler}), http.MethodPut,
				"/api/v1/loads/"+kernel.NewUUID().String()+"/carrier", `{"carrierName":"dhl"}`, nil)

			require.Equal(t, tt.wantCode, rec.Code)
			var body httpadapter.Error
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantCode == http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "connection reset")
			}
			handler.AssertExpectations(t)
		})
	}
}

func TestCreateShipment(t *testing.T) {
	sh, err := shipment.NewShipment(time.Now(), "ORD-1", "UPS")
	require.NoError(t, err)

	creator := new(MockShipmentCreator)
	matchOrder := mock.MatchedBy(func(cmd commands.CreateShipmentCommand) bool {
		return cmd.OrderID() == "ORD-1" && cmd.CarrierName() == "UPS"
	})
	mock.InOrder(
		creator.On("Handle", mock.Anything, matchOrder).Return(sh, true, nil).Once(),
		creator.On("Handle", mock.Anything, matchOrder).Return(sh, false, nil).Once(),
	)
	e := newEcho(httpadapter.Handlers{CreateShipment: creator})
	body := `{"orderId":"ORD-1","carrierName":"UPS"}`

	first := serve(e, http.MethodPost, "/api/v1/shipments", body, nil)
	second := serve(e, http.MethodPost, "/api/v1/shipments", body, nil)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "/api/v1/shipments/"+sh.ID().String(), second.Header().Get(echo.HeaderLocation))

	var resp httpadapter.Shipment
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "CREATED", resp.Status)
	assert.Empty(t, resp.TrackingEvents)
	creator.AssertExpectations(t)
}

func TestUpdateShipmentTracking_RejectsUnknownOutcome(t *testing.T) {
	handler := new(MockHandler[commands.UpdateShipmentTrackingCommand, *shipment.Shipment])

	rec := serve(newEcho(httpadapter.Handlers{UpdateShipmentTracking: handler}), http.MethodPost,
		"/api/v1/shipments/"+kernel.NewUUID().String()+"/tracking",
		`{"outcome":"LOST","events":[{"status":"DEPARTED","occurredAt":"2026-01-02T10:00:00Z"}]}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestListDeadLetters(t *testing.T) {
	row := queries.ListDeadLettersQueryResponse{
		ID:            kernel.NewUUID(),
		AggregateID:   kernel.NewUUID(),
		AggregateType: "load",
		EventType:     "load.booked",
		Destination:   "freight.loads",
		AttemptCount:  5,
		ErrorMessage:  "broker unavailable",
		CreatedAt:     time.Now().UTC(),
	}
	handler := new(MockHandler[queries.ListDeadLettersQuery, []queries.ListDeadLettersQueryResponse])
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListDeadLettersQuery) bool {
		return q.Limit() == 10
	})).Return([]queries.ListDeadLettersQueryResponse{row}, nil).Once()
	e := newEcho(httpadapter.Handlers{ListDeadLetters: handler})

	rec := serve(e, http.MethodGet, "/api/v1/outbox/dead-letters?limit=10", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []httpadapter.OutboxEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "FAILED", body[0].Status)
	assert.Equal(t, "broker unavailable", body[0].ErrorMessage)
	handler.AssertExpectations(t)

	for _, limit := range []string{"ten", "-1"} {
		rec = serve(e, http.MethodGet, "/api/v1/outbox/dead-letters?limit="+limit, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
	}
}
