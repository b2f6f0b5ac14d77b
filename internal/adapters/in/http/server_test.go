package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/core/application/tracking"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newEcho(handlers httpadapter.Handlers) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httpadapter.NewServer(handlers, clock.Fixed(now), logger)
	return httpadapter.NewEcho(server, logger)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.Error {
	t.Helper()
	var body httpadapter.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func dispatchedOrder(t *testing.T, partnerID kernel.UUID) *order.Order {
	t.Helper()
	acceptedAt := now.Add(time.Minute)
	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		Number:          "QC-1",
		CustomerID:      kernel.NewUUID(),
		DeliveryAddress: "Flat 4B, 12.9716,77.5946",
		Total:           kernel.Money(54900),
		Status:          order.Dispatched,
		PartnerID:       &partnerID,
		CreatedAt:       now,
		AcceptedAt:      &acceptedAt,
	})
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	rec := do(newEcho(httpadapter.Handlers{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateOrder(t *testing.T) {
	t.Run("returns id and number", func(t *testing.T) {
		creator := &MockOrderCreator{}
		creator.On("Handle", mock.Anything, mock.Anything).Return("QC-20261019-0001", nil)
		e := newEcho(httpadapter.Handlers{CreateOrder: creator})
		orderID := kernel.NewUUID()

		rec := do(e, http.MethodPost, "/api/v1/orders", fmt.Sprintf(
			`{"id":%q,"customer_id":%q,"delivery_address":"Flat 4B","total":54900}`,
			orderID.String(), kernel.NewUUID().String()))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body httpadapter.CreatedOrder
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, orderID.String(), body.ID.String())
		assert.Equal(t, "QC-20261019-0001", body.Number)
		creator.AssertExpectations(t)
	})

	t.Run("rejects a non-positive total before calling the handler", func(t *testing.T) {
		creator := &MockOrderCreator{}
		e := newEcho(httpadapter.Handlers{CreateOrder: creator})

		rec := do(e, http.MethodPost, "/api/v1/orders", fmt.Sprintf(
			`{"customer_id":%q,"delivery_address":"Flat 4B","total":0}`, kernel.NewUUID().String()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("maps a duplicate id to 409", func(t *testing.T) {
		creator := &MockOrderCreator{}
		creator.On("Handle", mock.Anything, mock.Anything).Return("", errs.NewConflictError("order id", "x"))
		e := newEcho(httpadapter.Handlers{CreateOrder: creator})

		rec := do(e, http.MethodPost, "/api/v1/orders", fmt.Sprintf(
			`{"customer_id":%q,"delivery_address":"Flat 4B","total":100}`, kernel.NewUUID().String()))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestClaimOrder(t *testing.T) {
	partnerID := kernel.NewUUID()

	t.Run("returns the dispatched order", func(t *testing.T) {
		o := dispatchedOrder(t, partnerID)
		claimer := &MockOrderClaimer{}
		claimer.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ClaimOrderCommand) bool {
			return cmd.OrderID().IsEqual(o.ID()) && cmd.PartnerID().IsEqual(partnerID)
		})).Return(o, nil)
		e := newEcho(httpadapter.Handlers{ClaimOrder: claimer})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/claim",
			fmt.Sprintf(`{"partner_id":%q}`, partnerID.String()))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body httpadapter.OrderState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "dispatched", body.Status)
		require.NotNil(t, body.PartnerID)
		assert.Equal(t, partnerID.String(), body.PartnerID.String())
		claimer.AssertExpectations(t)
	})

	t.Run("losing a race is 409", func(t *testing.T) {
		claimer := &MockOrderClaimer{}
		claimer.On("Handle", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("claim: %w", order.ErrAlreadyClaimed))
		e := newEcho(httpadapter.Handlers{ClaimOrder: claimer})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/claim",
			fmt.Sprintf(`{"partner_id":%q}`, partnerID.String()))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "already claimed")
	})

	t.Run("malformed order id is 400", func(t *testing.T) {
		claimer := &MockOrderClaimer{}
		e := newEcho(httpadapter.Handlers{ClaimOrder: claimer})

		rec := do(e, http.MethodPost, "/api/v1/orders/not-a-uuid/claim",
			fmt.Sprintf(`{"partner_id":%q}`, partnerID.String()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		claimer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestTransitionOrder(t *testing.T) {
	t.Run("unknown status is 400", func(t *testing.T) {
		e := newEcho(httpadapter.Handlers{TransitionOrder: &MockOrderTransitioner{}})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions", `{"status":"preparing"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("edge outside the table is 422", func(t *testing.T) {
		transitioner := &MockOrderTransitioner{}
		transitioner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
			return cmd.Target() == order.Delivered
		})).Return(nil, fmt.Errorf("%w: pending -> delivered", order.ErrInvalidTransition))
		e := newEcho(httpadapter.Handlers{TransitionOrder: transitioner})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions", `{"status":"delivered"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		transitioner.AssertExpectations(t)
	})

	t.Run("stale write is 409", func(t *testing.T) {
		transitioner := &MockOrderTransitioner{}
		transitioner.On("Handle", mock.Anything, mock.Anything).Return(nil, order.ErrStaleTransition)
		e := newEcho(httpadapter.Handlers{TransitionOrder: transitioner})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions", `{"status":"confirmed"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("closed window is 409", func(t *testing.T) {
		canceller := &MockOrderCanceller{}
		canceller.On("Handle", mock.Anything, mock.Anything).Return(nil, order.ErrCancellationWindowClosed)
		e := newEcho(httpadapter.Handlers{CancelOrder: canceller})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "cancellation window closed")
	})
}

func TestGetOrder(t *testing.T) {
	t.Run("includes the SLA", func(t *testing.T) {
		orderID := kernel.NewUUID()
		reader := &MockOrderReader{}
		reader.On("Handle", mock.Anything, mock.Anything).Return(queries.GetOrderQueryResponse{
			ID:         orderID,
			Number:     "QC-7",
			CustomerID: kernel.NewUUID(),
			Total:      kernel.Money(1000),
			Status:     order.Confirmed,
			CreatedAt:  now,
			SLA: services.SLASnapshot{
				Budget:    10 * time.Minute,
				Elapsed:   11 * time.Minute,
				Remaining: 0,
				Overdue:   true,
			},
		}, nil)
		e := newEcho(httpadapter.Handlers{GetOrder: reader})

		rec := do(e, http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body httpadapter.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "confirmed", body.Status)
		assert.True(t, body.SLA.Overdue)
		assert.Equal(t, int64(660), body.SLA.ElapsedSeconds)
		assert.Equal(t, int64(600), body.SLA.BudgetSeconds)
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order id", "x"))
		e := newEcho(httpadapter.Handlers{GetOrder: reader})

		rec := do(e, http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure is 500 without details", func(t *testing.T) {
		reader := &MockOrderReader{}
		reader.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetOrderQueryResponse{}, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
		e := newEcho(httpadapter.Handlers{GetOrder: reader})

		rec := do(e, http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	})
}

func TestGetClaimableOrders(t *testing.T) {
	t.Run("passes the limit", func(t *testing.T) {
		reader := &MockClaimableOrdersReader{}
		reader.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetClaimableOrdersQuery) bool {
			return q.Limit() == 5
		})).Return([]queries.GetClaimableOrdersQueryResponse{}, nil)
		e := newEcho(httpadapter.Handlers{GetClaimableOrders: reader})

		rec := do(e, http.MethodGet, "/api/v1/orders/claimable?limit=5", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		reader.AssertExpectations(t)
	})

	t.Run("limit out of range is 400", func(t *testing.T) {
		e := newEcho(httpadapter.Handlers{GetClaimableOrders: &MockClaimableOrdersReader{}})

		rec := do(e, http.MethodGet, "/api/v1/orders/claimable?limit=1000", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportLocation(t *testing.T) {
	partnerID := kernel.NewUUID()

	t.Run("accepts a sample stamped with the server clock", func(t *testing.T) {
		ingester := &MockLocationIngester{}
		ingester.On("Ingest", mock.Anything, mock.MatchedBy(func(s location.Sample) bool {
			return s.PartnerID().IsEqual(partnerID) && s.CapturedAt().Equal(now) && s.Point().Lat() == 12.97
		})).Return(nil)
		e := newEcho(httpadapter.Handlers{Locations: ingester})

		rec := do(e, http.MethodPost, "/api/v1/partners/"+partnerID.String()+"/locations", `{"lat":12.97,"lng":77.59}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		ingester.AssertExpectations(t)
	})

	t.Run("partner without a delivery in transit is 409", func(t *testing.T) {
		ingester := &MockLocationIngester{}
		ingester.On("Ingest", mock.Anything, mock.Anything).Return(tracking.ErrNoActiveDelivery)
		e := newEcho(httpadapter.Handlers{Locations: ingester})

		rec := do(e, http.MethodPost, "/api/v1/partners/"+partnerID.String()+"/locations", `{"lat":12.97,"lng":77.59}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("coordinates out of range are 400", func(t *testing.T) {
		ingester := &MockLocationIngester{}
		e := newEcho(httpadapter.Handlers{Locations: ingester})

		rec := do(e, http.MethodPost, "/api/v1/partners/"+partnerID.String()+"/locations", `{"lat":91,"lng":77.59}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ingester.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
	})
}
