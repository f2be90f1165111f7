package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/service-booking-backend/internal/booking"
	"github.com/nekogravitycat/service-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/service-booking-backend/internal/pkg/response"
)

type stubService struct {
	created   []booking.CreateRequest
	filters   []booking.Filter
	cancelled []string
	archived  []string

	bookings  map[string]*booking.Booking
	listErr   error
	createErr error
}

func newStubService() *stubService {
	return &stubService{bookings: map[string]*booking.Booking{}}
}

func (s *stubService) Create(_ context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	s.created = append(s.created, req)
	if s.createErr != nil {
		return nil, s.createErr
	}
	b := &booking.Booking{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		VehicleID:   req.VehicleID,
		ServiceIDs:  req.ServiceIDs,
		BookingDate: req.BookingDate,
		Status:      booking.StatusPending,
		TotalPrice:  req.TotalPrice,
	}
	s.bookings[b.ID] = b
	return b, nil
}

func (s *stubService) setStatus(id string, st booking.Status) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	b.Status = st
	return b, nil
}

func (s *stubService) Cancel(_ context.Context, id string) (*booking.Booking, error) {
	s.cancelled = append(s.cancelled, id)
	return s.setStatus(id, booking.StatusCancelled)
}

func (s *stubService) Archive(_ context.Context, id string) (*booking.Booking, error) {
	s.archived = append(s.archived, id)
	return s.setStatus(id, booking.StatusArchived)
}

func (s *stubService) Get(_ context.Context, id string) (*booking.Response, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &booking.Response{Booking: b, VehicleDescription: "Vehicle abcde...", ServiceNames: "No Services"}, nil
}

func (s *stubService) List(_ context.Context, filter booking.Filter) ([]*booking.Response, error) {
	s.filters = append(s.filters, filter)
	if s.listErr != nil {
		return nil, s.listErr
	}
	if filter.UserID == "" {
		if _, err := booking.ParseStatus(filter.Status); err != nil {
			return nil, err
		}
	}
	out := []*booking.Response{}
	for _, b := range s.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		out = append(out, &booking.Response{Booking: b, VehicleDescription: "Vehicle", ServiceNames: "No Services"})
	}
	return out, nil
}

func (s *stubService) ListByUser(ctx context.Context, userID string) ([]*booking.Response, error) {
	return s.List(ctx, booking.Filter{UserID: userID})
}

func (s *stubService) ListByStatus(ctx context.Context, statusText string) ([]*booking.Response, error) {
	return s.List(ctx, booking.Filter{Status: statusText})
}

func passThrough(c *gin.Context) { c.Next() }

func setupRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), passThrough, passThrough)
	return r
}

func executeRequest(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]any {
	return map[string]any{
		"user_id":          uuid.NewString(),
		"vehicle_id":       uuid.NewString(),
		"service_ids":      []string{uuid.NewString()},
		"booking_date":     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"additional_notes": "Test note",
		"payment_method":   "CARD",
		"phone_number":     "+123456789",
		"total_price":      "15.50",
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := newStubService()
		r := setupRouter(svc)

		w := executeRequest(r, http.MethodPost, "/v1/bookings", validBody(), map[string]string{IdempotencyHeader: " key-1 "})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "15.5", resp.TotalPrice.String())

		require.Len(t, svc.created, 1)
		assert.Equal(t, "key-1", svc.created[0].IdempotencyKey)
	})

	t.Run("Bad Request: missing fields", func(t *testing.T) {
		svc := newStubService()
		r := setupRouter(svc)

		w := executeRequest(r, http.MethodPost, "/v1/bookings", map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.created, "service must not be called")
	})

	t.Run("Bad Request: invalid uuid", func(t *testing.T) {
		svc := newStubService()
		r := setupRouter(svc)

		body := validBody()
		body["vehicle_id"] = "not-a-uuid"
		w := executeRequest(r, http.MethodPost, "/v1/bookings", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		body = validBody()
		body["service_ids"] = []string{"not-a-uuid"}
		w = executeRequest(r, http.MethodPost, "/v1/bookings", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.created)
	})

	t.Run("Bad Request: past booking date", func(t *testing.T) {
		svc := newStubService()
		svc.createErr = booking.ErrDateNotFuture
		r := setupRouter(svc)

		body := validBody()
		body["booking_date"] = time.Now().Add(-time.Hour).Format(time.RFC3339)
		w := executeRequest(r, http.MethodPost, "/v1/bookings", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Contains(t, errResp.Error, "future")
		require.Len(t, svc.created, 1)
		assert.True(t, svc.created[0].BookingDate.Before(time.Now()))
	})

	t.Run("Success: no services selected", func(t *testing.T) {
		svc := newStubService()
		r := setupRouter(svc)

		body := validBody()
		delete(body, "service_ids")
		w := executeRequest(r, http.MethodPost, "/v1/bookings", body, nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestListBookings(t *testing.T) {
	svc := newStubService()
	r := setupRouter(svc)

	userID := uuid.NewString()
	body := validBody()
	body["user_id"] = userID
	require.Equal(t, http.StatusCreated, executeRequest(r, http.MethodPost, "/v1/bookings", body, nil).Code)

	t.Run("By user", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/bookings?user_id="+userID, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp response.ListResponse[BookingResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, userID, resp.Items[0].UserID)
		assert.Equal(t, "Vehicle", resp.Items[0].VehicleDescription)
	})

	t.Run("By status", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/bookings?status=confirmed", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		last := svc.filters[len(svc.filters)-1]
		assert.Equal(t, booking.Filter{Status: "confirmed"}, last)
	})

	t.Run("Both filters forwards both and the service applies precedence", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/bookings?user_id="+userID+"&status=pending", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		last := svc.filters[len(svc.filters)-1]
		assert.Equal(t, userID, last.UserID)
	})

	t.Run("Invalid status", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/bookings?status=invalid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing filters", func(t *testing.T) {
		before := len(svc.filters)
		w := executeRequest(r, http.MethodGet, "/v1/bookings", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, svc.filters, before)
	})

	t.Run("Empty result is an empty array", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/bookings?user_id="+uuid.NewString(), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
	})

	t.Run("Store failure maps to 503", func(t *testing.T) {
		failing := newStubService()
		failing.listErr = apperror.Dependency(errors.New("dial tcp"), "booking store unavailable")
		w := executeRequest(setupRouter(failing), http.MethodGet, "/v1/bookings?status=pending", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCancelAndArchiveBooking(t *testing.T) {
	svc := newStubService()
	r := setupRouter(svc)

	w := executeRequest(r, http.MethodPost, "/v1/bookings", validBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("Cancel", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/v1/bookings/"+created.ID+"/cancel", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("Archive", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/v1/bookings/"+created.ID+"/archive", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ARCHIVED", resp.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/v1/bookings/"+uuid.NewString()+"/cancel", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid UUID", func(t *testing.T) {
		before := len(svc.archived)
		w := executeRequest(r, http.MethodPost, "/v1/bookings/not-a-uuid/archive", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, svc.archived, before)
	})
}

func TestGetBooking(t *testing.T) {
	svc := newStubService()
	r := setupRouter(svc)

	w := executeRequest(r, http.MethodPost, "/v1/bookings", validBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = executeRequest(r, http.MethodGet, "/v1/bookings/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "No Services", resp.ServiceNames)

	w = executeRequest(r, http.MethodGet, "/v1/bookings/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
