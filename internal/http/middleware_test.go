package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/room-reservations/internal/application"
)

func TestRequireIdentityMissingToken(t *testing.T) {
	router := newTestRouter(t, &reservationServiceStub{}, &roomServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "UNAUTHENTICATED", got.ErrorCode)
}

func TestRequireIdentityInvalidToken(t *testing.T) {
	router := newTestRouter(t, &reservationServiceStub{}, &roomServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentityRejectsNonBearerScheme(t *testing.T) {
	router := newTestRouter(t, &reservationServiceStub{}, &roomServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentityAttachesPrincipal(t *testing.T) {
	var captured application.Principal
	service := &reservationServiceStub{
		listFunc: func(ctx context.Context, params application.ListReservationsParams) ([]application.ReservationDetail, error) {
			principal, ok := PrincipalFromContext(ctx)
			require.True(t, ok)
			captured = principal
			return nil, nil
		},
	}
	router := newTestRouter(t, service, &roomServiceStub{})

	req := authorized(httptest.NewRequest(http.MethodGet, "/reservations", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", captured.UserID)
}

func TestHealthEndpointIsUnauthenticated(t *testing.T) {
	router := newTestRouter(t, &reservationServiceStub{}, &roomServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
