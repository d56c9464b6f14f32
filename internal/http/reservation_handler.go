package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/room-reservations/internal/application"
)

type reservationService interface {
	List(ctx context.Context, params application.ListReservationsParams) ([]application.ReservationDetail, error)
	Create(ctx context.Context, params application.CreateReservationParams) (application.ReservationDetail, error)
	Update(ctx context.Context, params application.UpdateReservationParams) (application.ReservationDetail, error)
	Delete(ctx context.Context, principal application.Principal, reservationID string) error
}

type ReservationHandler struct {
	service   reservationService
	responder responder
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, responder: newResponder(logger)}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := buildListParams(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	details, err := h.service.List(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{
		Reservations: toReservationDTOs(details),
	})
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	detail, err := h.service.Create(r.Context(), application.CreateReservationParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toReservationDTO(detail))
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID := strings.TrimSpace(mux.Vars(r)["id"])
	if reservationID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errors.New("a reservation id is required"))
		return
	}

	var req updateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errBadRequestBody)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	detail, err := h.service.Update(r.Context(), application.UpdateReservationParams{
		Principal:     principal,
		ReservationID: reservationID,
		Patch:         patch,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toReservationDTO(detail))
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservationID := strings.TrimSpace(mux.Vars(r)["id"])
	if reservationID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "BAD_REQUEST", errors.New("a reservation id is required"))
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, reservationID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type createReservationRequest struct {
	RoomID    string `json:"roomId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Purpose   string `json:"purpose"`
}

func (r createReservationRequest) toInput() (application.ReservationInput, error) {
	start, err := parseOptionalTime("startTime", r.StartTime)
	if err != nil {
		return application.ReservationInput{}, err
	}
	end, err := parseOptionalTime("endTime", r.EndTime)
	if err != nil {
		return application.ReservationInput{}, err
	}
	return application.ReservationInput{
		RoomID:  strings.TrimSpace(r.RoomID),
		Start:   start,
		End:     end,
		Purpose: r.Purpose,
	}, nil
}

// updateReservationRequest uses pointer fields so an absent key and an
// explicit value are distinguishable after decoding. A present purpose,
// empty string included, overwrites the stored purpose.
type updateReservationRequest struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Purpose   *string `json:"purpose"`
}

func (r updateReservationRequest) toPatch() (application.ReservationPatch, error) {
	var patch application.ReservationPatch

	if r.StartTime != nil {
		start, err := parseRequiredTime("startTime", *r.StartTime)
		if err != nil {
			return application.ReservationPatch{}, err
		}
		patch.Start = &start
	}
	if r.EndTime != nil {
		end, err := parseRequiredTime("endTime", *r.EndTime)
		if err != nil {
			return application.ReservationPatch{}, err
		}
		patch.End = &end
	}
	if r.Purpose != nil {
		patch.Purpose = application.SetString(*r.Purpose)
	}
	return patch, nil
}

func parseOptionalTime(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return parseRequiredTime(field, value)
}

func parseRequiredTime(field, value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp", field)
	}
	return ts, nil
}

func buildListParams(values url.Values) (application.ListReservationsParams, error) {
	var params application.ListReservationsParams

	if from := strings.TrimSpace(values.Get("startDate")); from != "" {
		ts, err := parseRequiredTime("startDate", from)
		if err != nil {
			return application.ListReservationsParams{}, err
		}
		params.From = &ts
	}
	if to := strings.TrimSpace(values.Get("endDate")); to != "" {
		ts, err := parseRequiredTime("endDate", to)
		if err != nil {
			return application.ListReservationsParams{}, err
		}
		params.To = &ts
	}
	return params, nil
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type reservationDTO struct {
	ID        string  `json:"id"`
	RoomID    string  `json:"roomId"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Purpose   string  `json:"purpose"`
	User      userDTO `json:"user"`
	Room      roomDTO `json:"room"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type userDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lab  string `json:"lab"`
}

func toReservationDTO(detail application.ReservationDetail) reservationDTO {
	reservation := detail.Reservation
	return reservationDTO{
		ID:        reservation.ID,
		RoomID:    reservation.RoomID,
		StartTime: reservation.Start.UTC().Format(time.RFC3339),
		EndTime:   reservation.End.UTC().Format(time.RFC3339),
		Purpose:   reservation.Purpose,
		User: userDTO{
			ID:   detail.User.ID,
			Name: detail.User.Name,
			Lab:  detail.User.Lab,
		},
		Room:      toRoomDTO(detail.Room),
		CreatedAt: reservation.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: reservation.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toReservationDTOs(details []application.ReservationDetail) []reservationDTO {
	out := make([]reservationDTO, 0, len(details))
	for _, detail := range details {
		out = append(out, toReservationDTO(detail))
	}
	return out
}
