package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/service/journal"
)

type ObservationHandler struct {
	journal journalService
}

func NewObservationHandler(journal journalService) *ObservationHandler {
	return &ObservationHandler{journal: journal}
}

type observationRequest struct {
	Category   string    `json:"category"`
	Note       string    `json:"note"`
	ObservedAt time.Time `json:"observed_at"`
}

func (r observationRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "required"})
	} else if !domain.ObservationCategory(r.Category).IsValid() {
		errs = append(errs, FieldError{Field: "category", Message: "must be weight, meal, medication, symptom, or activity"})
	}
	if r.Note == "" {
		errs = append(errs, FieldError{Field: "note", Message: "required"})
	}
	if r.ObservedAt.IsZero() {
		errs = append(errs, FieldError{Field: "observed_at", Message: "required"})
	}
	return errs
}

type observationDTO struct {
	ID         uuid.UUID `json:"id"`
	PetID      uuid.UUID `json:"pet_id"`
	Category   string    `json:"category"`
	Note       string    `json:"note"`
	ObservedAt time.Time `json:"observed_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toObservationDTO(o *domain.Observation) observationDTO {
	return observationDTO{
		ID:         o.ID,
		PetID:      o.PetID,
		Category:   string(o.Category),
		Note:       o.Note,
		ObservedAt: o.ObservedAt,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

type observationMutationResponse struct {
	Observation *observationDTO `json:"observation,omitempty"`
	Account     accountSummary  `json:"account"`
}

func toObservationMutationResponse(res *journal.Result) observationMutationResponse {
	resp := observationMutationResponse{
		Account: accountSummary{Balance: res.Balance, UsageTotal: res.UsageTotal},
	}
	if res.Observation != nil {
		dto := toObservationDTO(res.Observation)
		resp.Observation = &dto
	}
	return resp
}

func (h *ObservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	petID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.journal.CreateObservation(r.Context(), journal.CreateObservationRequest{
		OwnerID:    identity.UserID,
		PetID:      petID,
		Category:   domain.ObservationCategory(req.Category),
		Note:       req.Note,
		ObservedAt: req.ObservedAt,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("observation creation rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toObservationMutationResponse(res))
}

func (h *ObservationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	petID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	limit, offset := 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			RespondValidationError(w, []FieldError{{Field: "limit", Message: "must be between 1 and 200"}})
			return
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			RespondValidationError(w, []FieldError{{Field: "offset", Message: "must be zero or greater"}})
			return
		}
		offset = n
	}

	observations, total, err := h.journal.ListObservations(r.Context(), petID, identity.UserID, limit, offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list observations", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]observationDTO, len(observations))
	for i := range observations {
		dtos[i] = toObservationDTO(&observations[i])
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"observations": dtos,
		"total":        total,
	})
}

func (h *ObservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	observationID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.journal.UpdateObservation(r.Context(), journal.UpdateObservationRequest{
		OwnerID:       identity.UserID,
		ObservationID: observationID,
		Category:      domain.ObservationCategory(req.Category),
		Note:          req.Note,
		ObservedAt:    req.ObservedAt,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("observation update rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toObservationMutationResponse(res))
}

func (h *ObservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	observationID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	res, err := h.journal.DeleteObservation(r.Context(), observationID, identity.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("observation deletion rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toObservationMutationResponse(res))
}
