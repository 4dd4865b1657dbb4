package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/service/journal"
)

type journalService interface {
	CreatePet(ctx context.Context, req journal.CreatePetRequest) (*journal.Result, error)
	UpdatePet(ctx context.Context, req journal.UpdatePetRequest) (*journal.Result, error)
	DeletePet(ctx context.Context, petID, ownerID uuid.UUID) (*journal.Result, error)
	ListPets(ctx context.Context, ownerID uuid.UUID) ([]domain.Pet, error)
	GetPet(ctx context.Context, petID, ownerID uuid.UUID) (*domain.Pet, error)

	CreateObservation(ctx context.Context, req journal.CreateObservationRequest) (*journal.Result, error)
	UpdateObservation(ctx context.Context, req journal.UpdateObservationRequest) (*journal.Result, error)
	DeleteObservation(ctx context.Context, observationID, ownerID uuid.UUID) (*journal.Result, error)
	ListObservations(ctx context.Context, petID, ownerID uuid.UUID, limit, offset int) ([]domain.Observation, int, error)
}

type PetHandler struct {
	journal journalService
}

func NewPetHandler(journal journalService) *PetHandler {
	return &PetHandler{journal: journal}
}

type petRequest struct {
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     *string    `json:"breed"`
	BirthDate *time.Time `json:"birth_date"`
}

func (r petRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Species == "" {
		errs = append(errs, FieldError{Field: "species", Message: "required"})
	}
	return errs
}

type petDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     *string    `json:"breed"`
	BirthDate *time.Time `json:"birth_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toPetDTO(p *domain.Pet) petDTO {
	return petDTO{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type petMutationResponse struct {
	Pet     *petDTO        `json:"pet,omitempty"`
	Account accountSummary `json:"account"`
}

func toPetMutationResponse(res *journal.Result) petMutationResponse {
	resp := petMutationResponse{
		Account: accountSummary{Balance: res.Balance, UsageTotal: res.UsageTotal},
	}
	if res.Pet != nil {
		dto := toPetDTO(res.Pet)
		resp.Pet = &dto
	}
	return resp
}

func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.journal.CreatePet(r.Context(), journal.CreatePetRequest{
		OwnerID:   identity.UserID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("pet creation rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toPetMutationResponse(res))
}

func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	pets, err := h.journal.ListPets(r.Context(), identity.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list pets", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]petDTO, len(pets))
	for i := range pets {
		dtos[i] = toPetDTO(&pets[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	pet, err := h.journal.GetPet(r.Context(), petID, identity.UserID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPetDTO(pet))
}

func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.journal.UpdatePet(r.Context(), journal.UpdatePetRequest{
		OwnerID:   identity.UserID,
		PetID:     petID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("pet update rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPetMutationResponse(res))
}

func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.journal.DeletePet(r.Context(), petID, identity.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("pet deletion rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPetMutationResponse(res))
}
