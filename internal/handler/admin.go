package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/repository"
	"github.com/pawtrail/backend/internal/service"
)

type adminService interface {
	Adjust(ctx context.Context, targetAccountID uuid.UUID, amount int64, reason string, actingAdminID uuid.UUID) (*service.AdjustmentResult, error)
	SetTier(ctx context.Context, accountID uuid.UUID, tier domain.Tier) (*domain.Account, error)
	GetAccountLedger(ctx context.Context, accountID uuid.UUID, filter repository.LedgerFilter) ([]domain.LedgerEntry, int, error)
}

type AdminHandler struct {
	admin adminService
}

func NewAdminHandler(admin adminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type adjustRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

func (r adjustRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Amount == 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "must be non-zero"})
	}
	if r.Reason == "" {
		errs = append(errs, FieldError{Field: "reason", Message: "required"})
	}
	return errs
}

type adjustResponse struct {
	Entry   ledgerEntryDTO `json:"entry"`
	Account accountSummary `json:"account"`
}

func (h *AdminHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	accountID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.admin.Adjust(r.Context(), accountID, req.Amount, req.Reason, identity.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("adjustment rejected", "error", err, "account_id", accountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, adjustResponse{
		Entry:   toLedgerEntryDTO(res.Entry),
		Account: accountSummary{Balance: res.Balance, UsageTotal: res.UsageTotal},
	})
}

type setTierRequest struct {
	Tier string `json:"tier"`
}

func (r setTierRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Tier == "" {
		errs = append(errs, FieldError{Field: "tier", Message: "required"})
	} else if !domain.Tier(r.Tier).IsValid() {
		errs = append(errs, FieldError{Field: "tier", Message: "must be standard or unlimited"})
	}
	return errs
}

func (h *AdminHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req setTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.admin.SetTier(r.Context(), accountID, domain.Tier(req.Tier))
	if err != nil {
		logging.FromContext(r.Context()).Error("tier change failed", "error", err, "account_id", accountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AdminHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := pathID(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	filter, fields := ledgerFilterFromQuery(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entries, total, err := h.admin.GetAccountLedger(r.Context(), accountID, filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list ledger entries", "error", err, "account_id", accountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toLedgerPage(entries, total))
}
