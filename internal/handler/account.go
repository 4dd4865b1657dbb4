package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/backend/internal/domain"
	"github.com/pawtrail/backend/internal/logging"
	"github.com/pawtrail/backend/internal/repository"
)

type accountService interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error)
	GetLedger(ctx context.Context, userID uuid.UUID, filter repository.LedgerFilter) ([]domain.LedgerEntry, int, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountDTO struct {
	ID         uuid.UUID `json:"id"`
	Tier       string    `json:"tier"`
	Balance    int64     `json:"balance"`
	UsageTotal int64     `json:"usage_total"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:         a.ID,
		Tier:       string(a.Tier),
		Balance:    a.Balance,
		UsageTotal: a.UsageTotal,
		CreatedAt:  a.CreatedAt,
	}
}

// accountSummary rides along on every metered mutation response.
type accountSummary struct {
	Balance    int64 `json:"balance"`
	UsageTotal int64 `json:"usage_total"`
}

type ledgerEntryDTO struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toLedgerEntryDTO(e *domain.LedgerEntry) ledgerEntryDTO {
	return ledgerEntryDTO{
		ID:          e.ID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		Description: e.Description,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt,
	}
}

type ledgerPage struct {
	Entries []ledgerEntryDTO `json:"entries"`
	Total   int              `json:"total"`
}

func toLedgerPage(entries []domain.LedgerEntry, total int) ledgerPage {
	dtos := make([]ledgerEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = toLedgerEntryDTO(&entries[i])
	}
	return ledgerPage{Entries: dtos, Total: total}
}

func ledgerFilterFromQuery(r *http.Request) (repository.LedgerFilter, []FieldError) {
	var filter repository.LedgerFilter
	var errs []FieldError
	q := r.URL.Query()

	if kind := q.Get("kind"); kind != "" {
		filter.Kind = domain.LedgerKind(kind)
	}
	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			errs = append(errs, FieldError{Field: "from", Message: "must be an RFC 3339 timestamp"})
		} else {
			filter.From = t
		}
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			errs = append(errs, FieldError{Field: "to", Message: "must be an RFC 3339 timestamp"})
		} else {
			filter.To = t
		}
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > 200 {
			errs = append(errs, FieldError{Field: "limit", Message: "must be between 1 and 200"})
		} else {
			filter.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: "offset", Message: "must be zero or greater"})
		} else {
			filter.Offset = n
		}
	}

	return filter, errs
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetByUserID(r.Context(), identity.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to get account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	identity, appErr := callerIdentity(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	filter, fields := ledgerFilterFromQuery(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entries, total, err := h.accounts.GetLedger(r.Context(), identity.UserID, filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list ledger entries", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toLedgerPage(entries, total))
}
