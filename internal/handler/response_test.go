package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawtrail/backend/internal/domain"
)

func TestRespondDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "EMAIL_ALREADY_REGISTERED"},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},
		{"timeout", domain.ErrTimeout, http.StatusGatewayTimeout, "TRANSACTION_TIMEOUT"},
		{"invalid category", domain.ErrInvalidCategory, http.StatusBadRequest, "INVALID_CATEGORY"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"wrapped sentinel", fmt.Errorf("CreatePet: %w", domain.ErrNotFound), http.StatusNotFound, "RESOURCE_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondDomainError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestRespondDomainError_InsufficientBalanceDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("CreatePet: %w", &domain.InsufficientBalanceError{Cost: 30, Balance: 10})
	RespondDomainError(rec, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Cost      int64 `json:"cost"`
				Balance   int64 `json:"balance"`
				Shortfall int64 `json:"shortfall"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_BALANCE", resp.Error.Code)
	assert.Equal(t, int64(30), resp.Error.Details.Cost)
	assert.Equal(t, int64(10), resp.Error.Details.Balance)
	assert.Equal(t, int64(20), resp.Error.Details.Shortfall)
}

func TestRespondDomainError_InvalidAdjustmentDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("Adjust: %w", &domain.InvalidAdjustmentError{Reason: "amount must be non-zero"})
	RespondDomainError(rec, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Reason string `json:"reason"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_ADJUSTMENT", resp.Error.Code)
	assert.Equal(t, "amount must be non-zero", resp.Error.Details.Reason)
}
