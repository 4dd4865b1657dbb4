package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type LedgerKind string

const (
	KindPetCreated         LedgerKind = "pet_created"
	KindPetUpdated         LedgerKind = "pet_updated"
	KindPetDeleted         LedgerKind = "pet_deleted"
	KindObservationCreated LedgerKind = "observation_created"
	KindObservationUpdated LedgerKind = "observation_updated"
	KindObservationDeleted LedgerKind = "observation_deleted"
	KindAdminAdjustment    LedgerKind = "admin_adjustment"
)

// trackingOnlySuffix marks entries written for unlimited-tier accounts where
// the nominal amount was recorded but no balance was debited. Reporting uses
// it to separate billable from non-billable activity.
const trackingOnlySuffix = "_tracking_only"

func (k LedgerKind) TrackingOnly() LedgerKind {
	return k + trackingOnlySuffix
}

func (k LedgerKind) IsTrackingOnly() bool {
	return len(k) > len(trackingOnlySuffix) &&
		k[len(k)-len(trackingOnlySuffix):] == trackingOnlySuffix
}

// LedgerEntry is an immutable audit record. Amount is signed: negative for
// debits, positive for credits. Entries are never updated or deleted.
type LedgerEntry struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Kind        LedgerKind
	Amount      int64
	Description string
	Metadata    json.RawMessage
	CreatedAt   time.Time
}
