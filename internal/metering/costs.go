package metering

import "github.com/pawtrail/backend/internal/domain"

// CostTable maps a metered action (identified by its ledger kind) to the
// number of tokens it debits. Actions absent from the table are metered in
// name only: cost 0, still journaled.
type CostTable map[domain.LedgerKind]int64

func DefaultCosts() CostTable {
	return CostTable{
		domain.KindPetCreated:         10,
		domain.KindPetUpdated:         2,
		domain.KindPetDeleted:         0,
		domain.KindObservationCreated: 5,
		domain.KindObservationUpdated: 2,
		domain.KindObservationDeleted: 0,
	}
}

func (t CostTable) Cost(kind domain.LedgerKind) int64 {
	return t[kind]
}
