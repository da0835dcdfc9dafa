package events

import (
	"time"

	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
)

// TransactionApplied is published after the engine successfully applies a
// transaction to an account. Skipped transactions never produce an event.
type TransactionApplied struct {
	EventID    string                 `json:"event_id"`
	Type       models.TransactionType `json:"type"`
	Client     uint16                 `json:"client"`
	Tx         uint32                 `json:"tx"`
	OccurredAt time.Time              `json:"occurred_at"`
}
