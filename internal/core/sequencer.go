package core

import "context"

// Sequencer derives the next invoice number from the highest number already
// persisted. It never caches: a save that failed after the number was shown
// to the operator must not consume it, so every call re-queries the store.
// The persistence transaction re-derives the number again inside its own
// transaction; Next is the read-only preview of what that will assign.
type Sequencer struct {
	store Store
}

func NewSequencer(store Store) *Sequencer {
	return &Sequencer{store: store}
}

// Next returns max(persisted invoice_number) + 1, or 1 when no invoices
// exist.
func (s *Sequencer) Next(ctx context.Context) (int, error) {
	max, err := s.store.MaxInvoiceNumber(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
