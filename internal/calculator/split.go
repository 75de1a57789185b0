package calculator

import (
	"github.com/mmynk/splitledger/internal/models"
)

// Involved returns the set of participants taking part in an expense:
// the payer followed by everyone in SharedWith. Duplicates collapse, so a
// payer listed in SharedWith is counted once.
func Involved(e models.Expense) []models.Participant {
	all := make([]models.Participant, 0, len(e.SharedWith)+1)
	all = append(all, e.Payer)
	all = append(all, e.SharedWith...)
	return models.UniqueParticipants(all)
}

// Share computes the equal per-person share of an expense.
// Based on the algorithm: share = amount / |{payer} ∪ sharedWith|
func Share(e models.Expense) float64 {
	return e.Amount / float64(len(Involved(e)))
}
