package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// settleThreshold hides transfers that would round to zero cents.
const settleThreshold = 0.005

// MemberBalance represents the balance information for one roster member.
type MemberBalance struct {
	Member     models.Participant
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total amount paid across all expenses
	TotalShare float64 // Sum of this member's shares across all expenses
}

// Transfer represents a suggested payment from one member to another.
type Transfer struct {
	From   models.Participant // Person who owes
	To     models.Participant // Person who is owed
	Amount float64
}

// ComputeBalances derives the net balance of every roster participant from
// the committed expenses, in commit order.
//
// Algorithm:
//   - Every roster participant starts at 0
//   - share = amount / |{payer} ∪ sharedWith|
//   - payer += amount - share
//   - each participant in sharedWith -= share
//
// Arithmetic is exact float64 with no rounding. A solo expense leaves every
// balance unchanged.
func ComputeBalances(expenses []models.Expense, roster []models.Participant) map[models.Participant]float64 {
	balances := make(map[models.Participant]float64, len(roster))
	for _, p := range roster {
		balances[p] = 0
	}

	for _, e := range expenses {
		share := Share(e)
		balances[e.Payer] += e.Amount - share
		for _, p := range models.UniqueParticipants(e.SharedWith) {
			balances[p] -= share
		}
	}

	return balances
}

// Summarize returns one MemberBalance per roster participant, in roster order.
// NetBalance matches ComputeBalances exactly, and TotalPaid - TotalShare
// equals NetBalance up to float rounding.
func Summarize(expenses []models.Expense, roster []models.Participant) []MemberBalance {
	net := ComputeBalances(expenses, roster)

	paid := make(map[models.Participant]float64, len(roster))
	owed := make(map[models.Participant]float64, len(roster))
	for _, e := range expenses {
		share := Share(e)
		paid[e.Payer] += e.Amount
		owed[e.Payer] += share
		// A payer listed in SharedWith is charged twice, matching ComputeBalances.
		for _, p := range models.UniqueParticipants(e.SharedWith) {
			owed[p] += share
		}
	}

	summary := make([]MemberBalance, 0, len(roster))
	for _, p := range roster {
		summary = append(summary, MemberBalance{
			Member:     p,
			NetBalance: net[p],
			TotalPaid:  paid[p],
			TotalShare: owed[p],
		})
	}
	return summary
}

// SettleUp suggests transfers that clear the given balances.
// Debtors are matched with creditors greedily, largest amounts first; ties
// keep roster order so the result is deterministic.
func SettleUp(balances map[models.Participant]float64, roster []models.Participant) []Transfer {
	type position struct {
		member models.Participant
		amount float64
	}

	// Create lists of creditors (owed money) and debtors (owe money)
	var creditors, debtors []position
	for _, p := range roster {
		b := balances[p]
		if b > settleThreshold {
			creditors = append(creditors, position{member: p, amount: b})
		} else if b < -settleThreshold {
			debtors = append(debtors, position{member: p, amount: -b}) // Make positive
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := debtor.amount
		if creditor.amount < amount {
			amount = creditor.amount
		}

		if amount > settleThreshold {
			transfers = append(transfers, Transfer{
				From:   debtor.member,
				To:     creditor.member,
				Amount: amount,
			})
		}

		debtor.amount -= amount
		creditor.amount -= amount

		// Move to next debtor/creditor if fully settled
		if debtor.amount <= settleThreshold {
			i++
		}
		if creditor.amount <= settleThreshold {
			j++
		}
	}

	return transfers
}

// Display rounds a balance or amount to currency precision for presentation.
func Display(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
