package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

var roster = []models.Participant{"Ada", "John", "Wicko"}

func dinner() models.Expense {
	return models.Expense{
		ID:          1,
		Description: "Dinner",
		Amount:      90,
		Payer:       "Ada",
		SharedWith:  []models.Participant{"John", "Wicko"},
	}
}

func taxi() models.Expense {
	return models.Expense{
		ID:          2,
		Description: "Taxi",
		Amount:      30,
		Payer:       "John",
		SharedWith:  []models.Participant{"Ada"},
	}
}

func sum(balances map[models.Participant]float64) float64 {
	total := 0.0
	for _, b := range balances {
		total += b
	}
	return total
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name     string
		expenses []models.Expense
		want     map[models.Participant]float64
	}{
		{
			name:     "no expenses",
			expenses: nil,
			want:     map[models.Participant]float64{"Ada": 0, "John": 0, "Wicko": 0},
		},
		{
			name:     "dinner split three ways",
			expenses: []models.Expense{dinner()},
			want:     map[models.Participant]float64{"Ada": 60, "John": -30, "Wicko": -30},
		},
		{
			name:     "dinner then taxi",
			expenses: []models.Expense{dinner(), taxi()},
			want:     map[models.Participant]float64{"Ada": 45, "John": -15, "Wicko": -30},
		},
		{
			name: "solo expense is neutral",
			expenses: []models.Expense{
				dinner(),
				{ID: 3, Description: "Coffee", Amount: 4.5, Payer: "Wicko"},
			},
			want: map[models.Participant]float64{"Ada": 60, "John": -30, "Wicko": -30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalances(tt.expenses, roster)
			require.Len(t, got, len(roster))
			for p, want := range tt.want {
				assert.InDelta(t, want, got[p], 1e-9, "balance of %s", p)
			}
			assert.InDelta(t, 0, sum(got), 1e-9)
		})
	}
}

func TestComputeBalances_PayerInSharedWith(t *testing.T) {
	// Involved collapses to {Ada, John}; Ada is credited as payer and also
	// debited as a shared participant.
	e := models.Expense{
		ID:          1,
		Description: "Groceries",
		Amount:      60,
		Payer:       "Ada",
		SharedWith:  []models.Participant{"Ada", "John"},
	}

	got := ComputeBalances([]models.Expense{e}, roster)

	assert.InDelta(t, 0, got["Ada"], 1e-9)
	assert.InDelta(t, -30, got["John"], 1e-9)
	assert.InDelta(t, 0, got["Wicko"], 1e-9)
}

func TestComputeBalances_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var expenses []models.Expense

	for i := 0; i < 100; i++ {
		payer := roster[rng.Intn(len(roster))]
		var shared []models.Participant
		for _, p := range roster {
			if p != payer && rng.Intn(2) == 0 {
				shared = append(shared, p)
			}
		}
		expenses = append(expenses, models.Expense{
			ID:          int64(i + 1),
			Description: "random",
			Amount:      math.Round(rng.Float64()*10000)/100 + 0.01,
			Payer:       payer,
			SharedWith:  shared,
		})

		assert.InDelta(t, 0, sum(ComputeBalances(expenses, roster)), 1e-9, "after %d expenses", i+1)
	}
}

func TestComputeBalances_Pure(t *testing.T) {
	expenses := []models.Expense{dinner(), taxi()}

	first := ComputeBalances(expenses, roster)
	second := ComputeBalances(expenses, roster)

	assert.Equal(t, first, second)
	assert.Equal(t, []models.Participant{"John", "Wicko"}, expenses[0].SharedWith)
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]models.Expense{dinner(), taxi()}, roster)
	require.Len(t, summary, 3)

	want := []MemberBalance{
		{Member: "Ada", NetBalance: 45, TotalPaid: 90, TotalShare: 45},
		{Member: "John", NetBalance: -15, TotalPaid: 30, TotalShare: 45},
		{Member: "Wicko", NetBalance: -30, TotalPaid: 0, TotalShare: 30},
	}
	for i, w := range want {
		got := summary[i]
		assert.Equal(t, w.Member, got.Member)
		assert.InDelta(t, w.NetBalance, got.NetBalance, 1e-9, "%s net", w.Member)
		assert.InDelta(t, w.TotalPaid, got.TotalPaid, 1e-9, "%s paid", w.Member)
		assert.InDelta(t, w.TotalShare, got.TotalShare, 1e-9, "%s share", w.Member)
	}
}

func TestSummarize_PayerInSharedWith(t *testing.T) {
	e := models.Expense{
		ID:          1,
		Description: "Groceries",
		Amount:      60,
		Payer:       "Ada",
		SharedWith:  []models.Participant{"Ada", "John"},
	}

	summary := Summarize([]models.Expense{e}, roster)
	require.Len(t, summary, 3)

	ada := summary[0]
	assert.InDelta(t, 60, ada.TotalPaid, 1e-9)
	assert.InDelta(t, 60, ada.TotalShare, 1e-9)
	assert.InDelta(t, 0, ada.NetBalance, 1e-9)

	for _, m := range summary {
		assert.InDelta(t, m.NetBalance, m.TotalPaid-m.TotalShare, 1e-9, "%s reconciles", m.Member)
	}
}

func TestSettleUp(t *testing.T) {
	tests := []struct {
		name     string
		balances map[models.Participant]float64
		want     []Transfer
	}{
		{
			name:     "all settled",
			balances: map[models.Participant]float64{"Ada": 0, "John": 0, "Wicko": 0},
			want:     nil,
		},
		{
			name:     "one creditor two debtors",
			balances: map[models.Participant]float64{"Ada": 45, "John": -15, "Wicko": -30},
			want: []Transfer{
				{From: "Wicko", To: "Ada", Amount: 30},
				{From: "John", To: "Ada", Amount: 15},
			},
		},
		{
			name:     "two creditors one debtor",
			balances: map[models.Participant]float64{"Ada": 10, "John": 20, "Wicko": -30},
			want: []Transfer{
				{From: "Wicko", To: "John", Amount: 20},
				{From: "Wicko", To: "Ada", Amount: 10},
			},
		},
		{
			name:     "floating point noise is ignored",
			balances: map[models.Participant]float64{"Ada": 1e-12, "John": -1e-12, "Wicko": 0},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SettleUp(tt.balances, roster)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.From, got[i].From)
				assert.Equal(t, w.To, got[i].To)
				assert.InDelta(t, w.Amount, got[i].Amount, 1e-9)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{45, "45.00"},
		{-15, "-15.00"},
		{10.0 / 3.0, "3.33"},
		{-20.0 / 3.0, "-6.67"},
		{-0.001, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.in))
		})
	}
}
