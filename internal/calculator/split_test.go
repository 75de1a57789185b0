package calculator

import (
	"math"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestShare(t *testing.T) {
	tests := []struct {
		name         string
		expense      models.Expense
		wantInvolved int
		wantShare    float64
	}{
		{
			name: "payer and two others",
			expense: models.Expense{
				Amount:     90,
				Payer:      "Ada",
				SharedWith: []models.Participant{"John", "Wicko"},
			},
			wantInvolved: 3,
			wantShare:    30,
		},
		{
			name:         "solo expense",
			expense:      models.Expense{Amount: 42, Payer: "Ada"},
			wantInvolved: 1,
			wantShare:    42,
		},
		{
			name: "payer listed in shared with counts once",
			expense: models.Expense{
				Amount:     60,
				Payer:      "Ada",
				SharedWith: []models.Participant{"Ada", "John"},
			},
			wantInvolved: 2,
			wantShare:    30,
		},
		{
			name: "duplicate shared participants collapse",
			expense: models.Expense{
				Amount:     30,
				Payer:      "John",
				SharedWith: []models.Participant{"Ada", "Ada"},
			},
			wantInvolved: 2,
			wantShare:    15,
		},
		{
			name: "uneven split keeps full precision",
			expense: models.Expense{
				Amount:     10,
				Payer:      "Ada",
				SharedWith: []models.Participant{"John", "Wicko"},
			},
			wantInvolved: 3,
			wantShare:    10.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Involved(tt.expense)); got != tt.wantInvolved {
				t.Errorf("len(Involved()) = %d, want %d", got, tt.wantInvolved)
			}
			if got := Share(tt.expense); math.Abs(got-tt.wantShare) > 1e-12 {
				t.Errorf("Share() = %v, want %v", got, tt.wantShare)
			}
		})
	}
}

func TestInvolved_PayerFirst(t *testing.T) {
	got := Involved(models.Expense{
		Payer:      "Wicko",
		SharedWith: []models.Participant{"Ada", "Wicko", "John"},
	})
	want := []models.Participant{"Wicko", "Ada", "John"}
	if len(got) != len(want) {
		t.Fatalf("Involved() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Involved()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
