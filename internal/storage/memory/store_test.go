package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := New()

	got, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	for i, desc := range []string{"Dinner", "Taxi", "Museum"} {
		require.NoError(t, store.AppendExpense(ctx, models.Expense{
			ID:          int64(i + 1),
			Description: desc,
			Amount:      10,
			Payer:       "Ada",
		}))
	}

	got, err = store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Dinner", got[0].Description)
	assert.Equal(t, "Taxi", got[1].Description)
	assert.Equal(t, "Museum", got[2].Description)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := New()

	shared := []models.Participant{"John"}
	require.NoError(t, store.AppendExpense(ctx, models.Expense{
		ID:          1,
		Description: "Dinner",
		Amount:      90,
		Payer:       "Ada",
		SharedWith:  shared,
		Attachments: []models.Attachment{{ID: 1, Name: "r.pdf"}},
	}))

	// Mutating the caller's slice after append must not leak in.
	shared[0] = "Wicko"

	first, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	first[0].SharedWith[0] = "Mallory"
	first[0].Attachments[0].Name = "evil.pdf"

	second, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Participant{"John"}, second[0].SharedWith)
	assert.Equal(t, "r.pdf", second[0].Attachments[0].Name)
}
