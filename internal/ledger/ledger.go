// Package ledger implements the Ledger Store: the participant roster, the
// committed expense sequence, and the validation gate every expense passes
// through before it is committed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ErrInvalidRoster is returned by New when the roster is empty, has a blank
// name, or lists a name twice.
var ErrInvalidRoster = errors.New("invalid participant roster")

// Ledger holds the roster and the committed expenses.
//
// CommitExpense is the only way an expense enters the ledger. Commits are
// serialized so ids stay unique and the sequence stays in commit order.
type Ledger struct {
	roster []models.Participant
	store  storage.Store

	mu               sync.Mutex
	nextExpenseID    int64
	nextAttachmentID int64

	// pending holds attachments handed out by AttachFile and not yet
	// committed; committed holds the ids owned by stored expenses.
	pending   map[int64]models.Attachment
	committed map[int64]bool
}

// New creates a ledger for a fixed roster backed by store.
func New(roster []models.Participant, store storage.Store) (*Ledger, error) {
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}
	return &Ledger{
		roster:           append([]models.Participant(nil), roster...),
		store:            store,
		nextExpenseID:    1,
		nextAttachmentID: 1,
		pending:          make(map[int64]models.Attachment),
		committed:        make(map[int64]bool),
	}, nil
}

// ValidateRoster checks that a roster has at least one participant and that
// names are non-blank and distinct.
func ValidateRoster(roster []models.Participant) error {
	if len(roster) == 0 {
		return fmt.Errorf("%w: must have at least one participant", ErrInvalidRoster)
	}
	seen := make(map[models.Participant]bool, len(roster))
	for _, p := range roster {
		if strings.TrimSpace(string(p)) == "" {
			return fmt.Errorf("%w: blank participant name", ErrInvalidRoster)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate participant %q", ErrInvalidRoster, p)
		}
		seen[p] = true
	}
	return nil
}

// ListParticipants returns the roster in display order.
func (l *Ledger) ListParticipants() []models.Participant {
	return append([]models.Participant(nil), l.roster...)
}

// AttachFile returns a copy of draft with a new attachment for file appended.
// The attachment gets a fresh id; the draft passed in is not modified.
// Committed expenses are never touched.
func (l *Ledger) AttachFile(draft models.Draft, file models.FileMeta) (models.Draft, error) {
	if strings.TrimSpace(file.Name) == "" {
		return draft, &ValidationError{Field: "file.name", Err: ErrInvalidAttachment}
	}
	if file.SizeBytes < 0 {
		return draft, &ValidationError{Field: "file.size_bytes", Value: fmt.Sprint(file.SizeBytes), Err: ErrInvalidAttachment}
	}

	l.mu.Lock()
	attachment := models.Attachment{
		ID:        l.nextAttachmentID,
		Name:      file.Name,
		SizeBytes: file.SizeBytes,
		Reference: file.Reference,
	}
	l.pending[attachment.ID] = attachment
	l.nextAttachmentID++
	l.mu.Unlock()

	attachments := make([]models.Attachment, 0, len(draft.Attachments)+1)
	attachments = append(attachments, draft.Attachments...)
	attachments = append(attachments, attachment)
	draft.Attachments = attachments
	draft.SharedWith = append([]models.Participant(nil), draft.SharedWith...)
	return draft, nil
}

// CommitExpense validates draft and appends it to the ledger.
//
// On success the stored expense is returned with a fresh id. On failure a
// *ValidationError names the broken rule and nothing changes: the expense
// sequence and the id counter are left as they were.
//
// Every attachment on the draft must have been issued by AttachFile, appear
// once, and not belong to an expense already committed. A draft submitted
// twice is therefore rejected the second time.
func (l *Ledger) CommitExpense(ctx context.Context, draft models.Draft) (models.Expense, error) {
	if err := l.validate(draft); err != nil {
		return models.Expense{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkAttachments(draft.Attachments); err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		ID:          l.nextExpenseID,
		Description: draft.Description,
		Amount:      draft.Amount,
		Payer:       draft.Payer,
		SharedWith:  models.UniqueParticipants(draft.SharedWith),
		Attachments: append([]models.Attachment(nil), draft.Attachments...),
	}
	if err := l.store.AppendExpense(ctx, expense); err != nil {
		return models.Expense{}, fmt.Errorf("failed to store expense: %w", err)
	}
	l.nextExpenseID++
	for _, a := range expense.Attachments {
		delete(l.pending, a.ID)
		l.committed[a.ID] = true
	}

	return expense.Clone(), nil
}

// ListExpenses returns the committed expenses in commit order.
func (l *Ledger) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

func (l *Ledger) validate(draft models.Draft) error {
	if strings.TrimSpace(draft.Description) == "" {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if !validAmount(draft.Amount) {
		return &ValidationError{Field: "amount", Value: fmt.Sprint(draft.Amount), Err: ErrNonPositiveAmount}
	}
	if !models.ContainsParticipant(l.roster, draft.Payer) {
		return &ValidationError{Field: "payer", Value: string(draft.Payer), Err: ErrUnknownPayer}
	}
	for _, p := range draft.SharedWith {
		if !models.ContainsParticipant(l.roster, p) {
			return &ValidationError{Field: "shared_with", Value: string(p), Err: ErrUnknownSharedParticipant}
		}
	}
	return nil
}

// checkAttachments must be called with l.mu held.
func (l *Ledger) checkAttachments(attachments []models.Attachment) error {
	seen := make(map[int64]bool, len(attachments))
	for _, a := range attachments {
		id := fmt.Sprint(a.ID)
		if seen[a.ID] {
			return &ValidationError{Field: "attachments", Value: id, Err: fmt.Errorf("%w: listed twice", ErrInvalidAttachment)}
		}
		seen[a.ID] = true

		if l.committed[a.ID] {
			return &ValidationError{Field: "attachments", Value: id, Err: fmt.Errorf("%w: already committed", ErrInvalidAttachment)}
		}
		if issued, ok := l.pending[a.ID]; !ok || issued != a {
			return &ValidationError{Field: "attachments", Value: id, Err: fmt.Errorf("%w: not issued by this ledger", ErrInvalidAttachment)}
		}
	}
	return nil
}
