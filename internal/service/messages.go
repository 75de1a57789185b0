package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Attachment is the wire form of models.Attachment.
type Attachment struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Reference string `json:"reference"`
}

// Draft is the wire form of models.Draft. Amount is decimal text as typed
// by the user, e.g. "12.50".
type Draft struct {
	Description string       `json:"description"`
	Amount      string       `json:"amount"`
	Payer       string       `json:"payer"`
	SharedWith  []string     `json:"shared_with"`
	Attachments []Attachment `json:"attachments"`
}

// Expense is the wire form of models.Expense.
type Expense struct {
	ID            int64        `json:"id"`
	Description   string       `json:"description"`
	Amount        float64      `json:"amount"`
	AmountDisplay string       `json:"amount_display"`
	Payer         string       `json:"payer"`
	SharedWith    []string     `json:"shared_with"`
	Attachments   []Attachment `json:"attachments"`
}

// Balance is one participant's position. Display is rounded to cents;
// NetBalance is exact.
type Balance struct {
	Participant string  `json:"participant"`
	NetBalance  float64 `json:"net_balance"`
	Display     string  `json:"display"`
	TotalPaid   float64 `json:"total_paid"`
	TotalShare  float64 `json:"total_share"`
}

// Transfer is a suggested payment that settles balances.
type Transfer struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []string `json:"participants"`
}

type AttachFileRequest struct {
	Draft     Draft  `json:"draft"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Reference string `json:"reference"`
}

type AttachFileResponse struct {
	Draft Draft `json:"draft"`
}

type CommitExpenseRequest struct {
	Draft Draft `json:"draft"`
}

type CommitExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
}

type UnlockRequest struct {
	Secret string `json:"secret"`
}

type UnlockResponse struct {
	Token       string `json:"token"`
	SessionID   string `json:"session_id"`
	ExpiresAt   int64  `json:"expires_at"`
	GateEnabled bool   `json:"gate_enabled"`
}

func participantNames(ps []models.Participant) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return names
}

func participantsFromNames(names []string) []models.Participant {
	ps := make([]models.Participant, len(names))
	for i, n := range names {
		ps[i] = models.Participant(n)
	}
	return ps
}

func attachmentsToWire(as []models.Attachment) []Attachment {
	out := make([]Attachment, len(as))
	for i, a := range as {
		out[i] = Attachment{ID: a.ID, Name: a.Name, SizeBytes: a.SizeBytes, Reference: a.Reference}
	}
	return out
}

func attachmentsFromWire(as []Attachment) []models.Attachment {
	out := make([]models.Attachment, len(as))
	for i, a := range as {
		out[i] = models.Attachment{ID: a.ID, Name: a.Name, SizeBytes: a.SizeBytes, Reference: a.Reference}
	}
	return out
}

func expenseToWire(e models.Expense) Expense {
	return Expense{
		ID:            e.ID,
		Description:   e.Description,
		Amount:        e.Amount,
		AmountDisplay: calculator.Display(e.Amount),
		Payer:         string(e.Payer),
		SharedWith:    participantNames(e.SharedWith),
		Attachments:   attachmentsToWire(e.Attachments),
	}
}
