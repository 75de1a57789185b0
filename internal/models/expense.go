package models

// Attachment is metadata referencing a receipt file.
// It is owned by exactly one expense and is never shared.
type Attachment struct {
	// ID is unique across all attachments for the lifetime of the process.
	ID int64

	// Name is the original file name as reported by the uploader.
	Name string

	// SizeBytes is the file size. Never negative.
	SizeBytes int64

	// Reference is an opaque handle (e.g. a URL) produced by receipt storage.
	Reference string
}

// FileMeta is what receipt storage reports for a user-selected file.
type FileMeta struct {
	Name      string
	SizeBytes int64
	Reference string
}

// Draft is an in-progress expense that has not been committed yet.
// The caller owns it between edits and submits it to the ledger.
type Draft struct {
	Description string
	Amount      float64
	Payer       Participant
	SharedWith  []Participant
	Attachments []Attachment
}

// ClearAttachments returns a copy of d without any attachments.
func (d Draft) ClearAttachments() Draft {
	d.Attachments = nil
	return d
}

// Expense is a committed expense. Once returned by the ledger it is never
// modified.
type Expense struct {
	// ID is unique across all expenses for the lifetime of the process.
	ID int64

	// Description is non-empty after trimming whitespace.
	Description string

	// Amount is strictly positive.
	Amount float64

	// Payer is the participant who paid.
	Payer Participant

	// SharedWith are the participants sharing the cost, without duplicates.
	// The payer is excluded by convention but this is not enforced.
	SharedWith []Participant

	// Attachments are receipts in the order they were attached.
	Attachments []Attachment
}

// Clone returns a deep copy of e so callers cannot alias ledger state.
func (e Expense) Clone() Expense {
	e.SharedWith = append([]Participant(nil), e.SharedWith...)
	e.Attachments = append([]Attachment(nil), e.Attachments...)
	return e
}
