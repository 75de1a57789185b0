// Package models defines the core domain models for Splitledger.
//
// # Models
//
//   - Participant: a named party from the fixed roster
//   - Attachment: receipt metadata owned by one expense
//   - Draft: an expense being assembled before commit
//   - Expense: a committed, immutable expense
//   - Session: an unlocked access-gate session
//
// Participants are identified by name strings. The roster is supplied by
// configuration and never changes while the process runs.
//
// # Design Principles
//
// 1. **Values, not pointers**: committed expenses are handed out as copies
// 2. **Opaque receipts**: attachments carry a reference, never file contents
// 3. **Ids are owned by the ledger**: a Draft never carries an expense ID
package models
