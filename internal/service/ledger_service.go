// Package service exposes the ledger over Connect RPC.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
)

const (
	// LedgerServiceName is the fully-qualified name of the ledger service.
	LedgerServiceName = "splitledger.v1.LedgerService"

	LedgerServiceListParticipantsProcedure = "/splitledger.v1.LedgerService/ListParticipants"
	LedgerServiceAttachFileProcedure       = "/splitledger.v1.LedgerService/AttachFile"
	LedgerServiceCommitExpenseProcedure    = "/splitledger.v1.LedgerService/CommitExpense"
	LedgerServiceListExpensesProcedure     = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceGetBalancesProcedure      = "/splitledger.v1.LedgerService/GetBalances"

	// ValidationErrorKey is the error metadata key carrying the validation kind,
	// e.g. "non_positive_amount", so clients can point at the offending field.
	ValidationErrorKey = "Validation-Error"
)

// LedgerService implements the ledger RPCs on top of a ledger.Ledger.
type LedgerService struct {
	ledger    *ledger.Ledger
	publisher events.Publisher
	metrics   *metrics.Metrics

	// singleAttachment makes AttachFile replace any attachment already on the draft.
	singleAttachment bool
	now              func() time.Time
}

// NewLedgerService creates a LedgerService. With singleAttachmentPerDraft set,
// selecting a new file replaces the draft's previous attachment.
func NewLedgerService(l *ledger.Ledger, publisher events.Publisher, m *metrics.Metrics, singleAttachmentPerDraft bool) *LedgerService {
	return &LedgerService{
		ledger:           l,
		publisher:        publisher,
		metrics:          m,
		singleAttachment: singleAttachmentPerDraft,
		now:              time.Now,
	}
}

// NewLedgerServiceHandler builds an HTTP handler serving every ledger RPC.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceListParticipantsProcedure,
		connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(LedgerServiceAttachFileProcedure,
		connect.NewUnaryHandler(LedgerServiceAttachFileProcedure, svc.AttachFile, opts...))
	mux.Handle(LedgerServiceCommitExpenseProcedure,
		connect.NewUnaryHandler(LedgerServiceCommitExpenseProcedure, svc.CommitExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure,
		connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceGetBalancesProcedure,
		connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// ListParticipants returns the roster in display order.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return connect.NewResponse(&ListParticipantsResponse{
		Participants: participantNames(s.ledger.ListParticipants()),
	}), nil
}

// AttachFile records receipt metadata on a draft and returns the updated draft.
func (s *LedgerService) AttachFile(ctx context.Context, req *connect.Request[AttachFileRequest]) (*connect.Response[AttachFileResponse], error) {
	wire := req.Msg.Draft
	draft := models.Draft{Attachments: attachmentsFromWire(wire.Attachments)}
	if s.singleAttachment {
		draft = draft.ClearAttachments()
	}

	updated, err := s.ledger.AttachFile(draft, models.FileMeta{
		Name:      req.Msg.Name,
		SizeBytes: req.Msg.SizeBytes,
		Reference: req.Msg.Reference,
	})
	if err != nil {
		slog.Warn("AttachFile rejected", "name", req.Msg.Name, "size_bytes", req.Msg.SizeBytes, "error", err)
		return nil, validationError(err)
	}
	s.metrics.AttachmentsCreated.Inc()

	added := updated.Attachments[len(updated.Attachments)-1]
	slog.Debug("Attachment added",
		"attachment_id", added.ID,
		"name", added.Name,
		"size_bytes", added.SizeBytes,
		"attachments_count", len(updated.Attachments),
	)

	wire.Attachments = attachmentsToWire(updated.Attachments)
	return connect.NewResponse(&AttachFileResponse{Draft: wire}), nil
}

// CommitExpense validates a draft and appends it to the ledger.
func (s *LedgerService) CommitExpense(ctx context.Context, req *connect.Request[CommitExpenseRequest]) (*connect.Response[CommitExpenseResponse], error) {
	wire := req.Msg.Draft

	amount, err := ledger.ParseAmount(wire.Amount)
	if err != nil {
		// NaN fails the amount rule, so rejections still follow field order.
		amount = math.NaN()
	}

	expense, err := s.ledger.CommitExpense(ctx, models.Draft{
		Description: wire.Description,
		Amount:      amount,
		Payer:       models.Participant(wire.Payer),
		SharedWith:  participantsFromNames(wire.SharedWith),
		Attachments: attachmentsFromWire(wire.Attachments),
	})
	if err != nil {
		if ledger.IsValidation(err) {
			return nil, s.rejected(err)
		}
		slog.Error("CommitExpense failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.metrics.ExpensesCommitted.Inc()
	slog.Info("Expense committed",
		"expense_id", expense.ID,
		"payer", expense.Payer,
		"amount", expense.Amount,
		"shared_with", expense.SharedWith,
		"attachments_count", len(expense.Attachments),
	)

	if err := s.publisher.PublishExpenseCommitted(ctx, events.NewExpenseCommitted(expense, s.now())); err != nil {
		slog.Warn("Failed to publish expense event", "expense_id", expense.ID, "error", err)
	}

	return connect.NewResponse(&CommitExpenseResponse{Expense: expenseToWire(expense)}), nil
}

// ListExpenses returns committed expenses in commit order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	expenses, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToWire(e)
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: out}), nil
}

// GetBalances computes current balances and the transfers that would settle them.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	expenses, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		slog.Error("GetBalances failed - could not list expenses", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	roster := s.ledger.ListParticipants()

	summary := calculator.Summarize(expenses, roster)
	balances := make([]Balance, len(summary))
	net := make(map[models.Participant]float64, len(summary))
	for i, m := range summary {
		net[m.Member] = m.NetBalance
		balances[i] = Balance{
			Participant: string(m.Member),
			NetBalance:  m.NetBalance,
			Display:     calculator.Display(m.NetBalance),
			TotalPaid:   m.TotalPaid,
			TotalShare:  m.TotalShare,
		}
	}

	settle := calculator.SettleUp(net, roster)
	transfers := make([]Transfer, len(settle))
	for i, t := range settle {
		transfers[i] = Transfer{
			From:    string(t.From),
			To:      string(t.To),
			Amount:  t.Amount,
			Display: calculator.Display(t.Amount),
		}
	}

	slog.Debug("GetBalances successful",
		"expenses_count", len(expenses),
		"members_count", len(balances),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&GetBalancesResponse{
		Balances:  balances,
		Transfers: transfers,
	}), nil
}

// rejected records and converts a draft validation failure.
func (s *LedgerService) rejected(err error) error {
	kind := ledger.Kind(err)
	s.metrics.ExpenseRejections.WithLabelValues(kind).Inc()
	slog.Warn("CommitExpense rejected", "reason", kind, "error", err)
	return validationError(err)
}

// validationError maps a ledger validation failure to InvalidArgument with
// the failure kind in the error metadata.
func validationError(err error) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	if kind := ledger.Kind(err); kind != "" {
		connectErr.Meta().Set(ValidationErrorKey, kind)
	}
	return connectErr
}

// ValidationKind extracts the validation kind from an RPC error returned by
// a LedgerService client. It returns "" for other errors.
func ValidationKind(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(ValidationErrorKey)
}
