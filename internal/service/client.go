package service

import (
	"strings"

	"connectrpc.com/connect"
)

// LedgerClient calls the ledger RPCs of a remote server.
type LedgerClient struct {
	ListParticipants *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	AttachFile       *connect.Client[AttachFileRequest, AttachFileResponse]
	CommitExpense    *connect.Client[CommitExpenseRequest, CommitExpenseResponse]
	ListExpenses     *connect.Client[ListExpensesRequest, ListExpensesResponse]
	GetBalances      *connect.Client[GetBalancesRequest, GetBalancesResponse]
}

// NewLedgerClient creates a client for the server at baseURL.
func NewLedgerClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &LedgerClient{
		ListParticipants: connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](
			httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		AttachFile: connect.NewClient[AttachFileRequest, AttachFileResponse](
			httpClient, baseURL+LedgerServiceAttachFileProcedure, opts...),
		CommitExpense: connect.NewClient[CommitExpenseRequest, CommitExpenseResponse](
			httpClient, baseURL+LedgerServiceCommitExpenseProcedure, opts...),
		ListExpenses: connect.NewClient[ListExpensesRequest, ListExpensesResponse](
			httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		GetBalances: connect.NewClient[GetBalancesRequest, GetBalancesResponse](
			httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
	}
}

// NewAccessClient creates a client for the Unlock RPC.
func NewAccessClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[UnlockRequest, UnlockResponse] {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return connect.NewClient[UnlockRequest, UnlockResponse](httpClient, baseURL+AccessServiceUnlockProcedure, opts...)
}
