package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
)

const (
	// AccessServiceName is the fully-qualified name of the access service.
	AccessServiceName = "splitledger.v1.AccessService"

	AccessServiceUnlockProcedure = "/splitledger.v1.AccessService/Unlock"
)

// AccessService implements the access gate RPC.
type AccessService struct {
	gate auth.Gate
}

// NewAccessService creates an access service for gate.
func NewAccessService(gate auth.Gate) *AccessService {
	return &AccessService{gate: gate}
}

// NewAccessServiceHandler builds an HTTP handler serving the access RPCs.
func NewAccessServiceHandler(svc *AccessService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AccessServiceUnlockProcedure,
		connect.NewUnaryHandler(AccessServiceUnlockProcedure, svc.Unlock, opts...))

	return "/" + AccessServiceName + "/", mux
}

// Unlock performs the capability check and returns a session token.
func (s *AccessService) Unlock(ctx context.Context, req *connect.Request[UnlockRequest]) (*connect.Response[UnlockResponse], error) {
	session, token, err := s.gate.Unlock(ctx, req.Msg.Secret)
	if err != nil {
		if errors.Is(err, auth.ErrWrongSecret) {
			slog.Warn("Unlock rejected")
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		slog.Error("Unlock failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Session opened", "session_id", session.ID, "gate_enabled", s.gate.Enabled())

	return connect.NewResponse(&UnlockResponse{
		Token:       token,
		SessionID:   session.ID,
		ExpiresAt:   session.ExpiresAt,
		GateEnabled: s.gate.Enabled(),
	}), nil
}
