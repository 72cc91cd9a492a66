// Package logctx folds call-scoped JSON-RPC attributes into slog records.
// The session attaches the outgoing message's method, id and type to the
// context; the wrapping handler adds them as a "rpc" group on every record
// emitted during that call.
package logctx

import (
	"context"
	"log/slog"
)

type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if msg, ok := ctx.Value(rpcMsgKey{}).(*RPCMessage); ok {
		r.AddAttrs(slog.Group("rpc",
			slog.String("method", msg.Method),
			slog.String("id", msg.ID),
			slog.String("type", msg.Type),
		))
	}

	return h.Handler.Handle(ctx, r)
}

// Wrap returns a logger whose records carry the context's rpc attributes.
func Wrap(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return nil
	}
	return slog.New(Handler{logger.Handler()})
}

type rpcMsgKey struct{}

type RPCMessage struct {
	Method string
	ID     string
	Type   string
}

func WithRPCMessage(ctx context.Context, msg *RPCMessage) context.Context {
	return context.WithValue(ctx, rpcMsgKey{}, msg)
}
