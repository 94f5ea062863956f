package login

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/npsgo/internal/crypto"
	"github.com/udisondev/npsgo/internal/protocol"
)

// HandlerOption is a functional option for Handler configuration.
type HandlerOption func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler turns LOGIN_REQUEST packets into sessions. It is safe for concurrent use.
type Handler struct {
	decoder   *protocol.Decoder
	decryptor *crypto.SessionKeyDecryptor
	sessions  SessionStore
	logger    *slog.Logger
}

// NewHandler creates a login handler.
func NewHandler(decryptor *crypto.SessionKeyDecryptor, sessions SessionStore, opts ...HandlerOption) *Handler {
	h := &Handler{
		decryptor: decryptor,
		sessions:  sessions,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.decoder = protocol.NewDecoder(protocol.WithLogger(h.logger))
	return h
}

// HandleHex decodes a hex packet and passes it to HandlePacket.
func (h *Handler) HandleHex(ctx context.Context, s string) (*SessionInfo, error) {
	raw, err := protocol.DecodeHexString(s)
	if err != nil {
		return nil, err
	}
	return h.HandlePacket(ctx, raw)
}

// HandlePacket decodes a LOGIN_REQUEST, recovers its session key and stores the session
// under the request's ticket. Every failure is per-packet: the caller may continue with
// the next packet.
func (h *Handler) HandlePacket(ctx context.Context, raw []byte) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := h.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	if p.Kind() != protocol.KindLoginRequest {
		h.logger.Debug("ignoring non-login packet", "msgId", fmt.Sprintf("0x%04X", p.Header.MessageID()))
		return nil, fmt.Errorf("%w: got %s (0x%04X)", ErrNotLoginRequest, p.Kind(), p.Header.MessageID())
	}

	req, err := h.decoder.DecodeLoginRequest(p.Payload, p.Header.Format())
	if err != nil {
		return nil, fmt.Errorf("decoding LOGIN_REQUEST: %w", err)
	}

	ticket := req.Ticket()
	key, err := h.decryptor.RecoverFromContainer(req.SessionKeyData)
	if err != nil {
		h.logger.Warn("session key recovery failed", "ticket", ticket, "err", err)
		return nil, fmt.Errorf("recovering session key for ticket %q: %w", ticket, err)
	}
	if err := key.Valid(); err != nil {
		h.logger.Warn("accepting session key that failed validation", "ticket", ticket, "err", err)
	}

	info := h.sessions.Store(ticket, key)
	h.logger.Info("session established",
		"ticket", ticket, "scheme", key.Scheme, "keySize", len(key.Key), "hasExpiry", key.HasExpiry)

	return info, nil
}
