package bridge

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/document"
	"github.com/maraichr/sqlgrid/internal/editor"
)

const outboundBuffer = 32

// Session is the host side of one render connection, bound to one
// document. Inbound messages are consumed by a single loop in arrival
// order; session state is just the last loaded handle and the hash of
// the last parse sent, which gates redundant re-renders.
type Session struct {
	logger  *slog.Logger
	service *editor.Service
	path    string

	in  chan Inbound
	out chan Outbound

	handle         document.Handle
	lastParsedHash string
}

func NewSession(logger *slog.Logger, service *editor.Service, path string) *Session {
	return &Session{
		logger:  logger,
		service: service,
		path:    path,
		in:      make(chan Inbound, outboundBuffer),
		out:     make(chan Outbound, outboundBuffer),
	}
}

// Inbound is the channel the transport feeds messages into.
func (s *Session) Inbound() chan<- Inbound { return s.in }

// Outbound is the channel the transport drains to the render side.
func (s *Session) Outbound() <-chan Outbound { return s.out }

// Close stops the session loop once the inbound queue drains.
func (s *Session) Close() { close(s.in) }

// Run consumes inbound messages until the channel closes or the
// context is cancelled, then closes the outbound channel.
func (s *Session) Run(ctx context.Context) {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.in:
			if !ok {
				return
			}
			s.dispatch(ctx, msg)
		}
	}
}

func (s *Session) dispatch(ctx context.Context, msg Inbound) {
	switch msg.Type {
	case MsgLoad:
		s.load(ctx, true)
	case MsgRefresh:
		s.load(ctx, false)
	case MsgEdit:
		s.edit(ctx, msg.Operation())
	case MsgSave:
		s.save(ctx)
	default:
		s.logger.Warn("unknown bridge message", slog.String("type", msg.Type))
	}
}

// load reparses and re-renders the document. When force is false the
// content-hash gate skips documents whose text has not changed since
// the last parse, which keeps an edit's own write from re-triggering a
// render cycle.
func (s *Session) load(ctx context.Context, force bool) {
	h, err := s.service.Load(ctx, s.path)
	if err != nil {
		s.send(errorMessage(err))
		return
	}
	if !force && h.Hash == s.lastParsedHash {
		return
	}
	s.handle = h
	s.lastParsedHash = h.Hash
	s.send(updateData(s.path, s.service.Parse(ctx, h)))
}

func (s *Session) edit(ctx context.Context, op editor.Operation) {
	if s.handle.Hash == "" {
		s.load(ctx, true)
		if s.handle.Hash == "" {
			return
		}
	}
	next, doc, err := s.service.ApplyEditToHandle(ctx, s.handle, op)
	if err != nil {
		s.send(errorMessage(err))
		return
	}
	s.handle = next
	s.lastParsedHash = next.Hash
	s.send(updateData(s.path, doc))
	s.send(currentSQL(next.Text, next.Hash, next.Version))
}

func (s *Session) save(ctx context.Context) {
	h, err := s.service.Load(ctx, s.path)
	if err != nil {
		s.send(errorMessage(err))
		return
	}
	s.handle = h
	s.lastParsedHash = h.Hash
	s.send(currentSQL(h.Text, h.Hash, h.Version))
}

// send is fire-and-forget: when the outbound buffer is full the
// message drops with a warning rather than blocking the loop.
func (s *Session) send(msg Outbound) {
	select {
	case s.out <- msg:
	default:
		s.logger.Warn("outbound buffer full, dropping message",
			slog.String("type", msg.Type), slog.String("path", s.path))
	}
}
