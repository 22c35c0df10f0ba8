package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/jsonrpc/transport/server/stdio"

	"github.com/applinkhq/intent/confirm"
	"github.com/applinkhq/intent/internal/collection"
	"github.com/applinkhq/intent/link"
	"github.com/applinkhq/intent/schema"
	"github.com/applinkhq/intent/session"
)

// Service fans coordination events out to every attached transport and owns
// the link dispatcher, acting as its Router: routing a link means notifying
// the navigation collaborator on the other side of the wire.
type Service struct {
	confirm    *confirm.Service
	session    *session.Service
	parser     *link.Parser
	dispatcher *link.Dispatcher

	transports  *collection.SyncMap[int64, transport.Transport]
	nextID      int64
	loggerName  string
	unsubscribe func()
	unwatch     func()
}

// Option customizes a bridge Service.
type Option func(s *Service)

// WithLoggerName overrides the logger name reported in log notifications.
func WithLoggerName(name string) Option {
	return func(s *Service) {
		s.loggerName = name
	}
}

// New creates a bridge over the supplied core components. The bridge
// subscribes to confirmation state and to session readiness transitions; call
// Close to detach.
func New(confirmService *confirm.Service, sessionService *session.Service, parser *link.Parser, buffer *link.Buffer, options ...Option) *Service {
	ret := &Service{
		confirm:    confirmService,
		session:    sessionService,
		parser:     parser,
		transports: collection.NewSyncMap[int64, transport.Transport](),
		loggerName: "bridge",
	}
	for _, option := range options {
		option(ret)
	}
	ret.dispatcher = link.NewDispatcher(buffer, ret)
	ret.unsubscribe = confirmService.Subscribe(ret.onConfirmState)
	ret.unwatch = sessionService.Watch(func(ready bool) {
		_ = ret.dispatcher.SetAuthenticated(context.Background(), ready)
	})
	return ret
}

// Dispatcher returns the link dispatcher owned by this bridge.
func (s *Service) Dispatcher() *link.Dispatcher {
	return s.dispatcher
}

// Close detaches the bridge from the core components.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.unwatch != nil {
		s.unwatch()
	}
}

// NewHandler creates a per-transport handler and registers the transport for
// outbound notifications. The registration lives as long as ctx: once the
// connection context is done the transport is removed and no longer notified.
func (s *Service) NewHandler(ctx context.Context, aTransport transport.Transport) transport.Handler {
	id := atomic.AddInt64(&s.nextID, 1)
	s.transports.Put(id, aTransport)
	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			s.transports.Delete(id)
		}()
	}
	handler := &Handler{service: s, notifier: aTransport}
	handler.logger = NewLogger(s.loggerName, &handler.loggingLevel, aTransport)
	return handler
}

// Stdio returns a stdio JSON-RPC server for embedding hosts.
func (s *Service) Stdio(ctx context.Context, options ...stdio.Option) *stdio.Server {
	return stdio.New(ctx, s.NewHandler, options...)
}

// Route implements link.Router by notifying every attached transport; the
// navigation collaborator acts on the link. With no transport attached the
// link is lost, which is the documented best-effort behavior.
func (s *Service) Route(ctx context.Context, pending link.Link) error {
	if s.transports.Len() == 0 {
		return fmt.Errorf("no transport attached")
	}
	params := &schema.LinkRouteParams{Kind: pending.Kind, Params: pending.Params, CapturedAt: pending.CapturedAt}
	return s.notifyAll(ctx, schema.MethodLinkRoute, params)
}

// onConfirmState forwards confirmation visibility changes as notifications.
func (s *Service) onConfirmState(state confirm.State) {
	ctx := context.Background()
	if state.Visible {
		params := &schema.ConfirmationShowParams{
			Id:          state.Id,
			Title:       state.Options.Title,
			Description: state.Options.Description,
			AllowCancel: state.Options.AllowCancel,
		}
		_ = s.notifyAll(ctx, schema.MethodConfirmationShow, params)
		return
	}
	_ = s.notifyAll(ctx, schema.MethodConfirmationHide, &schema.ConfirmationHideParams{Id: state.Id})
}

func (s *Service) notifyAll(ctx context.Context, method string, params interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	var firstErr error
	s.transports.Range(func(_ int64, aTransport transport.Transport) bool {
		notification := &jsonrpc.Notification{Method: method, Params: data}
		if err := aTransport.Notify(ctx, notification); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// status builds a readiness snapshot.
func (s *Service) status() *schema.SessionStatusResult {
	subject, _ := s.session.Subject()
	return &schema.SessionStatusResult{
		Authenticated: s.dispatcher.Authenticated(),
		Mounted:       s.dispatcher.Mounted(),
		Ready:         s.dispatcher.Ready(),
		Subject:       subject,
	}
}
