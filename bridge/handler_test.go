package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"

	"github.com/applinkhq/intent/confirm"
	"github.com/applinkhq/intent/link"
	"github.com/applinkhq/intent/schema"
	"github.com/applinkhq/intent/session"
)

// mockTransport records outbound notifications.
type mockTransport struct {
	mu            sync.Mutex
	notifications []*jsonrpc.Notification
}

func (m *mockTransport) Notify(_ context.Context, notification *jsonrpc.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockTransport) Send(_ context.Context, _ *jsonrpc.Request) (*jsonrpc.Response, error) {
	return &jsonrpc.Response{}, nil
}

// last returns the most recent notification for the given method.
func (m *mockTransport) last(method string) (*jsonrpc.Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].Method == method {
			return m.notifications[i], true
		}
	}
	return nil, false
}

func (m *mockTransport) has(method string) func() bool {
	return func() bool {
		_, ok := m.last(method)
		return ok
	}
}

var _ transport.Transport = (*mockTransport)(nil)

type testBridge struct {
	service   *Service
	handler   transport.Handler
	transport *mockTransport
	buffer    *link.Buffer
	confirm   *confirm.Service
	session   *session.Service
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()
	confirmService, err := confirm.New(confirm.WithVerifier(confirm.NewStaticVerifier("2468")))
	require.NoError(t, err)
	sessionService := session.New()
	buffer := link.NewBuffer()
	service := New(confirmService, sessionService, link.NewParser(), buffer)
	t.Cleanup(service.Close)
	aTransport := &mockTransport{}
	return &testBridge{
		service:   service,
		handler:   service.NewHandler(context.Background(), aTransport),
		transport: aTransport,
		buffer:    buffer,
		confirm:   confirmService,
		session:   sessionService,
	}
}

func serve(t *testing.T, handler transport.Handler, method string, params interface{}) *jsonrpc.Response {
	t.Helper()
	request, err := jsonrpc.NewRequest(method, params)
	require.NoError(t, err)
	response := &jsonrpc.Response{}
	handler.Serve(context.Background(), request, response)
	return response
}

func notify(t *testing.T, handler transport.Handler, method string, params interface{}) {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	handler.OnNotification(context.Background(), &jsonrpc.Notification{Method: method, Params: raw})
}

func TestHandler_LinkReplayOverBridge(t *testing.T) {
	b := newTestBridge(t)

	// deep link arrives before the app is ready
	notify(t, b.handler, schema.MethodLinkOpen, &schema.LinkOpenParams{URL: "bank://invite?code=A1"})
	pending, ok := b.buffer.Peek()
	require.True(t, ok)
	require.Equal(t, "invite", pending.Kind)

	expiry := time.Now().Add(time.Hour)
	response := serve(t, b.handler, schema.MethodSessionAuthenticate, &schema.SessionAuthenticateParams{
		AccessToken: "at", ExpiresAt: &expiry,
	})
	require.Nil(t, response.Error)
	status := &schema.SessionStatusResult{}
	require.NoError(t, json.Unmarshal(response.Result, status))
	require.True(t, status.Authenticated)
	require.False(t, status.Ready)

	response = serve(t, b.handler, schema.MethodNavigationMounted, &schema.NavigationMountedParams{Mounted: true})
	require.Nil(t, response.Error)
	require.NoError(t, json.Unmarshal(response.Result, status))
	require.True(t, status.Ready)

	routed, ok := b.transport.last(schema.MethodLinkRoute)
	require.True(t, ok)
	routeParams := &schema.LinkRouteParams{}
	require.NoError(t, json.Unmarshal(routed.Params, routeParams))
	require.Equal(t, "invite", routeParams.Kind)
	require.Equal(t, map[string]string{"code": "A1"}, routeParams.Params)

	// consumed exactly once
	_, ok = b.buffer.Peek()
	require.False(t, ok)
}

func TestHandler_ConfirmationRoundTrip(t *testing.T) {
	b := newTestBridge(t)

	request, err := jsonrpc.NewRequest(schema.MethodConfirmationRequest, &schema.ConfirmationRequestParams{Title: "Verify"})
	require.NoError(t, err)
	responses := make(chan *jsonrpc.Response, 1)
	go func() {
		response := &jsonrpc.Response{}
		b.handler.Serve(context.Background(), request, response)
		responses <- response
	}()

	require.Eventually(t, b.transport.has(schema.MethodConfirmationShow), time.Second, time.Millisecond)
	shown, _ := b.transport.last(schema.MethodConfirmationShow)
	showParams := &schema.ConfirmationShowParams{}
	require.NoError(t, json.Unmarshal(shown.Params, showParams))
	require.Equal(t, "Verify", showParams.Title)

	// a concurrent request is rejected on the wire
	rejected := serve(t, b.handler, schema.MethodConfirmationRequest, &schema.ConfirmationRequestParams{Title: "Second"})
	require.NotNil(t, rejected.Error)
	require.Equal(t, schema.AlreadyInProgress, rejected.Error.Code)

	submitted := serve(t, b.handler, schema.MethodConfirmationSubmit, &schema.ConfirmationSubmitParams{Id: showParams.Id, Code: "2468"})
	require.Nil(t, submitted.Error)
	submitResult := &schema.ConfirmationSubmitResult{}
	require.NoError(t, json.Unmarshal(submitted.Result, submitResult))
	require.True(t, submitResult.Handled)
	require.Equal(t, string(confirm.OutcomeSuccess), submitResult.Outcome)

	select {
	case response := <-responses:
		require.Nil(t, response.Error)
		result := &schema.ConfirmationRequestResult{}
		require.NoError(t, json.Unmarshal(response.Result, result))
		require.Equal(t, string(confirm.OutcomeSuccess), result.Outcome)
	case <-time.After(time.Second):
		t.Fatal("confirmation request did not resolve")
	}
	require.Eventually(t, b.transport.has(schema.MethodConfirmationHide), time.Second, time.Millisecond)
}

func TestHandler_SubmitWithoutOutstanding(t *testing.T) {
	b := newTestBridge(t)
	response := serve(t, b.handler, schema.MethodConfirmationSubmit, &schema.ConfirmationSubmitParams{Id: "bogus", Code: "2468"})
	require.Nil(t, response.Error)
	result := &schema.ConfirmationSubmitResult{}
	require.NoError(t, json.Unmarshal(response.Result, result))
	require.False(t, result.Handled)

	cancelled := serve(t, b.handler, schema.MethodConfirmationCancel, &schema.ConfirmationCancelParams{Id: "bogus"})
	require.Nil(t, cancelled.Error)
	cancelResult := &schema.ConfirmationCancelResult{}
	require.NoError(t, json.Unmarshal(cancelled.Result, cancelResult))
	require.False(t, cancelResult.Handled)
}

func TestHandler_UnknownMethod(t *testing.T) {
	b := newTestBridge(t)
	response := serve(t, b.handler, "bogus/method", struct{}{})
	require.NotNil(t, response.Error)
}

func TestHandler_TransportDetachOnContextDone(t *testing.T) {
	confirmService, err := confirm.New(confirm.WithVerifier(confirm.AcceptAll{}))
	require.NoError(t, err)
	service := New(confirmService, session.New(), link.NewParser(), link.NewBuffer())
	defer service.Close()

	ctx, cancel := context.WithCancel(context.Background())
	aTransport := &mockTransport{}
	_ = service.NewHandler(ctx, aTransport)

	require.NoError(t, service.Route(context.Background(), link.Link{Kind: "invite"}))
	_, ok := aTransport.last(schema.MethodLinkRoute)
	require.True(t, ok)

	// once the connection context ends the transport stops receiving
	cancel()
	require.Eventually(t, func() bool {
		return service.Route(context.Background(), link.Link{Kind: "invite"}) != nil
	}, time.Second, time.Millisecond)
}

func TestHandler_DroppedLinkLogged(t *testing.T) {
	b := newTestBridge(t)
	response := serve(t, b.handler, schema.MethodLoggingSetLevel, &schema.SetLevelParams{Level: schema.Debug})
	require.Nil(t, response.Error)

	notify(t, b.handler, schema.MethodLinkOpen, &schema.LinkOpenParams{URL: "bank://settings"})
	require.Eventually(t, b.transport.has(schema.MethodNotificationMessage), time.Second, time.Millisecond)
	_, ok := b.buffer.Peek()
	require.False(t, ok)
}
