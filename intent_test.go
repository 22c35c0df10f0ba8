package intent

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/applinkhq/intent/confirm"
)

func TestNew_RequiresVerifier(t *testing.T) {
	_, err := New(&Options{})
	require.Error(t, err)
}

func TestNew_Composition(t *testing.T) {
	service, err := New(&Options{LinkTTLSec: 60}, WithVerifier(confirm.AcceptAll{}))
	require.NoError(t, err)
	defer service.Close()
	require.NotNil(t, service.Confirm())
	require.NotNil(t, service.Session())
	require.NotNil(t, service.Buffer())
	require.NotNil(t, service.Parser())
	require.NotNil(t, service.Dispatcher())
	require.NotNil(t, service.Bridge())
	require.Nil(t, service.Flags())
}

func TestService_RequireConfirmation(t *testing.T) {
	service, err := New(&Options{
		FlagsURL:          "mem://localhost/intent/require/flags.json",
		VerifiedWindowSec: 3600,
	}, WithVerifier(confirm.NewStaticVerifier("2468")))
	require.NoError(t, err)
	defer service.Close()

	var shows int32
	unsubscribe := service.Confirm().Subscribe(func(state confirm.State) {
		if !state.Visible {
			return
		}
		atomic.AddInt32(&shows, 1)
		id := state.Id
		// resolve asynchronously, listeners must not call back
		go service.Confirm().Submit(context.Background(), id, "2468")
	})
	defer unsubscribe()

	ctx := context.Background()
	result, err := service.RequireConfirmation(ctx, "transfer", &confirm.Options{Title: "Confirm transfer"})
	require.NoError(t, err)
	require.Equal(t, confirm.OutcomeSuccess, result.Outcome)
	require.Equal(t, int32(1), atomic.LoadInt32(&shows))

	// the recent verification short-circuits the second challenge
	result, err = service.RequireConfirmation(ctx, "transfer", &confirm.Options{Title: "Confirm transfer"})
	require.NoError(t, err)
	require.Equal(t, confirm.OutcomeSuccess, result.Outcome)
	require.Equal(t, int32(1), atomic.LoadInt32(&shows))

	// a different action key still challenges
	result, err = service.RequireConfirmation(ctx, "close-account", &confirm.Options{Title: "Close account"})
	require.NoError(t, err)
	require.Equal(t, confirm.OutcomeSuccess, result.Outcome)
	require.Equal(t, int32(2), atomic.LoadInt32(&shows))
}
