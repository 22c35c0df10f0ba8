package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/applinkhq/intent/confirm"
)

// Handler is a minimal terminal presentation collaborator: it renders
// confirmation challenges on a terminal and feeds the entered code back into
// the service. State notifications are handed off to a worker goroutine since
// subscribers must not call back into the service.
type Handler struct {
	service *confirm.Service
	in      *bufio.Reader
	out     io.Writer
	states  chan confirm.State
}

func New(service *confirm.Service, in io.Reader, out io.Writer) *Handler {
	return &Handler{
		service: service,
		in:      bufio.NewReader(in),
		out:     out,
		states:  make(chan confirm.State, 4),
	}
}

// Attach subscribes to the confirmation service and starts prompting; the
// returned function detaches.
func (h *Handler) Attach(ctx context.Context) func() {
	unsubscribe := h.service.Subscribe(func(state confirm.State) {
		select {
		case h.states <- state:
		default:
		}
	})
	go h.loop(ctx)
	return unsubscribe
}

func (h *Handler) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-h.states:
			if !ok {
				return
			}
			if !state.Visible {
				continue
			}
			h.prompt(ctx, state)
		}
	}
}

func (h *Handler) prompt(ctx context.Context, state confirm.State) {
	_, _ = fmt.Fprintf(h.out, "%v\n", state.Options.Title)
	if state.Options.Description != "" {
		_, _ = fmt.Fprintf(h.out, "%v\n", state.Options.Description)
	}
	if state.Options.AllowCancel {
		_, _ = fmt.Fprintf(h.out, "enter code (empty cancels): ")
	} else {
		_, _ = fmt.Fprintf(h.out, "enter code: ")
	}
	line, err := h.in.ReadString('\n')
	if err != nil {
		h.service.Fail(state.Id, fmt.Sprintf("terminal input failed: %v", err))
		return
	}
	code := strings.TrimSpace(line)
	if code == "" && state.Options.AllowCancel {
		h.service.Cancel(state.Id)
		return
	}
	h.service.Submit(ctx, state.Id, code)
}
