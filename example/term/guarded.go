package term

import (
	"context"
	"fmt"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner/local"

	"github.com/applinkhq/intent"
	"github.com/applinkhq/intent/confirm"
)

// GuardedShell runs local shell commands only after a confirmation challenge
// succeeds, demonstrating how a sensitive action integrates with the
// coordinator.
type GuardedShell struct {
	coordinator *intent.Service
	shell       *gosh.Service
}

func NewGuardedShell(ctx context.Context, coordinator *intent.Service) (*GuardedShell, error) {
	shell, err := gosh.New(ctx, local.New())
	if err != nil {
		return nil, err
	}
	return &GuardedShell{coordinator: coordinator, shell: shell}, nil
}

// Run requests confirmation for the command, then executes it.
func (g *GuardedShell) Run(ctx context.Context, command string) (string, error) {
	result, err := g.coordinator.RequireConfirmation(ctx, "shell", &confirm.Options{
		Title:       "Confirm command",
		Description: command,
		AllowCancel: true,
	})
	if err != nil {
		return "", err
	}
	if result.Outcome != confirm.OutcomeSuccess {
		return "", fmt.Errorf("command not confirmed: %v %v", result.Outcome, result.Reason)
	}
	output, code, err := g.shell.Run(ctx, command)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return output, fmt.Errorf("command exited with %v", code)
	}
	return output, nil
}
