package schema

import "time"

// ConfirmationRequestParams asks the coordinator to open a confirmation
// challenge on behalf of the caller; the request completes only once the
// challenge is resolved.
type ConfirmationRequestParams struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	AllowCancel bool   `json:"allowCancel,omitempty" yaml:"allowCancel,omitempty"`
}

// ConfirmationRequestResult carries the terminal outcome of a challenge.
type ConfirmationRequestResult struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// ConfirmationShowParams is sent to presentation transports when a challenge
// becomes visible.
type ConfirmationShowParams struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	AllowCancel bool   `json:"allowCancel,omitempty"`
}

// ConfirmationHideParams is sent when the outstanding challenge is resolved.
type ConfirmationHideParams struct {
	Id string `json:"id"`
}

// ConfirmationSubmitParams carries the credential entered by the user.
type ConfirmationSubmitParams struct {
	Id   string `json:"id"`
	Code string `json:"code"`
}

// ConfirmationSubmitResult reports whether the submission was applied to an
// outstanding challenge. Handled is false when no matching challenge exists;
// the submission is then a no-op.
type ConfirmationSubmitResult struct {
	Handled bool   `json:"handled"`
	Outcome string `json:"outcome,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ConfirmationCancelParams dismisses the outstanding challenge.
type ConfirmationCancelParams struct {
	Id     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// ConfirmationCancelResult reports whether a challenge was dismissed.
type ConfirmationCancelResult struct {
	Handled bool `json:"handled"`
}

// LinkOpenParams carries an inbound deep link URL prior to parsing.
type LinkOpenParams struct {
	URL string `json:"url"`
}

// LinkRouteParams is sent to navigation transports when a captured link is
// ready to be acted on.
type LinkRouteParams struct {
	Kind       string            `json:"kind"`
	Params     map[string]string `json:"params,omitempty"`
	CapturedAt time.Time         `json:"capturedAt"`
}

// SessionAuthenticateParams installs a session token; expiry is taken from
// ExpiresAt or derived from IdToken claims when present.
type SessionAuthenticateParams struct {
	AccessToken string     `json:"accessToken"`
	IdToken     string     `json:"idToken,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// NavigationMountedParams records the navigation-mounted readiness signal.
type NavigationMountedParams struct {
	Mounted bool `json:"mounted"`
}

// SessionStatusResult is a readiness snapshot.
type SessionStatusResult struct {
	Authenticated bool   `json:"authenticated"`
	Mounted       bool   `json:"mounted"`
	Ready         bool   `json:"ready"`
	Subject       string `json:"subject,omitempty"`
}

// SetLevelParams adjusts the verbosity of bridge log notifications.
type SetLevelParams struct {
	Level LoggingLevel `json:"level"`
}

// LoggingMessageParams is the payload of notifications/message.
type LoggingMessageParams struct {
	Level  LoggingLevel `json:"level"`
	Logger *string      `json:"logger,omitempty"`
	Data   any          `json:"data"`
}

// LoggingLevel follows syslog severity names.
type LoggingLevel string

const (
	Debug   LoggingLevel = "debug"
	Info    LoggingLevel = "info"
	Notice  LoggingLevel = "notice"
	Warning LoggingLevel = "warning"
	Error   LoggingLevel = "error"
)

var levelOrdinals = map[LoggingLevel]int{
	Debug:   0,
	Info:    1,
	Notice:  2,
	Warning: 3,
	Error:   4,
}

// Ordinal returns the numeric severity; unknown levels rank highest so they
// are never filtered out.
func (l LoggingLevel) Ordinal() int {
	if ordinal, ok := levelOrdinals[l]; ok {
		return ordinal
	}
	return len(levelOrdinals)
}
