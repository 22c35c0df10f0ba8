package schema

const (
	MethodConfirmationRequest = "confirmation/request"
	MethodConfirmationShow    = "confirmation/show"
	MethodConfirmationHide    = "confirmation/hide"
	MethodConfirmationSubmit  = "confirmation/submit"
	MethodConfirmationCancel  = "confirmation/cancel"

	MethodLinkOpen  = "link/open"
	MethodLinkRoute = "link/route"

	MethodSessionAuthenticate = "session/authenticate"
	MethodSessionClear        = "session/clear"
	MethodSessionStatus       = "session/status"

	MethodNavigationMounted = "navigation/mounted"

	MethodLoggingSetLevel     = "logging/setLevel"
	MethodNotificationMessage = "notifications/message"
)
