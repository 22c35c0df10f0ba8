package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"golang.org/x/oauth2"

	"github.com/applinkhq/intent/confirm"
	"github.com/applinkhq/intent/schema"
)

// Handler serves one transport connection.
type Handler struct {
	service      *Service
	notifier     transport.Notifier
	logger       *Logger
	loggingLevel schema.LoggingLevel
}

// Serve handles incoming JSON-RPC requests.
func (h *Handler) Serve(ctx context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	response.Id = request.Id
	response.Jsonrpc = request.Jsonrpc
	switch request.Method {
	case schema.MethodConfirmationRequest:
		result, err := h.confirmationRequest(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodConfirmationSubmit:
		result, err := h.confirmationSubmit(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodConfirmationCancel:
		result, err := h.confirmationCancel(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodSessionAuthenticate:
		result, err := h.sessionAuthenticate(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodSessionClear:
		h.service.session.Clear()
		h.setResponse(response, h.service.status(), nil)
	case schema.MethodSessionStatus:
		h.setResponse(response, h.service.status(), nil)
	case schema.MethodNavigationMounted:
		result, err := h.navigationMounted(ctx, request)
		h.setResponse(response, result, err)
	case schema.MethodLoggingSetLevel:
		params := &schema.SetLevelParams{}
		if err := json.Unmarshal(request.Params, params); err != nil {
			response.Error = jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
			return
		}
		h.loggingLevel = params.Level
		h.setResponse(response, struct{}{}, nil)
	default:
		response.Error = jsonrpc.NewMethodNotFound(fmt.Sprintf("method %v not found", request.Method), request.Params)
	}
}

// OnNotification handles fire-and-forget inbound events.
func (h *Handler) OnNotification(ctx context.Context, notification *jsonrpc.Notification) {
	switch notification.Method {
	case schema.MethodLinkOpen:
		params := &schema.LinkOpenParams{}
		if err := json.Unmarshal(notification.Params, params); err != nil {
			_ = h.logger.Warning(ctx, fmt.Sprintf("failed to parse link/open: %v", err))
			return
		}
		pending, err := h.service.parser.Parse(params.URL)
		if err != nil {
			_ = h.logger.Warning(ctx, fmt.Sprintf("dropped link %v: %v", params.URL, err))
			return
		}
		if err := h.service.dispatcher.Offer(ctx, pending); err != nil {
			_ = h.logger.Warning(ctx, err.Error())
		}
	}
}

func (h *Handler) confirmationRequest(ctx context.Context, request *jsonrpc.Request) (*schema.ConfirmationRequestResult, *jsonrpc.Error) {
	params := &schema.ConfirmationRequestParams{}
	if err := json.Unmarshal(request.Params, params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
	}
	options := &confirm.Options{Title: params.Title, Description: params.Description, AllowCancel: params.AllowCancel}
	result, err := h.service.confirm.Request(ctx, options)
	if err != nil {
		if errors.Is(err, confirm.ErrAlreadyInProgress) {
			return nil, schema.NewAlreadyInProgress()
		}
		return nil, jsonrpc.NewInvalidParamsError(err.Error(), request.Params)
	}
	return &schema.ConfirmationRequestResult{Outcome: string(result.Outcome), Reason: result.Reason}, nil
}

func (h *Handler) confirmationSubmit(ctx context.Context, request *jsonrpc.Request) (*schema.ConfirmationSubmitResult, *jsonrpc.Error) {
	params := &schema.ConfirmationSubmitParams{}
	if err := json.Unmarshal(request.Params, params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
	}
	result := h.service.confirm.Submit(ctx, params.Id, params.Code)
	if result == nil {
		return &schema.ConfirmationSubmitResult{}, nil
	}
	return &schema.ConfirmationSubmitResult{Handled: true, Outcome: string(result.Outcome), Reason: result.Reason}, nil
}

func (h *Handler) confirmationCancel(ctx context.Context, request *jsonrpc.Request) (*schema.ConfirmationCancelResult, *jsonrpc.Error) {
	params := &schema.ConfirmationCancelParams{}
	if err := json.Unmarshal(request.Params, params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
	}
	return &schema.ConfirmationCancelResult{Handled: h.service.confirm.Cancel(params.Id)}, nil
}

func (h *Handler) sessionAuthenticate(ctx context.Context, request *jsonrpc.Request) (*schema.SessionStatusResult, *jsonrpc.Error) {
	params := &schema.SessionAuthenticateParams{}
	if err := json.Unmarshal(request.Params, params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
	}
	token := &oauth2.Token{AccessToken: params.AccessToken}
	if params.ExpiresAt != nil {
		token.Expiry = *params.ExpiresAt
	}
	if params.IdToken != "" {
		token = token.WithExtra(map[string]interface{}{"id_token": params.IdToken})
	}
	if err := h.service.session.Authenticate(token); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(err.Error(), request.Params)
	}
	_ = h.logger.Info(ctx, "session authenticated")
	return h.service.status(), nil
}

func (h *Handler) navigationMounted(ctx context.Context, request *jsonrpc.Request) (*schema.SessionStatusResult, *jsonrpc.Error) {
	params := &schema.NavigationMountedParams{}
	if err := json.Unmarshal(request.Params, params); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse: %v", err), request.Params)
	}
	if err := h.service.dispatcher.SetMounted(ctx, params.Mounted); err != nil {
		_ = h.logger.Warning(ctx, err.Error())
	}
	return h.service.status(), nil
}

func (h *Handler) setResponse(response *jsonrpc.Response, result interface{}, rpcError *jsonrpc.Error) {
	if rpcError != nil {
		response.Error = rpcError
		return
	}
	var err error
	response.Result, err = json.Marshal(result)
	if err != nil {
		response.Error = jsonrpc.NewInternalError(err.Error(), []byte{})
	}
}
