package bridge

import (
	"context"
	"encoding/json"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"

	"github.com/applinkhq/intent/schema"
)

// Logger emits leveled notifications/message events to the connected
// transport. Logging stays off until the other side sets a level through
// logging/setLevel.
type Logger struct {
	name     string
	level    *schema.LoggingLevel
	notifier transport.Notifier
}

func NewLogger(name string, level *schema.LoggingLevel, notifier transport.Notifier) *Logger {
	return &Logger{name: name, level: level, notifier: notifier}
}

func (l *Logger) log(ctx context.Context, level schema.LoggingLevel, data any) error {
	if l.level == nil || l.level.Ordinal() > level.Ordinal() {
		//skip logging since level is too verbose
		return nil
	}
	notification := &jsonrpc.Notification{Method: schema.MethodNotificationMessage}
	params := schema.LoggingMessageParams{
		Level:  level,
		Logger: &l.name,
		Data:   data,
	}
	var err error
	notification.Params, err = json.Marshal(params)
	if err != nil {
		return err
	}
	return l.notifier.Notify(ctx, notification)
}

func (l *Logger) Debug(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.Debug, data)
}

func (l *Logger) Info(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.Info, data)
}

func (l *Logger) Notice(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.Notice, data)
}

func (l *Logger) Warning(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.Warning, data)
}

func (l *Logger) Error(ctx context.Context, data interface{}) error {
	return l.log(ctx, schema.Error, data)
}
