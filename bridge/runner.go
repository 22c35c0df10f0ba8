package bridge

import (
	"context"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/viant/scy"

	"github.com/applinkhq/intent/confirm"
	"github.com/applinkhq/intent/link"
	"github.com/applinkhq/intent/session"
)

// Options configures a standalone bridge process.
type Options struct {
	Name       string `short:"n" long:"name" description:"bridge name" default:"intent-bridge"`
	SecretURL  string `short:"s" long:"secret" description:"verification secret URL" required:"true"`
	SecretKey  string `short:"k" long:"secret-key" description:"verification secret key"`
	LinkTTLSec int    `short:"t" long:"link-ttl" description:"pending link expiry in seconds, 0 keeps links indefinitely"`
}

// Run serves the coordination bridge over stdio until the transport closes.
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	ctx := context.Background()
	verifier := confirm.NewSecretVerifier(scy.NewResource("", options.SecretURL, options.SecretKey))
	confirmService, err := confirm.New(confirm.WithVerifier(verifier))
	if err != nil {
		return err
	}
	var bufferOptions []link.BufferOption
	if options.LinkTTLSec > 0 {
		bufferOptions = append(bufferOptions, link.WithTTL(time.Duration(options.LinkTTLSec)*time.Second))
	}
	service := New(confirmService, session.New(), link.NewParser(), link.NewBuffer(bufferOptions...), WithLoggerName(options.Name))
	defer service.Close()
	return service.Stdio(ctx).ListenAndServe()
}
