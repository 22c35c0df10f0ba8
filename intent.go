package intent

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/scy"

	"github.com/applinkhq/intent/bridge"
	"github.com/applinkhq/intent/confirm"
	"github.com/applinkhq/intent/link"
	"github.com/applinkhq/intent/session"
)

// Options
//
// defines options for configuring a coordination Service.
type Options struct {
	Name              string `yaml:"name" json:"name,omitempty" short:"n" long:"name" description:"client name"`
	Version           string `yaml:"version,omitempty" json:"version,omitempty" short:"v" long:"version" description:"client version"`
	SecretURL         string `yaml:"secretURL,omitempty" json:"secretURL,omitempty" short:"s" long:"secret" description:"verification secret URL"`
	SecretKey         string `yaml:"secretKey,omitempty" json:"secretKey,omitempty" short:"k" long:"secret-key" description:"verification secret key"`
	FlagsURL          string `yaml:"flagsURL,omitempty" json:"flagsURL,omitempty" short:"f" long:"flags" description:"verified flags URL"`
	LinkTTLSec        int    `yaml:"linkTTLSec,omitempty" json:"linkTTLSec,omitempty" long:"link-ttl" description:"pending link expiry in seconds"`
	VerifiedWindowSec int    `yaml:"verifiedWindowSec,omitempty" json:"verifiedWindowSec,omitempty" long:"verified-window" description:"recently-verified grace window in seconds"`
}

func (o *Options) Init() {
	if o.Name == "" {
		o.Name = "intent"
		o.Version = "0.1"
	}
}

// Service is the composition root: it owns explicitly constructed instances
// of the confirmation service, the link buffer and dispatcher, the session
// tracker and the presentation bridge.
type Service struct {
	options *Options

	confirm *confirm.Service
	session *session.Service
	buffer  *link.Buffer
	parser  *link.Parser
	bridge  *bridge.Service
	flags   *session.Flags

	verifier confirm.Verifier
	window   time.Duration
}

// Option customizes a Service beyond what Options can express.
type Option func(s *Service)

// WithVerifier injects a credential verifier, taking precedence over
// Options.SecretURL.
func WithVerifier(verifier confirm.Verifier) Option {
	return func(s *Service) {
		s.verifier = verifier
	}
}

// WithParser overrides the deep-link route table.
func WithParser(parser *link.Parser) Option {
	return func(s *Service) {
		s.parser = parser
	}
}

// New creates a coordination Service wired per Options.
func New(options *Options, opts ...Option) (*Service, error) {
	if options == nil {
		options = &Options{}
	}
	options.Init()
	ret := &Service{options: options, window: time.Duration(options.VerifiedWindowSec) * time.Second}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.verifier == nil {
		if options.SecretURL == "" {
			return nil, fmt.Errorf("no verifier specified: set Options.SecretURL or use WithVerifier")
		}
		ret.verifier = confirm.NewSecretVerifier(scy.NewResource("", options.SecretURL, options.SecretKey))
	}
	confirmService, err := confirm.New(confirm.WithVerifier(ret.verifier))
	if err != nil {
		return nil, err
	}
	ret.confirm = confirmService
	ret.session = session.New()
	if ret.parser == nil {
		ret.parser = link.NewParser()
	}
	var bufferOptions []link.BufferOption
	if options.LinkTTLSec > 0 {
		bufferOptions = append(bufferOptions, link.WithTTL(time.Duration(options.LinkTTLSec)*time.Second))
	}
	ret.buffer = link.NewBuffer(bufferOptions...)
	ret.bridge = bridge.New(ret.confirm, ret.session, ret.parser, ret.buffer, bridge.WithLoggerName(options.Name))
	if options.FlagsURL != "" {
		ret.flags = session.NewFlags(options.FlagsURL)
	}
	return ret, nil
}

// Confirm exposes the single-flight confirmation service.
func (s *Service) Confirm() *confirm.Service { return s.confirm }

// Session exposes the authentication-state tracker.
func (s *Service) Session() *session.Service { return s.session }

// Buffer exposes the pending-link buffer.
func (s *Service) Buffer() *link.Buffer { return s.buffer }

// Parser exposes the deep-link parser.
func (s *Service) Parser() *link.Parser { return s.parser }

// Dispatcher exposes the link dispatcher owned by the bridge.
func (s *Service) Dispatcher() *link.Dispatcher { return s.bridge.Dispatcher() }

// Bridge exposes the JSON-RPC presentation bridge.
func (s *Service) Bridge() *bridge.Service { return s.bridge }

// Flags exposes the recently-verified flag store, when configured.
func (s *Service) Flags() *session.Flags { return s.flags }

// Close detaches the bridge subscriptions.
func (s *Service) Close() {
	s.bridge.Close()
}

// RequireConfirmation opens a confirmation challenge guarding the action
// identified by key. When a verified-window is configured and the key was
// verified within it, the challenge is skipped and an immediate success is
// returned. A successful challenge refreshes the flag.
func (s *Service) RequireConfirmation(ctx context.Context, key string, options *confirm.Options) (*confirm.Result, error) {
	if s.flags != nil && s.window > 0 {
		recent, err := s.flags.RecentlyVerified(ctx, key, s.window)
		if err != nil {
			return nil, err
		}
		if recent {
			return &confirm.Result{Outcome: confirm.OutcomeSuccess}, nil
		}
	}
	result, err := s.confirm.Request(ctx, options)
	if err != nil {
		return nil, err
	}
	if result.Outcome == confirm.OutcomeSuccess && s.flags != nil {
		if err := s.flags.MarkVerified(ctx, key); err != nil {
			return nil, fmt.Errorf("confirmed but failed to record verification: %w", err)
		}
	}
	return result, nil
}
