package link

import (
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownLink is returned for URLs that match no registered route.
var ErrUnknownLink = fmt.Errorf("unknown link")

// Rule maps a route pattern onto a link kind. Path segments in braces bind
// parameters, e.g. "/package/{packageId}".
type Rule struct {
	Kind string `yaml:"kind" json:"kind"`
	Path string `yaml:"path" json:"path"`
}

// Parser turns inbound URLs into Links. Both universal links
// (https://host/invite/A1) and custom-scheme links (app://invite/A1) resolve
// against the same route table: for custom schemes the host is treated as the
// first path segment.
type Parser struct {
	schemes map[string]bool
	rules   []Rule
}

// ParserOption customizes a Parser.
type ParserOption func(p *Parser)

// WithRule registers an additional route ahead of the defaults.
func WithRule(rule Rule) ParserOption {
	return func(p *Parser) {
		p.rules = append(p.rules, rule)
	}
}

// WithSchemes restricts accepted URL schemes.
func WithSchemes(schemes ...string) ParserOption {
	return func(p *Parser) {
		p.schemes = make(map[string]bool)
		for _, scheme := range schemes {
			p.schemes[scheme] = true
		}
	}
}

// NewParser creates a Parser with the application's default routes.
func NewParser(options ...ParserOption) *Parser {
	ret := &Parser{}
	for _, option := range options {
		option(ret)
	}
	ret.rules = append(ret.rules,
		Rule{Kind: "invite", Path: "/invite/{code}"},
		Rule{Kind: "invite", Path: "/invite"},
		Rule{Kind: "reset-password", Path: "/reset-password/{token}"},
		Rule{Kind: "package-detail", Path: "/package/{packageId}"},
	)
	return ret
}

// Parse resolves raw into a Link or fails with ErrUnknownLink. Query
// parameters are merged into Params; path-bound parameters win on conflict.
func (p *Parser) Parse(raw string) (Link, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("failed to parse link %q: %w", raw, err)
	}
	if len(p.schemes) > 0 && !p.schemes[parsed.Scheme] {
		return Link{}, fmt.Errorf("%w: unsupported scheme %q", ErrUnknownLink, parsed.Scheme)
	}
	route := parsed.Path
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		route = "/" + parsed.Host + parsed.Path
	}
	for _, rule := range p.rules {
		bound, ok := match(rule.Path, route)
		if !ok {
			continue
		}
		params := map[string]string{}
		for key, values := range parsed.Query() {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
		for key, value := range bound {
			params[key] = value
		}
		return Link{Kind: rule.Kind, Params: params}, nil
	}
	return Link{}, fmt.Errorf("%w: %s", ErrUnknownLink, raw)
}

// match binds pattern segments against route segments.
func match(pattern, route string) (map[string]string, bool) {
	patternParts := split(pattern)
	routeParts := split(route)
	if len(patternParts) != len(routeParts) {
		return nil, false
	}
	bound := map[string]string{}
	for i, part := range patternParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			value, err := url.PathUnescape(routeParts[i])
			if err != nil {
				return nil, false
			}
			bound[name] = value
			continue
		}
		if part != routeParts[i] {
			return nil, false
		}
	}
	return bound, true
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
