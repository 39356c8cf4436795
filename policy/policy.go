// Package policy provides an optional approval layer for simulator launches,
// attached via context. A nil *Policy keeps the default "auto" behaviour, so
// callers that do not embed one pay nothing.
package policy

import (
	"context"
	"strings"
)

// Execution modes recognised by the simulation runner.
const (
	ModeAsk  = "ask"  // ask before every simulator launch
	ModeAuto = "auto" // launch automatically (default)
	ModeDeny = "deny" // block all launches
)

// AskFunc is invoked when Mode==ask. Returning true approves the launch.
// Implementations may mutate the policy, for example switching to ModeAuto
// after the first approval.
type AskFunc func(ctx context.Context, engine string, args map[string]interface{}, p *Policy) bool

// Policy holds the launch approval settings for a run.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList and BlockList filter by engine id regardless of Mode.
//   - Ask is only consulted when Mode==ask.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config is the declarative, serialisable part of a Policy, used where an
// AskFunc cannot be persisted.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without an
// AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates the allow and block lists against an engine id,
// case-insensitively. The block list has priority; an empty allow list
// admits every engine.
func (p *Policy) IsAllowed(engine string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(engine)
	for _, blocked := range p.BlockList {
		if normalized == strings.ToLower(blocked) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, allowed := range p.AllowList {
		if normalized == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy from ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
