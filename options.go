package flatmenu

import "go.uber.org/zap"

// Option configures a Proxy.
type Option func(*Proxy)

// WithLogger sets the logger. Structural notifications are logged at debug
// level. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Proxy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records proxy activity on m.
func WithMetrics(m *Metrics) Option {
	return func(p *Proxy) {
		p.metrics = m
	}
}

// WithStrictChecks makes the proxy verify its invariants after every
// confirmed change and panic on a mismatch. Meant for tests and debug builds.
func WithStrictChecks(on bool) Option {
	return func(p *Proxy) {
		p.strict = on
	}
}

// WithListener registers l before the source is attached, so it also sees
// the initial CountChanged.
func WithListener(l Listener) Option {
	return func(p *Proxy) {
		p.listeners = append(p.listeners, &listenerEntry{l: l})
	}
}
