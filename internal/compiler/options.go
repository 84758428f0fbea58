package compiler

import "maps"

// Type selects which compiler implementation a Registry creates.
type Type string

// LogLevel is the verbosity of a compiler's infrastructure logger.
type LogLevel string

const (
	LogLevelNone    LogLevel = "none"
	LogLevelError   LogLevel = "error"
	LogLevelWarn    LogLevel = "warn"
	LogLevelInfo    LogLevel = "info"
	LogLevelLog     LogLevel = "log"
	LogLevelVerbose LogLevel = "verbose"
)

// Options is the configuration a compiler is created from. Optional sections
// are pointers so that "absent" and "explicitly set" stay distinguishable.
type Options struct {
	// Name identifies the compilation in stats output.
	Name string
	// Context is the directory entries are resolved against.
	Context string
	// Mode is "production" or "development".
	Mode string
	// Entry maps chunk names to module requests relative to Context.
	Entry map[string]string

	Output                *Output
	Experiments           *Experiments
	InfrastructureLogging *InfrastructureLogging
}

// Output configures where emitted assets are written.
type Output struct {
	Path string
}

// Experiments holds opt-in compiler features.
type Experiments struct {
	CSS          *bool
	RspackFuture *RspackFuture
}

// RspackFuture holds features scheduled to become defaults.
type RspackFuture struct {
	BundlerInfo *BundlerInfo
}

// BundlerInfo controls injection of bundler metadata into the output.
type BundlerInfo struct {
	Force *bool
}

// InfrastructureLogging configures the compiler's own logger.
type InfrastructureLogging struct {
	Level LogLevel
}

// Bool returns a pointer to b, for filling optional flags.
func Bool(b bool) *bool {
	return &b
}

// Clone returns a deep copy of o. A nil receiver yields nil.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	if o.Entry != nil {
		c.Entry = maps.Clone(o.Entry)
	}
	if o.Output != nil {
		out := *o.Output
		c.Output = &out
	}
	if o.InfrastructureLogging != nil {
		il := *o.InfrastructureLogging
		c.InfrastructureLogging = &il
	}
	if o.Experiments != nil {
		exp := Experiments{CSS: cloneBool(o.Experiments.CSS)}
		if rf := o.Experiments.RspackFuture; rf != nil {
			exp.RspackFuture = &RspackFuture{}
			if bi := rf.BundlerInfo; bi != nil {
				exp.RspackFuture.BundlerInfo = &BundlerInfo{Force: cloneBool(bi.Force)}
			}
		}
		c.Experiments = &exp
	}
	return &c
}

// CSSEnabled reports whether experiments.css is explicitly enabled.
func (o *Options) CSSEnabled() bool {
	return o != nil && o.Experiments != nil && o.Experiments.CSS != nil && *o.Experiments.CSS
}

// BundlerInfoForced reports whether experiments.rspackFuture.bundlerInfo.force is enabled.
func (o *Options) BundlerInfoForced() bool {
	if o == nil || o.Experiments == nil || o.Experiments.RspackFuture == nil {
		return false
	}
	bi := o.Experiments.RspackFuture.BundlerInfo
	return bi != nil && bi.Force != nil && *bi.Force
}

// LoggingLevel returns the configured infrastructure logging level, or
// LogLevelInfo when none is set.
func (o *Options) LoggingLevel() LogLevel {
	if o == nil || o.InfrastructureLogging == nil || o.InfrastructureLogging.Level == "" {
		return LogLevelInfo
	}
	return o.InfrastructureLogging.Level
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
