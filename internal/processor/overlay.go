package processor

import "github.com/specialistvlad/statscheck/internal/compiler"

// ApplyStatsDefaults returns a copy of opts with the defaults required for
// deterministic stats output filled in. Values the caller set explicitly are
// kept, except that logging is forced down to errors unless printLogger is
// on. opts itself is never modified; nil is treated as empty options.
func ApplyStatsDefaults(opts *compiler.Options, printLogger bool) *compiler.Options {
	res := opts.Clone()
	if res == nil {
		res = &compiler.Options{}
	}

	if res.Experiments == nil {
		res.Experiments = &compiler.Experiments{}
	}
	exp := res.Experiments
	if exp.CSS == nil {
		exp.CSS = compiler.Bool(true)
	}
	if exp.RspackFuture == nil {
		exp.RspackFuture = &compiler.RspackFuture{}
	}
	if exp.RspackFuture.BundlerInfo == nil {
		exp.RspackFuture.BundlerInfo = &compiler.BundlerInfo{}
	}
	if exp.RspackFuture.BundlerInfo.Force == nil {
		exp.RspackFuture.BundlerInfo.Force = compiler.Bool(false)
	}

	if !printLogger {
		res.InfrastructureLogging = &compiler.InfrastructureLogging{Level: compiler.LogLevelError}
	}
	return res
}
