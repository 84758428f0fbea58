package casefile

// fileRoot decodes a case file. Anything other than case blocks is rejected.
type fileRoot struct {
	Cases []*caseBlock `hcl:"case,block"`
}

type caseBlock struct {
	Name     string        `hcl:"name,label"`
	Compiler string        `hcl:"compiler,optional"`
	Snapshot string        `hcl:"snapshot,optional"`
	Options  *optionsBlock `hcl:"options,block"`
	Expect   *expectBlock  `hcl:"expect,block"`
}

type optionsBlock struct {
	Context     string            `hcl:"context,optional"`
	Mode        string            `hcl:"mode,optional"`
	Entry       map[string]string `hcl:"entry,optional"`
	Output      *outputBlock      `hcl:"output,block"`
	Experiments *experimentsBlock `hcl:"experiments,block"`
	Logging     *loggingBlock     `hcl:"logging,block"`
}

type outputBlock struct {
	Path string `hcl:"path"`
}

type experimentsBlock struct {
	CSS               *bool             `hcl:"css,optional"`
	FutureBundlerInfo *bundlerInfoBlock `hcl:"future_bundler_info,block"`
}

type bundlerInfoBlock struct {
	Force *bool `hcl:"force,optional"`
}

type loggingBlock struct {
	Level string `hcl:"level"`
}

type expectBlock struct {
	Errors          *int     `hcl:"errors,optional"`
	Warnings        *int     `hcl:"warnings,optional"`
	Assets          []string `hcl:"assets,optional"`
	ErrorContains   []string `hcl:"error_contains,optional"`
	WarningContains []string `hcl:"warning_contains,optional"`
}
