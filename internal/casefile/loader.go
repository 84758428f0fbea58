package casefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/specialistvlad/statscheck/internal/compiler"
	"github.com/specialistvlad/statscheck/internal/ctxlog"
	"github.com/specialistvlad/statscheck/internal/fsutil"
)

// Case is one loaded test case.
type Case struct {
	Name         string
	File         string
	CompilerType compiler.Type
	// SnapshotPath is empty when the case has no snapshot.
	SnapshotPath string
	Options      *compiler.Options
	Expect       Expectation
}

// Loader reads case files from a filesystem.
type Loader struct {
	fs              afero.Fs
	defaultCompiler compiler.Type
}

// NewLoader creates a Loader. Cases without a `compiler` attribute use
// defaultCompiler.
func NewLoader(fsys afero.Fs, defaultCompiler compiler.Type) *Loader {
	return &Loader{fs: fsys, defaultCompiler: defaultCompiler}
}

// Load parses every .hcl file under the given paths. Case names must be
// unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*Case, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Case loader started.", "path_count", len(paths))

	var files []string
	for _, p := range paths {
		// case_dir is always absolute.
		root, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", p, err)
		}
		found, err := fsutil.FindFilesByExtension(l.fs, root, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", p, err)
		}
		files = append(files, found...)
	}
	logger.Debug("Discovered case files.", "count", len(files))

	parser := hclparse.NewParser()
	seen := make(map[string]string)
	var cases []*Case

	for _, file := range files {
		src, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read case file %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse case file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalContext(file), &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode case file %s: %w", file, diags)
		}

		for _, block := range root.Cases {
			if prev, dup := seen[block.Name]; dup {
				return nil, fmt.Errorf("duplicate case %q in %s, first declared in %s", block.Name, file, prev)
			}
			seen[block.Name] = file
			cases = append(cases, l.translate(file, block))
		}
	}

	logger.Debug("Case loading complete.", "cases", len(cases))
	return cases, nil
}

func (l *Loader) translate(file string, b *caseBlock) *Case {
	dir := filepath.Dir(file)
	c := &Case{
		Name:         b.Name,
		File:         file,
		CompilerType: compiler.Type(b.Compiler),
		Options:      &compiler.Options{Name: b.Name, Context: dir},
	}
	if c.CompilerType == "" {
		c.CompilerType = l.defaultCompiler
	}
	if b.Snapshot != "" {
		c.SnapshotPath = resolvePath(dir, b.Snapshot)
	}

	if o := b.Options; o != nil {
		if o.Context != "" {
			c.Options.Context = resolvePath(dir, o.Context)
		}
		c.Options.Mode = o.Mode
		c.Options.Entry = o.Entry
		if o.Output != nil {
			c.Options.Output = &compiler.Output{Path: resolvePath(dir, o.Output.Path)}
		}
		if e := o.Experiments; e != nil {
			c.Options.Experiments = &compiler.Experiments{CSS: e.CSS}
			if e.FutureBundlerInfo != nil {
				c.Options.Experiments.RspackFuture = &compiler.RspackFuture{
					BundlerInfo: &compiler.BundlerInfo{Force: e.FutureBundlerInfo.Force},
				}
			}
		}
		if o.Logging != nil {
			c.Options.InfrastructureLogging = &compiler.InfrastructureLogging{Level: compiler.LogLevel(o.Logging.Level)}
		}
	}

	if e := b.Expect; e != nil {
		c.Expect = Expectation{
			Errors:          e.Errors,
			Warnings:        e.Warnings,
			Assets:          e.Assets,
			ErrorContains:   e.ErrorContains,
			WarningContains: e.WarningContains,
		}
	}
	return c
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// evalContext exposes the case_dir variable and the env function to case files.
func evalContext(file string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"case_dir": cty.StringVal(filepath.Dir(file)),
		},
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "name", Type: cty.String}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})
