package bundler

import (
	"slices"

	"github.com/specialistvlad/statscheck/internal/compiler"
)

// Stats implements compiler.Stats for a bundler run.
type Stats struct {
	json *compiler.StatsCompilation
}

func (s *Stats) HasErrors() bool   { return len(s.json.Errors) > 0 }
func (s *Stats) HasWarnings() bool { return len(s.json.Warnings) > 0 }

// ToJSON returns a copy of the serializable stats.
func (s *Stats) ToJSON() *compiler.StatsCompilation {
	out := *s.json
	out.Assets = slices.Clone(s.json.Assets)
	out.Modules = slices.Clone(s.json.Modules)
	for i := range out.Modules {
		out.Modules[i].Chunks = slices.Clone(out.Modules[i].Chunks)
	}
	out.Errors = slices.Clone(s.json.Errors)
	out.Warnings = slices.Clone(s.json.Warnings)
	out.Entrypoints = make(map[string][]string, len(s.json.Entrypoints))
	for name, files := range s.json.Entrypoints {
		out.Entrypoints[name] = slices.Clone(files)
	}
	if s.json.BundlerInfo != nil {
		info := *s.json.BundlerInfo
		out.BundlerInfo = &info
	}
	return &out
}
