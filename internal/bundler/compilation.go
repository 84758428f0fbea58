package bundler

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/specialistvlad/statscheck/internal/compiler"
)

var (
	importPattern  = regexp.MustCompile(`(?m)^\s*import\s+(?:[^'"]*?\s+from\s+)?['"]([^'"]+)['"]`)
	requirePattern = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
)

// compilation holds the state of a single Run.
type compilation struct {
	opts   *compiler.Options
	input  afero.Fs
	logger *slog.Logger

	modules  map[string]*compiler.StatsModule
	errors   []compiler.StatsError
	warnings []compiler.StatsError
}

type chunk struct {
	name   string
	js     []module
	css    []module
	failed bool
	seen   map[string]bool
}

type module struct {
	id      string
	content []byte
}

type asset struct {
	name    string
	kind    string
	content []byte
}

func (c *compilation) buildChunk(name, request string) *chunk {
	ch := &chunk{name: name, seen: make(map[string]bool)}
	c.addModule(ch, "", c.opts.Context, request)
	return ch
}

// addModule resolves request from dir and appends it, after its own
// dependencies, to the chunk.
func (c *compilation) addModule(ch *chunk, issuer, dir, request string) {
	path, ok := c.resolve(dir, request)
	if !ok {
		c.fail(ch, issuer, fmt.Sprintf("Module not found: Can't resolve '%s' in '%s'", request, dir))
		return
	}
	id := c.identifier(path)
	if ch.seen[id] {
		return
	}
	ch.seen[id] = true

	content, err := afero.ReadFile(c.input, path)
	if err != nil {
		c.fail(ch, id, fmt.Sprintf("Module build failed: %v", err))
		return
	}
	c.logger.Debug("Module built.", "module", id, "chunk", ch.name)
	c.track(id, len(content), ch.name)

	if len(bytes.TrimSpace(content)) == 0 {
		c.warnings = append(c.warnings, compiler.StatsError{Message: "Module is empty", ModuleIdentifier: id})
	}

	if filepath.Ext(path) == ".css" {
		if !c.opts.CSSEnabled() {
			c.fail(ch, id, "Module parse failed: Unexpected token. You may need to enable experiments.css to handle this file type.")
			return
		}
		ch.css = append(ch.css, module{id: id, content: content})
		return
	}

	for _, dep := range dependencies(content) {
		c.addModule(ch, id, filepath.Dir(path), dep)
	}
	ch.js = append(ch.js, module{id: id, content: content})
}

func (c *compilation) fail(ch *chunk, moduleID, msg string) {
	ch.failed = true
	c.logger.Error(msg, "module", moduleID, "chunk", ch.name)
	c.errors = append(c.errors, compiler.StatsError{Message: msg, ModuleIdentifier: moduleID})
}

func (c *compilation) resolve(dir, request string) (string, bool) {
	base := filepath.Join(dir, request)
	for _, candidate := range []string{base, base + ".js", base + ".css"} {
		info, err := c.input.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

func (c *compilation) identifier(path string) string {
	rel, err := filepath.Rel(c.opts.Context, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return "./" + filepath.ToSlash(rel)
}

func (c *compilation) track(id string, size int, chunkName string) {
	m, ok := c.modules[id]
	if !ok {
		m = &compiler.StatsModule{Identifier: id, Size: size}
		c.modules[id] = m
	}
	m.Chunks = append(m.Chunks, chunkName)
}

func (c *compilation) sortedModules() []compiler.StatsModule {
	out := make([]compiler.StatsModule, 0, len(c.modules))
	for _, m := range c.modules {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// dependencies returns the relative specifiers a module imports, in source order.
func dependencies(content []byte) []string {
	type match struct {
		pos  int
		spec string
	}
	var found []match
	for _, re := range []*regexp.Regexp{importPattern, requirePattern} {
		for _, idx := range re.FindAllSubmatchIndex(content, -1) {
			found = append(found, match{pos: idx[2], spec: string(content[idx[2]:idx[3]])})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	var specs []string
	for _, m := range found {
		if strings.HasPrefix(m.spec, "./") || strings.HasPrefix(m.spec, "../") {
			specs = append(specs, m.spec)
		}
	}
	return specs
}

func (ch *chunk) render(info *compiler.StatsBundlerInfo, development bool) []asset {
	var js bytes.Buffer
	if info != nil {
		fmt.Fprintf(&js, "/* bundlerInfo: %s@%s */\n", info.Name, info.Version)
	}
	for _, m := range ch.js {
		if development {
			fmt.Fprintf(&js, "// %s\n", m.id)
		}
		js.Write(bytes.TrimRight(m.content, "\n"))
		js.WriteByte('\n')
	}
	assets := []asset{{name: ch.name + ".js", kind: "javascript", content: js.Bytes()}}

	if len(ch.css) > 0 {
		var css bytes.Buffer
		for _, m := range ch.css {
			if development {
				fmt.Fprintf(&css, "/* %s */\n", m.id)
			}
			css.Write(bytes.TrimRight(m.content, "\n"))
			css.WriteByte('\n')
		}
		assets = append(assets, asset{name: ch.name + ".css", kind: "css", content: css.Bytes()})
	}
	return assets
}
