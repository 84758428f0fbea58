package compiler

import (
	"context"

	"github.com/spf13/afero"
)

// Compiler is a single, configured compiler instance.
type Compiler interface {
	// Options returns the options the instance was created with.
	Options() *Options

	// Run performs one build and returns its Stats. A non-nil error means the
	// build could not be attempted at all; compilation errors are reported
	// through Stats instead.
	Run(ctx context.Context) (Stats, error)

	// OnDone registers fn to be called with the Stats of every finished Run.
	OnDone(fn func(Stats))

	InputFileSystem() afero.Fs
	SetInputFileSystem(fs afero.Fs)
	OutputFileSystem() afero.Fs
	SetOutputFileSystem(fs afero.Fs)

	// Close releases resources held by the instance.
	Close(ctx context.Context) error
}

// Stats is the report of a finished build.
type Stats interface {
	HasErrors() bool
	HasWarnings() bool
	ToJSON() *StatsCompilation
}

// StatsCompilation is the serializable form of Stats.
type StatsCompilation struct {
	Name        string              `json:"name,omitempty"`
	Hash        string              `json:"hash"`
	Time        int64               `json:"time"`
	Mode        string              `json:"mode,omitempty"`
	OutputPath  string              `json:"outputPath"`
	BundlerInfo *StatsBundlerInfo   `json:"bundlerInfo,omitempty"`
	Assets      []StatsAsset        `json:"assets"`
	Entrypoints map[string][]string `json:"entrypoints"`
	Modules     []StatsModule       `json:"modules"`
	Errors      []StatsError        `json:"errors"`
	Warnings    []StatsError        `json:"warnings"`
}

// StatsAsset describes one emitted file.
type StatsAsset struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Type    string `json:"type"`
	Emitted bool   `json:"emitted"`
}

// StatsModule describes one module that took part in the build.
type StatsModule struct {
	Identifier string   `json:"identifier"`
	Size       int      `json:"size"`
	Chunks     []string `json:"chunks"`
}

// StatsError is a compilation error or warning.
type StatsError struct {
	Message          string `json:"message"`
	ModuleIdentifier string `json:"moduleIdentifier,omitempty"`
}

// StatsBundlerInfo is the bundler metadata injected into the output.
type StatsBundlerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
