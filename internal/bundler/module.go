package bundler

import "github.com/specialistvlad/statscheck/internal/compiler"

// Type is the compiler type tag this package registers.
const Type compiler.Type = "bundler"

const (
	// Name and Version are reported as bundler info.
	Name    = "statscheck-bundler"
	Version = "0.3.0"
)

// Module implements the compiler.Module interface for this package.
type Module struct{}

// Register registers the bundler factory.
func (m *Module) Register(r *compiler.Registry) {
	r.Register(Type, New)
}
