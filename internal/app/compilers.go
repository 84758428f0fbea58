package app

import (
	"github.com/specialistvlad/statscheck/internal/bundler"
	"github.com/specialistvlad/statscheck/internal/compiler"
)

// coreModules is the definitive list of all compilers that are compiled into
// the statscheck binary.
var coreModules = []compiler.Module{
	&bundler.Module{},
}

// defaultCompiler is used by cases that do not name a compiler.
const defaultCompiler = bundler.Type
