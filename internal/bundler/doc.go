// Package bundler is the reference compiler registered under the "bundler"
// type tag.
//
// It resolves entry modules from its input filesystem, follows relative
// `import` and `require` specifiers depth-first, and writes one JavaScript
// asset per entry (plus a stylesheet when experiments.css is enabled) to its
// output filesystem. Every Run produces Stats describing assets, modules,
// errors and warnings.
package bundler
