// Package profile provides optional runtime profiling of the interpreter
// using [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the [Tag] build tag:
//
//	go build -tags pprof .
//	./minilang --pprof-mode cpu run fib.ml
//	go tool pprof -http=: ~/.cache/minilang/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] is a no-op, so
// callers never need to check whether profiling is available.
//
// When built with the tag, the package also imports [net/http/pprof], which
// registers handlers under /debug/pprof/ on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
