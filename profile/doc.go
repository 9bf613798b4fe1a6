// Package profile provides optional runtime profiling for cadscript.
//
// It wraps [github.com/pkg/profile]. A [Config] with an empty mode is a
// no-op, so callers may start and stop profiling unconditionally:
//
//	defer profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	).Start().Stop()
//
// Profile files are written to the configured directory with names
// matching the mode (cpu.pprof, mem.pprof, ...). Analyze them with
// go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// The cadscript command exposes the same settings as --pprof-mode and
// --pprof-dir.
package profile
