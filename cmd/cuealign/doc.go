// Package main hosts the cuealign CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline
// runs, standalone caption validation, timeline inspection, and
// configuration scaffolding. Configuration resolution and structured
// logging setup are centralized here so subcommands stay declarative.
//
// Keep this package lean: new functionality belongs in the internal
// packages first, surfaced here through dedicated commands or flags.
package main
