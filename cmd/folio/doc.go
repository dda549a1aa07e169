// Package main hosts the folio CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the album store, the
// publish planner, the history database and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands stay
// focused on presentation.
//
// Album commands take the album directory as their first argument and fall
// back to the working directory. Nothing below this package reads the
// process working directory.
package main
