package preflight

import (
	"strings"

	"folio/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a publish depends on: the album directory must
// be accessible and the destination (or its nearest existing parent)
// writable. An empty destination skips the destination check.
func RunAll(albumDir, destination string) []Result {
	results := []Result{CheckDirectoryAccess("Album directory", albumDir)}
	if strings.TrimSpace(destination) != "" {
		results = append(results, CheckDestination(destination))
	}
	return results
}

// CheckConfig evaluates the directories named by cfg.
func CheckConfig(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}
	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	for _, dir := range cfg.Paths.TemplateDirs {
		results = append(results, CheckTemplateDir(dir))
	}
	return results
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
