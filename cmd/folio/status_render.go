package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"folio/internal/publish"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiDim    = "\x1b[2m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// renderStatusLine formats one doctor line: an indented, padded label
// followed by the bracketed status and an optional detail.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	status := "[" + style.label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressListener prints publish progress, one line per notification.
type progressListener struct {
	out      io.Writer
	colorize bool
	quiet    bool
}

func newProgressListener(out io.Writer, quiet bool) *progressListener {
	return &progressListener{out: out, colorize: shouldColorize(out), quiet: quiet}
}

func (p *progressListener) Notify(scope publish.Scope, message string) error {
	if p.quiet && scope.Stage != publish.StateDone {
		return nil
	}
	_, err := fmt.Fprintln(p.out, renderProgressLine(scope, message, p.colorize))
	return err
}

func renderProgressLine(scope publish.Scope, message string, colorize bool) string {
	label := string(scope.Stage)
	if scope.Image != "" {
		label = scope.Image
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label, message)
	if !colorize {
		return line
	}
	switch {
	case scope.Stage == publish.StateDone:
		return ansiGreen + line + ansiReset
	case message == "unchanged":
		return ansiDim + line + ansiReset
	default:
		return line
	}
}
