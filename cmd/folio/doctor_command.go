package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"folio/internal/notifications"
	"folio/internal/preflight"
	"folio/internal/publish"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [album-dir]",
		Short: "Check configuration directories and, optionally, an album",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0

			printResults := func(title string, results []preflight.Result) {
				for _, line := range renderSectionHeader(title, colorize) {
					fmt.Fprintln(out, line)
				}
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
						failures++
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
			}

			printResults("Configuration", preflight.CheckConfig(cfg))

			resolver, err := ctx.templateResolver()
			if err != nil {
				return err
			}
			defaultTemplate := strings.TrimSpace(cfg.Publish.DefaultTemplate)
			if defaultTemplate == "" {
				defaultTemplate = publish.DefaultTemplate
			}
			templateResult := preflight.Result{Name: "Default template", Passed: true}
			if tpl, err := resolver.Find(defaultTemplate); err != nil {
				templateResult.Passed = false
				templateResult.Detail = err.Error()
			} else {
				templateResult.Detail = fmt.Sprintf("%s (%s)", tpl.Name(), tpl.Source())
			}
			printResults("Templates", []preflight.Result{templateResult})

			for _, line := range renderSectionHeader("Notifications", colorize) {
				fmt.Fprintln(out, line)
			}
			if notifications.Enabled(notifications.NewService(cfg)) {
				fmt.Fprintln(out, renderStatusLine("ntfy", statusOK, cfg.Notifications.NtfyTopic, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("ntfy", statusInfo, "disabled", colorize))
			}

			if len(args) > 0 {
				a, _, err := ctx.openAlbum(cmd, args)
				if err != nil {
					printResults("Album", []preflight.Result{{Name: "Album directory", Detail: err.Error()}})
				} else {
					destination := a.Destination()
					if destination != "" && !filepath.IsAbs(destination) {
						destination = filepath.Join(a.Path(), destination)
					}
					results := preflight.RunAll(a.Path(), destination)
					if a.Template() != "" {
						r := preflight.Result{Name: "Album template", Passed: true, Detail: a.Template()}
						if _, err := resolver.Find(a.Template()); err != nil {
							r.Passed = false
							r.Detail = err.Error()
						}
						results = append(results, r)
					}
					printResults("Album", results)
					if count := len(a.ImageNames()); count > 0 {
						fmt.Fprintln(out, renderStatusLine("Images", statusOK, fmt.Sprintf("%d recognized", count), colorize))
					} else {
						fmt.Fprintln(out, renderStatusLine("Images", statusWarn, "no recognized images", colorize))
					}
				}
			}

			if failures > 0 {
				return errors.New("doctor found problems")
			}
			return nil
		},
	}
}
