package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/album"
	"folio/internal/config"
	"folio/internal/history"
	"folio/internal/logging"
	"folio/internal/notifications"
	"folio/internal/preflight"
	"folio/internal/publish"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var (
		opts  publish.Options
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "publish [album-dir]",
		Short: "Render the album through its template into a destination",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			a, logger, err := ctx.openAlbum(cmd, args)
			if err != nil {
				return err
			}
			resolver, err := ctx.templateResolver()
			if err != nil {
				return err
			}

			if err := a.Lock(); err != nil {
				return fmt.Errorf("%w: %s", err, a.Path())
			}
			defer func() { _ = a.Unlock() }()

			if err := runPublishPreflight(a, opts.Destination); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts.Listeners = append([]publish.Listener{newProgressListener(out, quiet)}, opts.Listeners...)
			planner := publish.NewPlanner(a, publish.FromTemplates(resolver), cfg, logger)
			result, publishErr := planner.Publish(cmd.Context(), opts)

			recordHistory(ctx, logger, a, result, publishErr)
			notifyResult(cmd.Context(), cfg, logger, a, result, publishErr)
			if publishErr != nil {
				return publishErr
			}

			summary := fmt.Sprintf("Published %d images to %s (%d copied, %d unchanged)",
				result.Images, result.Destination, result.Copied, result.Skipped)
			if result.Saved {
				summary += "; template and destination saved"
			}
			fmt.Fprintln(out, summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Template, "template", "t", "", "Template name or path (overrides the album record)")
	cmd.Flags().StringVar(&opts.Destination, "to", "", "Destination directory (overrides the album record)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Rewrite every file even when the destination copy is current")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the template and destination to the album record after publishing")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the final summary")
	return cmd
}

// runPublishPreflight checks the album and the destination that publish will
// use. Destination resolution errors are left to the planner so they keep
// their classification.
func runPublishPreflight(a *album.Album, explicit string) error {
	destination := strings.TrimSpace(explicit)
	if destination == "" {
		destination = a.Destination()
	}
	if destination != "" && !filepath.IsAbs(destination) {
		destination = filepath.Join(a.Path(), destination)
	}
	failed := preflight.Failures(preflight.RunAll(a.Path(), destination))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
}

func recordHistory(ctx *commandContext, logger *slog.Logger, a *album.Album, result publish.Result, publishErr error) {
	var resErr *publish.TemplateResolutionError
	var destErr *publish.MissingDestinationError
	if errors.As(publishErr, &resErr) || errors.As(publishErr, &destErr) {
		return
	}

	store, err := ctx.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "publish history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or disable [history]"),
			logging.String(logging.FieldImpact, "this publish is not recorded in history"),
		)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	run := history.Run{
		ID:          result.RunID,
		AlbumPath:   a.Path(),
		Destination: result.Destination,
		Template:    result.Template,
		Force:       result.Force,
		Status:      history.StatusSucceeded,
		Images:      result.Images,
		Copied:      result.Copied,
		Skipped:     result.Skipped,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
	}
	if publishErr != nil {
		run.Status = history.StatusFailed
		run.Error = publishErr.Error()
	}

	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Record(recordCtx, run); err != nil {
		logging.WarnWithContext(logger, "publish history write failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldRunID, run.ID),
			logging.String(logging.FieldImpact, "this publish is not recorded in history"),
		)
	}
}

func notifyResult(ctx context.Context, cfg *config.Config, logger *slog.Logger, a *album.Album, result publish.Result, publishErr error) {
	svc := notifications.NewService(cfg)
	if !notifications.Enabled(svc) || publish.Kind(publishErr) == publish.KindConfiguration {
		return
	}
	var err error
	if publishErr != nil {
		err = svc.NotifyPublishFailed(ctx, a.Title(), publishErr)
	} else {
		err = svc.NotifyPublished(ctx, notifications.Published{
			Title:       a.Title(),
			Destination: result.Destination,
			Images:      result.Images,
			Copied:      result.Copied,
			Duration:    result.FinishedAt.Sub(result.StartedAt),
		})
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("publish notification skipped, context cancelled")
			return
		}
		logging.WarnWithContext(logger, "publish notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "no ntfy message for this publish"),
		)
	}
}
