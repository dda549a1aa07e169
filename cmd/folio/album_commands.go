package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"folio/internal/album"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	var values album.InitialValues

	cmd := &cobra.Command{
		Use:   "init [album-dir]",
		Short: "Create or refresh the album record and image sidecars",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := ctx.openAlbum(cmd, args)
			if err != nil {
				return err
			}
			if err := a.Create(cmd.Context(), values); err != nil {
				if errors.Is(err, album.ErrLocked) {
					return fmt.Errorf("%w: %s", err, a.Path())
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %q with %d images at %s\n", a.Title(), len(a.ImageNames()), a.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&values.Title, "title", "", "Album title (defaults to the directory name)")
	cmd.Flags().StringVar(&values.Subtitle, "subtitle", "", "Album subtitle")
	cmd.Flags().StringVar(&values.Description, "description", "", "Album description")
	return cmd
}

type showImage struct {
	File        string `json:"file"`
	Type        string `json:"type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type showOutput struct {
	Path        string      `json:"path"`
	Persisted   bool        `json:"persisted"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Description string      `json:"description"`
	Template    *string     `json:"template"`
	Destination *string     `json:"destination"`
	Images      []showImage `json:"images"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [album-dir]",
		Short: "Display the reconciled album record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := ctx.openAlbum(cmd, args)
			if err != nil {
				return err
			}
			images, err := a.Images(cmd.Context())
			if err != nil {
				return err
			}

			rec := a.Record()
			view := showOutput{
				Path:        a.Path(),
				Persisted:   a.Exists(),
				Title:       rec.Title,
				Subtitle:    rec.Subtitle,
				Description: rec.Description,
				Template:    rec.Template,
				Destination: rec.Destination,
				Images:      make([]showImage, 0, len(images)),
			}
			for _, img := range images {
				view.Images = append(view.Images, showImage{
					File:        img.Name(),
					Type:        img.Kind().String(),
					Width:       img.Width(),
					Height:      img.Height(),
					Title:       img.Title(),
					Description: img.Description(),
				})
			}
			if asJSON {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderFields([][2]string{
				{"Album", view.Path},
				{"Title", view.Title},
				{"Subtitle", valueOrDash(view.Subtitle)},
				{"Description", valueOrDash(view.Description)},
				{"Template", valueOrDash(a.Template())},
				{"Destination", valueOrDash(a.Destination())},
				{"Persisted", yesNo(view.Persisted)},
			}))
			if len(view.Images) == 0 {
				fmt.Fprintln(out, "No images found")
				return nil
			}
			rows := make([][]string, 0, len(view.Images))
			for idx, img := range view.Images {
				rows = append(rows, []string{
					strconv.Itoa(idx + 1),
					img.File,
					img.Type,
					fmt.Sprintf("%dx%d", img.Width, img.Height),
					img.Title,
					valueOrDash(img.Description),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "File", "Type", "Size", "Title", "Description"},
				rows,
				"#", "Size",
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the album as JSON")
	return cmd
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var (
		title       string
		subtitle    string
		description string
		template    string
		destination string
		image       string
	)

	cmd := &cobra.Command{
		Use:   "set [album-dir]",
		Short: "Edit album fields, or an image's title and description with --image",
		Long: "Edit album fields, or an image's title and description with --image.\n\n" +
			"Only flags that are passed are changed. Pass an empty --template or\n" +
			"--destination to clear the saved value.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := ctx.openAlbum(cmd, args)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			out := cmd.OutOrStdout()

			if strings.TrimSpace(image) != "" {
				if flags.Changed("template") || flags.Changed("destination") || flags.Changed("subtitle") {
					return errors.New("--image only accepts --title and --description")
				}
				return setImageFields(cmd, a, image, title, description)
			}

			changed := 0
			if flags.Changed("title") {
				a.SetTitle(title)
				changed++
			}
			if flags.Changed("subtitle") {
				a.SetSubtitle(subtitle)
				changed++
			}
			if flags.Changed("description") {
				a.SetDescription(description)
				changed++
			}
			if flags.Changed("template") {
				a.SetTemplate(strings.TrimSpace(template))
				changed++
			}
			if flags.Changed("destination") {
				a.SetDestination(strings.TrimSpace(destination))
				changed++
			}
			if changed == 0 {
				return errors.New("nothing to set (pass at least one field flag)")
			}
			if err := a.Write(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Updated %d field(s) in %s\n", changed, a.RecordPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Album subtitle")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&template, "template", "", "Template name or path used by publish")
	cmd.Flags().StringVar(&destination, "destination", "", "Publish destination (relative to the album directory)")
	cmd.Flags().StringVar(&image, "image", "", "Image filename to edit instead of the album")
	return cmd
}

func setImageFields(cmd *cobra.Command, a *album.Album, name, title, description string) error {
	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("description") {
		return errors.New("nothing to set (pass --title or --description)")
	}

	images, err := a.Images(cmd.Context())
	if err != nil {
		return err
	}
	for _, img := range images {
		if img.Name() != name {
			continue
		}
		if flags.Changed("title") {
			img.SetTitle(title)
		}
		if flags.Changed("description") {
			img.SetDescription(description)
		}
		if err := a.Lock(); err != nil {
			return err
		}
		defer func() { _ = a.Unlock() }()
		if err := img.Persist(); err != nil {
			return &album.PersistenceError{Op: "write image sidecar", Path: img.SidecarPath(), Err: err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", img.SidecarPath())
		return nil
	}
	return fmt.Errorf("image %q is not part of the album", name)
}
