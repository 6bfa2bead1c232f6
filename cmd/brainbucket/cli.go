package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/ops"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
	"github.com/kmkohl117-gif/brainbucket-android/internal/web"
)

// maxStdinBytes bounds capture text read from a pipe.
const maxStdinBytes = 1 << 20

// deps bundles what every command needs.
type deps struct {
	st      *store.Store
	cfg     *config.Config
	dataDir string
	logger  *slog.Logger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *store.Store, cfg *config.Config, dataDir string, logger *slog.Logger) *cli.App {
	d := &deps{st: st, cfg: cfg, dataDir: dataDir, logger: logger}
	app := &cli.App{
		Name:    "brainbucket",
		Usage:   "Quick capture inbox with buckets and folders",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(d),
			showCmd(d),
			listCmd(d),
			editCmd(d),
			toggleCmd(d, "star", "Toggle a capture's starred flag", ops.ToggleStar),
			toggleCmd(d, "complete", "Toggle a capture's completed flag", ops.ToggleComplete),
			moveCmd(d),
			deleteCmd(d),
			searchCmd(d),
			bucketCmd(d),
			folderCmd(d),
			templateCmd(d),
			viewCmd(d),
			exportCmd(d),
			importCmd(d),
			serveCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Capture text (from arguments, or stdin when piped)",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Capture type: task|idea|reference"},
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "Bucket ID (default: unsorted)"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder ID inside the bucket"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Longer notes (markdown)"},
			&cli.StringSliceFlag{Name: "link", Aliases: []string{"l"}, Usage: "Related URL (repeatable)"},
			&cli.BoolFlag{Name: "star", Aliases: []string{"s"}, Usage: "Star the capture"},
			&cli.BoolFlag{Name: "shared", Usage: "Text was handed over by another app; undo percent-encoding"},
		},
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if text == "" && stdinHasData() {
				piped, err := readStdin(maxStdinBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				text = piped
			}
			if c.Bool("shared") {
				text = ops.DecodeShared(text)
			}

			output, err := ops.AddCapture(c.Context, d.st, d.cfg, ops.AddCaptureInput{
				Text:        text,
				Type:        c.String("type"),
				BucketID:    c.String("bucket"),
				FolderID:    c.String("folder"),
				Description: c.String("description"),
				Links:       c.StringSlice("link"),
				Starred:     c.Bool("star"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a capture",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.GetCapture(c.Context, d.st, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List captures, starred first then most recently updated",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "Filter by bucket"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Filter by folder"},
			&cli.BoolFlag{Name: "inbox", Usage: "Only captures not filed in a folder"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by type"},
			&cli.BoolFlag{Name: "starred", Usage: "Filter by starred flag"},
			&cli.BoolFlag{Name: "completed", Usage: "Filter by completed flag"},
			&cli.IntFlag{Name: "limit", Value: 50, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListCaptures(c.Context, d.st, ops.ListCapturesInput{
				BucketID:  c.String("bucket"),
				FolderID:  c.String("folder"),
				InboxOnly: c.Bool("inbox"),
				Type:      c.String("type"),
				Starred:   boolFlag(c, "starred"),
				Completed: boolFlag(c, "completed"),
				Limit:     c.Int("limit"),
				Offset:    c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a capture; only the given flags change",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "New text"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "New type"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
			&cli.StringSliceFlag{Name: "link", Aliases: []string{"l"}, Usage: "Replace links (repeatable)"},
			&cli.BoolFlag{Name: "starred", Usage: "Set starred flag"},
			&cli.BoolFlag{Name: "completed", Usage: "Set completed flag"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateCaptureInput{
				ID:          c.Args().First(),
				Text:        stringFlag(c, "text"),
				Type:        stringFlag(c, "type"),
				Description: stringFlag(c, "description"),
				Starred:     boolFlag(c, "starred"),
				Completed:   boolFlag(c, "completed"),
			}
			if c.IsSet("link") {
				links := c.StringSlice("link")
				input.Links = &links
			}

			output, err := ops.UpdateCapture(c.Context, d.st, d.cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// toggleCmd creates the star and complete commands.
func toggleCmd(d *deps, name, usage string, fn func(context.Context, *store.Store, string) (*capture.Capture, error)) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := fn(c.Context, d.st, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// moveCmd creates the move command.
func moveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move a capture to a bucket, and optionally into one of its folders",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Required: true, Usage: "Target bucket ID"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Target folder ID (default: bucket inbox)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.MoveCapture(c.Context, d.st, ops.MoveCaptureInput{
				ID:       c.Args().First(),
				BucketID: c.String("bucket"),
				FolderID: c.String("folder"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a capture",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.DeleteCapture(c.Context, d.st, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search capture text and descriptions (case-insensitive)",
		ArgsUsage: "<query...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "Limit the search to one bucket"},
			&cli.IntFlag{Name: "limit", Value: 50, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Search(c.Context, d.st, ops.SearchInput{
				Query:    strings.Join(c.Args().Slice(), " "),
				BucketID: c.String("bucket"),
				Limit:    c.Int("limit"),
				Offset:   c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// bucketCmd creates the bucket command group.
func bucketCmd(d *deps) *cli.Command {
	styleFlags := func(name bool) []cli.Flag {
		flags := []cli.Flag{
			&cli.StringFlag{Name: "icon", Usage: "Icon name"},
			&cli.StringFlag{Name: "color", Usage: "Hex color like #3b82f6"},
		}
		if name {
			flags = append(flags, &cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"})
		}
		return flags
	}

	return &cli.Command{
		Name:  "bucket",
		Usage: "Manage buckets",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List buckets with item counts",
				Action: func(c *cli.Context) error {
					output, err := ops.ListBuckets(c.Context, d.st)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "show",
				Usage:     "Show a bucket with its folders and inbox",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.GetBucket(c.Context, d.st, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "add",
				Usage:     "Create a bucket",
				ArgsUsage: "<name>",
				Flags:     styleFlags(false),
				Action: func(c *cli.Context) error {
					output, err := ops.AddBucket(c.Context, d.st, ops.AddBucketInput{
						Name:  strings.Join(c.Args().Slice(), " "),
						Icon:  c.String("icon"),
						Color: c.String("color"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "update",
				Usage:     "Rename or restyle a bucket",
				ArgsUsage: "<id>",
				Flags:     styleFlags(true),
				Action: func(c *cli.Context) error {
					output, err := ops.UpdateBucket(c.Context, d.st, ops.UpdateBucketInput{
						ID:    c.Args().First(),
						Name:  stringFlag(c, "name"),
						Icon:  stringFlag(c, "icon"),
						Color: stringFlag(c, "color"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a bucket with all of its folders and captures",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.DeleteBucket(c.Context, d.st, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
		},
	}
}

// folderCmd creates the folder command group.
func folderCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Manage folders inside a bucket",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a bucket's folders in display order",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Required: true, Usage: "Bucket ID"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListFolders(c.Context, d.st, c.String("bucket"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "add",
				Usage:     "Create a folder at the end of a bucket",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Required: true, Usage: "Bucket ID"},
					&cli.StringFlag{Name: "icon", Usage: "Icon name"},
					&cli.StringFlag{Name: "color", Usage: "Hex color like #3b82f6"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.AddFolder(c.Context, d.st, ops.AddFolderInput{
						BucketID: c.String("bucket"),
						Name:     strings.Join(c.Args().Slice(), " "),
						Icon:     c.String("icon"),
						Color:    c.String("color"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "update",
				Usage:     "Rename or restyle a folder",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringFlag{Name: "icon", Usage: "Icon name"},
					&cli.StringFlag{Name: "color", Usage: "Hex color like #3b82f6"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.UpdateFolder(c.Context, d.st, ops.UpdateFolderInput{
						ID:    c.Args().First(),
						Name:  stringFlag(c, "name"),
						Icon:  stringFlag(c, "icon"),
						Color: stringFlag(c, "color"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a folder; its captures return to the bucket inbox",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.DeleteFolder(c.Context, d.st, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "reorder",
				Usage:     "Set folder order; list every folder of the bucket",
				ArgsUsage: "<folder-id...>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Required: true, Usage: "Bucket ID"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ReorderFolders(c.Context, d.st, ops.ReorderFoldersInput{
						BucketID:  c.String("bucket"),
						FolderIDs: c.Args().Slice(),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
		},
	}
}

// templateCmd creates the template command group.
func templateCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "Manage quick templates",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List quick templates",
				Action: func(c *cli.Context) error {
					output, err := ops.ListTemplates(c.Context, d.st)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "add",
				Usage:     "Create a quick template",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Required: true, Usage: "Suggested capture text (repeatable)"},
					&cli.StringFlag{Name: "icon", Usage: "Icon name"},
					&cli.StringFlag{Name: "color", Usage: "Hex color like #3b82f6"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.AddTemplate(c.Context, d.st, ops.AddTemplateInput{
						Name:  strings.Join(c.Args().Slice(), " "),
						Icon:  c.String("icon"),
						Color: c.String("color"),
						Items: c.StringSlice("item"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "update",
				Usage:     "Edit a quick template; --item replaces the whole list",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Usage: "Suggested capture text (repeatable)"},
					&cli.StringFlag{Name: "icon", Usage: "Icon name"},
					&cli.StringFlag{Name: "color", Usage: "Hex color like #3b82f6"},
				},
				Action: func(c *cli.Context) error {
					input := ops.UpdateTemplateInput{
						ID:    c.Args().First(),
						Name:  stringFlag(c, "name"),
						Icon:  stringFlag(c, "icon"),
						Color: stringFlag(c, "color"),
					}
					if c.IsSet("item") {
						items := c.StringSlice("item")
						input.Items = &items
					}

					output, err := ops.UpdateTemplate(c.Context, d.st, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a quick template",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.DeleteTemplate(c.Context, d.st, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
		},
	}
}

// viewCmd creates the view command.
func viewCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Show or change the active view and selection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "set", Usage: "View: capture|search|buckets|bucket-detail|folder-detail|capture-view|capture-edit"},
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "Active bucket (empty clears)"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Active folder (empty clears)"},
			&cli.StringFlag{Name: "capture", Aliases: []string{"c"}, Usage: "Active capture (empty clears)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Navigate(c.Context, d.st, ops.NavigateInput{
				View:      c.String("set"),
				BucketID:  stringFlag(c, "bucket"),
				FolderID:  stringFlag(c, "folder"),
				CaptureID: stringFlag(c, "capture"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all data to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: <data dir>/exports/brainbucket-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, d.st, d.cfg, d.dataDir, ops.ExportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Merge a JSONL export into the current data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "skip", Usage: "Existing ids: skip|replace"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, d.st, d.cfg, d.dataDir, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(d.st, d.cfg, d.logger, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, d.logger)
		},
	}
}

// Helper functions

// outputJSON writes result to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stringFlag returns a pointer to the flag value when the flag was given, nil otherwise.
func stringFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// boolFlag returns a pointer to the flag value when the flag was given, nil otherwise.
func boolFlag(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
