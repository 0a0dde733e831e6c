package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/JonMunkholm/LovedOnes/internal/application"
	"github.com/JonMunkholm/LovedOnes/internal/config"
	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/JonMunkholm/LovedOnes/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli holds the state shared by every subcommand.
type cli struct {
	out io.Writer
	app *application.App
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "lovedctl",
		Short:         "Manage loved ones and their special dates",
		Long:          "lovedctl lists, searches, adds, deletes and exports loved ones records using the server's configuration (environment or .env).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}
	root.SetOut(out)

	root.AddCommand(
		c.newListCommand(),
		c.newAddCommand(),
		c.newDeleteCommand(),
		c.newExportCommand(),
		c.newTUICommand(),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Logs go to stderr so list and export output stays clean.
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	if ctx == nil {
		ctx = context.Background()
	}
	app, err := application.Open(ctx, cfg)
	if err != nil {
		return err
	}
	c.app = app

	if werr := app.Service.LoadWarning(); werr != nil {
		fmt.Fprintln(os.Stderr, "Warning:", core.FormatUserError(werr))
	}
	return nil
}

func (c *cli) newListCommand() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loved ones, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records := c.app.Service.ListRecords(query).Records
			if len(records) == 0 {
				if query != "" {
					fmt.Fprintln(c.out, "No results found.")
				} else {
					fmt.Fprintln(c.out, "No loved ones saved yet.")
				}
				return nil
			}
			return writeRecords(c.out, records)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name filter")
	return cmd
}

// writeRecords prints a table; # is the position used by delete --index.
func writeRecords(out io.Writer, records []core.Record) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tCURRENT DATE\tSPECIAL DATE\tIMAGE")
	for i, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, rec.ID, rec.Name, rec.CurrentDate, rec.SpecialDate, rec.ImagePath)
	}
	return tw.Flush()
}

func (c *cli) newAddCommand() *cobra.Command {
	var in core.RecordInput
	var imagePath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a loved one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upload *core.ImageUpload
			if imagePath != "" {
				f, err := os.Open(imagePath)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer f.Close()
				upload = &core.ImageUpload{Filename: filepath.Base(imagePath), Reader: f}
			}

			rec, err := c.app.Service.AddRecord(cmd.Context(), in, upload)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(c.out, "Saved %s (%s)\n", rec.Name, rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "name (required)")
	cmd.Flags().StringVar(&in.CurrentDate, "current-date", "", "current date, e.g. 2024-01-31 (required)")
	cmd.Flags().StringVar(&in.SpecialDate, "special-date", "", "special date, e.g. 2024-02-14 (required)")
	cmd.Flags().StringVar(&imagePath, "image", "", "photo to attach (jpg, png or webp)")
	return cmd
}

func (c *cli) newDeleteCommand() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a loved one by ID or by list position",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byIndex := cmd.Flags().Changed("index")
			if byIndex == (len(args) == 1) {
				return errors.New("give either an id or --index")
			}

			var (
				rec core.Record
				err error
			)
			if byIndex {
				rec, err = c.app.Service.DeleteRecordAt(cmd.Context(), index-1)
			} else {
				rec, err = c.app.Service.DeleteRecord(cmd.Context(), args[0])
			}
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(c.out, "Deleted %s (%s)\n", rec.Name, rec.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "position shown by list (1-based)")
	return cmd
}

func (c *cli) newExportCommand() *cobra.Command {
	var format, outPath, query string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as csv or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" || outPath == "-" {
				return c.app.Service.Export(c.out, format, query)
			}
			if err := application.ExportToFile(c.app.Service, outPath, format, query); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", core.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only export matching names")
	return cmd
}

func (c *cli) newTUICommand() *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return application.Run(c.app.Service, exportDir)
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exports started from the menu")
	return cmd
}

// userError keeps the technical error but leads with the support code.
func userError(err error) error {
	msg := core.MapError(err)
	if msg.Code == "ERR000" {
		return err
	}
	return fmt.Errorf("%s (%s): %w", msg.Message, msg.Code, err)
}

