package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/render"
	"github.com/sukalov/cifrabot/internal/sheets"
	"github.com/sukalov/cifrabot/internal/sheets/parsers/cifraclub"
)

var getCmd = &cobra.Command{
	Use:   "get <artist> <song> [shift|key] | get <url> [shift|key]",
	Short: "Print a chord sheet, optionally transposed",
	Long: `get fetches one chord sheet and prints it to stdout.

The sheet is named by artist and song as they appear in cifraclub URLs
(spaces become dashes), or by a full cifraclub.com.br or amdm.ru link. An
optional last argument transposes it: a number of semitones between -12 and
12, or a target key such as G, F#m or Bb.

  cifra get coldplay yellow
  cifra get coldplay yellow -2
  cifra get "legiao urbana" "tempo perdido" G --pdf`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runGet,
}

func init() {
	getCmd.Flags().Bool("pdf", false, "also save the sheet as a PDF")
	getCmd.Flags().Bool("open", false, "save the PDF and open it (implies --pdf)")
	getCmd.Flags().Bool("diff", false, "print a diff against the original instead of the sheet")
	getCmd.Flags().StringP("output", "o", "", "write the sheet text to this file instead of stdout")
	rootCmd.AddCommand(getCmd)
}

// songRef is what get was asked to fetch
type songRef struct {
	URL     string
	Artist  string
	Song    string
	Request chords.Request
}

var errMissingSong = errors.New("expected <artist> <song> or a link")

func parseGetArgs(args []string) (songRef, error) {
	var ref songRef
	if len(args) == 0 {
		return ref, errMissingSong
	}

	var rest []string
	if isLink(args[0]) {
		ref.URL = args[0]
		rest = args[1:]
	} else {
		if len(args) < 2 {
			return ref, errMissingSong
		}
		ref.Artist = cifraclub.Slug(args[0])
		ref.Song = cifraclub.Slug(args[1])
		rest = args[2:]
	}

	switch len(rest) {
	case 0:
		ref.Request, _ = chords.ShiftBy(0)
	case 1:
		req, err := chords.ParseRequest(rest[0])
		if err != nil {
			return ref, err
		}
		ref.Request = req
	default:
		return ref, fmt.Errorf("unexpected arguments after the request: %s", strings.Join(rest[1:], " "))
	}
	return ref, nil
}

func isLink(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func runGet(cmd *cobra.Command, args []string) error {
	ref, err := parseGetArgs(args)
	if err != nil {
		return err
	}

	pdf, _ := cmd.Flags().GetBool("pdf")
	open, _ := cmd.Flags().GetBool("open")
	diff, _ := cmd.Flags().GetBool("diff")
	output, _ := cmd.Flags().GetString("output")

	ctx := cmd.Context()
	svc, cleanup := newService(ctx)
	defer cleanup()

	var sheet *sheets.Sheet
	if ref.URL != "" {
		sheet, err = svc.Fetch(ctx, ref.URL)
	} else {
		sheet, err = svc.FetchSong(ctx, ref.Artist, ref.Song)
	}
	if err != nil {
		return fmt.Errorf("could not fetch the sheet: %w", err)
	}

	if key, ok := ref.Request.TargetKey(); ok && sheet.Key == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s does not state its key, so it cannot be moved to %s\n", render.Title(sheet), key)
	}
	view := sheets.NewView(sheet, ref.Request)

	out := cmd.OutOrStdout()
	switch {
	case diff:
		d, err := render.Diff(view)
		if err != nil {
			return err
		}
		if d == "" {
			fmt.Fprintln(out, "no changes: the sheet is shown in its original key")
		} else {
			fmt.Fprint(out, d)
		}
	case output != "":
		if err := os.WriteFile(output, []byte(render.Text(view)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Fprintf(out, "Sheet saved to: %s\n", output)
	default:
		if err := render.WriteText(out, view); err != nil {
			return err
		}
	}

	if pdf || open {
		return exportPDF(out, view, open)
	}
	return nil
}

// exportPDF saves the view under the configured directory and opens it on request
func exportPDF(out io.Writer, view sheets.View, open bool) error {
	path, err := savePDF(view, outputDir())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "PDF saved to: %s\n", path)

	if open {
		if err := openPDF(path); err != nil {
			fmt.Fprintf(out, "could not open the PDF: %v\n", err)
		}
	}
	return nil
}

var (
	savePDF = render.SavePDF
	openPDF = render.Open
)
