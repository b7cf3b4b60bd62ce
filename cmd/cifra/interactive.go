package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/render"
	"github.com/sukalov/cifrabot/internal/sheets"
	"github.com/sukalov/cifrabot/internal/sheets/parsers/cifraclub"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive [artist] [song]",
	Aliases: []string{"i"},
	Short:   "Fetch a sheet and transpose it from a prompt",
	Long: `interactive asks for an artist and a song (unless given as arguments),
prints the sheet in its original key and then reads options one per line:

  a number   transpose by semitones (2, -3)
  a key      transpose to that key (C, D#, Cm, Bb)
  0          back to the original key
  pdf        save what is shown as a PDF
  open       save the PDF and open it
  q          quit`,
	Args: cobra.MaximumNArgs(2),
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(out, "cifra - chord sheets with transposition")
	fmt.Fprintln(out, strings.Repeat("=", 70))

	artist, song := "", ""
	if len(args) > 0 {
		artist = args[0]
	} else {
		artist = prompt(in, out, "Artist (e.g. coldplay): ")
	}
	if len(args) > 1 {
		song = args[1]
	} else {
		song = prompt(in, out, "Song (e.g. the-scientist): ")
	}
	artist, song = cifraclub.Slug(artist), cifraclub.Slug(song)
	if artist == "" || song == "" {
		return errMissingSong
	}

	ctx := cmd.Context()
	svc, cleanup := newService(ctx)
	defer cleanup()

	fmt.Fprintln(out, "\nFetching sheet...")
	sheet, err := svc.FetchSong(ctx, artist, song)
	if err != nil {
		return fmt.Errorf("could not fetch the sheet: %w", err)
	}

	s := newSession(sheet, out, outputDir())
	s.show()
	return s.loop(in)
}

func prompt(in *bufio.Scanner, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// session is one sheet being browsed from the prompt. The last request is
// what pdf and open export.
type session struct {
	sheet *sheets.Sheet
	last  chords.Request
	out   io.Writer
	dir   string

	savePDF func(v sheets.View, dir string) (string, error)
	open    func(path string) error
}

func newSession(sheet *sheets.Sheet, out io.Writer, dir string) *session {
	original, _ := chords.ShiftBy(0)
	return &session{
		sheet:   sheet,
		last:    original,
		out:     out,
		dir:     dir,
		savePDF: render.SavePDF,
		open:    render.Open,
	}
}

func (s *session) view() sheets.View {
	return sheets.NewView(s.sheet, s.last)
}

func (s *session) show() {
	_ = render.WriteText(s.out, s.view())
}

func (s *session) loop(in *bufio.Scanner) error {
	for {
		s.menu()
		fmt.Fprint(s.out, "\nChoose an option: ")
		if !in.Scan() {
			fmt.Fprintln(s.out, "\n\nBye!")
			return in.Err()
		}
		if quit := s.handle(strings.TrimSpace(in.Text())); quit {
			return nil
		}
	}
}

func (s *session) menu() {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(s.out, "\n"+rule)
	fmt.Fprintln(s.out, "Options:")
	fmt.Fprintln(s.out, "  [number] - transpose by semitones (e.g. 2, -3)")
	fmt.Fprintln(s.out, "  [key]    - transpose to a key (e.g. C, D#, Cm, Bb)")
	fmt.Fprintln(s.out, "  [0]      - show the original key")
	fmt.Fprintln(s.out, "  [pdf]    - save what is shown as a PDF")
	fmt.Fprintln(s.out, "  [open]   - save the PDF and open it")
	fmt.Fprintln(s.out, "  [q]      - quit")
	fmt.Fprintln(s.out, rule)
}

// handle runs one option and reports whether the session is over
func (s *session) handle(option string) bool {
	switch strings.ToLower(option) {
	case "q", "quit", "exit":
		fmt.Fprintln(s.out, "\nBye!")
		return true
	case "pdf":
		s.export(false)
		return false
	case "open":
		s.export(true)
		return false
	}

	req, err := chords.ParseRequest(option)
	switch {
	case errors.Is(err, chords.ErrShiftOutOfRange):
		fmt.Fprintf(s.out, "\nUse values between -%d and %d semitones\n", chords.MaxShift, chords.MaxShift)
	case err != nil:
		fmt.Fprintln(s.out, "\nInvalid option! Use a number, a key (e.g. C, D#, Cm), 'pdf', 'open' or 'q' to quit")
	default:
		if key, ok := req.TargetKey(); ok && s.sheet.Key == "" {
			fmt.Fprintf(s.out, "\nThis sheet does not state its key, so it cannot be moved to %s\n", key)
		}
		s.last = req
		s.show()
	}
	return false
}

func (s *session) export(open bool) {
	fmt.Fprintln(s.out, "\nSaving PDF...")
	path, err := s.savePDF(s.view(), s.dir)
	if err != nil {
		fmt.Fprintf(s.out, "could not save the PDF: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "PDF saved to: %s\n", path)

	if open {
		if err := s.open(path); err != nil {
			fmt.Fprintf(s.out, "could not open the PDF: %v\n", err)
		}
	}
}
