package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sukalov/cifrabot/internal/chords"
)

var transposeCmd = &cobra.Command{
	Use:   "transpose [file]",
	Short: "Transpose a local chord sheet",
	Long: `transpose reads chord sheet text from a file (or stdin when no file or
"-" is given), transposes its chord lines and writes the result to stdout.
Lyrics, section markers and blank lines are copied unchanged.

  cifra transpose song.txt --by 2
  cat song.txt | cifra transpose --by G --from E`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranspose,
}

func init() {
	transposeCmd.Flags().String("by", "", "semitones between -12 and 12, or a target key")
	transposeCmd.Flags().String("from", "", "key the text is in; required when --by is a key")
	transposeCmd.Flags().Int("workers", 0, "goroutines used for long sheets (default: number of CPUs)")
	_ = transposeCmd.MarkFlagRequired("by")
	rootCmd.AddCommand(transposeCmd)
}

var errNoSourceKey = errors.New("--from is required when --by names a key")

// transposeSemitones resolves --by and --from into a shift
func transposeSemitones(by, from string) (int, error) {
	req, err := chords.ParseRequest(by)
	if err != nil {
		return 0, fmt.Errorf("--by %q: %w", by, err)
	}
	if !req.IsKey() {
		return req.Semitones(""), nil
	}
	if from == "" {
		return 0, errNoSourceKey
	}
	source, err := chords.ParseKey(from)
	if err != nil {
		return 0, fmt.Errorf("--from %q: %w", from, err)
	}
	return req.Semitones(source.String()), nil
}

func runTranspose(cmd *cobra.Command, args []string) error {
	by, _ := cmd.Flags().GetString("by")
	from, _ := cmd.Flags().GetString("from")
	workers, _ := cmd.Flags().GetInt("workers")

	semitones, err := transposeSemitones(by, from)
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	text, err := chords.TransposeDocumentConcurrent(cmd.Context(), string(data), semitones, workers)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}
