package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sukalov/cifrabot/internal/setlist"
)

var setlistCmd = &cobra.Command{
	Use:   "setlist <file.yaml>",
	Short: "Render every song of a setlist as a PDF",
	Long: `setlist reads a YAML file listing songs and renders each one, transposed
as requested, into the output directory. Songs are fetched in parallel; a
song that fails is reported and the rest are still rendered.

  title: Friday gig
  songs:
    - artist: coldplay
      song: yellow
      shift: -2
    - url: https://www.cifraclub.com.br/legiao-urbana/tempo-perdido/
      key: G`,
	Args: cobra.ExactArgs(1),
	RunE: runSetlist,
}

func init() {
	setlistCmd.Flags().Int("concurrency", setlist.DefaultConcurrency, "songs fetched at the same time")
	rootCmd.AddCommand(setlistCmd)
}

func runSetlist(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	set, err := setlist.Load(args[0])
	if err != nil {
		return err
	}
	if len(set.Songs) == 0 {
		return fmt.Errorf("%s lists no songs", args[0])
	}

	ctx := cmd.Context()
	svc, cleanup := newService(ctx)
	defer cleanup()

	results, err := setlist.Run(ctx, svc, set, setlist.Options{
		OutputDir:   outputDir(),
		Concurrency: concurrency,
	})
	failed := printResults(cmd.OutOrStdout(), set, results)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d songs failed", failed, len(results))
	}
	return nil
}

// printResults writes one line per song and returns how many failed
func printResults(w io.Writer, set *setlist.Setlist, results []setlist.Result) int {
	if set.Title != "" {
		fmt.Fprintf(w, "%s\n\n", set.Title)
	}

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "%2d. FAIL %s: %v\n", i+1, res.Entry.Name(), res.Err)
			continue
		}
		key := res.View.CurrentKey
		if key == "" {
			key = "?"
		}
		fmt.Fprintf(w, "%2d. ok   %s [%s] -> %s\n", i+1, res.Entry.Name(), key, res.Path)
	}
	return failed
}
