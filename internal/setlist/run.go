package setlist

import (
	"context"
	"fmt"

	"github.com/sukalov/cifrabot/internal/logger"
	"github.com/sukalov/cifrabot/internal/render"
	"github.com/sukalov/cifrabot/internal/sheets"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel page fetches
const DefaultConcurrency = 4

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*sheets.Sheet, error)
	SongURL(artist, song string) string
}

type Options struct {
	OutputDir   string
	Concurrency int
	// Render writes one view as dir/name and returns the file path;
	// render.SavePDFAs when nil
	Render func(v sheets.View, dir, name string) (string, error)
}

// Result is the outcome for one entry. Err is set when the entry failed;
// other entries are still processed.
type Result struct {
	Entry Entry
	View  sheets.View
	Path  string
	Err   error
}

// Run fetches, transposes and renders every entry. Results keep the order
// of the setlist. The returned error is only set when ctx ends the run.
func Run(ctx context.Context, f Fetcher, set *Setlist, opts Options) ([]Result, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Render == nil {
		opts.Render = render.SavePDFAs
	}

	results := make([]Result, len(set.Songs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, entry := range set.Songs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Entry: entry, Err: err}
				return err
			}
			results[i] = runEntry(gctx, f, i, entry, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// FileName numbers the PDF by setlist position, so repeated songs in the
// same key do not overwrite each other
func FileName(index int, v sheets.View) string {
	return fmt.Sprintf("%02d_%s", index+1, render.FileName(v))
}

func runEntry(ctx context.Context, f Fetcher, index int, entry Entry, opts Options) Result {
	res := Result{Entry: entry}

	req, err := entry.Request()
	if err != nil {
		res.Err = err
		return res
	}

	url := entry.URL
	if url == "" {
		url = f.SongURL(entry.Artist, entry.Song)
	}

	sheet, err := f.Fetch(ctx, url)
	if err != nil {
		res.Err = logger.LogWithErr(fmt.Sprintf("setlist: failed to fetch %s", entry.Name()), err)
		return res
	}

	res.View = sheets.NewView(sheet, req)
	res.Path, res.Err = opts.Render(res.View, opts.OutputDir, FileName(index, res.View))
	if res.Err == nil {
		logger.Success(fmt.Sprintf("setlist: %s -> %s", entry.Name(), res.Path))
	}
	return res
}
