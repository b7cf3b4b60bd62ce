package chords

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

const lineSeparator = "\n"

// TransposeDocument transposes every chord line of a chord sheet and leaves
// lyrics, section markers and blank lines as they are
func TransposeDocument(text string, semitones int) string {
	if semitones == 0 {
		return text
	}

	lines := strings.Split(text, lineSeparator)
	for i, line := range lines {
		lines[i] = transposeIfChordLine(line, semitones)
	}
	return strings.Join(lines, lineSeparator)
}

// TransposeDocumentConcurrent produces the same output as TransposeDocument,
// fanning lines out over at most workers goroutines. workers <= 0 means
// runtime.NumCPU().
func TransposeDocumentConcurrent(ctx context.Context, text string, semitones int, workers int) (string, error) {
	if semitones == 0 {
		return text, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	lines := strings.Split(text, lineSeparator)
	out := make([]string, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, line := range lines {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			out[i] = transposeIfChordLine(line, semitones)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(out, lineSeparator), nil
}

func transposeIfChordLine(line string, semitones int) string {
	if !IsChordLine(line) {
		return line
	}
	return TransposeLine(line, semitones)
}

// ResolveTargetKeyShift returns the semitones needed to move a song from
// sourceKey to targetKey, 0 when the source key is unknown
func ResolveTargetKeyShift(sourceKey, targetKey string) int {
	if strings.TrimSpace(sourceKey) == "" {
		return 0
	}
	return SemitonesBetweenKeys(sourceKey, targetKey)
}

// DisplayKeyLabel names the key a song ends up in after a shift, spelled
// like a transposed chord root, minor marker preserved
func DisplayKeyLabel(sourceKey string, semitones int) string {
	if semitones == 0 || sourceKey == "" {
		return sourceKey
	}

	key, err := ParseKey(sourceKey)
	if err != nil {
		return sourceKey
	}
	return key.Transpose(semitones).String()
}
