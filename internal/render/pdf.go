package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/sheets"
)

// DefaultPDFDir is where PDFs go when no directory is configured
const DefaultPDFDir = "pdf"

// A4 page geometry, in millimetres
const (
	pageWidth     = 210.0
	marginX       = 15.0
	columnGap     = 10.0
	columnWidth   = (pageWidth - 2*marginX - columnGap) / 2
	contentTop    = 50.0
	contentBottom = 277.0
	footerY       = 287.0

	lineHeight   = 3.53 // 10pt leading
	lineGap      = 0.7
	sectionSpace = 3.0
	blankSpace   = 1.5
)

// block is a run of lines that must stay in the same column
type block struct {
	space float64
	lines []string
}

func (b block) height() float64 {
	h := b.space + float64(len(b.lines))*lineHeight
	if len(b.lines) > 0 {
		h += lineGap
	}
	return h
}

// drawable is a line as printed: no trailing CR, tabs as four spaces
func drawable(line string) string {
	return strings.ReplaceAll(strings.TrimRight(line, "\r"), "\t", "    ")
}

// layoutBlocks groups a sheet into blocks. A chord line travels with the
// lyric line under it, sections get extra room above, blank lines become
// small gaps.
func layoutBlocks(text string) []block {
	lines := strings.Split(text, "\n")
	var blocks []block
	for i := 0; i < len(lines); i++ {
		line := drawable(lines[i])
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blocks = append(blocks, block{space: blankSpace})
			continue
		}

		b := block{lines: []string{line}}
		switch {
		case strings.HasPrefix(trimmed, "["):
			if i > 0 {
				b.space = sectionSpace
			}
		case chords.IsChordLine(lines[i]) && i+1 < len(lines):
			next := drawable(lines[i+1])
			nextTrimmed := strings.TrimSpace(next)
			if nextTrimmed != "" && !strings.HasPrefix(nextTrimmed, "[") {
				b.lines = append(b.lines, next)
				i++
			}
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// placement is a block positioned on a page
type placement struct {
	page   int
	column int
	y      float64
	lines  []string
}

// paginate flows blocks down the left column, then the right one, then onto
// a new page
func paginate(blocks []block) []placement {
	var out []placement
	page, column, y := 1, 0, contentTop
	for _, b := range blocks {
		if y+b.height() > contentBottom && y > contentTop {
			if column == 0 {
				column = 1
			} else {
				page++
				column = 0
			}
			y = contentTop
		}
		y += b.space
		if len(b.lines) > 0 {
			out = append(out, placement{page: page, column: column, y: y, lines: b.lines})
			y += float64(len(b.lines))*lineHeight + lineGap
		}
	}
	return out
}

func columnX(column int) float64 {
	return marginX + float64(column)*(columnWidth+columnGap)
}

// WritePDF renders a view as an A4 two column PDF
func WritePDF(w io.Writer, v sheets.View) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginX, contentTop, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(Title(v.Sheet), true)
	pdf.SetCreator("cifra", true)

	header := HeaderLines(v)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(marginX, 12)
		pdf.CellFormat(0, 6, tr(header[0]), "", 0, "C", false, 0, "")

		y := 19.0
		for _, line := range header[1:] {
			size := 9.0
			if strings.HasPrefix(line, "Source: ") {
				size = 8
			}
			pdf.SetFont("Helvetica", "", size)
			pdf.SetXY(marginX, y)
			pdf.CellFormat(0, 4, tr(line), "", 0, "C", false, 0, "")
			y += 4
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(marginX, footerY)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	page := 1
	for _, p := range paginate(layoutBlocks(v.Text)) {
		for page < p.page {
			pdf.AddPage()
			page++
		}
		pdf.SetFont("Courier", "", 8)
		y := p.y
		for _, line := range p.lines {
			pdf.SetXY(columnX(p.column), y)
			pdf.CellFormat(columnWidth, lineHeight, tr(line), "", 0, "L", false, 0, "")
			y += lineHeight
		}
	}

	return pdf.Output(w)
}

// FileName is <artist>_<title>_<key>.pdf with spaces and slashes replaced
func FileName(v sheets.View) string {
	key := "NoKey"
	if v.Sheet.Key != "" {
		key = v.CurrentKey
	}
	name := fmt.Sprintf("%s_%s_%s.pdf", v.Sheet.Artist, v.Sheet.Title, key)
	return strings.NewReplacer(" ", "_", "/", "_").Replace(name)
}

// SavePDF writes the view under dir as FileName(v), creating dir if needed,
// and returns the file path
func SavePDF(v sheets.View, dir string) (string, error) {
	return SavePDFAs(v, dir, FileName(v))
}

// SavePDFAs is SavePDF with an explicit file name
func SavePDFAs(v sheets.View, dir, name string) (string, error) {
	if dir == "" {
		dir = DefaultPDFDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePDF(f, v); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
