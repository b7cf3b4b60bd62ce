package sheets

import "github.com/sukalov/cifrabot/internal/chords"

// View is a sheet as it should be shown after a transposition request
type View struct {
	Sheet      *Sheet
	Semitones  int
	CurrentKey string
	Text       string
}

// Transposed reports whether the view differs from the original sheet
func (v View) Transposed() bool {
	return v.Semitones != 0
}

// NewView applies a request to a sheet. A key request resolves against the
// sheet key; without one it leaves the sheet as is.
func NewView(sheet *Sheet, req chords.Request) View {
	semitones := req.Semitones(sheet.Key)
	return View{
		Sheet:      sheet,
		Semitones:  semitones,
		CurrentKey: chords.DisplayKeyLabel(sheet.Key, semitones),
		Text:       chords.TransposeDocument(sheet.Chords, semitones),
	}
}
