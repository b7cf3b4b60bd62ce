package users

import (
	"time"

	"github.com/sukalov/cifrabot/internal/chords"
)

// UserState is what the bot remembers about one chat: the sheet on screen
// and how it is transposed
type UserState struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	TgName    string    `json:"tg_name"`
	SheetURL  string    `json:"sheet_url"`
	SheetName string    `json:"sheet_name"`
	Request   string    `json:"request"`
	Stage     string    `json:"stage"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	StageIdle         = "idle"
	StageAskingSong   = "asking_song"
	StageViewingSheet = "viewing_sheet"
)

// TranspositionRequest parses the stored request. An empty one means no change.
func (s UserState) TranspositionRequest() (chords.Request, error) {
	if s.Request == "" {
		return chords.ShiftBy(0)
	}
	return chords.ParseRequest(s.Request)
}

// HasSheet reports whether the chat has a sheet to transpose
func (s UserState) HasSheet() bool {
	return s.SheetURL != ""
}
