package common

import (
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/cifrabot/internal/bot"
)

// MaxMessageLength is what Telegram accepts in one text message. Chunks
// stay below it to leave room for markup.
const (
	MaxMessageLength = 4096
	chunkLength      = 3800
)

const HelpText = `send me a song and I will transpose it.

/get Artist | Song [shift or key] - fetch from cifraclub
/get <cifraclub or amdm link> [shift or key]
/transpose +2, /transpose -1 or /transpose Am - change the current sheet
/pdf - the current sheet as a PDF
/diff - which chord lines changed
/save - keep the current sheet in your songbook
/songbook - your saved songs
/delete <number> - remove a saved song
/top - songs you asked for the most

a plain message works like /get too.`

func GetCommandHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"help": helpHandler,
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.HandlerFunc {
	return map[string]bot.HandlerFunc{
		"noop": func(b *bot.Bot, update tgbotapi.Update) error {
			return b.AnswerCallback(update.CallbackQuery, "")
		},
	}
}

func helpHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, HelpText)
}

// Pre wraps text in a monospace HTML block
func Pre(text string) string {
	return "<pre>" + tgbotapi.EscapeText(tgbotapi.ModeHTML, text) + "</pre>"
}

func Bold(text string) string {
	return "<b>" + tgbotapi.EscapeText(tgbotapi.ModeHTML, text) + "</b>"
}

// SplitMessage cuts text into pieces of at most limit characters, on line
// breaks where possible
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = chunkLength
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	size := 0
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSuffix(current.String(), "\n"))
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			head, tail := splitRunes(line, limit)
			chunks = append(chunks, head)
			line, n = tail, n-limit
		}
		current.WriteString(line)
		size += n
	}
	flush()
	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
