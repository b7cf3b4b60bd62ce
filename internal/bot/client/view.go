package client

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/cifrabot/internal/bot"
	"github.com/sukalov/cifrabot/internal/bot/common"
	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/render"
	"github.com/sukalov/cifrabot/internal/sheets"
)

// sheetMessages renders a view as one or more HTML messages, header first
func sheetMessages(v sheets.View) []string {
	header := render.HeaderLines(v)
	var b strings.Builder
	b.WriteString(common.Bold(header[0]))
	for _, line := range header[1:] {
		b.WriteString("\n" + tgbotapi.EscapeText(tgbotapi.ModeHTML, line))
	}
	b.WriteString("\n\n")

	chunks := common.SplitMessage(v.Text, 0)
	messages := make([]string, len(chunks))
	for i, chunk := range chunks {
		messages[i] = common.Pre(chunk)
	}
	messages[0] = b.String() + messages[0]
	return messages
}

func sheetKeyboard(semitones int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("-1", bot.CallbackData("shift", "-1")),
			tgbotapi.NewInlineKeyboardButtonData(shiftLabel(semitones), bot.CallbackData("reset", "")),
			tgbotapi.NewInlineKeyboardButtonData("+1", bot.CallbackData("shift", "+1")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("PDF", bot.CallbackData("pdf", "")),
			tgbotapi.NewInlineKeyboardButtonData("save", bot.CallbackData("save", "")),
		),
	)
}

func shiftLabel(semitones int) string {
	if semitones > 0 {
		return "+" + strconv.Itoa(semitones)
	}
	return strconv.Itoa(semitones)
}

// nudge moves a view by delta semitones, folding a full octave back to zero
func nudge(current, delta int) chords.Request {
	n := (current + delta) % 12
	req, _ := chords.ShiftBy(n)
	return req
}
