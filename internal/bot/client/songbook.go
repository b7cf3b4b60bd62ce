package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/cifrabot/internal/bot"
	"github.com/sukalov/cifrabot/internal/db"
	"github.com/sukalov/cifrabot/internal/logger"
)

const (
	maxSongbookButtons = 20
	topSize            = 5
)

func (h *ClientHandlers) saveHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := chatOf(update)
	if update.CallbackQuery != nil {
		b.AnswerCallback(update.CallbackQuery, "")
	}
	if h.songbook == nil {
		return b.SendMessage(chatID, "the songbook is not available right now")
	}

	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	s, view, err := h.currentView(ctx, chatID)
	if err != nil {
		return h.replyViewError(b, chatID, err)
	}

	song, err := h.songbook.SaveSong(ctx, db.Song{
		ChatID:      chatID,
		URL:         view.Sheet.URL,
		Artist:      view.Sheet.Artist,
		Title:       view.Sheet.Title,
		OriginalKey: nullString(view.Sheet.Key),
		Request:     nullString(savedRequest(s.Request)),
	})
	if err != nil {
		b.SendMessage(chatID, "could not save the song")
		return logger.LogWithErr(fmt.Sprintf("failed to save %s for chat %d", view.Sheet.URL, chatID), err)
	}
	return b.SendMessage(chatID, fmt.Sprintf("saved as #%d: %s", song.ID, db.FormatSongName(song)))
}

func (h *ClientHandlers) songbookHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.songbook == nil {
		return b.SendMessage(chatID, "the songbook is not available right now")
	}

	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	songs, err := h.songbook.ListSongs(ctx, chatID)
	if err != nil {
		return logger.LogWithErr(fmt.Sprintf("failed to list songbook of chat %d", chatID), err)
	}
	if len(songs) == 0 {
		return b.SendMessage(chatID, "your songbook is empty. open a sheet and press save")
	}

	text, keyboard := songbookMessage(songs)
	return b.SendMessageWithButtons(chatID, text, keyboard)
}

func songbookMessage(songs []db.Song) (string, tgbotapi.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString("your songbook:\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range songs {
		name := db.FormatSongName(song)
		fmt.Fprintf(&b, "#%d %s\n", song.ID, name)
		if len(rows) < maxSongbookButtons {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(name, bot.CallbackData("open", strconv.FormatInt(song.ID, 10))),
			))
		}
	}
	if len(songs) > maxSongbookButtons {
		fmt.Fprintf(&b, "\n(buttons for the first %d of %d)", maxSongbookButtons, len(songs))
	}
	return strings.TrimSuffix(b.String(), "\n"), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (h *ClientHandlers) openCallback(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID
	b.AnswerCallback(query, "")
	if h.songbook == nil {
		return b.SendMessage(chatID, "the songbook is not available right now")
	}

	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	_, payload := bot.CallbackName(query.Data)
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return fmt.Errorf("bad songbook callback %q: %w", query.Data, err)
	}

	song, err := h.songbook.FindSongByID(ctx, chatID, id)
	if errors.Is(err, db.ErrSongNotFound) {
		return b.SendMessage(chatID, "that song is no longer in your songbook")
	}
	if err != nil {
		return err
	}
	if err := h.songbook.IncrementSongCounter(ctx, song.ID); err != nil {
		logger.Error(err.Error())
	}

	text := song.URL
	if song.Request.Valid {
		text += " " + song.Request.String
	}
	return h.showQuery(ctx, b, chatID, query.From, text)
}

func (h *ClientHandlers) deleteHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.songbook == nil {
		return b.SendMessage(chatID, "the songbook is not available right now")
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(update.Message.CommandArguments()), "#"), 10, 64)
	if err != nil {
		return b.SendMessage(chatID, "usage: /delete <number from /songbook>")
	}

	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	if err := h.songbook.DeleteSong(ctx, chatID, id); err != nil {
		if errors.Is(err, db.ErrSongNotFound) {
			return b.SendMessage(chatID, fmt.Sprintf("there is no #%d in your songbook", id))
		}
		return err
	}
	return b.SendMessage(chatID, fmt.Sprintf("#%d removed", id))
}

func (h *ClientHandlers) topHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if h.stats == nil {
		return b.SendMessage(chatID, "stats are not available right now")
	}

	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	counts, err := h.stats.GetSongCounts(ctx, chatID)
	if err != nil {
		return logger.LogWithErr(fmt.Sprintf("failed to read stats of chat %d", chatID), err)
	}
	if len(counts) == 0 {
		return b.SendMessage(chatID, "you have not asked for any song yet")
	}
	return b.SendMessage(chatID, topMessage(counts, topSize))
}

type songCount struct {
	url   string
	count int
}

func topMessage(counts map[string]int, n int) string {
	list := make([]songCount, 0, len(counts))
	for url, c := range counts {
		list = append(list, songCount{url, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].url < list[j].url
	})
	if len(list) > n {
		list = list[:n]
	}

	var b strings.Builder
	b.WriteString("your most requested songs:\n")
	for i, sc := range list {
		fmt.Fprintf(&b, "\n%d. %s (%d)", i+1, sc.url, sc.count)
	}
	return b.String()
}

// savedRequest drops the no-op request so the songbook shows nothing for it
func savedRequest(req string) string {
	if req == "0" {
		return ""
	}
	return req
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
