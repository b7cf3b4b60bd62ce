package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/cifrabot/internal/bot"
	"github.com/sukalov/cifrabot/internal/bot/common"
	"github.com/sukalov/cifrabot/internal/chords"
	"github.com/sukalov/cifrabot/internal/db"
	"github.com/sukalov/cifrabot/internal/logger"
	"github.com/sukalov/cifrabot/internal/render"
	"github.com/sukalov/cifrabot/internal/sheets"
	"github.com/sukalov/cifrabot/internal/state"
	"github.com/sukalov/cifrabot/internal/users"
)

const handlerTimeout = 30 * time.Second

var errNoSheet = errors.New("no sheet in this chat")

type SheetService interface {
	Fetch(ctx context.Context, url string) (*sheets.Sheet, error)
	SongURL(artist, song string) string
}

type Songbook interface {
	RegisterUser(ctx context.Context, chatID int64, username, firstName, lastName string) (bool, error)
	SaveSong(ctx context.Context, song db.Song) (db.Song, error)
	ListSongs(ctx context.Context, chatID int64) ([]db.Song, error)
	FindSongByID(ctx context.Context, chatID, id int64) (db.Song, error)
	IncrementSongCounter(ctx context.Context, id int64) error
	DeleteSong(ctx context.Context, chatID, id int64) error
}

type Stats interface {
	IncrementSongCount(ctx context.Context, chatID int64, sheetURL string) error
	GetSongCounts(ctx context.Context, chatID int64) (map[string]int, error)
}

type ClientHandlers struct {
	sheets      SheetService
	userManager *state.StateManager
	songbook    Songbook
	stats       Stats
}

// NewClientHandlers wires the handlers. songbook and stats may be nil when
// the bot runs without a database or Redis.
func NewClientHandlers(svc SheetService, userManager *state.StateManager, songbook Songbook, stats Stats) *ClientHandlers {
	return &ClientHandlers{
		sheets:      svc,
		userManager: userManager,
		songbook:    songbook,
		stats:       stats,
	}
}

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	if h.songbook != nil && message.From != nil {
		if _, err := h.songbook.RegisterUser(ctx, message.Chat.ID, message.From.UserName, message.From.FirstName, message.From.LastName); err != nil {
			logger.Error(fmt.Sprintf("error registering user %d: %v", message.Chat.ID, err))
		}
	}

	if args := message.CommandArguments(); args != "" {
		return h.showQuery(ctx, b, message.Chat.ID, message.From, args)
	}
	return b.SendMessage(message.Chat.ID, "olá! "+common.HelpText)
}

func (h *ClientHandlers) getHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	args := message.CommandArguments()
	if args == "" {
		if _, err := h.userManager.Update(ctx, message.Chat.ID, func(s *users.UserState) {
			s.Stage = users.StageAskingSong
		}); err != nil {
			logger.Error(fmt.Sprintf("failed to store stage of chat %d: %v", message.Chat.ID, err))
		}
		return b.SendMessage(message.Chat.ID, "which song? send 'Artist | Song' or a cifraclub link")
	}
	return h.showQuery(ctx, b, message.Chat.ID, message.From, args)
}

func (h *ClientHandlers) messageHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if message.Text == "" || message.IsCommand() {
		return randomMessageHandler(b, update)
	}

	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	if _, err := parseQuery(message.Text); err != nil {
		if s, ok := h.userManager.Get(message.Chat.ID); ok && s.Stage == users.StageAskingSong {
			return b.SendMessage(message.Chat.ID, fmt.Sprintf("%v. for example: Legião Urbana | Tempo Perdido +2", err))
		}
		return randomMessageHandler(b, update)
	}
	return h.showQuery(ctx, b, message.Chat.ID, message.From, message.Text)
}

func (h *ClientHandlers) transposeHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	req, err := chords.ParseRequest(message.CommandArguments())
	if err != nil {
		return b.SendMessage(message.Chat.ID, "usage: /transpose +2, /transpose -3 or /transpose Am")
	}
	return h.applyRequest(ctx, b, message.Chat.ID, req, 0)
}

func (h *ClientHandlers) shiftCallback(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	_, payload := bot.CallbackName(query.Data)
	delta := 1
	if payload == "-1" {
		delta = -1
	}

	_, view, err := h.currentView(ctx, query.Message.Chat.ID)
	if err != nil {
		b.AnswerCallback(query, "")
		return h.replyViewError(b, query.Message.Chat.ID, err)
	}
	if err := b.AnswerCallback(query, ""); err != nil {
		logger.Error(fmt.Sprintf("failed to answer callback: %v", err))
	}
	return h.applyRequest(ctx, b, query.Message.Chat.ID, nudge(view.Semitones, delta), query.Message.MessageID)
}

func (h *ClientHandlers) resetCallback(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	b.AnswerCallback(query, "original key")
	req, _ := chords.ShiftBy(0)
	return h.applyRequest(ctx, b, query.Message.Chat.ID, req, query.Message.MessageID)
}

func (h *ClientHandlers) pdfHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := chatOf(update)
	if update.CallbackQuery != nil {
		b.AnswerCallback(update.CallbackQuery, "making the PDF")
	}
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	_, view, err := h.currentView(ctx, chatID)
	if err != nil {
		return h.replyViewError(b, chatID, err)
	}

	var buf bytes.Buffer
	if err := render.WritePDF(&buf, view); err != nil {
		b.SendMessage(chatID, "could not build the PDF")
		return logger.LogWithErr(fmt.Sprintf("failed to render PDF for %s", view.Sheet.URL), err)
	}
	return b.SendDocument(chatID, render.FileName(view), buf.Bytes(), render.Title(view.Sheet))
}

func (h *ClientHandlers) diffHandler(b *bot.Bot, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	ctx, cancel := context.WithTimeout(b.Context(), handlerTimeout)
	defer cancel()

	_, view, err := h.currentView(ctx, chatID)
	if err != nil {
		return h.replyViewError(b, chatID, err)
	}

	diff, err := render.Diff(view)
	if err != nil {
		return err
	}
	if diff == "" {
		return b.SendMessage(chatID, "the sheet is in its original key, nothing changed")
	}
	for _, chunk := range common.SplitMessage(diff, 0) {
		if _, err := b.SendHTML(chatID, common.Pre(chunk), nil); err != nil {
			return err
		}
	}
	return nil
}

// showQuery fetches what the user asked for and makes it the chat's current sheet
func (h *ClientHandlers) showQuery(ctx context.Context, b *bot.Bot, chatID int64, from *tgbotapi.User, text string) error {
	q, err := parseQuery(text)
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("%v. for example: Legião Urbana | Tempo Perdido +2", err))
	}

	url := q.URL
	if url == "" {
		url = h.sheets.SongURL(q.Artist, q.Song)
	}

	sheet, err := h.sheets.Fetch(ctx, url)
	if err != nil {
		return h.replyFetchError(b, chatID, url, err)
	}

	if _, err := h.userManager.Update(ctx, chatID, func(s *users.UserState) {
		if from != nil {
			s.Username = from.UserName
			s.TgName = strings.TrimSpace(from.FirstName + " " + from.LastName)
		}
		s.SheetURL = sheet.URL
		s.SheetName = render.Title(sheet)
		s.Request = q.Request.String()
		s.Stage = users.StageViewingSheet
	}); err != nil {
		logger.Error(fmt.Sprintf("failed to store session of chat %d: %v", chatID, err))
	}

	if h.stats != nil {
		if err := h.stats.IncrementSongCount(ctx, chatID, sheet.URL); err != nil {
			logger.Error(err.Error())
		}
	}

	view := sheets.NewView(sheet, q.Request)
	if q.Request.IsKey() && sheet.Key == "" {
		b.SendMessage(chatID, "this sheet does not say its key, showing it as written")
	}
	return h.sendSheet(b, chatID, view, 0)
}

// applyRequest stores a new request for the chat sheet and shows the
// result, editing messageID in place when the sheet fits one message
func (h *ClientHandlers) applyRequest(ctx context.Context, b *bot.Bot, chatID int64, req chords.Request, messageID int) error {
	s, ok := h.userManager.Get(chatID)
	if !ok || !s.HasSheet() {
		return h.replyViewError(b, chatID, errNoSheet)
	}

	sheet, err := h.sheets.Fetch(ctx, s.SheetURL)
	if err != nil {
		return h.replyFetchError(b, chatID, s.SheetURL, err)
	}

	if _, err := h.userManager.Update(ctx, chatID, func(s *users.UserState) {
		s.Request = req.String()
		s.Stage = users.StageViewingSheet
	}); err != nil {
		logger.Error(fmt.Sprintf("failed to store session of chat %d: %v", chatID, err))
	}

	return h.sendSheet(b, chatID, sheets.NewView(sheet, req), messageID)
}

func (h *ClientHandlers) sendSheet(b *bot.Bot, chatID int64, view sheets.View, messageID int) error {
	messages := sheetMessages(view)
	keyboard := sheetKeyboard(view.Semitones)

	if messageID != 0 && len(messages) == 1 {
		if err := b.EditHTML(chatID, messageID, messages[0], keyboard); err == nil {
			return nil
		}
	}

	for i, text := range messages {
		var markup *tgbotapi.InlineKeyboardMarkup
		if i == len(messages)-1 {
			markup = &keyboard
		}
		if _, err := b.SendHTML(chatID, text, markup); err != nil {
			return err
		}
	}
	return nil
}

// currentView rebuilds what the chat is looking at from its session
func (h *ClientHandlers) currentView(ctx context.Context, chatID int64) (users.UserState, sheets.View, error) {
	s, ok := h.userManager.Get(chatID)
	if !ok || !s.HasSheet() {
		return s, sheets.View{}, errNoSheet
	}

	sheet, err := h.sheets.Fetch(ctx, s.SheetURL)
	if err != nil {
		return s, sheets.View{}, err
	}

	req, err := s.TranspositionRequest()
	if err != nil {
		req, _ = chords.ShiftBy(0)
	}
	return s, sheets.NewView(sheet, req), nil
}

func (h *ClientHandlers) replyViewError(b *bot.Bot, chatID int64, err error) error {
	if errors.Is(err, errNoSheet) {
		return b.SendMessage(chatID, "there is no sheet yet. try /get Artist | Song")
	}
	return h.replyFetchError(b, chatID, "", err)
}

func (h *ClientHandlers) replyFetchError(b *bot.Bot, chatID int64, url string, err error) error {
	switch {
	case errors.Is(err, sheets.ErrSheetNotFound):
		return b.SendMessage(chatID, "no chords found at "+url)
	case errors.Is(err, sheets.ErrUnsupportedSource):
		return b.SendMessage(chatID, "I only read cifraclub.com.br and amdm.ru links")
	}
	b.SendMessage(chatID, "could not fetch the sheet, try again later")
	return logger.LogWithErr(fmt.Sprintf("failed to fetch %s for chat %d", url, chatID), err)
}

func randomMessageHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(
		update.Message.Chat.ID,
		"I don't get it... send 'Artist | Song' or a link, /help lists everything",
	)
}

func chatOf(update tgbotapi.Update) int64 {
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return update.Message.Chat.ID
}

// SetupHandlers starts clientBot with the client handlers. Each extra
// registrar may add more commands and callbacks first.
func SetupHandlers(
	ctx context.Context,
	clientBot *bot.Bot,
	handlers *ClientHandlers,
	extra ...func(commandHandlers, callbackHandlers map[string]bot.HandlerFunc),
) {
	messageHandlers := []bot.HandlerFunc{handlers.messageHandler}

	commandHandlers := common.GetCommandHandlers()
	commandHandlers["start"] = handlers.startHandler
	commandHandlers["get"] = handlers.getHandler
	commandHandlers["transpose"] = handlers.transposeHandler
	commandHandlers["pdf"] = handlers.pdfHandler
	commandHandlers["diff"] = handlers.diffHandler
	commandHandlers["save"] = handlers.saveHandler
	commandHandlers["songbook"] = handlers.songbookHandler
	commandHandlers["delete"] = handlers.deleteHandler
	commandHandlers["top"] = handlers.topHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["shift"] = handlers.shiftCallback
	callbackHandlers["reset"] = handlers.resetCallback
	callbackHandlers["pdf"] = handlers.pdfHandler
	callbackHandlers["save"] = handlers.saveHandler
	callbackHandlers["open"] = handlers.openCallback

	for _, register := range extra {
		register(commandHandlers, callbackHandlers)
	}

	go clientBot.Start(
		ctx,
		commandHandlers,
		messageHandlers,
		callbackHandlers,
	)
}
