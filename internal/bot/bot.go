package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/cifrabot/internal/logger"
)

// HandlerFunc handles one update
type HandlerFunc func(b *Bot, update tgbotapi.Update) error

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	name       string
	ctx        context.Context
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}, 1),
		name:       name,
		ctx:        context.Background(),
	}, nil
}

// Context is cancelled when the bot stops
func (b *Bot) Context() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// Start processes updates until ctx is done or Stop is called. Callback
// handlers are keyed by the part of the callback data before the first colon.
func (b *Bot) Start(
	ctx context.Context,
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	logger.Info(fmt.Sprintf("[%s] authorized on account %s", b.name, b.Client.Self.UserName))

	for {
		select {
		case update := <-b.updateChan:
			go b.processUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
		case <-ctx.Done():
			b.Client.StopReceivingUpdates()
			return
		case <-b.stopChan:
			b.Client.StopReceivingUpdates()
			return
		}
	}
}

// processUpdate handles incoming updates with custom handlers
func (b *Bot) processUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]HandlerFunc,
	messageHandlers []HandlerFunc,
	callbackHandlers map[string]HandlerFunc,
) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] command /%s handler error: %v", b.name, update.Message.Command(), err))
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		name, _ := CallbackName(update.CallbackQuery.Data)
		if handler, exists := callbackHandlers[name]; exists {
			if err := handler(b, update); err != nil {
				logger.Error(fmt.Sprintf("[%s] callback %s handler error: %v", b.name, name, err))
			}
		}
		return
	}

	if update.Message == nil {
		return
	}
	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			logger.Error(fmt.Sprintf("[%s] message handler error: %v", b.name, err))
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	select {
	case b.stopChan <- struct{}{}:
	default:
	}
}

// CallbackName splits callback data "name:payload"
func CallbackName(data string) (name, payload string) {
	name, payload, _ = strings.Cut(data, ":")
	return name, payload
}

// CallbackData builds the data CallbackName takes apart
func CallbackData(name, payload string) string {
	if payload == "" {
		return name
	}
	return name + ":" + payload
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

// SendHTML sends an HTML formatted message, with buttons when markup is not nil
func (b *Bot) SendHTML(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	sent, err := b.Client.Send(msg)
	return sent.MessageID, err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := b.Client.Send(msg)
	return err
}

// EditHTML replaces the text and buttons of a sent message
func (b *Bot) EditHTML(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	_, err := b.Client.Send(edit)
	return err
}

// SendDocument uploads data as a file named name
func (b *Bot) SendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := b.Client.Send(doc)
	return err
}

// AnswerCallback stops the loading indicator on a pressed button
func (b *Bot) AnswerCallback(query *tgbotapi.CallbackQuery, text string) error {
	_, err := b.Client.Request(tgbotapi.NewCallback(query.ID, text))
	return err
}
