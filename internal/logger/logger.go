package logger

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/sukalov/cifrabot/internal/utils"
	"github.com/sukalov/cifrabot/internal/utils/e"
)

var (
	ChannelID int64
	mu        sync.RWMutex
	sink      Sink
	now       = time.Now
)

// Sink receives formatted log lines
type Sink interface {
	SendLog(text string) error
}

// BotClient is anything that can post a message to a Telegram chat
type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init routes all log calls to s. A nil sink turns logging off.
func Init(s Sink) {
	mu.Lock()
	defer mu.Unlock()
	sink = s
}

// InitChannel sends logs to the Telegram channel named by LOG_CHANNEL_ID.
// Delivery is asynchronous so a slow API never blocks a handler.
func InitChannel(client BotClient) error {
	env, err := utils.LoadEnv([]string{"LOG_CHANNEL_ID"})
	if err != nil {
		return fmt.Errorf("failed to load LOG_CHANNEL_ID: %w", err)
	}

	id, err := strconv.ParseInt(env["LOG_CHANNEL_ID"], 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
	}

	ChannelID = id
	Init(&channelSink{client: client, chatID: id})
	return nil
}

type channelSink struct {
	client BotClient
	chatID int64
}

func (c *channelSink) SendLog(text string) error {
	go func() {
		if err := c.client.SendMessage(c.chatID, text); err != nil {
			fmt.Printf("Failed to send log to channel: %v\nLog was: %s\n", err, text)
		}
	}()
	return nil
}

// WriterSink writes log lines to an io.Writer, one entry per write
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) SendLog(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, text)
	return err
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	sendLog("🔍 DEBUG", message)
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	mu.RLock()
	s := sink
	mu.RUnlock()
	if s == nil {
		return
	}

	timestamp := now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	if err := s.SendLog(logMessage); err != nil {
		fmt.Printf("Failed to write log: %v\nLog was: %s\n", err, logMessage)
	}
}

// LogWithErr logs message as info, or as an error when err is set, and
// returns err wrapped with message
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	msg := fmt.Sprintf("%s\nError: %v", message, err)
	Error(msg)

	return e.Wrap(message, err)
}
