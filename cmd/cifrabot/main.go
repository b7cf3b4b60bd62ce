package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/cifrabot/internal/bot"
	"github.com/sukalov/cifrabot/internal/bot/admin"
	"github.com/sukalov/cifrabot/internal/bot/client"
	"github.com/sukalov/cifrabot/internal/db"
	"github.com/sukalov/cifrabot/internal/httputil"
	"github.com/sukalov/cifrabot/internal/logger"
	"github.com/sukalov/cifrabot/internal/redis"
	"github.com/sukalov/cifrabot/internal/sheets"
	"github.com/sukalov/cifrabot/internal/state"
	"github.com/sukalov/cifrabot/internal/utils"
)

var optionalVars = []string{
	"LOG_CHANNEL_ID",
	"REDIS_URL",
	"REDIS_PASSWORD",
	"TURSO_DATABASE_URL",
	"TURSO_AUTH_TOKEN",
	"ADMIN_USERNAMES",
}

func main() {
	env, err := utils.LoadEnv([]string{"BOT_TOKEN"})
	if err != nil {
		log.Fatalf("required env missing: %v", err)
	}
	opt := utils.OptionalEnv(optionalVars)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Init(logger.NewWriterSink(os.Stdout))

	clientBot, err := bot.New("cifrabot", env["BOT_TOKEN"])
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if opt["LOG_CHANNEL_ID"] != "" {
		if err := logger.InitChannel(clientBot); err != nil {
			logger.Error(fmt.Sprintf("logging to channel is off: %v", err))
		}
	}

	var (
		cache    sheets.Cache
		store    state.Store
		stats    client.Stats
		songbook client.Songbook
	)

	if opt["REDIS_URL"] != "" {
		if r := openRedis(ctx); r != nil {
			defer r.Close()
			cache, store, stats = r, r, r
		}
	}

	if opt["TURSO_DATABASE_URL"] != "" {
		if d := openSongbook(ctx); d != nil {
			defer d.Close()
			songbook = d
		}
	}

	svc := sheets.NewService(httputil.NewClient(httputil.Options{}), sheets.Options{Cache: cache})

	userManager := state.NewStateManager(store)
	if err := userManager.Init(ctx); err != nil {
		logger.Error(fmt.Sprintf("starting with empty sessions: %v", err))
	}

	handlers := client.NewClientHandlers(svc, userManager, songbook, stats)
	admins := admin.NewAdminHandlers(userManager, admin.ParseAdmins(opt["ADMIN_USERNAMES"]))
	client.SetupHandlers(ctx, clientBot, handlers, admins.Register)

	logger.Success(fmt.Sprintf("cifrabot started\nredis: %t\nsongbook: %t", store != nil, songbook != nil))

	<-ctx.Done()
	clientBot.Stop()
	logger.Info("cifrabot stopped")
}

// openRedis returns nil when redis is misconfigured or unreachable; the bot
// then runs without cache, stored sessions and stats
func openRedis(ctx context.Context) *redis.DBManager {
	r, err := redis.NewDBManagerFromEnv()
	if err != nil {
		logger.Error(fmt.Sprintf("redis is misconfigured, running without cache and sessions: %v", err))
		return nil
	}
	if err := r.Ping(ctx); err != nil {
		logger.Error(fmt.Sprintf("redis is unreachable, running without cache and sessions: %v", err))
		r.Close()
		return nil
	}
	return r
}

// openSongbook returns nil when the database cannot be opened or migrated
func openSongbook(ctx context.Context) *db.DB {
	d, err := db.OpenFromEnv(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("songbook database is unavailable: %v", err))
		return nil
	}
	if err := d.Migrate(ctx); err != nil {
		logger.Error(fmt.Sprintf("failed to migrate songbook, running without it: %v", err))
		d.Close()
		return nil
	}
	return d
}
