// Package bot wires the resolution pipeline into a Telegram transport.
package bot

import (
	"context"
	"errors"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/karrtopelka/drill-bot/auth"
	"github.com/karrtopelka/drill-bot/fetch"
	"github.com/karrtopelka/drill-bot/key"
	"github.com/karrtopelka/drill-bot/llm"
	"github.com/karrtopelka/drill-bot/log"
	"github.com/karrtopelka/drill-bot/resolve"
	"github.com/karrtopelka/drill-bot/store"
	"github.com/spf13/viper"
)

// Bot binds the transport to the pipeline and its peripherals.
type Bot struct {
	api      *tgbotapi.BotAPI
	resolver *resolve.Resolver
	fetcher  *fetch.Fetcher
	store    *store.Store
	llm      *llm.Client

	albumCap       int
	errorNoticeTTL time.Duration
	translateTo    string
}

// New assembles a bot from the active configuration. The token is read
// from config first and falls back to the system keyring.
func New() (*Bot, error) {
	token := viper.GetString(key.BotToken)
	if token == "" {
		token, _ = auth.GetBotToken()
	}
	if token == "" {
		return nil, errors.New("bot token is not configured")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	resolver, err := resolve.FromConfig()
	if err != nil {
		return nil, err
	}

	db, err := store.Open("")
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:            api,
		resolver:       resolver,
		fetcher:        fetch.FromConfig(),
		store:          db,
		llm:            llm.FromConfig(),
		albumCap:       viper.GetInt(key.SelectorAlbumCap),
		errorNoticeTTL: time.Duration(viper.GetInt(key.BotErrorNoticeTTL)) * time.Second,
		translateTo:    viper.GetString(key.TranslateTarget),
	}, nil
}

// Run consumes updates until the context is cancelled. Webhook mode is
// used when bot.webhook_url is set, long polling otherwise.
func (b *Bot) Run(ctx context.Context) error {
	defer b.store.Close()

	log.Infof("authorized as @%s", b.api.Self.UserName)

	updates, shutdown, err := b.updates(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handle(ctx, update)
		}
	}
}

func (b *Bot) updates(ctx context.Context) (tgbotapi.UpdatesChannel, func(), error) {
	webhookURL := viper.GetString(key.BotWebhookURL)

	if webhookURL == "" {
		cfg := tgbotapi.NewUpdate(0)
		cfg.Timeout = 30
		return b.api.GetUpdatesChan(cfg), b.api.StopReceivingUpdates, nil
	}

	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, nil, err
	}

	if _, err = b.api.Request(webhook); err != nil {
		return nil, nil, err
	}

	addr := viper.GetString(key.BotWebhookAddr)
	server := &http.Server{Addr: addr}
	updates := b.api.ListenForWebhook("/")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("webhook server: %s", err)
		}
	}()

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}

	log.Infof("webhook registered at %s, listening on %s", webhookURL, addr)
	return updates, shutdown, nil
}
