package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/pagerhq/pagerbridge/internal/config"
	"github.com/pagerhq/pagerbridge/internal/handlers"
	"github.com/pagerhq/pagerbridge/internal/logger"
	"github.com/pagerhq/pagerbridge/internal/pager"
	"github.com/pagerhq/pagerbridge/internal/server"
	"github.com/pagerhq/pagerbridge/internal/store"
	"github.com/pagerhq/pagerbridge/internal/telegram"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideStore,
			provideTelegramSender,
			provideDispatcher,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideTelegramWebhookHandler),
			provideServerHandler(providePagerOutboundHandler),
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideStore(lc fx.Lifecycle, cfg config.Config) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	if cfg.Store.PostgresURL != "" {
		s, err = store.OpenPostgres(context.Background(), cfg.Store.PostgresURL)
	} else {
		s, err = store.OpenBolt(cfg.Store.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return s.Close() }})
	return s, nil
}

func provideTelegramSender(log *slog.Logger, cfg config.Config) (*telegram.Sender, error) {
	return telegram.NewSender(log, cfg.Telegram.BotToken)
}

func provideDispatcher(log *slog.Logger, cfg config.Config) *pager.Dispatcher {
	return pager.NewDispatcher(log, cfg.Pager.InboundURL, cfg.Pager.ChannelKey)
}

func provideTelegramWebhookHandler(log *slog.Logger, s store.Store, dispatcher *pager.Dispatcher) *handlers.TelegramWebhookHandler {
	return handlers.NewTelegramWebhookHandler(log, s, dispatcher)
}

func providePagerOutboundHandler(log *slog.Logger, cfg config.Config, s store.Store, sender *telegram.Sender) *handlers.PagerOutboundHandler {
	return handlers.NewPagerOutboundHandler(log, cfg.Pager.ChannelKey, s, sender)
}

type serverParams struct {
	fx.In

	Logger   *slog.Logger
	Config   config.Config
	Handlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.New(params.Logger, params.Config.Server.Addr, params.Handlers)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
