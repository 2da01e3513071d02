package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/broker/kucoin"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/engine"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/logger"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/notify"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/store"
	"github.com/dvillalobosb201/kucoin-ai-multibot/internal/tradelog"
)

// failureDelay is the short retry delay after a failed cycle; successful
// cycles wait the configured loop interval instead.
const failureDelay = 5 * time.Second

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// parseRetention parses the retention-days env value, rejecting anything
// that is not a whole non-negative number.
func parseRetention(v string) (int, bool) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to yaml config")
		once       = flag.Bool("once", false, "run a single decision cycle and exit")
		smoke      = flag.Bool("smoke", false, "run a connectivity smoke test and exit")
	)
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = logger.Shutdown(context.Background()) }()

	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		if n, ok := parseRetention(v); ok {
			_ = tradelog.CompressOlder(n)
		} else {
			logger.Warn(ctx, "Invalid TRADER_LOG_RETENTION_DAYS, skipping log compression", "value", v)
		}
	}

	var senders []notify.Sender
	if token, chatID := os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"); token != "" && chatID != "" {
		senders = append(senders, notify.NewTelegramSender(token, chatID))
	}
	notifier := notify.NewNotifier(senders...)

	eng := engine.New(cfg, kucoin.New(), notifier)

	switch {
	case *smoke:
		must(eng.SmokeTest(ctx))
		return
	case *once:
		res, err := eng.RunOnce(ctx)
		must(err)
		b, _ := json.Marshal(res)
		fmt.Println(string(b))
		return
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	logger.Info(ctx, "Bot started", "symbol", cfg.Symbol(), "timeframe", cfg.Timeframe, "loop_seconds", cfg.LoopSeconds)

	interval := time.Duration(cfg.LoopSeconds) * time.Second
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			res, err := eng.RunOnce(ctx)
			if err != nil {
				logger.ErrorWithErr(ctx, "Cycle failed", err, "symbol", cfg.Symbol())
				timer.Reset(failureDelay)
				continue
			}
			b, _ := json.Marshal(res)
			fmt.Println(string(b))
			timer.Reset(interval)
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			return
		case <-ctx.Done():
			return
		}
	}
}
