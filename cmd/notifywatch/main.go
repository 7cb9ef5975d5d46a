package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-complaints/pkg/notifyclient"
)

// notifywatch polls the notification feed for one account and prints
// unread-count changes as they are observed.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "API base URL")
	token := flag.String("token", "", "bearer token for the account to watch")
	interval := flag.Duration("interval", notifyclient.DefaultPollInterval, "poll interval")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "notifywatch: -token is required")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := notifyclient.NewHTTPSource(*addr, *token, &http.Client{Timeout: 10 * time.Second})
	engine := notifyclient.NewEngine(source, logger, *interval)
	if err := engine.Start(ctx); err != nil {
		logger.Fatal("initial fetch failed", zap.Error(err))
	}
	defer engine.Stop()

	fmt.Printf("watching %s every %s\n", *addr, *interval)

	lastUnread := -1
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("bye")
			return
		case <-ticker.C:
			unread := engine.UnreadCount()
			if unread == lastUnread {
				continue
			}
			lastUnread = unread
			fmt.Printf("%s unread=%d total=%d\n",
				time.Now().Format(time.RFC3339), unread, len(engine.Snapshot()))
		}
	}
}
