// relayclient connects to the relay endpoint, sends every stdin line as a
// text message and prints everything the relay delivers.
// Usage: go run ./cmd/relayclient --url ws://localhost:3000/ws
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:3000/ws", "relay WebSocket URL")
	origin := flag.String("origin", "", "Origin header to send")
	language := flag.String("language", "", "X-Language header to send")
	statsEvery := flag.Duration("stats", 10*time.Second, "stats interval (0 disables)")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	header := http.Header{}
	if *origin != "" {
		header.Set("Origin", *origin)
	}
	if *language != "" {
		header.Set("X-Language", *language)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, *url, header)
	if err != nil {
		if resp != nil {
			logger.Error("dial failed", "url", *url, "status", resp.Status, "error", err)
		} else {
			logger.Error("dial failed", "url", *url, "error", err)
		}
		os.Exit(1)
	}
	defer conn.Close()

	logger.Info("connected", "url", *url)

	var sent, received atomic.Int64

	// Reader: relay → stdout
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("relay closed connection")
				} else if ctx.Err() == nil {
					logger.Warn("read failed", "error", err)
				}
				cancel()
				return
			}
			received.Add(1)
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), data)
		}
	}()

	// Writer: stdin → relay
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := conn.WriteMessage(websocket.TextMessage, scanner.Bytes()); err != nil {
				logger.Warn("write failed", "error", err)
				cancel()
				return
			}
			sent.Add(1)
		}
	}()

	// Stats printer
	if *statsEvery > 0 {
		go func() {
			ticker := time.NewTicker(*statsEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					logger.Info("stats", "sent", sent.Load(), "received", received.Load())
				}
			}
		}()
	}

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("closing connection...")
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))

	select {
	case <-readDone:
	case <-time.After(2 * time.Second):
	}

	logger.Info("shutdown complete", "sent", sent.Load(), "received", received.Load())
}
