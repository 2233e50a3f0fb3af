/*
Package main is the entry point for the chat client.

It is responsible for loading configuration, initializing the global logging system,
connecting to the chat server, wiring the event distributor to the session reducer,
and running either the terminal view or a headless loop with the optional state inspector.
Operating system interrupt signals (SIGINT, SIGTERM) trigger a graceful shutdown.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"chatsync/internal/app/conn"
	"chatsync/internal/app/eventbus"
	"chatsync/internal/app/session"
	"chatsync/internal/configs"
	"chatsync/internal/handler"
	"chatsync/internal/pkg/errs"
	"chatsync/internal/pkg/limiter"
	"chatsync/internal/pkg/logx"
	"chatsync/internal/pkg/randx"
	"chatsync/internal/view"
)

func main() {
	// Load configuration from environment variables and flags
	cfg, err := configs.LoadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := resolveUsername(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to generate a username: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger. The terminal view owns the screen, so logs go
	// to a file or are discarded unless running headless.
	logOut, closeLog, err := openLogOutput(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logx.InitGlobalLogger(logx.Options{
		Development: cfg.IsDevelopment(),
		Out:         logOut,
		SessionID:   randx.SessionID(),
	})
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("server_url", cfg.ServerURL).
		Str("username", cfg.Username).
		Bool("headless", cfg.Headless).
		Str("inspect_addr", cfg.InspectAddr).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New[string]("frames")

	c, err := conn.Dial(ctx, cfg.ServerURL, connOptions(cfg), bus)
	if err != nil {
		logx.Fatal(err, fatalDialMessage(err), "url", cfg.ServerURL)
	}

	notifier := &view.Notifier{}
	sess := session.New(cfg.Username, c, bus, session.WithOnChange(notifier.Notify))

	var server *http.Server
	if cfg.InspectAddr != "" {
		postLimiter := limiter.New(rate.Limit(cfg.PostRate), cfg.PostBurst)
		go postLimiter.Run(ctx)

		server = &http.Server{
			Addr: cfg.InspectAddr,
			Handler: handler.Router(&handler.AppDeps{
				Session:     sess,
				Conn:        c,
				Config:      cfg,
				PostLimiter: postLimiter,
			}),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		go func() {
			logx.Info(fmt.Sprintf("State inspector listening on http://%s", cfg.InspectAddr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logx.Error(err, "State inspector failed to start")
			}
		}()
	}

	if cfg.Headless {
		select {
		case <-ctx.Done():
			logx.Info("Received shutdown signal. Starting graceful shutdown...")
		case <-c.Done():
			if errs.IsConnection(c.Err()) {
				logx.Warn("Connection to chat server lost.", "error", c.Err().Error())
			} else {
				logx.Info("Connection to chat server closed.")
			}
		}
	} else {
		runView(ctx, sess, c, notifier)
	}

	if server != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logx.Error(err, "State inspector forced to shutdown")
		}
	}

	sess.Close()
	if err := c.Close(); err != nil {
		logx.Warn("Close handshake failed", "error", err.Error())
	}
	c.Wait()

	logx.Info("Client gracefully stopped.")
}

// runView runs the terminal view until the user quits or ctx is cancelled.
func runView(ctx context.Context, sess *session.Session, c *conn.Conn, notifier *view.Notifier) {
	program := tea.NewProgram(view.NewModel(sess, c), tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.SetProgram(program)

	go func() {
		select {
		case <-c.Done():
			program.Send(view.ConnClosedMsg{Err: c.Err()})
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logx.Error(err, "Terminal view exited with error")
	}
}

// resolveUsername fills in a generated nickname when none is configured.
func resolveUsername(cfg *configs.AppConfig) error {
	if cfg.Username != "" {
		return nil
	}

	name, err := randx.UserNickname()
	if err != nil {
		return err
	}
	cfg.Username = name
	return nil
}

// connOptions starts from the connection defaults and applies the configured values.
func connOptions(cfg *configs.AppConfig) conn.Options {
	opts := conn.DefaultOptions()
	if cfg.HandshakeTimeout > 0 {
		opts.HandshakeTimeout = cfg.HandshakeTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteWait = cfg.WriteTimeout
	}
	if cfg.MaxFrameBytes > 0 {
		opts.MaxFrameBytes = cfg.MaxFrameBytes
	}
	if cfg.SendQueueSize > 0 {
		opts.SendQueueSize = cfg.SendQueueSize
	}
	// Zero disables the heartbeat.
	opts.PongWait = cfg.PongWait
	return opts
}

func fatalDialMessage(err error) string {
	if errs.IsConnection(err) {
		return "Could not connect to chat server"
	}
	return "Unexpected error while connecting to chat server"
}

func openLogOutput(cfg *configs.AppConfig) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}

	if cfg.Headless {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}
