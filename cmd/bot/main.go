package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"hwbot/internal/config"
	"hwbot/internal/practicum"
	"hwbot/internal/runtime/supervisor"
	"hwbot/internal/schedule"
	"hwbot/internal/telegram"
	"hwbot/internal/watcher"
	logx "hwbot/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config yaml/json")
	flag.Parse()

	// Secrets first: missing credentials are the only fatal path, and the
	// operator should see every missing variable at once.
	secrets, err := config.LoadSecrets()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal: config:", err)
		os.Exit(1)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	defer logSvc.Close()
	mgr.SetLogger(log.With(logx.String("comp", "config")))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, secrets, mgr, logSvc, log); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, secrets config.Secrets, mgr *config.Manager, logSvc *logx.Service, log logx.Logger) error {
	sched, err := schedule.Parse(cfg.Schedule)
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	client, err := practicum.NewClient(cfg.Endpoint, secrets.PracticumToken, cfg.RequestTimeoutDuration())
	if err != nil {
		return err
	}

	sender, err := telegram.NewSender(telegram.Config{
		Token:      secrets.TelegramToken,
		ChatID:     secrets.ChatID,
		Timeout:    cfg.SendTimeoutDuration(),
		RatePerSec: cfg.Notify.RatePerSec,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return err
	}

	w := watcher.New(client, sender, sched, log.With(logx.String("comp", "watcher")))

	sup := supervisor.New(ctx, supervisor.WithLogger(log.With(logx.String("comp", "supervisor"))))

	// Poll loop. Restart on panic with backoff; clean exit only on ctx done.
	sup.GoRestart("watcher", w.Run, time.Second, 30*time.Second)

	// Config file watch: only the logging section is hot-applied.
	updates := mgr.Subscribe(1)
	sup.Go0("config.watch", func(c context.Context) {
		_ = mgr.Watch(c)
	})
	sup.Go0("config.apply", func(c context.Context) {
		for {
			select {
			case <-c.Done():
				return
			case next, ok := <-updates:
				if !ok {
					return
				}
				logSvc.Apply(logx.Config{
					Level:   next.Logging.Level,
					Console: next.Logging.Console,
					File: logx.FileConfig{
						Enabled: next.Logging.File.Enabled,
						Path:    next.Logging.File.Path,
					},
				})
				log.Info("logging config applied", logx.String("level", next.Logging.Level))
			}
		}
	})

	notifySystemd(sup, log)

	log.Info("hwbot started", logx.String("endpoint", cfg.Endpoint))
	<-ctx.Done()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	_ = sup.Stop(stopCtx)
	mgr.Unsubscribe(updates)
	return nil
}

// notifySystemd reports readiness and, when WATCHDOG_USEC is set, keeps the
// systemd watchdog fed. No-ops outside a Type=notify unit.
func notifySystemd(sup *supervisor.Supervisor, log logx.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warn("sd_notify failed", logx.Err(err))
		return
	}
	if !sent {
		return
	}

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return
	}
	sup.Go0("systemd.watchdog", func(c context.Context) {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-c.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	})
}
