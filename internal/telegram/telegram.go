// Package telegram is the outbound-only send capability: one bot, one chat.
// The bot never polls for updates; it exists to deliver status messages.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"golang.org/x/time/rate"

	logx "hwbot/pkg/logx"
)

// ErrSendFailed is the single error kind for delivery problems (timeout,
// auth rejection, transport failure). The watcher classifies it as
// log-only: a failed send must never trigger another send.
var ErrSendFailed = errors.New("telegram send failed")

type Config struct {
	Token  string
	ChatID int64

	// Timeout bounds one send call (transport level).
	Timeout time.Duration

	// RatePerSec is the token-bucket send rate. Defaults to 1.
	RatePerSec int

	// Offline skips the getMe handshake; used by tests.
	Offline bool
}

// Sender delivers plain-text messages to the fixed chat.
type Sender struct {
	bot     *tele.Bot
	chat    tele.ChatID
	limiter *rate.Limiter
	log     logx.Logger
}

func NewSender(cfg Config, log logx.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram: token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram: chat id is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}

	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Offline: cfg.Offline,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Sender{
		bot:     b,
		chat:    tele.ChatID(cfg.ChatID),
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}, nil
}

// SendText delivers one message to the chat. Delivery is rate limited;
// the transport call itself is bounded by the configured timeout.
func (s *Sender) SendText(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrSendFailed, err)
	}
	if _, err := s.bot.Send(s.chat, text); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	s.log.Info("message sent to telegram", logx.String("text", text))
	return nil
}
