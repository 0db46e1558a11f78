package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// Telegram sends messages through the Bot API to a fixed set of chats.
type Telegram struct {
	bot        *tgbotapi.BotAPI
	chats      []int64
	attempts   uint64
	newBackOff func() backoff.BackOff
}

type TelegramOption func(*Telegram)

// WithBackOff replaces the exponential retry policy.
func WithBackOff(fn func() backoff.BackOff) TelegramOption {
	return func(t *Telegram) { t.newBackOff = fn }
}

// NewTelegram builds a sender that tries each chat up to attempts times. The
// bot is not contacted until the first send.
func NewTelegram(token, endpoint string, chats []int64, attempts uint64, timeout time.Duration, opts ...TelegramOption) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("notify: bot token is required")
	}
	if len(chats) == 0 {
		return nil, errors.New("notify: no chats to notify")
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot.SetAPIEndpoint(endpoint)

	t := &Telegram{
		bot:      bot,
		chats:    append([]int64(nil), chats...),
		attempts: attempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			return b
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Send delivers text to every chat concurrently. Failures of individual chats
// are joined into the returned error.
func (t *Telegram) Send(ctx context.Context, text string) error {
	errs := make([]error, len(t.chats))
	var g errgroup.Group
	g.SetLimit(4)
	for i, chatID := range t.chats {
		g.Go(func() error {
			if err := t.sendOne(ctx, chatID, text); err != nil {
				errs[i] = fmt.Errorf("chat %d: %w", chatID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (t *Telegram) sendOne(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	op := func() error {
		_, err := t.bot.Send(msg)
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	retries := t.attempts
	if retries > 0 {
		retries--
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), retries), ctx)
	return backoff.Retry(op, policy)
}

// isPermanent reports Bot API rejections that a retry cannot fix.
func isPermanent(err error) bool {
	var ptr *tgbotapi.Error
	if errors.As(err, &ptr) {
		return permanentCode(ptr.Code)
	}
	var val tgbotapi.Error
	if errors.As(err, &val) {
		return permanentCode(val.Code)
	}
	return false
}

func permanentCode(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusUnauthorized ||
		code == http.StatusForbidden || code == http.StatusNotFound
}
