package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/clever-tips/internal/logger"
	"github.com/yourusername/clever-tips/internal/metrics"
	"github.com/yourusername/clever-tips/internal/models"
	"github.com/yourusername/clever-tips/internal/store"
)

const telegramChannel = "telegram"

// DefaultTelegramSendInterval keeps a chat below Telegram's ~30 messages/minute limit
const DefaultTelegramSendInterval = 2 * time.Second

// digestSize bounds the predictions per digest message below Telegram's 4096 character limit
const digestSize = 10

// messageSender is the part of tgbotapi.BotAPI the publisher uses
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramOptions configures a TelegramPublisher
type TelegramOptions struct {
	Token        string
	ChatID       int64
	SendInterval time.Duration
	// Endpoint overrides the Bot API URL template, e.g. "http://host/bot%s/%s"
	Endpoint string
	// Digest sends unpublished predictions as one message per day instead of one each
	Digest bool
}

// TelegramPublisher posts HTML messages to a chat, one per prediction or one
// digest per day. A prediction whose key is already in the key store is not
// sent again.
type TelegramPublisher struct {
	bot       messageSender
	chatID    int64
	keys      store.KeyStore
	formatter *Formatter
	audit     *logger.AuditLogger
	interval  time.Duration
	digest    bool

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramPublisher connects to the Bot API and verifies the token
func NewTelegramPublisher(opts TelegramOptions, keys store.KeyStore, formatter *Formatter, audit *logger.AuditLogger) (*TelegramPublisher, error) {
	if audit == nil {
		audit = logger.NewAuditLogger(logger.NewNopLogger())
	}

	var (
		bot *tgbotapi.BotAPI
		err error
	)
	if opts.Endpoint != "" {
		bot, err = tgbotapi.NewBotAPIWithClient(opts.Token, opts.Endpoint, &http.Client{Timeout: 30 * time.Second})
	} else {
		bot, err = tgbotapi.NewBotAPI(opts.Token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	audit.WithField("bot", bot.Self.UserName).WithField("chat_id", opts.ChatID).Info("Telegram publisher initialized")

	return newTelegramPublisher(bot, opts, keys, formatter, audit), nil
}

func newTelegramPublisher(bot messageSender, opts TelegramOptions, keys store.KeyStore, formatter *Formatter, audit *logger.AuditLogger) *TelegramPublisher {
	if keys == nil {
		keys = store.NewMemoryKeyStore(0)
	}
	if audit == nil {
		audit = logger.NewAuditLogger(logger.NewNopLogger())
	}
	if formatter == nil {
		formatter = NewFormatter(time.UTC)
	}
	interval := opts.SendInterval
	if interval < 0 {
		interval = 0
	}
	return &TelegramPublisher{
		bot:       bot,
		chatID:    opts.ChatID,
		keys:      keys,
		formatter: formatter,
		audit:     audit,
		interval:  interval,
		digest:    opts.Digest,
	}
}

type pendingPrediction struct {
	key        string
	prediction *models.MatchPrediction
}

// Name returns the publisher name
func (t *TelegramPublisher) Name() string {
	return telegramChannel
}

// Publish sends every prediction not yet published. Send failures do not stop
// the batch; they are joined into the returned error.
func (t *TelegramPublisher) Publish(ctx context.Context, predictions []*models.MatchPrediction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending, errs := t.unpublished(ctx, predictions)
	if err := ctx.Err(); err != nil {
		return errors.Join(append(errs, err)...)
	}

	if t.digest {
		for start := 0; start < len(pending); start += digestSize {
			end := min(start+digestSize, len(pending))
			if err := t.publishDigest(ctx, pending[start:end]); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if err := t.publishOne(ctx, item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// unpublished filters out nil predictions and those whose key was already sent
func (t *TelegramPublisher) unpublished(ctx context.Context, predictions []*models.MatchPrediction) ([]pendingPrediction, []error) {
	var (
		pending []pendingPrediction
		errs    []error
	)
	for _, p := range predictions {
		if p == nil {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		key := t.formatter.Key(p)
		seen, err := t.keys.Seen(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("check %s: %w", key, err))
			continue
		}
		if seen {
			t.audit.LogPublishSkipped(telegramChannel, key)
			metrics.RecordDuplicate(telegramChannel)
			continue
		}
		pending = append(pending, pendingPrediction{key: key, prediction: p})
	}
	return pending, errs
}

func (t *TelegramPublisher) publishOne(ctx context.Context, item pendingPrediction) error {
	if err := t.send(ctx, t.formatter.FormatPrediction(item.prediction)); err != nil {
		t.audit.LogPublishFailed(telegramChannel, item.key, err)
		metrics.RecordPublish(telegramChannel, err)
		return fmt.Errorf("send %s: %w", item.key, err)
	}
	metrics.RecordPublish(telegramChannel, nil)
	t.audit.LogPublish(telegramChannel, item.key, 1)

	if err := t.keys.Mark(ctx, item.key); err != nil {
		return fmt.Errorf("mark %s: %w", item.key, err)
	}
	return nil
}

// publishDigest sends items as one message and marks all their keys on success
func (t *TelegramPublisher) publishDigest(ctx context.Context, items []pendingPrediction) error {
	if len(items) == 0 {
		return nil
	}

	batch := make([]*models.MatchPrediction, len(items))
	for i, item := range items {
		batch[i] = item.prediction
	}
	digestKey := items[0].key

	if err := t.send(ctx, t.formatter.FormatDigest(batch[0].Kickoff, batch)); err != nil {
		t.audit.LogPublishFailed(telegramChannel, digestKey, err)
		metrics.RecordPublish(telegramChannel, err)
		return fmt.Errorf("send digest: %w", err)
	}
	metrics.RecordPublish(telegramChannel, nil)
	t.audit.LogPublish(telegramChannel, digestKey, len(items))

	var errs []error
	for _, item := range items {
		if err := t.keys.Mark(ctx, item.key); err != nil {
			errs = append(errs, fmt.Errorf("mark %s: %w", item.key, err))
		}
	}
	return errors.Join(errs...)
}

// send waits out the minimum interval since the previous message, then posts text
func (t *TelegramPublisher) send(ctx context.Context, text string) error {
	if wait := time.Until(t.lastSend.Add(t.interval)); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	_, err := t.bot.Send(msg)
	t.lastSend = time.Now()
	return err
}
