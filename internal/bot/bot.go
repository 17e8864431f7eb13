package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jamservices/internal/calendar"
	"jamservices/internal/config"
	"jamservices/internal/domain"
	"jamservices/internal/models"
	"jamservices/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

// RateLimiter counts hits per key inside a window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// chatState is what the bot tracks beside the draft: the month shown in the
// date picker and the progress of the details conversation.
type chatState struct {
	view         calendar.ViewState
	viewSet      bool
	field        string
	contact      models.ContactDetails
	awaitingCard bool
}

// Bot drives the booking wizard from Telegram chats. Each chat owns one session.
type Bot struct {
	tgService domain.TelegramService
	sessions  *service.SessionService
	checkout  *service.CheckoutService
	limiter   RateLimiter
	config    config.TelegramConfig
	location  *time.Location
	metrics   *Metrics
	logger    *zerolog.Logger

	mu    sync.Mutex
	chats map[int64]*chatState
}

func NewBot(
	tgService domain.TelegramService,
	cfg config.TelegramConfig,
	sessions *service.SessionService,
	checkout *service.CheckoutService,
	limiter RateLimiter,
	location *time.Location,
	metrics *Metrics,
	logger *zerolog.Logger,
) *Bot {
	if location == nil {
		location = time.Local
	}
	return &Bot{
		tgService: tgService,
		sessions:  sessions,
		checkout:  checkout,
		limiter:   limiter,
		config:    cfg,
		location:  location,
		metrics:   metrics,
		logger:    logger,
		chats:     make(map[int64]*chatState),
	}
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop stops receiving Telegram updates.
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(&l, update, func() {
		var userID int64
		switch {
		case update.Message != nil && update.Message.From != nil:
			userID = update.Message.From.ID
		case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
			userID = update.CallbackQuery.From.ID
		}
		if userID == 0 {
			return
		}

		if !b.allow(updateCtx, userID) {
			if b.metrics != nil {
				b.metrics.RateLimited.Inc()
			}
			l.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
			if update.Message != nil {
				b.sendText(update.Message.Chat.ID, msgLimited)
			}
			return
		}

		if update.CallbackQuery != nil {
			b.countUpdate("callback")
			b.handleCallbackQuery(updateCtx, update.CallbackQuery)
			return
		}

		if update.Message == nil {
			return
		}
		b.countUpdate("message")
		b.handleMessage(updateCtx, update.Message)
	})
}

func (b *Bot) allow(ctx context.Context, userID int64) bool {
	if b.limiter == nil || b.config.RateLimitMessages <= 0 {
		return true
	}
	key := fmt.Sprintf("telegram:%d", userID)
	allowed, err := b.limiter.CheckRateLimit(ctx, key, b.config.RateLimitMessages, b.config.RateLimitWindow)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
		return true
	}
	return allowed
}

func (b *Bot) countUpdate(kind string) {
	if b.metrics != nil {
		b.metrics.UpdatesTotal.WithLabelValues(kind).Inc()
	}
}

// sessionID keys a chat's draft in the session store.
func sessionID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{}
		b.chats[chatID] = st
	}
	return st
}

func (b *Bot) resetChat(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.chats, chatID)
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	if _, err := b.tgService.SendMarkdown(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// show edits messageID in place, or sends a new message when it is zero.
func (b *Bot) show(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	var err error
	switch {
	case messageID != 0:
		_, err = b.tgService.EditMessage(chatID, messageID, text, keyboard)
	case keyboard != nil:
		_, err = b.tgService.SendWithInlineKeyboard(chatID, text, *keyboard)
	default:
		_, err = b.tgService.SendMarkdown(chatID, text)
	}
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to render screen")
	}
}

func (b *Bot) showError(chatID int64, err error) {
	b.sendText(chatID, b.getErrorMessage(err))
}
