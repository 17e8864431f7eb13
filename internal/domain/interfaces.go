package domain

import (
	"context"
	"time"

	"jamservices/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// DraftRepository stores in-progress booking drafts keyed by session id.
type DraftRepository interface {
	GetDraft(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	SaveDraft(ctx context.Context, draft *models.BookingDraft) error
	ClearDraft(ctx context.Context, sessionID string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	// AcquireLock claims key for ttl without waiting. The token releases it.
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// BookingRepository keeps confirmed bookings.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.ConfirmedBooking) error
	GetBooking(ctx context.Context, id string) (*models.ConfirmedBooking, error)
	ListBookings(ctx context.Context, limit int) ([]*models.ConfirmedBooking, error)
	ListBookingsByEmail(ctx context.Context, email string) ([]*models.ConfirmedBooking, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	SendTyping(chatID int64) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
