package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"jamservices/internal/booking"
	"jamservices/internal/calendar"
	"jamservices/internal/models"
	"jamservices/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		b.answer(callback.ID, "")
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data
	notice := ""

	zerolog.Ctx(ctx).Debug().Int64("chat_id", chatID).Str("data", data).Msg("Handling callback")

	switch {
	case data == cbNoop:

	case data == cbServices:
		b.showServices(chatID, messageID)

	case strings.HasPrefix(data, cbService):
		id := strings.TrimPrefix(data, cbService)
		notice = b.selectService(ctx, chatID, messageID, id)

	case strings.HasPrefix(data, cbSubcategory):
		id := strings.TrimPrefix(data, cbSubcategory)
		notice = b.applyChoice(ctx, chatID, messageID, msgNoChanges, func(w *booking.Wizard) bool {
			return w.SelectSubcategory(id)
		})

	case strings.HasPrefix(data, cbCalendar):
		notice = b.changeMonth(ctx, chatID, messageID, strings.TrimPrefix(data, cbCalendar))

	case strings.HasPrefix(data, cbDate):
		date, err := calendar.ParseDate(strings.TrimPrefix(data, cbDate), b.location)
		if err != nil {
			notice = msgNoChanges
			break
		}
		notice = b.applyChoice(ctx, chatID, messageID, msgPastDate, func(w *booking.Wizard) bool {
			return w.SelectDate(date)
		})

	case strings.HasPrefix(data, cbSlot):
		slots := b.sessions.Catalog().TimeSlots()
		idx, err := strconv.Atoi(strings.TrimPrefix(data, cbSlot))
		if err != nil || idx < 0 || idx >= len(slots) {
			notice = msgNoChanges
			break
		}
		notice = b.applyChoice(ctx, chatID, messageID, msgNoChanges, func(w *booking.Wizard) bool {
			return w.SelectTime(slots[idx])
		})

	case data == cbNext:
		notice = b.advance(ctx, chatID, messageID)

	case data == cbBack:
		notice = b.retreat(ctx, chatID, messageID)

	default:
		notice = msgNoChanges
	}

	b.answer(callback.ID, notice)
}

func (b *Bot) answer(callbackID, text string) {
	if err := b.tgService.AnswerCallback(callbackID, text); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to answer callback")
	}
}

// selectService opens a service. An expired session is restarted first.
func (b *Bot) selectService(ctx context.Context, chatID int64, messageID int, serviceID string) string {
	notice := b.applyChoice(ctx, chatID, messageID, msgNoChanges, func(w *booking.Wizard) bool {
		return w.SelectService(serviceID)
	})
	if notice != msgSessionExpired {
		return notice
	}

	if _, err := b.sessions.StartWithID(ctx, sessionID(chatID)); err != nil {
		b.showError(chatID, err)
		return ""
	}
	b.resetChat(chatID)
	return b.applyChoice(ctx, chatID, messageID, msgNoChanges, func(w *booking.Wizard) bool {
		return w.SelectService(serviceID)
	})
}

// applyChoice runs a selection and redraws the step. ignored is the callback
// notice when the wizard refuses the input.
func (b *Bot) applyChoice(
	ctx context.Context,
	chatID int64,
	messageID int,
	ignored string,
	choose func(w *booking.Wizard) bool,
) string {
	var applied bool
	draft, err := b.sessions.Apply(ctx, sessionID(chatID), func(w *booking.Wizard) error {
		applied = choose(w)
		return nil
	})
	if err != nil {
		return b.callbackError(chatID, err)
	}
	if !applied {
		return ignored
	}
	b.render(chatID, messageID, draft)
	return ""
}

func (b *Bot) changeMonth(ctx context.Context, chatID int64, messageID int, value string) string {
	month, err := time.ParseInLocation(calendarMonthLayout, value, b.location)
	if err != nil {
		return msgNoChanges
	}
	draft, err := b.sessions.Get(ctx, sessionID(chatID))
	if err != nil {
		return b.callbackError(chatID, err)
	}
	if draft.Step != models.StepDate {
		return msgNoChanges
	}

	st := b.chat(chatID)
	st.view = calendar.NewViewState(month)
	st.viewSet = true
	b.render(chatID, messageID, draft)
	return ""
}

func (b *Bot) advance(ctx context.Context, chatID int64, messageID int) string {
	draft, err := b.sessions.Apply(ctx, sessionID(chatID), func(w *booking.Wizard) error {
		return w.Advance()
	})
	var stepErr *booking.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Message
	}
	if err != nil {
		return b.callbackError(chatID, err)
	}

	b.render(chatID, messageID, draft)
	if draft.Step == models.StepDetails {
		b.beginDetails(chatID)
	}
	return ""
}

func (b *Bot) retreat(ctx context.Context, chatID int64, messageID int) string {
	var moved bool
	draft, err := b.sessions.Apply(ctx, sessionID(chatID), func(w *booking.Wizard) error {
		moved = w.Retreat()
		return nil
	})
	if err != nil {
		return b.callbackError(chatID, err)
	}
	if !moved {
		b.showServices(chatID, messageID)
		return ""
	}

	st := b.chat(chatID)
	st.field = ""
	st.awaitingCard = false
	b.render(chatID, messageID, draft)
	return ""
}

// callbackError turns a failed wizard call into a short callback notice,
// logging what the user can not act on.
func (b *Bot) callbackError(chatID int64, err error) string {
	if errors.Is(err, service.ErrSessionNotFound) {
		b.resetChat(chatID)
		return msgSessionExpired
	}
	b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Wizard operation failed")
	return b.getErrorMessage(err)
}
