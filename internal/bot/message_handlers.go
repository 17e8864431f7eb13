package bot

import (
	"context"
	"errors"
	"strings"

	"jamservices/internal/booking"
	"jamservices/internal/models"
	"jamservices/internal/payment"
	"jamservices/internal/service"
	"jamservices/internal/validation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	zerolog.Ctx(ctx).Debug().Int64("chat_id", chatID).Bool("command", msg.IsCommand()).Msg("Handling message")

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "book":
			b.startBooking(ctx, chatID)
		case "cancel", "reset":
			b.cancelBooking(ctx, chatID)
		case "summary":
			b.showSummary(ctx, chatID)
		default:
			b.sendText(chatID, msgHelp)
		}
		return
	}

	st := b.chat(chatID)
	switch {
	case st.awaitingCard:
		b.handleCardMessage(ctx, msg, text)
	case st.field != "":
		b.handleDetailAnswer(ctx, chatID, text)
	default:
		b.sendText(chatID, msgHelp)
	}
}

func (b *Bot) startBooking(ctx context.Context, chatID int64) {
	if _, err := b.sessions.StartWithID(ctx, sessionID(chatID)); err != nil {
		b.showError(chatID, err)
		return
	}
	b.resetChat(chatID)
	b.showServices(chatID, 0)
}

func (b *Bot) cancelBooking(ctx context.Context, chatID int64) {
	if err := b.sessions.Reset(ctx, sessionID(chatID)); err != nil {
		b.showError(chatID, err)
		return
	}
	b.resetChat(chatID)
	b.sendText(chatID, msgCancel)
}

func (b *Bot) showSummary(ctx context.Context, chatID int64) {
	summary, err := b.sessions.Summary(ctx, sessionID(chatID))
	if err != nil {
		b.showError(chatID, err)
		return
	}
	if summary == nil {
		b.sendText(chatID, "Nothing selected yet. Choose a service first.")
		return
	}
	b.sendMarkdown(chatID, summaryText(summary))
}

// handleDetailAnswer validates one contact field and asks for the next. The
// last answer submits the whole form.
func (b *Bot) handleDetailAnswer(ctx context.Context, chatID int64, text string) {
	st := b.chat(chatID)
	if msg := validation.ValidateField(st.field, text); msg != "" {
		b.sendText(chatID, "⚠️ "+msg+"\n\n"+fieldPrompts[st.field])
		return
	}
	setContactField(&st.contact, st.field, text)

	if next := nextContactField(st.field); next != "" {
		st.field = next
		b.sendText(chatID, fieldPrompts[next])
		return
	}
	st.field = ""

	contact := st.contact
	draft, err := b.sessions.Apply(ctx, sessionID(chatID), func(w *booking.Wizard) error {
		return w.FinalizeDetails(contact)
	})
	var fieldErr *validation.Error
	switch {
	case errors.As(err, &fieldErr):
		fields := fieldErr.Fields.Fields()
		st.field = fields[0]
		b.sendText(chatID, "⚠️ "+fieldErr.Fields[st.field]+"\n\n"+fieldPrompts[st.field])
		return
	case errors.Is(err, service.ErrSessionNotFound):
		b.resetChat(chatID)
		b.sendText(chatID, msgSessionExpired)
		return
	case err != nil:
		b.showError(chatID, err)
		return
	}

	st.awaitingCard = true
	summary := booking.NewWizard(b.sessions.Catalog(), draft).Summary()
	b.sendMarkdown(chatID, summaryText(summary)+"\n\n"+contactText(*draft.Contact)+"\n\n"+msgCardFormat)
}

func (b *Bot) handleCardMessage(ctx context.Context, msg *tgbotapi.Message, text string) {
	chatID := msg.Chat.ID

	// Card details should not stay in the chat history.
	if _, err := b.tgService.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		b.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Could not delete card message")
	}

	card, ok := parseCardMessage(text)
	if !ok {
		b.sendMarkdown(chatID, msgCardFormat)
		return
	}

	if err := b.tgService.SendTyping(chatID); err != nil {
		b.logger.Debug().Err(err).Msg("Failed to send typing action")
	}

	confirmed, err := b.checkout.Pay(ctx, sessionID(chatID), card, func(stage string) {
		b.sendText(chatID, "⏳ "+stage)
	})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			b.resetChat(chatID)
		}
		var cardErr *payment.CardError
		if errors.As(err, &cardErr) {
			b.sendMarkdown(chatID, esc(b.getErrorMessage(err))+"\n\n"+msgCardFormat)
			return
		}
		b.showError(chatID, err)
		return
	}

	b.resetChat(chatID)
	b.sendMarkdown(chatID, confirmationText(confirmed))
}

func nextContactField(field string) string {
	for i, f := range contactFields {
		if f == field && i+1 < len(contactFields) {
			return contactFields[i+1]
		}
	}
	return ""
}

func setContactField(c *models.ContactDetails, field, value string) {
	value = strings.TrimSpace(value)
	switch field {
	case validation.FieldName:
		c.Name = value
	case validation.FieldEmail:
		c.Email = value
	case validation.FieldPhone:
		c.Phone = value
	case validation.FieldAddress:
		c.Address = value
	}
}

// parseCardMessage reads "<number> <MM/YY> <CVV> <holder name>". The number
// may be split into groups of digits.
func parseCardMessage(text string) (payment.Card, bool) {
	tokens := strings.Fields(text)

	var number strings.Builder
	i := 0
	for ; i < len(tokens) && number.Len() < 16; i++ {
		tok := strings.ReplaceAll(tokens[i], "-", "")
		if tok == "" || strings.Trim(tok, "0123456789") != "" {
			break
		}
		number.WriteString(tok)
	}

	if number.Len() == 0 || len(tokens)-i < 3 {
		return payment.Card{}, false
	}
	return payment.Card{
		Number:     number.String(),
		Expiry:     tokens[i],
		CVV:        tokens[i+1],
		HolderName: strings.Join(tokens[i+2:], " "),
	}, true
}
