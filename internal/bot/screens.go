package bot

import (
	"jamservices/internal/booking"
	"jamservices/internal/calendar"
	"jamservices/internal/models"
)

func (b *Bot) showServices(chatID int64, messageID int) {
	kb := servicesKeyboard(b.sessions.Catalog().Services())
	b.show(chatID, messageID, msgWelcome, &kb)
}

// render draws the screen of the draft's current step.
func (b *Bot) render(chatID int64, messageID int, draft *models.BookingDraft) {
	summary := booking.NewWizard(b.sessions.Catalog(), draft).Summary()
	withSummary := func(text string) string {
		if summary == nil {
			return text
		}
		return text + "\n\n" + summaryText(summary)
	}

	switch draft.Step {
	case models.StepService:
		if draft.Service == nil {
			b.showServices(chatID, messageID)
			return
		}
		svc, ok := b.sessions.Catalog().Service(draft.Service.ID)
		if !ok {
			svc = *draft.Service
		}
		selected := ""
		if draft.Subcategory != nil {
			selected = draft.Subcategory.ID
		}
		kb := subcategoriesKeyboard(svc, selected)
		b.show(chatID, messageID, withSummary(serviceText(svc)), &kb)

	case models.StepDate:
		now := b.sessions.Now().In(b.location)
		st := b.chat(chatID)
		if !st.viewSet {
			st.view = calendar.NewViewState(now)
			if draft.Date != nil {
				st.view = calendar.NewViewState(*draft.Date)
			}
			st.viewSet = true
		}
		kb := calendarKeyboard(calendar.BuildGrid(st.view, draft.Date, now))
		b.show(chatID, messageID, withSummary(stepTitle(models.StepDate, "pick a date")), &kb)

	case models.StepTime:
		kb := slotsKeyboard(b.sessions.Catalog().TimeSlots(), draft.Time)
		b.show(chatID, messageID, withSummary(stepTitle(models.StepTime, "pick a time slot")), &kb)

	case models.StepDetails:
		b.show(chatID, messageID, withSummary(stepTitle(models.StepDetails, "your details")), nil)
	}
}

// beginDetails starts asking for the contact fields one message at a time.
func (b *Bot) beginDetails(chatID int64) {
	st := b.chat(chatID)
	st.contact = models.ContactDetails{}
	st.awaitingCard = false
	st.field = contactFields[0]
	b.sendText(chatID, fieldPrompts[st.field])
}
