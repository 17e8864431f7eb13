package booking

import (
	"time"

	"jamservices/internal/calendar"
	"jamservices/internal/catalog"
	"jamservices/internal/models"
	"jamservices/internal/pricing"
	"jamservices/internal/validation"
)

// User-facing notifications for a blocked step.
const (
	MsgSelectCategory = "Please select a service category"
	MsgSelectDate     = "Please select a date"
	MsgSelectTime     = "Please select a time slot"
)

// StepHook is called after the wizard enters a new step.
type StepHook func(step int)

// Option configures a Wizard.
type Option func(*Wizard)

// WithClock sets the source of "now" used for past-date checks.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		if now != nil {
			w.now = now
		}
	}
}

// WithStepHook registers a hook for "entering step N" notifications.
func WithStepHook(hook StepHook) Option {
	return func(w *Wizard) {
		if hook != nil {
			w.hooks = append(w.hooks, hook)
		}
	}
}

// Wizard drives one booking draft through its four steps. It is not safe for
// concurrent use; each session owns its own Wizard.
type Wizard struct {
	catalog *catalog.Catalog
	draft   *models.BookingDraft
	now     func() time.Time
	hooks   []StepHook
}

// NewWizard wraps draft, or a fresh draft when nil.
func NewWizard(c *catalog.Catalog, draft *models.BookingDraft, opts ...Option) *Wizard {
	if draft == nil {
		draft = models.NewBookingDraft("")
	}
	if draft.Step < models.FirstStep || draft.Step > models.LastStep {
		draft.Step = models.FirstStep
	}

	w := &Wizard{catalog: c, draft: draft, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current step, 1..4.
func (w *Wizard) Step() int { return w.draft.Step }

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() models.BookingDraft { return w.draft.Clone() }

// Summary is the order summary for the current selections.
func (w *Wizard) Summary() *models.OrderSummary { return pricing.BuildSummary(w.draft) }

// SelectService opens the wizard on a service. A subcategory from another
// service is dropped.
func (w *Wizard) SelectService(serviceID string) bool {
	svc, ok := w.catalog.Service(serviceID)
	if !ok {
		return false
	}

	if w.draft.Service == nil || w.draft.Service.ID != svc.ID {
		w.draft.Subcategory = nil
	}
	w.draft.Service = &svc
	w.draft.Step = models.StepService
	w.draft.ReadyForPayment = false
	w.touch()
	return true
}

// SelectSubcategory sets the subcategory while step 1 is active. Ids that do not
// resolve within the selected service are ignored.
func (w *Wizard) SelectSubcategory(subcategoryID string) bool {
	if w.draft.Step != models.StepService || w.draft.Service == nil {
		return false
	}
	sub, ok := w.catalog.Subcategory(w.draft.Service.ID, subcategoryID)
	if !ok {
		return false
	}
	w.draft.Subcategory = &sub
	w.touch()
	return true
}

// SelectDate stores the calendar day unless it is in the past. "Today" is taken
// in the date's own zone. The selected time slot is kept as is.
func (w *Wizard) SelectDate(date time.Time) bool {
	if calendar.IsPastDate(date, w.now().In(date.Location())) {
		return false
	}
	day := calendar.StartOfDay(date)
	w.draft.Date = &day
	w.touch()
	return true
}

// SelectTime sets the slot. Last write wins.
func (w *Wizard) SelectTime(slot string) bool {
	if !w.catalog.IsTimeSlot(slot) {
		return false
	}
	w.draft.Time = slot
	w.touch()
	return true
}

// Advance moves to the next step when the current one is complete.
func (w *Wizard) Advance() error {
	if err := w.validateStep(); err != nil {
		return err
	}
	w.draft.Step++
	w.touch()
	w.enterStep(w.draft.Step)
	return nil
}

// Retreat moves back one step. No-op at the first step.
func (w *Wizard) Retreat() bool {
	if w.draft.Step <= models.FirstStep {
		return false
	}
	w.draft.Step--
	w.draft.ReadyForPayment = false
	w.touch()
	return true
}

// FinalizeDetails validates and stores the contact form at step 4. On failure
// the returned error is a *validation.Error and nothing is stored.
func (w *Wizard) FinalizeDetails(details models.ContactDetails) error {
	if w.draft.Step != models.StepDetails {
		return ErrNotAtDetails
	}
	if errs := validation.ValidateContact(details); len(errs) > 0 {
		return &validation.Error{Fields: errs}
	}

	trimmed := details.Trimmed()
	w.draft.Contact = &trimmed
	w.draft.ReadyForPayment = true
	w.touch()
	return nil
}

// Reset discards every selection, keeping the session id.
func (w *Wizard) Reset() {
	*w.draft = *models.NewBookingDraft(w.draft.SessionID)
	w.touch()
}

func (w *Wizard) validateStep() error {
	switch w.draft.Step {
	case models.StepService:
		if w.draft.Subcategory == nil {
			return &StepError{Step: models.StepService, Message: MsgSelectCategory, Err: ErrSubcategoryRequired}
		}
	case models.StepDate:
		if w.draft.Date == nil {
			return &StepError{Step: models.StepDate, Message: MsgSelectDate, Err: ErrDateRequired}
		}
	case models.StepTime:
		if w.draft.Time == "" {
			return &StepError{Step: models.StepTime, Message: MsgSelectTime, Err: ErrTimeRequired}
		}
	default:
		return ErrUseFinalize
	}
	return nil
}

func (w *Wizard) enterStep(step int) {
	for _, hook := range w.hooks {
		hook(step)
	}
}

func (w *Wizard) touch() {
	w.draft.UpdatedAt = w.now()
}
