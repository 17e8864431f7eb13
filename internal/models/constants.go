package models

const (
	StatusConfirmed = "confirmed"
)

// Wizard steps.
const (
	StepService = 1
	StepDate    = 2
	StepTime    = 3
	StepDetails = 4

	FirstStep = StepService
	LastStep  = StepDetails
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

const (
	// DefaultPlatformFee is charged when a subcategory carries no fee of its own.
	DefaultPlatformFee int64 = 29

	// CurrencySymbol prefixes every rendered amount.
	CurrencySymbol = "₹"

	// BookingIDPrefix starts every confirmed booking id.
	BookingIDPrefix = "SH"

	// DefaultSessionTTL is how long an untouched draft lives, in seconds.
	DefaultSessionTTL = 2 * 60 * 60

	// DefaultHistoryLimit bounds history listings when no limit is given.
	DefaultHistoryLimit = 50

	// PaymentRateLimitAttempts payment attempts allowed per session per window.
	PaymentRateLimitAttempts = 5

	// PaymentRateLimitWindow is the payment attempt window, in seconds.
	PaymentRateLimitWindow = 60

	// PaymentSuccessRate is the share of simulated charges that succeed.
	PaymentSuccessRate = 0.9
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DisplayDateLayout renders dates the way the booking pages show them.
const DisplayDateLayout = "Monday, 2 January 2006"
