package domain

import "time"

// Wizard layout
const (
	TotalSteps = 4

	StepDetails = 1
	StepSlot    = 2
	StepSummary = 3
	StepPayment = 4
)

// Availability constants
const (
	DefaultHorizonDays  = 14
	BusinessOpenTime    = "10:00"
	BusinessCloseTime   = "18:00"
	SlotDurationMinutes = 30
)

// Consultation fee
const (
	ConsultationFee      int64 = 3000   // rupees
	ConsultationFeeMinor int64 = 300000 // paise
)

// Consultation and payment constants
const (
	Currency                      = "INR"
	PaymentDescription            = "Consultation Booking"
	ConsultationDuration          = "30-45 minutes"
	ConsultationPlatform          = "Google Meet"
	BookingIDPrefix               = "VEXA"
	MainChallengeMinLength        = 200
	ConfirmationPath              = "/confirmation"
	ConfirmationBookingQueryParam = "booking"
)

// Time format constants
const (
	TimeFormat     = "15:04"                  // HH:MM
	DateFormat     = "2006-01-02"             // YYYY-MM-DD
	LongDateFormat = "Monday, 2 January 2006" // summary and confirmation
	TimeZoneLabel  = "IST"
)

// Location is the fixed zone every consultation date is evaluated in (UTC+05:30).
var Location = time.FixedZone(TimeZoneLabel, 5*60*60+30*60)
