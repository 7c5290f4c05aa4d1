package chat

import (
	"strings"

	"github.com/healthmate/healthmate-api/internal/model"
)

// Canned responses for rule-matched intents. Safety-critical flows
// (emergency numbers, the booking walkthrough) must never depend on the
// external assistant being reachable, so these short-circuit ahead of the
// LLM path.
const (
	bookingResponse = "I'll help you book an appointment! Please tell me:\n\n" +
		"1. **Doctor's name** or **specialization** (e.g., 'cardiologist', 'Dr. Smith')\n\n" +
		"You can also visit the 'Find Doctors' section to browse available doctors and book directly."

	findDoctorResponse = "I can help you find doctors! Please specify:\n\n" +
		"**Search by:**\n" +
		"- Specialization (e.g., cardiologist, pediatrician)\n" +
		"- Doctor's name\n" +
		"- Location (city or area)\n\n" +
		"Example: 'Find cardiologist in Mumbai' or 'Dr. Smith'\n\n" +
		"You can also use the 'Find Doctors' page for a complete search experience."

	emergencyResponse = "**EMERGENCY SERVICES**\n\n" +
		"**Ambulance**: 108\n" +
		"**Police**: 100\n" +
		"**Fire**: 101\n\n" +
		"For non-emergency help, you can:\n" +
		"- Add emergency contacts in the Emergency section\n" +
		"- Save your personal doctor's number\n" +
		"- Add family members' contact information\n\n" +
		"*If this is a medical emergency, please call 108 immediately.*"
)

// Classify maps a raw message to an intent. First matching rule wins;
// booking takes precedence over emergency so "book an appointment, it's
// urgent" still enters the booking flow.
func Classify(message string) model.Intent {
	lower := strings.ToLower(strings.TrimSpace(message))

	if strings.Contains(lower, "book") &&
		(strings.Contains(lower, "appointment") || strings.Contains(lower, "doctor")) {
		return model.IntentBooking
	}
	if strings.Contains(lower, "find doctor") || strings.Contains(lower, "search doctor") {
		return model.IntentFindDoctor
	}
	if strings.Contains(lower, "emergency") || strings.Contains(lower, "ambulance") ||
		strings.Contains(lower, "urgent") {
		return model.IntentEmergency
	}
	return model.IntentGeneral
}

// CannedResponse returns the pre-authored reply for a rule-matched intent,
// or "" for general questions, which go to the LLM gateway.
func CannedResponse(intent model.Intent) string {
	switch intent {
	case model.IntentBooking:
		return bookingResponse
	case model.IntentFindDoctor:
		return findDoctorResponse
	case model.IntentEmergency:
		return emergencyResponse
	default:
		return ""
	}
}
