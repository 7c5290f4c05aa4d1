package llm

// Static medical knowledge embedded into the system prompt. Mirrors the
// curated disease table the assistant grounds its answers on; this is prompt
// material, not a diagnostic database.

type diseaseEntry struct {
	Symptoms        []string `json:"symptoms"`
	Precautions     []string `json:"precautions"`
	WhenToSeeDoctor string   `json:"when_to_see_doctor"`
}

type knowledgeGraph struct {
	Diseases         map[string]diseaseEntry      `json:"diseases"`
	EmergencyNumbers map[string]map[string]string `json:"emergency_numbers"`
}

var medicalKnowledgeGraph = knowledgeGraph{
	Diseases: map[string]diseaseEntry{
		"fever": {
			Symptoms:        []string{"high temperature", "headache", "body aches", "fatigue"},
			Precautions:     []string{"Rest", "Stay hydrated", "Take paracetamol", "Monitor temperature"},
			WhenToSeeDoctor: "If fever exceeds 103°F or persists for more than 3 days",
		},
		"dengue": {
			Symptoms:        []string{"high fever", "severe headache", "eye pain", "muscle pain", "rash"},
			Precautions:     []string{"Use mosquito nets", "Eliminate stagnant water", "Wear full sleeves", "Use repellent"},
			WhenToSeeDoctor: "Immediately if you suspect dengue - can be life threatening",
		},
		"covid19": {
			Symptoms:        []string{"fever", "cough", "difficulty breathing", "loss of taste/smell"},
			Precautions:     []string{"Wear masks", "Maintain social distance", "Sanitize hands", "Get vaccinated"},
			WhenToSeeDoctor: "If breathing difficulty or oxygen levels drop",
		},
	},
	EmergencyNumbers: map[string]map[string]string{
		"india": {
			"ambulance":      "108",
			"police":         "100",
			"fire":           "101",
			"women_helpline": "1091",
		},
	},
}

// SupportedLanguages maps language codes accepted by the gateway to the
// names used in the system prompt.
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"es": "Spanish",
	"fr": "French",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"bn": "Bengali",
	"mr": "Marathi",
	"gu": "Gujarati",
	"ml": "Malayalam",
	"pa": "Punjabi",
}
