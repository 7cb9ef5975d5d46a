// Package i18n resolves UI-facing label keys to localized text. It is
// a lookup table external to the complaint lifecycle: stored
// notification messages never pass through it.
package i18n

import "github.com/spec-kit/civic-complaints/internal/domain"

// Lang identifies a supported locale.
type Lang string

const (
	English Lang = "en"
	Hindi   Lang = "hi"
	Marathi Lang = "mr"
)

// DefaultLang is the fallback locale.
const DefaultLang = English

var tables = map[Lang]map[string]string{
	English: {
		"app.name":               "eNagarik Seva",
		"status.pending":         "Pending",
		"status.in_progress":     "In Progress",
		"status.resolved":        "Resolved",
		"category.streetlight":   "Streetlight",
		"category.water_supply":  "Water Supply",
		"category.road_potholes": "Road Potholes",
		"category.garbage":       "Garbage",
		"category.other":         "Other",
	},
	Hindi: {
		"app.name":               "ई-नागरिक सेवा",
		"status.pending":         "लंबित",
		"status.in_progress":     "प्रगति पर",
		"status.resolved":        "समाधान हो गया",
		"category.streetlight":   "स्ट्रीट लाइट",
		"category.water_supply":  "जल आपूर्ति",
		"category.road_potholes": "सड़क के गड्ढे",
		"category.garbage":       "कचरा",
		"category.other":         "अन्य",
	},
	Marathi: {
		"app.name":               "ई-नागरिक सेवा",
		"status.pending":         "प्रलंबित",
		"status.in_progress":     "प्रगतीपथावर",
		"status.resolved":        "निराकरण झाले",
		"category.streetlight":   "पथदिवा",
		"category.water_supply":  "पाणी पुरवठा",
		"category.road_potholes": "रस्त्यावरील खड्डे",
		"category.garbage":       "कचरा",
		"category.other":         "इतर",
	},
}

// Supported reports whether the locale has a table.
func Supported(lang Lang) bool {
	_, ok := tables[lang]
	return ok
}

// T resolves a key in the given locale, falling back to English and
// finally to the key itself.
func T(lang Lang, key string) string {
	if table, ok := tables[lang]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if text, ok := tables[DefaultLang][key]; ok {
		return text
	}
	return key
}

var statusKeys = map[domain.ComplaintStatus]string{
	domain.ComplaintStatusPending:    "status.pending",
	domain.ComplaintStatusInProgress: "status.in_progress",
	domain.ComplaintStatusResolved:   "status.resolved",
}

var categoryKeys = map[domain.ComplaintCategory]string{
	domain.CategoryStreetlight:  "category.streetlight",
	domain.CategoryWaterSupply:  "category.water_supply",
	domain.CategoryRoadPotholes: "category.road_potholes",
	domain.CategoryGarbage:      "category.garbage",
	domain.CategoryOther:        "category.other",
}

// StatusLabel returns the localized display label for a status.
func StatusLabel(lang Lang, status domain.ComplaintStatus) string {
	key, ok := statusKeys[status]
	if !ok {
		return string(status)
	}
	return T(lang, key)
}

// CategoryLabel returns the localized display label for a category.
func CategoryLabel(lang Lang, category domain.ComplaintCategory) string {
	key, ok := categoryKeys[category]
	if !ok {
		return string(category)
	}
	return T(lang, key)
}
