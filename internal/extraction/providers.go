package extraction

import (
	"regexp"
	"strings"
)

// ProviderEntry is static reference data describing one known utility
// provider. The table is load-once and read-only for the life of the process.
type ProviderEntry struct {
	Name    string
	Type    UtilityType
	Pattern *regexp.Regexp
}

// Known providers of the Croatian utility market. Iteration is in table
// order and the first match wins, so more specific entries must come before
// generic ones. Hrvatski Telekom and A1 appear twice (internet and phone);
// header keyword cues narrow the search before the full scan runs.
var providers = []ProviderEntry{
	// Electricity
	{Name: "HEP", Type: Electricity, Pattern: regexp.MustCompile(`(?i)hep|hrvatska elektroprivreda`)},
	{Name: "HEP Elektra", Type: Electricity, Pattern: regexp.MustCompile(`(?i)hep elektra|elektra`)},
	{Name: "HEP ODS", Type: Electricity, Pattern: regexp.MustCompile(`(?i)hep ods|operator distribucijskog sustava`)},

	// Water
	{Name: "Hrvatske vode", Type: Water, Pattern: regexp.MustCompile(`(?i)hrvatske vode|vodovod`)},
	{Name: "Vodoopskrba i odvodnja", Type: Water, Pattern: regexp.MustCompile(`(?i)vodoopskrba|odvodnja`)},
	{Name: "Zagrebački holding - Vodoopskrba", Type: Water, Pattern: regexp.MustCompile(`(?i)zagrebački holding`)},

	// Gas
	{Name: "Gradska plinara Zagreb", Type: Gas, Pattern: regexp.MustCompile(`(?i)gradska plinara|plinara zagreb`)},
	{Name: "Međimurje-plin", Type: Gas, Pattern: regexp.MustCompile(`(?i)međimurje[- ]plin`)},
	{Name: "Plinacro", Type: Gas, Pattern: regexp.MustCompile(`(?i)plinacro`)},

	// Internet
	{Name: "Hrvatski Telekom", Type: Internet, Pattern: regexp.MustCompile(`(?i)hrvatski telekom|\bht\b|t-com|t com`)},
	{Name: "A1", Type: Internet, Pattern: regexp.MustCompile(`(?i)\ba1\b|\bvip\b`)}, // A1 was formerly VIP
	{Name: "Iskon", Type: Internet, Pattern: regexp.MustCompile(`(?i)iskon`)},
	{Name: "Optima Telekom", Type: Internet, Pattern: regexp.MustCompile(`(?i)optima`)},

	// Phone
	{Name: "Hrvatski Telekom", Type: Phone, Pattern: regexp.MustCompile(`(?i)hrvatski telekom|\bht\b|t-mobile`)},
	{Name: "A1", Type: Phone, Pattern: regexp.MustCompile(`(?i)\ba1\b|\bvip\b`)},
	{Name: "Telemach", Type: Phone, Pattern: regexp.MustCompile(`(?i)telemach|tele2`)}, // Telemach was formerly Tele2

	// TV
	{Name: "Hrvatska Radiotelevizija", Type: TV, Pattern: regexp.MustCompile(`(?i)hrvatska radiotelevizija|\bhrt\b|rtv pristojba|pristojba`)},
}

// Header keyword cues used only where the table holds the same provider name
// under more than one utility type. A cue match restricts the first scan to
// that type's sub-table, so an internet bill from Hrvatski Telekom does not
// land on the phone entry (or vice versa) by table order alone.
var typeCues = []struct {
	cueType UtilityType
	pattern *regexp.Regexp
}{
	{Internet, regexp.MustCompile(`(?i)internet`)},
	{Phone, regexp.MustCompile(`(?i)mobilne usluge|mobitel|mobilni|telefon`)},
}

// ClassifyProvider finds the best-matching provider for free text, or nil
// when unresolved. No scoring and no fuzzy distance: case-insensitive name
// containment or the entry's alias pattern, first match wins.
func ClassifyProvider(text string) *ProviderEntry {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	for _, cue := range typeCues {
		if !cue.pattern.MatchString(normalized) {
			continue
		}
		if entry := matchProvider(normalized, cue.cueType); entry != nil {
			return entry
		}
	}
	return matchProvider(normalized, "")
}

func matchProvider(normalized string, only UtilityType) *ProviderEntry {
	for i := range providers {
		entry := &providers[i]
		if only != "" && entry.Type != only {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(entry.Name)) || entry.Pattern.MatchString(normalized) {
			return entry
		}
	}
	return nil
}

// ProvidersByType returns the sub-table for one utility type.
func ProvidersByType(t UtilityType) []ProviderEntry {
	var out []ProviderEntry
	for _, entry := range providers {
		if entry.Type == t {
			out = append(out, entry)
		}
	}
	return out
}
