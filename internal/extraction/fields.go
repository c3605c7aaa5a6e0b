package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field names produced by the field parser.
type Field string

const (
	FieldAmount        Field = "amount"
	FieldBillDate      Field = "billDate"
	FieldDueDate       Field = "dueDate"
	FieldPeriodStart   Field = "periodStart"
	FieldPeriodEnd     Field = "periodEnd"
	FieldInvoiceNumber Field = "invoiceNumber"
	FieldReference     Field = "reference"
)

// Labeled-keyword patterns for Croatian utility bills. The market mixes
// Croatian and English, so each pattern carries both sets of labels.
var fieldPatterns = []struct {
	field   Field
	pattern *regexp.Regexp
}{
	{FieldAmount, regexp.MustCompile(`(?i)(?:iznos|ukupno|total|cijena|amount|price)[\s:]*(\d+[.,]\d{2})(?:\s*€|\s*EUR)?`)},
	{FieldBillDate, regexp.MustCompile(`(?i)(?:datum|date|dan)[\s:]*(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`)},
	{FieldDueDate, regexp.MustCompile(`(?i)(?:dospijeće|rok plaćanja|due date)[\s:]*(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`)},
	{FieldPeriodStart, regexp.MustCompile(`(?i)(?:razdoblje od|period from)[\s:]*(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`)},
	{FieldPeriodEnd, regexp.MustCompile(`(?i)(?:razdoblje do|period to)[\s:]*(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`)},
	{FieldInvoiceNumber, regexp.MustCompile(`(?i)(?:račun br|broj računa|invoice no)[.:]*\s*([A-Z0-9-]+)`)},
	{FieldReference, regexp.MustCompile(`(?i)(?:poziv na broj|reference)[.:]*\s*((?:HR\d{2}\s*)?[0-9][0-9 -]*[0-9])`)},
}

var dateFields = map[Field]bool{
	FieldBillDate:    true,
	FieldDueDate:     true,
	FieldPeriodStart: true,
	FieldPeriodEnd:   true,
}

// ParseFields applies the labeled patterns to raw OCR text and returns the
// fields that matched. A field that is absent from the text does not appear
// in the result. Dates are normalized to YYYY-MM-DD; amounts are returned as
// matched (use ParseAmountCents to get a numeric value).
func ParseFields(text string) map[Field]string {
	return parseFields(text, time.Now())
}

func parseFields(text string, now time.Time) map[Field]string {
	out := make(map[Field]string)
	for _, fp := range fieldPatterns {
		m := fp.pattern.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			continue
		}
		value := strings.TrimSpace(m[1])
		if dateFields[fp.field] {
			value = normalizeDate(value, now)
			if value == "" {
				continue
			}
		}
		out[fp.field] = value
	}
	return out
}

// ParseAmountCents converts a matched amount token to integer cents. Both
// comma and dot are accepted as the decimal separator. Returns false for
// malformed or negative input.
func ParseAmountCents(s string) (int, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	parts := strings.SplitN(s, ".", 2)
	whole, err := strconv.Atoi(parts[0])
	if err != nil || whole < 0 {
		return 0, false
	}
	cents := 0
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil || cents < 0 {
			return 0, false
		}
	}
	return whole*100 + cents, true
}

// normalizeDate converts a day-month-year token with ".", "/" or "-"
// separators to YYYY-MM-DD. Two-digit years are expanded with a pivot rule:
// a value greater than the current year's last two digits is assumed to be
// in the previous century. The rule misreads dates right at a century
// boundary; bills old enough to hit that are out of range for this app.
func normalizeDate(dateStr string, now time.Time) string {
	standardized := strings.NewReplacer(".", "-", "/", "-").Replace(dateStr)
	parts := strings.Split(standardized, "-")
	if len(parts) != 3 {
		return ""
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return ""
	}

	if len(parts[2]) == 2 {
		century := now.Year() / 100 * 100
		if year > now.Year()%100 {
			year += century - 100
		} else {
			year += century
		}
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31.04 becomes 01.05); reject those.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return ""
	}
	return t.Format("2006-01-02")
}
