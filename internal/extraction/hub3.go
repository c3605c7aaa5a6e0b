package extraction

import (
	"strconv"
	"strings"
)

// hub3Prefix marks a payment barcode following the Croatian HUB3 standard.
const hub3Prefix = "HUB3A"

// Fixed character offsets within a HUB3 payload.
const (
	hub3AmountStart    = 5
	hub3AmountEnd      = 17
	hub3ReferenceStart = 23
	hub3ReferenceEnd   = 48
	hub3AccountStart   = 49
	hub3AccountEnd     = 69
)

// Payload holds the fields recovered from a decoded barcode string. For a
// recognized HUB3 payload Structured is true and the fixed-offset fields are
// filled in; anything else is passed through verbatim in Raw, with no attempt
// to guess structure that cannot be verified.
type Payload struct {
	Structured  bool
	AmountCents int
	HasAmount   bool
	Reference   string
	Account     string
	Raw         string
}

// ParsePayload decodes a barcode payload string. HUB3 amounts are an integer
// number of minor currency units at a fixed offset; reference and account are
// fixed character ranges trimmed of padding.
func ParsePayload(code string) Payload {
	if !strings.HasPrefix(code, hub3Prefix) {
		return Payload{Raw: code}
	}

	p := Payload{Structured: true, Raw: code}

	if len(code) >= hub3AmountEnd {
		raw := strings.TrimSpace(code[hub3AmountStart:hub3AmountEnd])
		if cents, err := strconv.ParseInt(raw, 10, 64); err == nil && cents >= 0 {
			p.AmountCents = int(cents)
			p.HasAmount = true
		}
	}
	if len(code) >= hub3ReferenceEnd {
		p.Reference = strings.TrimSpace(code[hub3ReferenceStart:hub3ReferenceEnd])
	}
	if len(code) >= hub3AccountEnd {
		p.Account = strings.TrimSpace(code[hub3AccountStart:hub3AccountEnd])
	}
	return p
}
