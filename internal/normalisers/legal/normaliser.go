// Package legal normalises extracted contract text for chunking and
// embedding. It handles the artefacts common in OCR'd bilingual contracts:
// Arabic-Indic digits, tatweel (kashida) elongation, and ragged whitespace.
package legal

import (
	"regexp"
	"strings"
)

// DefaultMaxNewlines is the default cap on consecutive newlines.
const DefaultMaxNewlines = 2

// Arabic-Indic and Extended Arabic-Indic digits map one-to-one onto ASCII.
var digitTable = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
}

// tatweel is the Arabic elongation character (U+0640). It carries no
// semantic content and breaks tokenisation.
const tatweel = 'ـ'

var horizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)

// Normaliser prepares raw contract text for chunking.
type Normaliser struct {
	maxNewlines int
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithMaxNewlines caps runs of consecutive newlines. Values below 1 are
// ignored.
func WithMaxNewlines(n int) Option {
	return func(nm *Normaliser) {
		if n >= 1 {
			nm.maxNewlines = n
		}
	}
}

// New creates a normaliser with the given options.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{maxNewlines: DefaultMaxNewlines}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalise applies the full normalisation pipeline:
// digit transliteration, tatweel removal, whitespace collapse, newline cap.
// It is idempotent: Normalise(Normalise(s)) == Normalise(s).
func (n *Normaliser) Normalise(s string) string {
	s = NormaliseDigits(s)
	s = StripTatweel(s)
	s = cleanSpaces(s)
	s = n.squeezeNewlines(s)
	return s
}

// NormaliseDigits converts Arabic-Indic decimal digits to ASCII digits.
// All other runes pass through unchanged.
func NormaliseDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if ascii, ok := digitTable[r]; ok {
			return ascii
		}
		return r
	}, s)
}

// StripTatweel removes the Arabic tatweel character.
func StripTatweel(s string) string {
	return strings.ReplaceAll(s, string(tatweel), "")
}

// cleanSpaces converts CR to LF, collapses runs of horizontal whitespace
// to a single space, and trims the result.
func cleanSpaces(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// squeezeNewlines caps consecutive newlines at maxNewlines. Lines that are
// blank after horizontal collapse still count as separators.
func (n *Normaliser) squeezeNewlines(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	run := 0
	for _, r := range s {
		if r == '\n' {
			run++
			if run > n.maxNewlines {
				continue
			}
		} else {
			// A space-only line between newlines would defeat the cap;
			// cleanSpaces has already collapsed those to single spaces,
			// which we drop when they sit between newlines.
			if r == ' ' && run > 0 {
				continue
			}
			run = 0
		}
		b.WriteRune(r)
	}

	return b.String()
}
