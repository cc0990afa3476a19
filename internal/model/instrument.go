package model

import (
	"strings"
)

// InstrumentKind enumerates the payment instruments the service understands.
// InstrumentOther marks a token outside the known vocabulary.
type InstrumentKind int

const (
	InstrumentOther InstrumentKind = iota
	InstrumentCredit
	InstrumentDebit
	InstrumentEMI
	InstrumentNetBanking
	InstrumentUPI
	InstrumentWallet
)

var instrumentTokens = map[InstrumentKind]string{
	InstrumentCredit:     "CREDIT",
	InstrumentDebit:      "DEBIT",
	InstrumentEMI:        "EMI_OPTIONS",
	InstrumentNetBanking: "NET_BANKING",
	InstrumentUPI:        "UPI",
	InstrumentWallet:     "WALLET",
}

// KnownInstruments lists the canonical instruments in their reporting order.
var KnownInstruments = []InstrumentKind{
	InstrumentCredit,
	InstrumentDebit,
	InstrumentEMI,
	InstrumentNetBanking,
	InstrumentUPI,
	InstrumentWallet,
}

// Instrument is either a known payment instrument or an unrecognised token
// kept verbatim (uppercased) so that no upstream information is lost.
type Instrument struct {
	Kind  InstrumentKind
	other string
}

// Known returns the instrument for a known kind.
func Known(kind InstrumentKind) Instrument {
	return Instrument{Kind: kind}
}

// Other returns an instrument carrying an unrecognised token.
func Other(token string) Instrument {
	return Instrument{Kind: InstrumentOther, other: strings.ToUpper(strings.TrimSpace(token))}
}

// IsKnown reports whether the instrument belongs to the canonical vocabulary.
func (i Instrument) IsKnown() bool {
	return i.Kind != InstrumentOther
}

// Token returns the canonical token, e.g. "EMI_OPTIONS".
func (i Instrument) Token() string {
	if i.Kind == InstrumentOther {
		return i.other
	}
	return instrumentTokens[i.Kind]
}

func (i Instrument) String() string {
	return i.Token()
}

// Matches compares instruments by token, ignoring case.
func (i Instrument) Matches(other Instrument) bool {
	return strings.EqualFold(i.Token(), other.Token())
}

// MarshalText encodes the instrument as its token.
func (i Instrument) MarshalText() ([]byte, error) {
	return []byte(i.Token()), nil
}

// UnmarshalText decodes an exact token; unknown tokens become Other.
func (i *Instrument) UnmarshalText(text []byte) error {
	if parsed, ok := ParseInstrument(string(text)); ok {
		*i = parsed
		return nil
	}
	*i = Other(string(text))
	return nil
}

// ParseInstrument resolves an exact canonical token (case-insensitive).
// It does not guess: "CREDIT_CARD" is not a valid request instrument.
func ParseInstrument(token string) (Instrument, bool) {
	token = strings.ToUpper(strings.TrimSpace(token))
	for _, kind := range KnownInstruments {
		if instrumentTokens[kind] == token {
			return Known(kind), true
		}
	}
	return Instrument{}, false
}

// InstrumentTokens returns the canonical tokens of every known instrument.
func InstrumentTokens() []string {
	tokens := make([]string, len(KnownInstruments))
	for i, kind := range KnownInstruments {
		tokens[i] = instrumentTokens[kind]
	}
	return tokens
}

// InstrumentsFromTokens converts stored tokens back to instruments.
func InstrumentsFromTokens(tokens []string) []Instrument {
	instruments := make([]Instrument, 0, len(tokens))
	for _, token := range tokens {
		var inst Instrument
		_ = inst.UnmarshalText([]byte(token))
		instruments = append(instruments, inst)
	}
	return instruments
}

// TokensFromInstruments converts instruments to their stored tokens.
func TokensFromInstruments(instruments []Instrument) []string {
	tokens := make([]string, 0, len(instruments))
	for _, inst := range instruments {
		tokens = append(tokens, inst.Token())
	}
	return tokens
}
