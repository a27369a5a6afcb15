package normalization

import (
	"strings"

	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenStoreID       TokenKind = "store_id"
	TokenPrefixedPhone TokenKind = "prefixed_phone"
	TokenPhoneDigits   TokenKind = "phone_digits"
	TokenUnrecognized  TokenKind = "unrecognized"
)

// Token is the classified form of a raw customer identifier. Phone is
// always the trailing ten digits; RawID is set only for store-id tokens.
type Token struct {
	Kind  TokenKind
	Phone string
	RawID string
}

// Prefixes seen in the wild ahead of a phone number. Matching is
// case-insensitive; the remainder must be all digits.
var phonePrefixes = []string{"user_", "cust_", "c-"}

// ClassifyToken turns an arbitrary identifier string into its canonical
// form. First match wins: store record id, prefixed phone, bare digits,
// otherwise unrecognized. A leading "+" is part of the country code and is
// dropped, matching NormalizePhone. Pure; callers add any store lookups
// themselves.
func ClassifyToken(raw string) Token {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Token{Kind: TokenUnrecognized}
	}
	s = strings.TrimPrefix(s, "+")

	if _, err := uuid.Parse(s); err == nil {
		return Token{Kind: TokenStoreID, RawID: strings.ToLower(s)}
	}

	lower := strings.ToLower(s)
	for _, p := range phonePrefixes {
		if strings.HasPrefix(lower, p) {
			rest := s[len(p):]
			if isDigits(rest) && len(rest) >= 10 {
				return Token{Kind: TokenPrefixedPhone, Phone: lastTen(rest)}
			}
		}
	}

	if isDigits(s) && len(s) >= 10 {
		return Token{Kind: TokenPhoneDigits, Phone: lastTen(s)}
	}

	return Token{Kind: TokenUnrecognized}
}

// NormalizePhone reduces a digit string to the canonical trailing ten
// digits, discarding any country code. Empty result means the input was
// not a usable phone.
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	if !isDigits(s) || len(s) < 10 {
		return ""
	}
	return lastTen(s)
}

func lastTen(digits string) string {
	return digits[len(digits)-10:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
