// Package oid manages canonical identifiers.
//
// A canonical identifier is a base-20 number written with an alphabet
// avoiding vowels and ambiguous characters (ex: "WR9C7F3Q2M").
// Most significant digit first. X (=0) can be used as leading padding.
package oid

import (
	"fmt"
	"regexp"
	"strings"
)

// Alphabet lists the digits for the values 0 to 19.
const Alphabet = "XWVRQPMJHGFC98765432"

// Base of the canonical representation.
const Base = uint64(len(Alphabet))

// Width is the number of digits of generated identifiers.
const Width = 10

// MinLength is the minimum length of a valid identifier.
const MinLength = 8

var identifierRegex = regexp.MustCompile(`^[23456789CFGHJMPQRVWX]{8,}$`)

type OID string

const Nil = OID("")

func (o OID) IsNil() bool {
	return string(o) == ""
}

// String returns the OID as a string.
func (o OID) String() string {
	return string(o)
}

// Value returns the numeric value of the OID.
func (o OID) Value() (uint64, error) {
	return Decode(string(o))
}

/* Constructors */

func New() OID {
	return generator.New()
}
func NewFromBytes(b []byte) OID {
	return generator.NewFromBytes(b)
}

/* Codec */

// Encode writes a value using the canonical alphabet, left-padded to width digits.
func Encode(value uint64, width int) string {
	var digits []byte
	for value > 0 {
		digits = append(digits, Alphabet[value%Base])
		value /= Base
	}
	for len(digits) < width {
		digits = append(digits, Alphabet[0])
	}
	// Reverse to get the most significant digit first
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// Decode reads a value written with the canonical alphabet.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty identifier")
	}
	var value uint64
	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(Alphabet, s[i])
		if digit < 0 {
			return 0, fmt.Errorf("invalid character %q in identifier %q", s[i], s)
		}
		value = value*Base + uint64(digit)
	}
	return value, nil
}

/* Parser */

// IsValid returns if a string is a canonical identifier.
func IsValid(s string) bool {
	return identifierRegex.MatchString(s)
}

// MustParse parses an OID or panic if the OID format is not valid.
func MustParse(s string) OID {
	if !IsValid(s) {
		panic(fmt.Sprintf("Invalid OID %q", s))
	}
	return OID(s)
}

// ParseOrNil parses an OID or returns Nil.
func ParseOrNil(s string) OID {
	if !IsValid(s) {
		return Nil
	}
	return OID(s)
}
