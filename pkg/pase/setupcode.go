package pase

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	// SetupCodeLength is the number of digits in a setup code.
	SetupCodeLength = 8

	// SetupCodeMax is the largest setup code (99999999).
	SetupCodeMax = 99999999
)

// ErrInvalidSetupCode is returned for malformed setup codes.
var ErrInvalidSetupCode = errors.New("invalid setup code")

// SetupCode is an 8-digit setup code.
type SetupCode uint32

// GenerateSetupCode returns a cryptographically random setup code.
func GenerateSetupCode() (SetupCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(SetupCodeMax+1))
	if err != nil {
		return 0, fmt.Errorf("generate setup code: %w", err)
	}
	return SetupCode(n.Uint64()), nil
}

// ParseSetupCode parses an 8-digit string. Surrounding whitespace and
// a single dash separator ("1234-5678") are accepted.
func ParseSetupCode(s string) (SetupCode, error) {
	s = strings.TrimSpace(s)
	if len(s) == SetupCodeLength+1 && s[4] == '-' {
		s = s[:4] + s[5:]
	}
	if len(s) != SetupCodeLength {
		return 0, fmt.Errorf("%w: must be %d digits", ErrInvalidSetupCode, SetupCodeLength)
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSetupCode, err)
	}
	return SetupCode(n), nil
}

// MustParseSetupCode parses s and panics on error. Use only in tests or
// with constant input.
func MustParseSetupCode(s string) SetupCode {
	sc, err := ParseSetupCode(s)
	if err != nil {
		panic(err)
	}
	return sc
}

// String returns the code as 8 digits with leading zeros.
func (sc SetupCode) String() string {
	return fmt.Sprintf("%08d", uint32(sc))
}

// Bytes returns the password input for SPAKE2+.
func (sc SetupCode) Bytes() []byte {
	return []byte(sc.String())
}

// Validate checks the code range.
func (sc SetupCode) Validate() error {
	if sc > SetupCodeMax {
		return fmt.Errorf("%w: exceeds maximum value", ErrInvalidSetupCode)
	}
	return nil
}
