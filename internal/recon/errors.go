package recon

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrNoCode reports that the target address carries no deployed code.
var ErrNoCode = errors.New("recon: address has no code")

// InputError wraps a malformed caller-supplied value (address, selector,
// hex payload). It is the only failure the pure components ever raise.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("recon: bad %s: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ParseHexBytes decodes caller-supplied hex (0x optional) into bytes.
func ParseHexBytes(field, s string) ([]byte, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, &InputError{Field: field, Err: err}
	}
	return b, nil
}
