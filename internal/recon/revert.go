package recon

import (
	"encoding/hex"
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/rpc"
)

var hexPayloadRe = regexp.MustCompile(`0x[0-9a-fA-F]+`)

// NormalizeRevert turns raw provider error text into a short human-readable
// reason. Pure and deterministic: embedded hex payloads are dropped, a
// leading "execution reverted" is stripped, separators trimmed. Nothing
// left means the bare fallback; very short remainders keep the prefix so a
// two-letter fragment is not presented as the whole story.
func NormalizeRevert(raw string) string {
	s := hexPayloadRe.ReplaceAllString(raw, "")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimPrefix(s, execReverted)
	s = strings.Trim(s, " :,.-")
	if s == "" {
		return execReverted
	}
	if len(s) <= 10 {
		return execReverted + ": " + s
	}
	return s
}

// RevertReason derives the normalized reason for a failed call. When the
// transport attached ABI revert data, the decoded Error(string) text wins
// over the transport's own message.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	if data := revertData(err); len(data) > 0 {
		if reason, uerr := abi.UnpackRevert(data); uerr == nil {
			return NormalizeRevert(reason)
		}
	}
	return NormalizeRevert(err.Error())
}

// revertData pulls the raw revert payload off a provider error, when the
// provider exposes one through rpc.DataError.
func revertData(err error) []byte {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return nil
	}
	s, ok := de.ErrorData().(string)
	if !ok || !strings.HasPrefix(s, "0x") {
		return nil
	}
	b, herr := hex.DecodeString(s[2:])
	if herr != nil {
		return nil
	}
	return b
}
