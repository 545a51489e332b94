package recon

import "strings"

// SignatureInfo classifies one selector for invocation.
type SignatureInfo struct {
	Selector     Selector `json:"selector"`
	Signature    string   `json:"signature,omitempty"`
	FunctionName string   `json:"functionName"`
	IsCallable   bool     `json:"isCallable"`
}

// Classify decides whether a selector can be invoked with bare calldata.
// Unknown selector => still callable; a wrong guess reverts in isolation.
// A resolved signature is callable only with an empty parameter list.
func Classify(sel Selector, signature string) SignatureInfo {
	info := SignatureInfo{Selector: sel, Signature: signature}
	if signature == "" {
		info.IsCallable = true
		info.FunctionName = sel.Hex()
		return info
	}
	info.IsCallable = strings.HasSuffix(signature, "()")
	if i := strings.IndexByte(signature, '('); i >= 0 {
		info.FunctionName = signature[:i]
	} else {
		info.FunctionName = signature
	}
	return info
}
