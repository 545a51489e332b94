package recon

import "github.com/ethereum/go-ethereum/common"

// FunctionResult is one callable selector's invocation with the decoded
// display value or the normalized revert reason.
type FunctionResult struct {
	Selector     Selector `json:"selector"`
	Signature    string   `json:"signature,omitempty"`
	FunctionName string   `json:"functionName"`
	Success      bool     `json:"success"`
	Value        string   `json:"value,omitempty"`
	RevertReason string   `json:"revertReason,omitempty"`
}

// Report is the full analysis output for one address. Built once per run
// and not mutated afterwards.
type Report struct {
	Address   common.Address   `json:"address"`
	CodeSize  int              `json:"codeSize"`
	Proxy     ProxyResolution  `json:"proxy"`
	Selectors []SignatureInfo  `json:"selectors"`
	Results   []FunctionResult `json:"results"`
}

// SelectorCount is the number of distinct selectors the dispatcher handles.
func (r *Report) SelectorCount() int { return len(r.Selectors) }

// NotCallable lists the selectors whose signatures demand arguments.
func (r *Report) NotCallable() []SignatureInfo {
	out := []SignatureInfo{}
	for _, s := range r.Selectors {
		if !s.IsCallable {
			out = append(out, s)
		}
	}
	return out
}
