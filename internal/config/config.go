package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings keeps all configuration options.
// Naming mirrors existing env keys to avoid touching other code.
type Settings struct {
	RPCURL            string
	RPCURLs           []string // extra endpoints for multi-network probing
	FromAddress       string
	SigLookupURL      string
	SigLookupFallback string
	MulticallAddress  string
	ResolveProxies    bool
	CallTimeoutMS     int64
	HTTPTimeoutMS     int64
	RPCAttempts       int
	RPCRetryDelayMS   int64
	ListenAddr        string
	LogLevel          string
}

// Load reads settings from environment supporting both UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" { return v }
		}
		return def
	}
	getInt := func(keys []string, def int) int {
		s := get(keys, "")
		if s == "" { return def }
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil { return n }
		return def
	}
	getInt64 := func(keys []string, def int64) int64 {
		s := get(keys, "")
		if s == "" { return def }
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil { return n }
		return def
	}
	getBool := func(keys []string, def bool) bool {
		s := strings.ToLower(get(keys, ""))
		if s == "" { return def }
		return s == "1" || s == "true" || s == "yes" || s == "on"
	}
	splitCSV := func(s string) []string {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" { out = append(out, p) }
		}
		return out
	}

	st := Settings{}
	st.RPCURL      = get([]string{"rpc_url", "RPC_URL"}, "https://eth.llamarpc.com")
	st.RPCURLs     = splitCSV(get([]string{"rpc_urls", "RPC_URLS"}, ""))
	st.FromAddress = get([]string{"from_address", "FROM_ADDRESS"}, "")

	st.SigLookupURL      = get([]string{"sig_lookup_url", "SIG_LOOKUP_URL"}, "")
	st.SigLookupFallback = get([]string{"sig_lookup_fallback_url", "SIG_LOOKUP_FALLBACK_URL"}, "")
	st.MulticallAddress  = get([]string{"multicall_address", "MULTICALL_ADDRESS"}, "0x5BA1e12693Dc8F9c48aAD8770482f4739bEeD696")
	st.ResolveProxies    = getBool([]string{"resolve_proxies", "RESOLVE_PROXIES"}, true)

	st.CallTimeoutMS   = getInt64([]string{"call_timeout_ms", "CALL_TIMEOUT_MS"}, 10000)
	st.HTTPTimeoutMS   = getInt64([]string{"http_timeout_ms", "HTTP_TIMEOUT_MS"}, 12000)
	st.RPCAttempts     = getInt([]string{"rpc_attempts", "RPC_ATTEMPTS"}, 3)
	st.RPCRetryDelayMS = getInt64([]string{"rpc_retry_delay_ms", "RPC_RETRY_DELAY_MS"}, 200)

	st.ListenAddr = get([]string{"listen_addr", "LISTEN_ADDR"}, ":8080")
	st.LogLevel   = get([]string{"log_level", "LOG_LEVEL"}, "info")

	return st
}
