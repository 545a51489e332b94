package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/hexscope/contract-recon/internal/metrics"
	"github.com/hexscope/contract-recon/internal/recon"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}

	params := recon.Params{
		From:         s.fromAddress(r),
		ResolveProxy: boolQuery(r, "proxy", s.cfg.ResolveProxies),
	}
	if boolQuery(r, "batch", false) {
		if !common.IsHexAddress(s.cfg.MulticallAddress) {
			writeError(w, http.StatusBadRequest, "bad_request", "no multicall aggregator configured")
			return
		}
		agg := common.HexToAddress(s.cfg.MulticallAddress)
		params.Aggregator = &agg
	}

	started := time.Now()
	analyzer := recon.NewAnalyzer(s.lggr, s.client, s.newSigSource())
	report, err := analyzer.Analyze(r.Context(), addr, params)
	switch {
	case errors.Is(err, recon.ErrNoCode):
		metrics.AnalysesTotal.WithLabelValues("no_code").Inc()
		writeError(w, http.StatusNotFound, "no_code", "address has no code")
		return
	case err != nil && report == nil:
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		s.lggr.Warnf("analyze %s: %v", addr.Hex(), err)
		writeError(w, http.StatusBadGateway, "analysis_failed", err.Error())
		return
	case err != nil:
		// Partial report survived a late failure; serve what we have.
		metrics.AnalysesTotal.WithLabelValues("partial").Inc()
		s.lggr.Warnf("analyze %s (partial): %v", addr.Hex(), err)
	default:
		metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	}

	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	metrics.SelectorsPerContract.Observe(float64(report.SelectorCount()))
	writeJSON(w, http.StatusOK, report)
}

type selectorsResponse struct {
	Address    string                `json:"address"`
	CodeSize   int                   `json:"codeSize"`
	Selectors  []string              `json:"selectors"`
	Signatures []recon.SignatureInfo `json:"signatures,omitempty"`
}

func (s *Server) handleSelectors(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}

	code, err := s.client.CodeAt(r.Context(), addr, nil)
	if err != nil {
		s.lggr.Warnf("selectors %s: %v", addr.Hex(), err)
		writeError(w, http.StatusBadGateway, "rpc_failed", err.Error())
		return
	}
	if len(code) == 0 {
		writeError(w, http.StatusNotFound, "no_code", "address has no code")
		return
	}

	sels := recon.ScanSelectors(code)
	resp := selectorsResponse{
		Address:   addr.Hex(),
		CodeSize:  len(code),
		Selectors: make([]string, 0, len(sels)),
	}
	for _, sel := range sels {
		resp.Selectors = append(resp.Selectors, sel.Hex())
	}
	if boolQuery(r, "resolve", false) {
		src := s.newSigSource()
		for _, sel := range sels {
			resp.Signatures = append(resp.Signatures, recon.Classify(sel, src.Resolve(r.Context(), sel)))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type proxyResponse struct {
	recon.ProxyResolution
	ImplementationCodeSize int `json:"implementationCodeSize,omitempty"`
}

func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	addr, ok := s.pathAddress(w, r)
	if !ok {
		return
	}

	res, err := recon.NewProxyResolver(s.lggr, s.client).Resolve(r.Context(), addr)
	if err != nil {
		s.lggr.Warnf("proxy %s: %v", addr.Hex(), err)
		writeError(w, http.StatusBadGateway, "rpc_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, proxyResponse{
		ProxyResolution:        res,
		ImplementationCodeSize: len(res.ImplementationBytecode),
	})
}

func (s *Server) pathAddress(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := chi.URLParam(r, "address")
	if !common.IsHexAddress(raw) {
		writeError(w, http.StatusBadRequest, "bad_address", "not a hex address: "+raw)
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func (s *Server) fromAddress(r *http.Request) common.Address {
	if v := r.URL.Query().Get("from"); common.IsHexAddress(v) {
		return common.HexToAddress(v)
	}
	if s.cfg.FromAddress != "" {
		return common.HexToAddress(s.cfg.FromAddress)
	}
	return common.Address{}
}

func boolQuery(r *http.Request, key string, def bool) bool {
	v := strings.ToLower(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
