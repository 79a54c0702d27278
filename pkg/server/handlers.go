package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Layr-Labs/chain-sigverify/pkg/registry"
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/google/uuid"
)

// VerifyRequest is the body of POST /verify
type VerifyRequest struct {
	Scheme    string `json:"scheme"`
	Signature string `json:"signature"`
	Message   string `json:"message"`
	Signer    string `json:"signer"`
}

// VerifyResponse is the body returned by POST /verify
type VerifyResponse struct {
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
	RequestID string `json:"requestId"`
}

// SchemesResponse is the body returned by GET /schemes
type SchemesResponse struct {
	Schemes []verifier.Scheme `json:"schemes"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()

	var req VerifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		s.logger.Sugar().Debugw("Invalid verify request body", "request_id", requestID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Empty signature or signer values are left to the verifier, which reports
	// them as verification failures like any other malformed input.
	if req.Scheme == "" {
		http.Error(w, "scheme is required", http.StatusBadRequest)
		return
	}

	scheme, err := verifier.ParseScheme(req.Scheme)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := VerifyResponse{RequestID: requestID}
	err = s.registry.Verify(scheme, req.Signature, req.Message, req.Signer)
	switch {
	case err == nil:
		resp.Valid = true
	case errors.Is(err, registry.ErrUnsupportedScheme):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		resp.Error = err.Error()
		resp.ErrorKind = verifier.KindOf(err).String()
	}

	s.logger.Sugar().Infow("Verification request",
		"request_id", requestID,
		"scheme", scheme,
		"valid", resp.Valid,
		"error_kind", resp.ErrorKind,
	)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, SchemesResponse{Schemes: s.registry.Schemes()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
