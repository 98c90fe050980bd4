package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
)

// Remote submits calls through an external signing service over HTTP. The
// service fronts whichever wallet backend is active for the session.
type Remote struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewRemote(baseURL string, httpClient *http.Client) *Remote {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Remote{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HttpClient: httpClient,
	}
}

type submitRequest struct {
	To   string `json:"to"`
	Data string `json:"data"` // 0x-prefixed hex
}

type submitResponse struct {
	Status    string `json:"status"` // "success" | "error"
	TxId      string `json:"txId,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func (s *Remote) Submit(ctx context.Context, call Call) (Submission, error) {
	payload, err := json.Marshal(submitRequest{
		To:   call.To,
		Data: "0x" + hex.EncodeToString(call.Data),
	})
	if err != nil {
		return Submission{}, fmt.Errorf("failed to encode submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v1/transactions", bytes.NewReader(payload))
	if err != nil {
		return Submission{}, fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: signer unreachable: %v", internal_errors.ErrWriteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Submission{}, fmt.Errorf("%w: signer returned %d: %s", internal_errors.ErrWriteUnavailable, resp.StatusCode, string(body))
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Submission{}, fmt.Errorf("%w: failed to parse signer response: %v", internal_errors.ErrWriteUnavailable, err)
	}

	if parsed.Status != "success" {
		return Submission{}, fmt.Errorf("%w: %s", internal_errors.ErrWriteRejected, parsed.ErrorCode)
	}
	return Submission{TxId: parsed.TxId}, nil
}
