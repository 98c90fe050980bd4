// Package walrus is the blob store client: it stores and retrieves opaque
// content by blob id against a publisher/aggregator pair. It knows nothing
// about message semantics and applies no retry policy of its own — retries
// belong to the orchestrator, which knows a repeated store is idempotent.
package walrus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	internal_errors "github.com/mathieulrl/world-chat-sub000/internal/errors"
	"github.com/mathieulrl/world-chat-sub000/shared/domain"
)

// Client handles all communication with the blob store.
type Client struct {
	PublisherURL  string
	AggregatorURL string
	HttpClient    *http.Client
}

// New creates a blob store client. Base URLs are supplied by the caller; a
// nil httpClient falls back to a default one (callers are expected to pass a
// client with a timeout).
func New(publisherURL, aggregatorURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		PublisherURL:  strings.TrimSuffix(publisherURL, "/"),
		AggregatorURL: strings.TrimSuffix(aggregatorURL, "/"),
		HttpClient:    httpClient,
	}
}

// storeResponse covers the three shapes the publisher answers with.
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobId string `json:"blobId"`
			Size   int64  `json:"size"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobId string `json:"blobId"`
	} `json:"alreadyCertified"`
	BlobId string `json:"blobId"`
}

// BlobMetadata is the out-of-band view of a stored blob; not on the hot path.
type BlobMetadata struct {
	Owner string `json:"owner"`
	Size  int64  `json:"size"`
}

// Store uploads content and returns the store-assigned blob reference.
// A single request/response: it never partially writes.
func (c *Client) Store(ctx context.Context, data []byte, ownerHint string) (domain.BlobRef, error) {
	endpoint := c.PublisherURL + "/v1/blobs"
	if ownerHint != "" {
		endpoint += "?send_object_to=" + url.QueryEscape(ownerHint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return domain.BlobRef{}, fmt.Errorf("failed to create store request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return domain.BlobRef{}, fmt.Errorf("%w: %v", internal_errors.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.BlobRef{}, fmt.Errorf("%w: publisher returned %d: %s", internal_errors.ErrStorageUnavailable, resp.StatusCode, string(body))
	}

	var parsed storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.BlobRef{}, fmt.Errorf("%w: failed to parse publisher response: %v", internal_errors.ErrStorageUnavailable, err)
	}

	ref := domain.BlobRef{Timestamp: time.Now().UTC()}
	switch {
	case parsed.NewlyCreated != nil:
		ref.BlobId = parsed.NewlyCreated.BlobObject.BlobId
		ref.Size = parsed.NewlyCreated.BlobObject.Size
	case parsed.AlreadyCertified != nil:
		ref.BlobId = parsed.AlreadyCertified.BlobId
		ref.Size = int64(len(data))
	default:
		ref.BlobId = parsed.BlobId
		ref.Size = int64(len(data))
	}
	if ref.BlobId == "" {
		return domain.BlobRef{}, fmt.Errorf("%w: publisher response carries no blob id", internal_errors.ErrStorageUnavailable)
	}
	return ref, nil
}

// Retrieve fetches the raw bytes of a blob.
func (c *Client) Retrieve(ctx context.Context, blobId string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AggregatorURL+"/v1/blobs/"+url.PathEscape(blobId), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieve request: %w", err)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal_errors.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: blob %s", internal_errors.ErrNotFound, blobId)
	default:
		return nil, fmt.Errorf("%w: aggregator returned %d for blob %s", internal_errors.ErrStorageUnavailable, resp.StatusCode, blobId)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading blob %s: %v", internal_errors.ErrStorageUnavailable, blobId, err)
	}
	return data, nil
}

// Metadata fetches the aggregator's metadata view of a blob; used only for
// out-of-band verification.
func (c *Client) Metadata(ctx context.Context, blobId string) (*BlobMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AggregatorURL+"/v1/blobs/"+url.PathEscape(blobId)+"/metadata", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata request: %w", err)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal_errors.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: blob %s", internal_errors.ErrNotFound, blobId)
	default:
		return nil, fmt.Errorf("%w: aggregator returned %d for blob %s", internal_errors.ErrStorageUnavailable, resp.StatusCode, blobId)
	}

	var meta BlobMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	return &meta, nil
}
