package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Layr-Labs/chain-sigverify/pkg/server"
	"github.com/Layr-Labs/chain-sigverify/pkg/verifier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// ErrRequestRejected is returned when the server refuses a request outright
// (bad request, unknown scheme, rate limited) rather than answering it.
var ErrRequestRejected = errors.New("request rejected by server")

// ClientConfig holds the configuration for the verification client
type ClientConfig struct {
	ServerURL  string
	Logger     *zap.Logger
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to a sigverify HTTP server
type Client struct {
	serverURL  string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a new client instance
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.ServerURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		serverURL:  strings.TrimRight(config.ServerURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		logger:     config.Logger,
	}, nil
}

// Verify asks the server to verify signature over message for signer.
// Verification failures come back as the same *verifier.VerifyError values a
// local verifier would return.
func (c *Client) Verify(ctx context.Context, scheme verifier.Scheme, signature, message, signer string) error {
	body, err := json.Marshal(server.VerifyRequest{
		Scheme:    scheme.String(),
		Signature: signature,
		Message:   message,
		Signer:    signer,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal verify request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build verify request")
	}
	req.Header.Set("Content-Type", "application/json")

	var resp server.VerifyResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}

	c.logger.Sugar().Debugw("Remote verification",
		"scheme", scheme,
		"request_id", resp.RequestID,
		"valid", resp.Valid,
		"error_kind", resp.ErrorKind,
	)

	if resp.Valid {
		return nil
	}
	return errorFromResponse(resp)
}

// Schemes returns the schemes the server has registered
func (c *Client) Schemes(ctx context.Context) ([]verifier.Scheme, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/schemes", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build schemes request")
	}

	var resp server.SchemesResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Schemes, nil
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "failed to build health request")
	}
	return c.do(req, nil)
}

// Verifier returns a verifier.NamedVerifier for scheme that delegates to the
// server, bounded by the client timeout.
func (c *Client) Verifier(scheme verifier.Scheme) verifier.NamedVerifier {
	return &remoteVerifier{client: c, scheme: scheme}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to contact server %s", c.serverURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Sugar().Warnw("Server returned error",
			"path", req.URL.Path,
			"status_code", resp.StatusCode,
			"body", strings.TrimSpace(string(body)),
		)
		return errors.Wrapf(ErrRequestRejected, "%s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode server response")
	}
	return nil
}

func errorFromResponse(resp server.VerifyResponse) error {
	switch resp.ErrorKind {
	case verifier.KindInvalidEncoding.String():
		return verifier.InvalidEncoding(resp.Error)
	case verifier.KindInvalidSignature.String():
		return verifier.InvalidSignature()
	default:
		return errors.Errorf("server reported an unclassified failure: %s", resp.Error)
	}
}

type remoteVerifier struct {
	client *Client
	scheme verifier.Scheme
}

func (r *remoteVerifier) Scheme() verifier.Scheme {
	return r.scheme
}

func (r *remoteVerifier) Verify(signature, message, signer string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.client.timeout)
	defer cancel()
	return r.client.Verify(ctx, r.scheme, signature, message, signer)
}
