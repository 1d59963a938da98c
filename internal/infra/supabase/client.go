package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gittyapp/backend/internal/infra/httpclient"
)

const (
	maxResponseBytes = 2 * 1024 * 1024

	// CodeNoRows is returned by the table API when a single-row request
	// matched zero (or several) rows.
	CodeNoRows = "PGRST116"
)

var ErrNoRows = errors.New("no rows")

// Client talks to the hosted table (/rest/v1) and auth (/auth/v1) APIs.
type Client struct {
	baseURL    string
	apiKey     string
	serviceKey string
	httpClient *http.Client
}

type RequestError struct {
	Op           string
	StatusCode   int
	Code         string
	Fallbackable bool
	Err          error
}

type accessTokenContextKeyType struct{}

var accessTokenContextKey accessTokenContextKeyType

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil && e.StatusCode > 0 && e.Code != "":
		return fmt.Sprintf("%s: status=%d code=%s: %v", e.Op, e.StatusCode, e.Code, e.Err)
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", e.Op, e.StatusCode)
	default:
		return e.Op
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports PGRST116 responses as ErrNoRows.
func (e *RequestError) Is(target error) bool {
	return e != nil && target == ErrNoRows && e.Code == CodeNoRows
}

// NewClient validates the project URL. apiKey is the public (anon) key sent
// with every request; serviceKey, when set, is used as the bearer for calls
// made without a user token.
func NewClient(baseURL, apiKey, serviceKey string, timeout time.Duration) (*Client, error) {
	trimmedBaseURL := strings.TrimSpace(baseURL)
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedBaseURL == "" || trimmedKey == "" {
		return nil, &RequestError{
			Op:  "create gateway client",
			Err: errors.New("gateway url or api key is empty"),
		}
	}

	parsed, err := url.Parse(trimmedBaseURL)
	if err != nil {
		return nil, &RequestError{
			Op:  "parse gateway url",
			Err: err,
		}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{
			Op:  "validate gateway url",
			Err: fmt.Errorf("invalid gateway url: %s", trimmedBaseURL),
		}
	}

	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(trimmedBaseURL, "/"),
		apiKey:     trimmedKey,
		serviceKey: strings.TrimSpace(serviceKey),
		httpClient: httpclient.New(timeout),
	}, nil
}

func IsFallbackable(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Fallbackable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// WithAccessToken makes table calls on ctx run as the signed-in user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, accessTokenContextKey, token)
}

func AccessTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(accessTokenContextKey).(string)
	return value
}

func (c *Client) bearer(ctx context.Context) string {
	if token := AccessTokenFromContext(ctx); token != "" {
		return token
	}
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.apiKey
}

// DoJSON sends requestBody as JSON and decodes a 2xx body into responseBody.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, header http.Header, requestBody, responseBody any) error {
	if c == nil || c.httpClient == nil {
		return &RequestError{
			Op:  "do json request",
			Err: errors.New("gateway client is not initialized"),
		}
	}

	var payload []byte
	if requestBody != nil {
		rawPayload, err := json.Marshal(requestBody)
		if err != nil {
			return &RequestError{
				Op:  "marshal request body",
				Err: err,
			}
		}
		payload = rawPayload
	}

	statusCode, responseBytes, err := c.do(ctx, method, path, query, header, payload)
	if err != nil {
		return err
	}
	if responseBody == nil || len(responseBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(responseBytes, responseBody); err != nil {
		return &RequestError{
			Op:         "decode http response",
			StatusCode: statusCode,
			Err:        err,
		}
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, header http.Header, body []byte) (int, []byte, error) {
	if strings.TrimSpace(method) == "" {
		method = http.MethodGet
	}

	fullURL := c.baseURL + ensureLeadingSlash(path)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, &RequestError{
			Op:  "create http request",
			Err: err,
		}
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer(ctx))
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &RequestError{
			Op:           "execute http request",
			Fallbackable: isFallbackableNetworkError(err),
			Err:          err,
		}
	}
	defer resp.Body.Close()

	responseBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		return resp.StatusCode, nil, &RequestError{
			Op:         "read http response",
			StatusCode: resp.StatusCode,
			Err:        readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code, message := parseErrorBody(responseBytes)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, responseBytes, &RequestError{
			Op:           "unexpected http status",
			StatusCode:   resp.StatusCode,
			Code:         code,
			Fallbackable: isFallbackableStatus(resp.StatusCode),
			Err:          errors.New(message),
		}
	}

	return resp.StatusCode, responseBytes, nil
}

// errorBody covers both the table API ({code,message}) and the auth API
// ({error,error_description} or {error_code,msg}) error shapes.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func parseErrorBody(raw []byte) (string, string) {
	trimmed := strings.TrimSpace(string(raw))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", trimmed
	}

	code := body.ErrorCode
	if code == "" && len(body.Code) > 0 {
		var s string
		if err := json.Unmarshal(body.Code, &s); err == nil {
			code = s
		}
	}
	if code == "" {
		code = body.Error
	}

	for _, msg := range []string{body.Message, body.Msg, body.ErrorDescription, body.Error} {
		if msg != "" {
			return code, msg
		}
	}
	return code, trimmed
}

func isFallbackableNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isFallbackableStatus(statusCode int) bool {
	return statusCode >= 500
}

func ensureLeadingSlash(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if strings.HasPrefix(trimmed, "/") {
		return trimmed
	}
	return "/" + trimmed
}
