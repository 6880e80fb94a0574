package ups

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// authenticate exchanges the client credentials for an access token.
// POST /security/v1/oauth/token with grant_type=client_credentials
func (c *HTTPAPIClient) authenticate(ctx context.Context, clientID, clientSecret string) (token string, err error) {
	ctx, span := c.tracer.Start(ctx, "ups authenticate", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { endSpan(span, err) }()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthenticationError{Detail: err.Error(), Cause: err}
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthenticationError{Detail: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Detail: err.Error(), Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = "No response body"
		}
		return "", &AuthenticationError{StatusCode: resp.StatusCode, Detail: detail}
	}

	var tokenResp map[string]any
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &AuthenticationError{
			StatusCode: resp.StatusCode,
			Detail:     "undecodable token response: " + string(body),
			Cause:      err,
		}
	}

	token, _ = tokenResp["access_token"].(string)
	if token == "" {
		return "", &AuthenticationError{
			StatusCode: resp.StatusCode,
			Detail:     "no access token received: " + string(body),
		}
	}

	return token, nil
}
