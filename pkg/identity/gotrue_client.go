package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const authPrefix = "/auth/v1"

type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

// GoTrueClient talks to a GoTrue compatible auth API (Supabase Auth).
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	oauth      *oauth2.Config
}

func NewGoTrueClient(cfg Config) *GoTrueClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	return &GoTrueClient{
		baseURL:    base,
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: timeout},
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				AuthURL:  base + authPrefix + "/authorize",
				TokenURL: base + authPrefix + "/token",
			},
		},
	}
}

func (c *GoTrueClient) configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

func (c *GoTrueClient) SignInWithOTP(ctx context.Context, email string, opts OTPOptions) error {
	if !c.configured() {
		return ErrNotConfigured
	}

	body := map[string]interface{}{
		"email":       email,
		"create_user": opts.CreateUser,
		"data":        map[string]interface{}{},
	}
	if opts.CodeVerifier != "" {
		body["code_challenge"] = oauth2.S256ChallengeFromVerifier(opts.CodeVerifier)
		body["code_challenge_method"] = "s256"
	}

	query := url.Values{}
	if opts.RedirectTo != "" {
		query.Set("redirect_to", opts.RedirectTo)
	}

	return c.do(ctx, http.MethodPost, "/otp", query, "", body, nil)
}

// AuthorizeURL builds the redirect target that starts a federated sign-in.
func (c *GoTrueClient) AuthorizeURL(provider string, opts OAuthOptions) (string, error) {
	if !c.configured() {
		return "", ErrNotConfigured
	}
	if provider == "" {
		return "", errors.New("provider is required")
	}

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("provider", provider),
	}
	if opts.RedirectTo != "" {
		params = append(params, oauth2.SetAuthURLParam("redirect_to", opts.RedirectTo))
	}
	if opts.CodeVerifier != "" {
		params = append(params, oauth2.S256ChallengeOption(opts.CodeVerifier))
	}

	return c.oauth.AuthCodeURL("", params...), nil
}

func (c *GoTrueClient) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	var session Session
	body := map[string]string{
		"auth_code":     authCode,
		"code_verifier": codeVerifier,
	}
	query := url.Values{"grant_type": {"pkce"}}
	if err := c.do(ctx, http.MethodPost, "/token", query, "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *GoTrueClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	var session Session
	body := map[string]string{"refresh_token": refreshToken}
	query := url.Values{"grant_type": {"refresh_token"}}
	if err := c.do(ctx, http.MethodPost, "/token", query, "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, accessToken, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	return c.do(ctx, http.MethodPost, "/logout", nil, accessToken, nil, nil)
}

func (c *GoTrueClient) do(ctx context.Context, method, path string, query url.Values, bearer string, in, out interface{}) error {
	endpoint := c.baseURL + authPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed reading identity response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp.StatusCode, content)
	}

	if out == nil || len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to parse identity response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, content []byte) error {
	var body struct {
		Code             interface{} `json:"code"`
		ErrorCode        string      `json:"error_code"`
		Msg              string      `json:"msg"`
		Message          string      `json:"message"`
		Error            string      `json:"error"`
		ErrorDescription string      `json:"error_description"`
	}
	_ = json.Unmarshal(content, &body)

	apiErr := &APIError{Status: status, Code: body.ErrorCode}
	if apiErr.Code == "" {
		apiErr.Code = body.Error
	}

	for _, candidate := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if candidate != "" {
			apiErr.Message = candidate
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
