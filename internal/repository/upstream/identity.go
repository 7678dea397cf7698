package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/schoolroll/attendance-backend-go/internal/domain/auth"
	"github.com/schoolroll/attendance-backend-go/internal/domain/user"
)

type identityProviderImpl struct {
	client *Client
}

func NewIdentityProvider(client *Client) auth.IdentityProvider {
	return &identityProviderImpl{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"authToken"`
	User      struct {
		ID           flexString `json:"id"`
		Email        string     `json:"email"`
		Name         string     `json:"name"`
		Role         string     `json:"role"`
		DistrictCode flexString `json:"district_code"`
		SchoolCode   flexString `json:"school_code"`
	} `json:"user"`
}

// Authenticate exchanges credentials for an upstream token and profile.
// 401 and 403 answers mean bad credentials.
func (p *identityProviderImpl) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.client.timeout)
	defer cancel()

	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.client.loginURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("upstream login: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := p.client.do(p.client.httpClient, "login", req)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) &&
			(statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: login: %v", ErrMalformedResponse, err)
	}
	if resp.AuthToken == "" {
		return nil, fmt.Errorf("%w: login: missing authToken", ErrMalformedResponse)
	}

	return &auth.Identity{
		Token: resp.AuthToken,
		User: user.User{
			ID:           string(resp.User.ID),
			Email:        resp.User.Email,
			Name:         resp.User.Name,
			Role:         user.Role(resp.User.Role),
			DistrictCode: string(resp.User.DistrictCode),
			SchoolCode:   string(resp.User.SchoolCode),
		},
	}, nil
}

// flexString accepts JSON strings and numbers; the upstream service emits
// numeric ids for some tables.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}
