package google

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// storedToken is the persisted OAuth token layout, compatible with the
// token files produced by Google's OAuth flows.
type storedToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry,omitempty"`
}

// LoadTokenSource reads an OAuth token from a JSON file and wraps it
// in a reusable token source. Refresh is delegated to the oauth2
// client configuration when one is available.
func LoadTokenSource(path string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	if stored.AccessToken == "" && stored.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s contains no usable token", path)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		TokenType:    stored.TokenType,
		RefreshToken: stored.RefreshToken,
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}

	return oauth2.StaticTokenSource(token), nil
}
