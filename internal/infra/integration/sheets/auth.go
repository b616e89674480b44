package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

const (
	Scope           = "https://www.googleapis.com/auth/spreadsheets"
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
)

var ErrMissingCredentials = eris.New("sheets: service account email and private key are required")

// Credentials are the fields of a service account key file this client uses.
type Credentials struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// LoadCredentialsFile reads a downloaded service account JSON key.
func LoadCredentialsFile(path string) (Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, eris.Wrapf(err, "sheets: read credentials %s", path)
	}
	var c Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		return Credentials{}, eris.Wrapf(err, "sheets: parse credentials %s", path)
	}
	return c, c.Validate()
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.ClientEmail) == "" || strings.TrimSpace(c.PrivateKey) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// JWTConfig is the two-legged service account flow for the spreadsheets scope.
func (c Credentials) JWTConfig() *jwt.Config {
	tokenURL := c.TokenURI
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &jwt.Config{
		Email:        c.ClientEmail,
		PrivateKey:   []byte(strings.ReplaceAll(c.PrivateKey, `\n`, "\n")),
		PrivateKeyID: c.PrivateKeyID,
		Scopes:       []string{Scope},
		TokenURL:     tokenURL,
	}
}

// HTTPClient returns a client that attaches and refreshes bearer tokens.
func (c Credentials) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	hc := oauth2.NewClient(ctx, c.JWTConfig().TokenSource(ctx))
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return hc
}
