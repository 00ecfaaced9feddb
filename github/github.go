package github

import (
	"context"
	"time"

	"github.com/google/go-github/v39/github"
	"golang.org/x/oauth2"

	ehttp "github.com/wangxiyuan/pr-notification/http"
	"github.com/wangxiyuan/pr-notification/version"
)

const httpTimeout = time.Second * 10

// TokenSource adapts a static token for oauth2.
type TokenSource struct {
	AccessToken string
}

// Token implements oauth2.TokenSource.
func (t *TokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: t.AccessToken}, nil
}

// NewClient creates a go-github client. With a token the client
// authenticates via oauth2, raising the rate limit from 60 to 5000
// requests/hour; without one it talks to the public API anonymously.
func NewClient(ctx context.Context, token string) *github.Client {
	base := ehttp.NewClient(httpTimeout, "prmon/"+version.Version)

	if token == "" {
		return github.NewClient(&base)
	}

	ts := TokenSource{AccessToken: token}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &base)
	oauthClient := oauth2.NewClient(ctx, &ts)
	oauthClient.Timeout = httpTimeout
	return github.NewClient(oauthClient)
}
