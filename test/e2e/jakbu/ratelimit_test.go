package jakbu_test

import (
	"net/http"
	"testing"

	"github.com/jakbu/jakbu/pkg/jakbusdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit checks that the strict tier (5 per minute) trips on the
// sixth attempt against one account from one address.
func TestLoginRateLimit(t *testing.T) {
	client := jakbusdk.NewClient(setupContainerWithDefaultRateLimits(t))
	ctx := t.Context()

	for range 5 {
		_, err := client.Login(ctx, "victim", "guess")
		assertCode(t, err, http.StatusUnauthorized, jakbusdk.CodeInvalidCredentials)
	}

	_, err := client.Login(ctx, "victim", "guess")
	assertCode(t, err, http.StatusTooManyRequests, jakbusdk.CodeRateLimited)

	// A different account id has its own bucket.
	_, err = client.Login(ctx, "someone-else", "guess")
	require.True(t, jakbusdk.IsCode(err, jakbusdk.CodeInvalidCredentials), "got %v", err)
}
