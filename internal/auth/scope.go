package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
)

// Scope names form a closed set. Requests carrying anything outside this
// list are rejected at the boundary, before any database work.
const (
	ScopeProfile = "profile"
	ScopeMedia   = "media"
	ScopeEmail   = "email"
	ScopeWallet  = "wallet"
)

var allowedScopes = map[string]bool{
	ScopeProfile: true,
	ScopeMedia:   true,
	ScopeEmail:   true,
	ScopeWallet:  true,
}

// ParseScopes splits a space-joined scope string and validates every entry
// against the allow-list. Scopes are treated as an opaque set; there is no
// hierarchy or wildcard expansion.
func ParseScopes(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidScope, "at least one scope is required")
	}

	scopes := strings.Fields(raw)
	seen := make(map[string]bool, len(scopes))
	result := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if !allowedScopes[s] {
			return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidScope,
				fmt.Sprintf("unknown scope: %s", s))
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
	}
	return result, nil
}

// JoinScopes renders a scope set in the space-joined wire format
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

// SplitScopes splits a stored scope string without validation. Stored values
// were validated on the way in.
func SplitScopes(raw string) []string {
	return strings.Fields(raw)
}

// HasScope reports whether the space-joined set contains the named scope
func HasScope(raw, scope string) bool {
	for _, s := range SplitScopes(raw) {
		if s == scope {
			return true
		}
	}
	return false
}
