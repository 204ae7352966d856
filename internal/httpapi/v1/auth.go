package v1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// publicPaths skip authentication so probes and scrapers need no token.
var publicPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

type subjectKey struct{}

func parseBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authJWT validates HS256 bearer tokens against secret. It returns nil when
// secret is empty, leaving the API open. A non-empty issuer must match iss.
func authJWT(secret, issuer string) func(http.Handler) http.Handler {
	if secret == "" {
		return nil
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := parseBearerToken(r)
			if !ok {
				writeErr(w, http.StatusUnauthorized, "missing bearer token", "unauthorized")
				return
			}
			claims := &jwt.RegisteredClaims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				writeErr(w, http.StatusUnauthorized, "invalid token", "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), subjectKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
