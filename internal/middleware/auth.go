package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// tokenVerifier is satisfied by *auth.Client.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
	// DevUID, when set, replaces token verification with a fixed identity.
	// Local development only.
	DevUID string
}

func NewMiddleware(client tokenVerifier, devUID string) *Middleware {
	return &Middleware{AuthClient: client, DevUID: devUID}
}

// context keys
type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey contextKey = "email"
)

// FirebaseAuth verifies the bearer ID token and puts the caller's uid and
// email on the context and on the request logger.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.DevUID != "" {
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), m.DevUID, m.DevUID+"@localhost")))
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		email, _ := token.Claims["email"].(string)
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), token.UID, email)))
	})
}

func withIdentity(ctx context.Context, uid, email string) context.Context {
	ctx = context.WithValue(ctx, UIDKey, uid)
	ctx = context.WithValue(ctx, EmailKey, email)
	_, ctx = logger.With(ctx, "uid", uid, "email", email)
	return ctx
}

// UID returns the authenticated caller.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
