package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/orlantquijada/wingz/internal/auth"
	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driver/myhttp/handle"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	mylog  mylogger.Logger
}

func NewAuthMiddleware(tokens TokenVerifier, mylog mylogger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		mylog:  mylog,
	}
}

type claimsKey struct{}

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// Wrap requires a valid access token and stores its claims in the request context.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), am.mylog).Action("auth")

		claims, err := am.tokens.Verify(tokenFromRequest(r))
		if err != nil {
			log.Debug("rejected token", "reason", err.Error())
			handle.JsonError(w, http.StatusUnauthorized, myerrors.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		ctx = mylogger.WithContext(ctx, mylogger.FromContext(ctx, am.mylog).With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly is Wrap plus the admin capability check. Authenticated
// non-admins get 403.
func (am *AuthMiddleware) AdminOnly(next http.Handler) http.Handler {
	return am.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if !auth.IsAdmin(claims) {
			handle.JsonError(w, http.StatusForbidden, myerrors.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// tokenFromRequest reads the bearer token. Websocket upgrades may pass it as
// the access_token query parameter since browsers cannot set headers there.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}
