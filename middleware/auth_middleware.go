package middleware

import (
	"cinelog-server/utils/errors"
	"context"
	"log"
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

// AuthUser is the caller identity decoded from a verified token.
type AuthUser struct {
	UID      string
	Name     string
	Email    string
	PhotoURL string
}

// TokenVerifier validates a raw bearer token and yields the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*AuthUser, error)
}

type authUserKey struct{}

// AuthUserFrom returns the identity stored by AuthMiddleware, if any.
func AuthUserFrom(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(authUserKey{}).(*AuthUser)
	return user, ok
}

// WithAuthUser stores an identity on the context the way AuthMiddleware
// does. Intended for handler tests.
func WithAuthUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, authUserKey{}, user)
}

// AuthMiddleware rejects requests without a valid "Bearer <token>" header
// before the handler runs. The scheme check is case-insensitive.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, errors.NewAPIError("UNAUTHORIZED", "No token provided", http.StatusUnauthorized))
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				WriteError(w, errors.NewAPIError("UNAUTHORIZED", "Malformed authorization header", http.StatusUnauthorized))
				return
			}

			user, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				log.Printf("error verifying ID token: %v", err)
				WriteError(w, errors.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FirebaseVerifier validates ID tokens against the Firebase project's
// public keys.
type FirebaseVerifier struct {
	Client *firebaseauth.Client
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*AuthUser, error) {
	token, err := v.Client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	user := &AuthUser{UID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		user.Name = name
	}
	if email, ok := token.Claims["email"].(string); ok {
		user.Email = email
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		user.PhotoURL = picture
	}
	return user, nil
}

// HMACVerifier accepts HS256 tokens signed with a shared secret. Used for
// local development and tests, never in production.
type HMACVerifier struct {
	Secret string
}

func (v *HMACVerifier) Verify(ctx context.Context, idToken string) (*AuthUser, error) {
	token, err := jwt.Parse(idToken, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAPIError("INVALID_TOKEN", "Unexpected signing method", http.StatusUnauthorized)
		}
		return []byte(v.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return nil, errors.ErrUnauthorized
	}
	user := &AuthUser{UID: uid}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if photoURL, ok := claims["photoUrl"].(string); ok {
		user.PhotoURL = photoURL
	}
	return user, nil
}
