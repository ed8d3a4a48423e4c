package middleware

import (
	"context"
	"errors"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nexus-social/backend/internal/handlers"
	"github.com/anonto42/nexus-social/backend/internal/social"
	"github.com/labstack/echo/v4"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware verifies Firebase ID tokens and signs the holder in,
// creating the local user on first sight
func FirebaseAuthMiddleware(verifier TokenVerifier, engine *social.Engine) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			token, err := verifier.VerifyIDToken(ctx, idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			s := sessionForUID(engine, token.UID)
			if s == nil {
				email, _ := token.Claims["email"].(string)
				name, _ := token.Claims["name"].(string)
				s, err = engine.LoginFederated(ctx, token.UID, email, name)
				switch {
				case errors.Is(err, social.ErrBanned):
					return echo.NewHTTPError(http.StatusForbidden, err.Error())
				case s == nil:
					return echo.NewHTTPError(http.StatusUnauthorized, "Unable to sign in")
				}
			}

			c.Set(handlers.SessionKey, s)
			c.Set("firebaseUID", token.UID)

			return next(c)
		}
	}
}

func sessionForUID(engine *social.Engine, uid string) *social.Session {
	u, ok := engine.Repositories().Users.GetUserByFirebaseUID(uid)
	if !ok {
		return nil
	}
	return engine.Resolve(u.ID)
}
