package middlewares

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"context"
	"errors"

	"github.com/gin-gonic/gin"
)

// contextKey is the type of keys this package stores in a request context.
type contextKey string

const accountKey contextKey = "account"

// Authenticator resolves an access token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.Account, error)
}

// TokenAuthMiddleware requires a valid bearer access token and stores the
// caller's account in the request context.
func TokenAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			RespondError(c, apperrors.Authentication("Authentication credentials were not provided."))
			return
		}

		account, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			RespondError(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))
		c.Next()
	}
}

func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFromContext retrieves the authenticated account from the context.
func AccountFromContext(ctx context.Context) (*models.Account, error) {
	account, ok := ctx.Value(accountKey).(*models.Account)
	if !ok || account == nil {
		return nil, errors.New("account not found in context")
	}
	return account, nil
}

// AccountIDFromContext returns the caller's account id, or 0 when the
// request is anonymous.
func AccountIDFromContext(ctx context.Context) uint {
	account, err := AccountFromContext(ctx)
	if err != nil {
		return 0
	}
	return account.ID
}
