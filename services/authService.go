package services

import (
	"PatientCare/apperrors"
	"PatientCare/models"
	"PatientCare/utils"
	"context"
	"crypto/subtle"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const usernameMessage = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// Validate checks each field, then that both passwords are equal.
func (in RegisterInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.RuneLength(1, 150), validation.Match(usernamePattern).Error(usernameMessage)),
		validation.Field(&in.Email, validation.Required, validation.RuneLength(1, 254), is.EmailFormat),
		validation.Field(&in.FirstName, validation.RuneLength(0, 150)),
		validation.Field(&in.LastName, validation.RuneLength(0, 150)),
		validation.Field(&in.Password, utils.PasswordRules()...),
		validation.Field(&in.PasswordConfirm, validation.Required),
	)
	if err != nil {
		return utils.ValidationError(err)
	}
	if in.Password != in.PasswordConfirm {
		return apperrors.Field(apperrors.NonFieldErrors, utils.ErrPasswordMismatch.Error())
	}
	return nil
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return utils.ValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required),
		validation.Field(&in.Password, validation.Required),
	))
}

type PasswordResetInput struct {
	Email              string `json:"email"`
	Code               string `json:"code"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

func (in PasswordResetInput) Validate() error {
	return utils.ValidationError(validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Code, validation.Required.Error(utils.ErrInvalidResetCode.Error()), is.Digit, validation.RuneLength(6, 6)),
		validation.Field(&in.NewPassword, utils.PasswordRules()...),
		validation.Field(&in.NewPasswordConfirm, validation.Required, utils.MatchesPassword(in.NewPassword)),
	))
}

// AuthService handles accounts and their tokens.
type AuthService struct {
	accounts AccountStore
	tokens   *utils.TokenMaker
	kv       KeyValueStore
	mailer   ResetMailer
}

func NewAuthService(accounts AccountStore, tokens *utils.TokenMaker, kv KeyValueStore, mailer ResetMailer) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, kv: kv, mailer: mailer}
}

func revokedTokenKey(tokenID string) string {
	return "revoked_token:" + tokenID
}

// Register creates an account and issues its first token pair. Nothing is
// stored when validation fails.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, utils.TokenPair, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, utils.TokenPair{}, err
	}

	fields := map[string]string{}
	exists, err := s.accounts.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	if exists {
		fields["username"] = "A user with that username already exists."
	}
	exists, err = s.accounts.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	if exists {
		fields["email"] = "A user with that email already exists."
	}
	if len(fields) > 0 {
		return nil, utils.TokenPair{}, apperrors.Validation("Validation failed", fields)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hashed,
		IsActive:  true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, utils.TokenPair{}, err
	}

	pair, err := s.tokens.GenerateTokens(account.ID)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	log.Info().Uint("account_id", account.ID).Str("username", account.Username).Msg("account registered")
	return account, pair, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.Account, utils.TokenPair, error) {
	if err := in.Validate(); err != nil {
		return nil, utils.TokenPair{}, err
	}

	account, err := s.accounts.GetByUsername(ctx, in.Username)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, utils.TokenPair{}, apperrors.Field(apperrors.NonFieldErrors, "Invalid credentials")
		}
		return nil, utils.TokenPair{}, err
	}
	if !utils.CheckPassword(account.Password, in.Password) {
		return nil, utils.TokenPair{}, apperrors.Field(apperrors.NonFieldErrors, "Invalid credentials")
	}
	if !account.IsActive {
		return nil, utils.TokenPair{}, apperrors.Field(apperrors.NonFieldErrors, "User account is disabled")
	}

	pair, err := s.tokens.GenerateTokens(account.ID)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	return account, pair, nil
}

// Authenticate resolves an access token to an active account.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.Account, error) {
	claims, err := s.tokens.ValidateToken(accessToken, utils.AccessToken)
	if err != nil {
		return nil, apperrors.Authentication("Given token not valid for any token type")
	}
	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Authentication("User not found")
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.Authentication("User is inactive")
	}
	return account, nil
}

// Refresh issues a new access token for a valid, unrevoked refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.refreshClaims(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil && !apperrors.Is(err, apperrors.KindNotFound) {
		return "", err
	}
	if err != nil || !account.IsActive {
		return "", apperrors.Authentication("Token is invalid or expired")
	}
	return s.tokens.GenerateAccessToken(claims.AccountID)
}

// Logout revokes the refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, accountID uint, refreshToken string) error {
	claims, err := s.refreshClaims(ctx, refreshToken)
	if err != nil {
		return err
	}
	if claims.AccountID != accountID {
		return apperrors.Authentication("Token is invalid or expired")
	}
	ttl := time.Until(claims.Expiry)
	if ttl <= 0 {
		return nil
	}
	return s.kv.Set(ctx, revokedTokenKey(claims.TokenID), "1", ttl)
}

func (s *AuthService) refreshClaims(ctx context.Context, refreshToken string) (*utils.TokenClaims, error) {
	if refreshToken == "" {
		return nil, apperrors.Field("refresh", "This field is required.")
	}
	claims, err := s.tokens.ValidateToken(refreshToken, utils.RefreshToken)
	if err != nil {
		return nil, apperrors.Authentication("Token is invalid or expired")
	}
	revoked, err := s.kv.Get(ctx, revokedTokenKey(claims.TokenID))
	if err != nil {
		return nil, err
	}
	if revoked != "" {
		return nil, apperrors.Authentication("Token is blacklisted")
	}
	return claims, nil
}

func (s *AuthService) Account(ctx context.Context, id uint) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// SendResetCode mails a reset code when the email belongs to an account.
// Unknown emails succeed silently so callers cannot discover which accounts exist.
func (s *AuthService) SendResetCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return apperrors.Field("email", err.Error())
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil
		}
		return err
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	if err := s.kv.Set(ctx, utils.ResetCodeKey(account.Email), code, utils.ResetCodeTTL); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, utils.ResetAttemptsKey(account.Email)); err != nil {
		return err
	}
	if err := s.mailer.SendResetCode(account.Email, code); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	log.Info().Uint("account_id", account.ID).Msg("password reset code sent")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, in PasswordResetInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return err
	}

	key := utils.ResetCodeKey(in.Email)
	stored, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if stored == "" {
		return apperrors.Field("code", utils.ErrInvalidResetCode.Error())
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(in.Code)) != 1 {
		if err := s.recordFailedReset(ctx, in.Email); err != nil {
			return err
		}
		return apperrors.Field("code", utils.ErrInvalidResetCode.Error())
	}

	account, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return apperrors.Field("code", utils.ErrInvalidResetCode.Error())
		}
		return err
	}

	hashed, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hashed); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Msg("failed to delete used reset code")
	}
	if err := s.kv.Delete(ctx, utils.ResetAttemptsKey(in.Email)); err != nil {
		log.Warn().Err(err).Msg("failed to delete reset attempts")
	}
	log.Info().Uint("account_id", account.ID).Msg("password reset")
	return nil
}

// recordFailedReset counts a wrong code. Once MaxResetAttempts is reached
// the pending code is dropped and a new one has to be requested.
func (s *AuthService) recordFailedReset(ctx context.Context, email string) error {
	attempts, err := s.kv.Incr(ctx, utils.ResetAttemptsKey(email), utils.ResetCodeTTL)
	if err != nil {
		return err
	}
	if attempts < utils.MaxResetAttempts {
		return nil
	}
	if err := s.kv.Delete(ctx, utils.ResetCodeKey(email)); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, utils.ResetAttemptsKey(email)); err != nil {
		return err
	}
	log.Warn().Str("email", email).Int64("attempts", attempts).Msg("reset code discarded after repeated failures")
	return nil
}
