package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/domain/entity"
	repo "github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/mailer"
	tpl "github.com/oksasatya/lincup/pkg/mailer/templates"
)

// JobPublisher enqueues background jobs; helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailSettings controls the transactional emails queued by AuthService.
type MailSettings struct {
	Enabled    bool
	AppName    string
	SupportURL string
}

type AuthService struct {
	Users    repo.UserRepository
	Sessions repo.SessionStore
	JWT      *helpers.JWTManager
	Pub      JobPublisher
	Mail     MailSettings
	Logger   *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionStore, jwt *helpers.JWTManager, pub JobPublisher, mail MailSettings, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		JWT:      jwt,
		Pub:      pub,
		Mail:     mail,
		Logger:   logger,
	}
}

// ResetMessage is returned for every reset request so callers cannot probe for accounts.
func ResetMessage(email string) string {
	return fmt.Sprintf("If an account exists for %s, password recovery instructions have been sent.", email)
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password, confirm string) (*UserView, TokenPair, error) {
	if password != confirm {
		return nil, TokenPair{}, ErrPasswordMismatch
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := helpers.HashPassword(password)
	if errors.Is(err, helpers.ErrEmptyPassword) || errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	if err != nil {
		return nil, TokenPair{}, err
	}
	u := &entity.User{Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, TokenPair{}, ErrDuplicateEmail
		}
		return nil, TokenPair{}, err
	}

	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.enqueueEmail(ctx, u.Email, tpl.Welcome)
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID})
	return NewUserView(u), pair, nil
}

// Authenticate validates email/password. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*UserView, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return NewUserView(u), pair, nil
}

// IssueTokens starts a new session for u and signs tokens bound to it.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.sign(u.ID, sid)
	if err != nil {
		helpers.LogError(s.Logger, "generate tokens failed", err, logrus.Fields{"user_id": u.ID})
		return TokenPair{}, err
	}
	sess := &entity.Session{UserID: u.ID, Email: u.Email, SID: sid, CreatedAt: time.Now().UTC()}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return TokenPair{}, fmt.Errorf("save session: %w", err)
	}
	return pair, nil
}

// Refresh rotates the session id and both tokens. The refresh token must belong to the live session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	sess, err := s.Sessions.Get(ctx, claims.UserID)
	if err != nil || sess.SID != claims.SessionID {
		return TokenPair{}, "", ErrInvalidCredentials
	}

	sid := uuid.NewString()
	pair, err := s.sign(claims.UserID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	sess.SID = sid
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return TokenPair{}, "", fmt.Errorf("save session: %w", err)
	}
	return pair, claims.UserID, nil
}

// Logout forgets the session marker only; the account stays untouched.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Sessions.Delete(ctx, userID)
}

// RequestPasswordReset never reveals whether the account exists and never changes the password.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) string {
	u, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		s.enqueueEmail(ctx, u.Email, tpl.PasswordRecovery)
		helpers.LogInfo(s.Logger, "password recovery requested", logrus.Fields{"user_id": u.ID})
	case errors.Is(err, repo.ErrNotFound):
		if s.Logger != nil {
			s.Logger.Debug("password recovery requested for unknown email")
		}
	default:
		helpers.LogError(s.Logger, "password recovery lookup failed", err, nil)
	}
	return ResetMessage(email)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return NewUserView(u), nil
}

func (s *AuthService) sign(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) enqueueEmail(ctx context.Context, to, template string) {
	if s.Pub == nil || !s.Mail.Enabled {
		return
	}
	data := tpl.Data{
		AppName:    s.Mail.AppName,
		Email:      to,
		SupportURL: s.Mail.SupportURL,
		Time:       time.Now().UTC().Format("02 January 2006, 15:04 MST"),
	}
	job := mailer.NewTemplateJob(to, template, data)
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "failed to publish email job", err, logrus.Fields{"template": template})
	}
}
