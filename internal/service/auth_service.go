package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/auth"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/dao"
	"github.com/grand-thief-cash/todolist/internal/model"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthService struct {
	*core.BaseComponent
	UserDao dao.UserDao        `infra:"dep:user_dao"`
	Tokens  *auth.TokenManager `infra:"dep:token_manager"`
	Revoker auth.Revoker       `infra:"dep:token_revoker"`

	bcryptCost int
}

func NewAuthService(bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_AUTH, appconsts.COMPONENT_LOGGING),
		bcryptCost:    bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || len(username) > 64 {
		return nil, fmt.Errorf("%w: username must be 1-64 characters", ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email %q is not a valid address", ErrValidation, email)
	}
	if len(in.Password) < consts.MIN_PASSWORD_LEN {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, consts.MIN_PASSWORD_LEN)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	u := &model.User{Username: username, Email: email, PasswordHash: string(hash), CreatedAt: time.Now().UTC()}
	if err := s.UserDao.Create(ctx, u); err != nil {
		if errors.Is(err, dao.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logging.Info(ctx, "user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResult, error) {
	u, err := s.UserDao.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		logging.Warn(ctx, "login rejected", zap.String("username", u.Username))
		return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	return s.issue(u)
}

// Logout revokes the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, id *auth.Identity) error {
	if id == nil {
		return ErrUnauthorized
	}
	if err := s.Revoker.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logging.Info(ctx, "user logged out", zap.Int64("user_id", id.UserID))
	return nil
}

func (s *AuthService) issue(u *model.User) (*TokenResult, error) {
	tok, exp, err := s.Tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: tok, ExpiresAt: exp}, nil
}
