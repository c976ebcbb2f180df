package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pollos-admin/internal/model"
	"pollos-admin/internal/repository"
	"pollos-admin/pkg/database"
	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/jwt"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/metrics"
	"pollos-admin/pkg/session"
	"pollos-admin/pkg/validator"

	"gorm.io/gorm"
)

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*model.User, error)

	CreateUser(ctx context.Context, actor Actor, in UserInput) (*model.User, error)
	ResetPassword(ctx context.Context, actor Actor, username, newPassword string) error
	SetUserActive(ctx context.Context, actor Actor, username string, active bool) error
	ListUsers(ctx context.Context, actor Actor) ([]model.User, error)
}

// Session is a signed-in user and the token carried in the session cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type authService struct {
	uow      unitOfWork
	signer   *jwt.Signer
	registry *session.Registry
	log      *logger.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, signer *jwt.Signer, registry *session.Registry, log *logger.Logger, rec *metrics.Recorder) AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &authService{
		uow:      unitOfWork{db: db},
		signer:   signer,
		registry: registry,
		log:      log,
		metrics:  rec,
		now:      time.Now,
	}
}

func invalidCredentials() error {
	return apperrors.New(apperrors.CodeInvalidCredentials, "usuario o contraseña inválidos")
}

// Authenticate verifies the password before the active flag, so a disabled
// account is only reported to someone who knows its password.
func (s *authService) Authenticate(ctx context.Context, username, password string) (sess *Session, err error) {
	ctx = s.log.WithField(ctx, "username", username)
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = string(apperrors.CodeOf(err))
			s.log.Info(ctx, "login rejected: "+result)
		}
		s.metrics.Login(result)
	}()

	users := s.uow.read().Users

	// 1. Find user by exact username
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			model.CheckPasswordWithoutUser(password)
			return nil, invalidCredentials()
		}
		return nil, apperrors.Wrap(apperrors.CodePersistence, err, "error al consultar usuario")
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, invalidCredentials()
	}

	// 3. Check if user is active
	if !user.Active {
		return nil, apperrors.New(apperrors.CodeAccountDisabled, "cuenta desactivada")
	}

	// 4. Register the session and sign its token
	sessionID, err := s.registry.Register(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "no se pudo iniciar sesión")
	}
	token, expiresAt, err := s.signer.GenerateToken(user.ID, user.Username, user.Name, string(user.Role), sessionID)
	if err != nil {
		_ = s.registry.Revoke(ctx, sessionID)
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "no se pudo firmar la sesión")
	}

	// 5. Record last login
	now := s.now()
	if err := users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		_ = s.registry.Revoke(ctx, sessionID)
		return nil, apperrors.Wrap(apperrors.CodePersistence, err, "no se pudo registrar el acceso")
	}
	user.LastLogin = &now

	s.log.Info(s.log.WithUserID(ctx, user.ID), "user signed in")
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the session behind token. Invalid or expired tokens are
// ignored; there is nothing left to revoke.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.registry.Revoke(ctx, claims.SessionID()); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "no se pudo cerrar la sesión")
	}
	s.log.Info(s.log.WithUserID(ctx, claims.UserID), "user signed out")
	return nil
}

// Resolve returns the user behind a session token. The token must verify,
// its session must still be registered and the user must still be active.
func (s *authService) Resolve(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, err, "sesión inválida")
	}

	owner, err := s.registry.Owner(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "sesión cerrada o expirada")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "no se pudo validar la sesión")
	}
	if owner != claims.UserID {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "sesión inválida")
	}

	user, err := s.uow.read().Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "usuario inexistente")
		}
		return nil, apperrors.Wrap(apperrors.CodePersistence, err, "error al consultar usuario")
	}
	if !user.Active {
		_ = s.registry.Revoke(ctx, claims.SessionID())
		return nil, apperrors.New(apperrors.CodeAccountDisabled, "cuenta desactivada")
	}
	return user, nil
}

func (s *authService) CreateUser(ctx context.Context, actor Actor, in UserInput) (user *model.User, err error) {
	if err = Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err = validator.ValidateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.run(ctx, func(store *repository.Store) error {
		if existing, err := store.Users.FindByUsername(ctx, in.Username); err == nil && existing != nil {
			return duplicate("username", "Ya existe un usuario con ese nombre.")
		}
		user = &model.User{
			Username: in.Username,
			Name:     in.Name,
			Role:     model.Role(in.Role),
			Active:   in.Active,
		}
		if err := user.SetPassword(in.Password); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "no se pudo cifrar la contraseña")
		}
		return storeError(store.Users.Create(ctx, user), "username", "Ya existe un usuario con ese nombre.")
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(s.log.WithFields(ctx, map[string]any{"username": user.Username, "role": user.Role}), "user created")
	return user, nil
}

func (s *authService) ResetPassword(ctx context.Context, actor Actor, username, newPassword string) error {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return err
	}
	if len(newPassword) < 6 {
		return apperrors.Field(apperrors.CodeValidation, "password", "Debe tener al menos 6 caracteres.")
	}

	return s.uow.run(ctx, func(store *repository.Store) error {
		user, err := store.Users.FindByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return lookupError(err, "Usuario no encontrado.")
		}
		if err := user.SetPassword(newPassword); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "no se pudo cifrar la contraseña")
		}
		return storeError(store.Users.UpdatePassword(ctx, user.ID, user.PasswordHash), "", "")
	})
}

func (s *authService) SetUserActive(ctx context.Context, actor Actor, username string, active bool) error {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return err
	}
	return s.uow.run(ctx, func(store *repository.Store) error {
		user, err := store.Users.FindByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return lookupError(err, "Usuario no encontrado.")
		}
		return storeError(store.Users.SetActive(ctx, user.ID, active), "", "")
	})
}

func (s *authService) ListUsers(ctx context.Context, actor Actor) ([]model.User, error) {
	if err := Authorize(actor, model.RoleAdministrator); err != nil {
		return nil, err
	}
	users, err := s.uow.read().Users.FindAll(ctx)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return users, nil
}
