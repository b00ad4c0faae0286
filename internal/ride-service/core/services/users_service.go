package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/orlantquijada/wingz/internal/auth"
	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
)

const TokenType = "Bearer"

type TokenIssuer interface {
	Issue(userID int64, email, role string) (string, time.Time, error)
}

type UserService struct {
	mylog     mylogger.Logger
	UsersRepo ports.IUsersRepo
	Tokens    TokenIssuer
}

func NewUserService(log mylogger.Logger, usersRepo ports.IUsersRepo, tokens TokenIssuer) *UserService {
	return &UserService{
		mylog:     log,
		UsersRepo: usersRepo,
		Tokens:    tokens,
	}
}

func (us *UserService) Register(ctx context.Context, req dto.UserRegistrationRequest) (model.User, error) {
	log := mylogger.FromContext(ctx, us.mylog).Action("Register")

	req.Email = strings.TrimSpace(req.Email)
	if err := validateRegistration(req); err != nil {
		return model.User{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("cannot hash password", err)
		return model.User{}, err
	}

	user, err := us.UsersRepo.Create(ctx, model.User{
		Role:         model.Role(req.Role),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) {
			return model.User{}, myerrors.FieldError("email", "user with this email already exists.")
		}
		if !myerrors.IsValidation(err) {
			log.Error("cannot create user", err)
		}
		return model.User{}, err
	}

	log.Info("user registered", "user-id", user.ID, "role", user.Role)
	return user, nil
}

// Login exchanges credentials for an access token. Unknown email and wrong
// password are indistinguishable to the caller.
func (us *UserService) Login(ctx context.Context, req dto.UserAuthRequest) (dto.TokenResponseDto, error) {
	log := mylogger.FromContext(ctx, us.mylog).Action("Login")

	if req.Email == "" || req.Password == "" {
		v := myerrors.NewValidationError()
		if req.Email == "" {
			v.Add("email", msgBlank)
		}
		if req.Password == "" {
			v.Add("password", msgBlank)
		}
		return dto.TokenResponseDto{}, v
	}

	user, err := us.UsersRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return dto.TokenResponseDto{}, myerrors.ErrInvalidCredentials
		}
		log.Error("cannot look up user", err)
		return dto.TokenResponseDto{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		log.Warn("wrong password", "user-id", user.ID)
		return dto.TokenResponseDto{}, myerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := us.Tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		log.Error("cannot issue token", err)
		return dto.TokenResponseDto{}, err
	}

	return dto.TokenResponseDto{
		Access:    token,
		TokenType: TokenType,
		ExpiresAt: expiresAt,
	}, nil
}

func validateRegistration(req dto.UserRegistrationRequest) error {
	v := myerrors.NewValidationError()
	if !model.AllowedRoles[model.Role(req.Role)] {
		v.Add("role", "\""+req.Role+"\" is not a valid choice.")
	}
	validateName(v, "first_name", req.FirstName)
	validateName(v, "last_name", req.LastName)
	if err := ValidateEmail(req.Email); err != nil {
		v.Add("email", err.Error())
	}
	if len(req.PhoneNumber) > MaxPhoneLen {
		v.Add("phone_number", "Ensure this field has no more than 20 characters.")
	}
	validatePassword(v, req.Password)
	return v.OrNil()
}
