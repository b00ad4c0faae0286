package handle

import (
	"net/http"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
)

type AuthHandler struct {
	userService ports.IUserService
	mylog       mylogger.Logger
}

func NewAuthHandler(userService ports.IUserService, mylog mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		mylog:       mylog,
	}
}

func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := mylogger.FromContext(r.Context(), ah.mylog).Action("Register")

		var regReq dto.UserRegistrationRequest
		if err := decodeJSON(r, &regReq); err != nil {
			writeServiceError(w, mylog, err)
			return
		}

		user, err := ah.userService.Register(r.Context(), regReq)
		if err != nil {
			writeServiceError(w, mylog, err)
			return
		}

		jsonResponse(w, http.StatusCreated, dto.NewUserResponseDto(user))
		mylog.Info("Successfully registered!", "user-id", user.ID)
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := mylogger.FromContext(r.Context(), ah.mylog).Action("Login")

		var authReq dto.UserAuthRequest
		if err := decodeJSON(r, &authReq); err != nil {
			writeServiceError(w, mylog, err)
			return
		}

		token, err := ah.userService.Login(r.Context(), authReq)
		if err != nil {
			writeServiceError(w, mylog, err)
			return
		}

		jsonResponse(w, http.StatusOK, token)
		mylog.Debug("Successfully login!")
	}
}
