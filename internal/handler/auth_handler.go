/*
Package handler provides the HTTP handlers and routing for the Haven API.
*/
package handler

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleRegister creates a new account from username, email and password.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}
		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}
		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		user, err := deps.DB.CreateUser(r.Context(), store.CreateUserParams{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				if db.ViolatedConstraint(err) == "users_email_key" {
					resp.RespondError(w, r, errs.NewError(errs.ErrEmailAlreadyRegistered))
					return
				}
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("User registered", "user_id", user.ID, "username", user.Username)

		token, err := issueToken(user, deps.Config.JWTSecret, false)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondCreated(w, r, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}

// HandleLogin verifies credentials and issues a JWT. Remember-me extends the
// token lifetime from 30 minutes to 30 days.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.DB.GetUserByUsername(r.Context(), input.Username)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if !user.IsActive {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := issueToken(user, deps.Config.JWTSecret, input.RememberMe)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("User logged in", "user_id", user.ID, "remember_me", input.RememberMe)

		resp.RespondSuccess(w, r, map[string]any{
			"user":  user,
			"token": token,
		})
	}
}

// HandleChangePassword verifies the old password before storing the new hash.
func HandleChangePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input ChangePasswordInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !validPassword(input.NewPassword) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		user, err := deps.DB.GetUserByID(r.Context(), payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrOldPasswordInvalid))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := deps.DB.UpdateUserPassword(r.Context(), user.ID, string(hashedPassword)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("Password changed", "user_id", user.ID)

		resp.RespondSuccess(w, r, map[string]string{"status": "password changed"})
	}
}

func validPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= 6 && n <= 50
}

func issueToken(user *store.User, secret string, rememberMe bool) (string, error) {
	duration := jwt.AccessExpiration
	if rememberMe {
		duration = jwt.RememberMeExpiration
	}

	nickname := ""
	if user.Nickname != nil {
		nickname = *user.Nickname
	}

	payload := &jwt.Payload{
		UserID:   user.ID,
		Username: user.Username,
		Nickname: nickname,
		IsAdmin:  user.IsAdmin,
	}

	return jwt.GenerateToken(payload, secret, duration)
}
