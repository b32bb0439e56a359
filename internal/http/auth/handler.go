package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/natog7/PersonalFinance/internal/auth"
	"github.com/natog7/PersonalFinance/internal/http/respond"
	"github.com/natog7/PersonalFinance/internal/user"
)

const passwordSymbols = "!@#$%^&*"

var validate = newValidator()

// newValidator wires the password strength rule: at least one uppercase
// letter, one digit and one symbol from the fixed set. Length is a separate
// min=8 tag so it gets its own field message.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, digit, symbol bool

		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			case strings.ContainsRune(passwordSymbols, r):
				symbol = true
			}
		}

		return upper && digit && symbol
	})

	return v
}

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Post("/refresh-token", h.refreshToken)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	FullName string `json:"full_name" validate:"required,max=256"`
}

type registerResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.ValidationErrors(w, err)
		return
	}

	reg, err := h.svc.Register(r.Context(), auth.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respond.Error(w, http.StatusConflict, "email already registered")
			return
		}

		respond.Internal(w, err)

		return
	}

	respond.JSON(w, http.StatusCreated, registerResponse{
		UserID:   reg.UserID.String(),
		Email:    reg.Email,
		FullName: reg.FullName,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		respond.Internal(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{
		UserID:       session.UserID.String(),
		Email:        session.Email,
		FullName:     session.FullName,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		TokenType:    session.TokenType,
	})
}

// logout is a stub: token invalidation is a collaborator concern.
func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// refreshToken is a stub: rotation is a collaborator concern.
func (h *Handler) refreshToken(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"message": "token refreshed"})
}
