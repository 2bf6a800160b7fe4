package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devconnector/internal/domain"
	"devconnector/internal/service"
	httpez "devconnector/internal/transport/http/ez"
)

type tokenOut struct {
	Token string `json:"token"`
}

// AuthHandler serves /auth and /users. Limit, when set, guards the
// credential-checking routes.
type AuthHandler struct {
	svc   *service.AuthService
	log   *zap.Logger
	limit gin.HandlerFunc
}

func NewAuthHandler(svc *service.AuthService, l *zap.Logger, limit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{svc: svc, log: l, limit: limit}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) Mount(public, private *gin.RouterGroup) {
	guarded := public.Group("")
	if h.limit != nil {
		guarded.Use(h.limit)
	}
	pub := httpez.New(guarded, h.log)
	priv := httpez.New(private, h.log)

	httpez.RegisterAction(priv, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := h.svc.Me(c.Request.Context(), httpez.UserID(c))
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, httpez.NotFound("User not found", err)
			}
			return u, err
		},
	})

	httpez.RegisterAction(pub, httpez.Action[service.LoginInput, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (tokenOut, error) {
			tok, err := h.svc.Login(c.Request.Context(), *in)
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return tokenOut{}, httpez.Fields(domain.FieldError{Msg: "Invalid credentials"})
			}
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok}, nil
		},
	})

	httpez.RegisterAction(pub, httpez.Action[service.RegisterInput, tokenOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (tokenOut, error) {
			tok, err := h.svc.Register(c.Request.Context(), *in)
			if errors.Is(err, domain.ErrUserExists) {
				return tokenOut{}, httpez.Fields(domain.FieldError{Msg: "User already exists"})
			}
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok}, nil
		},
	})
}
