package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devconnector/internal/domain"
	"devconnector/internal/service"
	httpez "devconnector/internal/transport/http/ez"
	resp "devconnector/internal/transport/http/response"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	github   *service.GithubService
	log      *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, github *service.GithubService, l *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, github: github, log: l}
}

// profileErr maps lookup misses to their client messages.
func profileErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		return httpez.NotFound("There is no profile for this user", err)
	case errors.Is(err, domain.ErrExperienceNotFound):
		return httpez.NotFound("Experience not found", err)
	case errors.Is(err, domain.ErrEducationNotFound):
		return httpez.NotFound("Education not found", err)
	case errors.Is(err, domain.ErrGithubNotFound):
		return httpez.NotFound("No github profile found", err)
	}
	return err
}

func one(p *domain.Profile, err error) (*domain.Profile, error) {
	if err != nil {
		return nil, profileErr(err)
	}
	return p, nil
}

type githubParam struct {
	Username string `uri:"username"`
}

func (h *ProfileHandler) Mount(public, private *gin.RouterGroup) {
	pub := httpez.New(public.Group("/profile"), h.log)
	priv := httpez.New(private.Group("/profile"), h.log)

	httpez.RegisterAction(priv, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			return one(h.profiles.Me(c.Request.Context(), httpez.UserID(c)))
		},
	})

	httpez.RegisterAction(priv, httpez.Action[service.ProfileInput, *domain.Profile]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ProfileInput) (*domain.Profile, error) {
			return one(h.profiles.Save(c.Request.Context(), httpez.UserID(c), *in))
		},
	})

	httpez.RegisterAction(pub, httpez.Action[struct{}, []domain.Profile]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Profile, error) {
			return h.profiles.List(c.Request.Context())
		},
	})

	httpez.RegisterAction(pub, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/user/:user_id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			return one(h.profiles.ByUser(c.Request.Context(), c.Param("user_id")))
		},
	})

	httpez.RegisterAction(priv, httpez.Action[struct{}, resp.Msg]{
		Method: http.MethodDelete,
		Path:   "",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Msg, error) {
			if err := h.profiles.DeleteAccount(c.Request.Context(), httpez.UserID(c)); err != nil {
				return resp.Msg{}, err
			}
			return resp.Message("User deleted"), nil
		},
	})

	httpez.RegisterAction(priv, httpez.Action[service.ExperienceInput, *domain.Profile]{
		Method: http.MethodPut,
		Path:   "/experience",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.ExperienceInput) (*domain.Profile, error) {
			return one(h.profiles.AddExperience(c.Request.Context(), httpez.UserID(c), *in))
		},
	})

	httpez.RegisterAction(priv, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodDelete,
		Path:   "/experience/:exp_id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			return one(h.profiles.RemoveExperience(c.Request.Context(), httpez.UserID(c), c.Param("exp_id")))
		},
	})

	httpez.RegisterAction(priv, httpez.Action[service.EducationInput, *domain.Profile]{
		Method: http.MethodPut,
		Path:   "/education",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *service.EducationInput) (*domain.Profile, error) {
			return one(h.profiles.AddEducation(c.Request.Context(), httpez.UserID(c), *in))
		},
	})

	httpez.RegisterAction(priv, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodDelete,
		Path:   "/education/:edu_id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			return one(h.profiles.RemoveEducation(c.Request.Context(), httpez.UserID(c), c.Param("edu_id")))
		},
	})

	httpez.RegisterAction(pub, httpez.Action[githubParam, httpez.Raw]{
		Method: http.MethodGet,
		Path:   "/github/:username",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *githubParam) (httpez.Raw, error) {
			b, err := h.github.Repos(c.Request.Context(), in.Username)
			if err != nil {
				return nil, profileErr(err)
			}
			return httpez.Raw(b), nil
		},
	})
}
