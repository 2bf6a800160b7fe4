package ez

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"devconnector/internal/domain"
	mdw "devconnector/internal/transport/http/middleware"
	resp "devconnector/internal/transport/http/response"
)

// EZ registers actions on a router group.
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindURI   Binder = "uri"   // path params, `uri:"..."` tags
	BindNone  Binder = "none"
)

// Raw is written to the client byte for byte as JSON.
type Raw []byte

// AErr is an error with a known HTTP status. Errors, when set, is
// rendered as {"errors": [...]}; otherwise {"msg": Msg}.
type AErr struct {
	Code   int
	Msg    string
	Errors []domain.FieldError
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

// NotFound keeps the 400 status clients of this API already handle.
func NotFound(msg string, err error) error {
	return &AErr{Code: http.StatusBadRequest, Msg: msg, Err: err}
}

// Fields reports one or more field-level problems as a 400.
func Fields(errs ...domain.FieldError) error {
	return &AErr{Code: http.StatusBadRequest, Errors: errs}
}

// Action is one endpoint: I is bound from the request, O is the JSON reply.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool // require a user id from AuthJWT
	Handler func(c *gin.Context, in *I) (O, error)
}

func UserID(c *gin.Context) string { return c.GetString(mdw.KeyUserID) }

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth && UserID(c) == "" {
			c.JSON(http.StatusUnauthorized, resp.Message(resp.MsgNoToken))
			return
		}

		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			e.fail(c, err)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		if raw, ok := any(out).(Raw); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
		c.JSON(http.StatusOK, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bind[I any](c *gin.Context, b Binder, in *I) error {
	var err error
	location := "body"
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			// empty body: report the missing fields rather than a parse error
			err = binding.Validator.ValidateStruct(in)
		}
	case BindURI:
		location = "params"
		err = c.ShouldBindUri(in)
	default:
		return nil
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Msg: resp.MsgBodyTooLarge, Err: err}
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &AErr{Code: http.StatusBadRequest, Errors: []domain.FieldError{{Msg: resp.MsgBadBody, Location: location}}, Err: err}
	}
	return Fields(fieldErrors[I](ves, location)...)
}

// fieldErrors turns validator failures into messages, using each
// field's `msg` tag when present and its json name as the param.
func fieldErrors[I any](ves validator.ValidationErrors, location string) []domain.FieldError {
	t := reflect.TypeOf((*I)(nil)).Elem()
	out := make([]domain.FieldError, 0, len(ves))
	for _, fe := range ves {
		msg, param := fe.Error(), fe.Field()
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if m := f.Tag.Get("msg"); m != "" {
				msg = m
			}
			if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
				param = name
			}
		}
		out = append(out, domain.FieldError{Msg: msg, Param: param, Location: location})
	}
	return out
}

func (e EZ) fail(c *gin.Context, err error) {
	var ae *AErr
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ae) && ae.Code < http.StatusInternalServerError:
		if len(ae.Errors) > 0 {
			c.JSON(ae.Code, resp.Invalid(ae.Errors...))
			return
		}
		c.JSON(ae.Code, resp.Message(ae.Msg))
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, resp.Invalid(ve.Errors...))
	default:
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp.ServerError(c)
	}
}
