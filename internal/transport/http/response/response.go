package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devconnector/internal/domain"
)

// Msg is the single-message error body: {"msg": "..."}.
type Msg struct {
	Msg string `json:"msg"`
}

// Errors is the field-level validation body: {"errors": [{"msg": ...}]}.
type Errors struct {
	Errors []domain.FieldError `json:"errors"`
}

func Message(msg string) Msg { return Msg{Msg: msg} }

func Invalid(errs ...domain.FieldError) Errors {
	if errs == nil {
		errs = []domain.FieldError{}
	}
	return Errors{Errors: errs}
}

// ServerError writes the generic 500. Nothing about the cause is sent.
func ServerError(c *gin.Context) {
	c.String(http.StatusInternalServerError, ServerErrorText)
}

// Abort stops the chain with status and {"msg": msg}.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Message(msg))
}
