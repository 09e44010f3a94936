package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON error body. Kind names the failure class the seat-map
// UI keys its message on.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Kind    string `json:"kind,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError records err on the context for the error handler and logger,
// then writes the public response.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithKind(c, status, err, "", msg, detail)
}

func AbortWithKind(c *gin.Context, status int, err error, kind, msg string, detail any) {
	if err == nil {
		panic("AbortWithKind: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Kind = kind
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
