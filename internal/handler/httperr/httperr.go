package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const CodeInternal = "INTERNAL"

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Internal is the body returned for failures that carry no public response.
func Internal() Response {
	resp := Response{Status: http.StatusInternalServerError}
	resp.Error.Code = CodeInternal
	resp.Error.Message = "Internal server error"
	return resp
}

// AbortWithCode preserves the original error for future monitoring and
// writes the response with a machine-readable error code.
func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithCode: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
