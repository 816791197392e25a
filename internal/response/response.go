package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sermonclip/pkg/errors"
)

// Body is the envelope every API endpoint returns.
type Body struct {
	Error int    `json:"error"`
	Msg   string `json:"msg"`
	Data  any    `json:"data"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{
		Error: apperrors.CodeSuccess,
		Msg:   "Success",
		Data:  data,
	})
}

// R shapes an arbitrary outcome into the envelope.
func R(code int, msg string, data any) Body {
	return Body{Error: code, Msg: msg, Data: data}
}

// FromError maps an error onto the envelope, preserving structured codes.
func FromError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(httpStatusFor(appErr.Code), Body{
			Error: appErr.Code,
			Msg:   appErr.Message,
			Data:  appErr.Detail,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Body{
		Error: apperrors.CodeUnknown,
		Msg:   err.Error(),
	})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Body{
		Error: apperrors.CodeInvalidParams,
		Msg:   msg,
	})
}

func httpStatusFor(code int) int {
	switch code {
	case apperrors.CodeInvalidParams, apperrors.CodeTranscriptEmpty, apperrors.CodeCommandUnclear:
		return http.StatusBadRequest
	case apperrors.CodeNotFound, apperrors.CodeSessionNotFound, apperrors.CodeFileNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
