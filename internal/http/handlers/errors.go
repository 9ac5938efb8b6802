package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
	"github.com/you/foodauth/internal/validation"
)

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": msg} with the status matching err's kind.
// Internal errors are logged and, in release mode, replaced by a generic
// message.
func respondError(c *gin.Context, log logging.Logger, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	if kind == domain.KindInternal {
		log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		if gin.Mode() == gin.ReleaseMode {
			msg = "internal server error"
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindJSON decodes the body into req and runs binding rules. Every failure
// comes back as domain.ErrValidation.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindError(err)
	}
	return nil
}

func bindQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return bindError(err)
	}
	return nil
}

func bindError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
	)
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is required", domain.ErrValidation)
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	case errors.As(err, &typeErr):
		return fmt.Errorf("%w: %s has the wrong type", domain.ErrValidation, typeErr.Field)
	case errors.As(err, &numErr):
		return fmt.Errorf("%w: %q is not a number", domain.ErrValidation, numErr.Num)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidCoordinate):
		return err
	}
	wrapped := validation.Wrap(err)
	if errors.Is(wrapped, domain.ErrValidation) {
		return wrapped
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrValidation)
	}
	return uint(id), nil
}
