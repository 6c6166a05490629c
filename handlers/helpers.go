package handlers

import (
	"CogniCare/middlewares"
	"CogniCare/models"
	"CogniCare/services"
	"errors"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// callerFrom pulls the authenticated caller placed in the request context by
// the token middleware. A missing caller is an authentication failure.
func callerFrom(c *gin.Context) (models.Caller, bool) {
	caller, err := middlewares.ExtractCallerFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Unauthenticated", "غير مصادق عليه", 401, err)
		return models.Caller{}, false
	}
	return caller, true
}

// respondServiceError maps service-layer errors onto the HTTP error surface.
func respondServiceError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		middlewares.ValidationError(c, err)
	case errors.Is(err, services.ErrNotFound):
		middlewares.HttpError(c, "Record not found", "السجل غير موجود", 404, err)
	case errors.Is(err, services.ErrForbidden):
		middlewares.HttpError(c, "Forbidden: insufficient privileges", "ممنوع: صلاحيات غير كافية", 403, err)
	case errors.Is(err, services.ErrInvalidState):
		middlewares.HttpError(c, "Operation not allowed in current state", "العملية غير مسموح بها في الحالة الحالية", 400, err)
	default:
		middlewares.HttpError(c, "Internal server error", "خطأ داخلي في الخادم", 500, err)
	}
}
