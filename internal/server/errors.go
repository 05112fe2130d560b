package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sqlservernerd/festguide/internal/authorization"
	festivaldomain "github.com/sqlservernerd/festguide/internal/festival/domain"
	notificationdomain "github.com/sqlservernerd/festguide/internal/notification/domain"
	permissiondomain "github.com/sqlservernerd/festguide/internal/permission/domain"
	scheduledomain "github.com/sqlservernerd/festguide/internal/schedule/domain"
	schedulingdomain "github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, permissiondomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, festivaldomain.ErrInvalidName),
		errors.Is(err, festivaldomain.ErrInvalidOwner),
		errors.Is(err, festivaldomain.ErrInvalidFestival),
		errors.Is(err, festivaldomain.ErrInvalidVenue),
		errors.Is(err, festivaldomain.ErrInvalidDates),
		errors.Is(err, permissiondomain.ErrInvalidSubject),
		errors.Is(err, permissiondomain.ErrInvalidFestival),
		errors.Is(err, permissiondomain.ErrInvalidRole),
		errors.Is(err, permissiondomain.ErrInvalidScope),
		errors.Is(err, permissiondomain.ErrOwnerNotInvitable),
		errors.Is(err, permissiondomain.ErrSubjectMismatch),
		errors.Is(err, permissiondomain.ErrOwnerRevocation),
		errors.Is(err, schedulingdomain.ErrInvalidStage),
		errors.Is(err, schedulingdomain.ErrInvalidSlot),
		errors.Is(err, schedulingdomain.ErrInvalidEdition),
		errors.Is(err, schedulingdomain.ErrInvalidInterval),
		errors.Is(err, schedulingdomain.ErrInvalidArtist),
		errors.Is(err, schedulingdomain.ErrArtistWrongFestival),
		errors.Is(err, schedulingdomain.ErrEditionMismatch),
		errors.Is(err, scheduledomain.ErrInvalidEdition),
		errors.Is(err, notificationdomain.ErrInvalidSubject),
		errors.Is(err, notificationdomain.ErrInvalidToken),
		errors.Is(err, notificationdomain.ErrInvalidPlatform):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, festivaldomain.ErrSlugTaken),
		errors.Is(err, festivaldomain.ErrStageInUse),
		errors.Is(err, permissiondomain.ErrAlreadyActive),
		errors.Is(err, permissiondomain.ErrInvitePending),
		errors.Is(err, permissiondomain.ErrNotPending),
		errors.Is(err, schedulingdomain.ErrSlotOverlap),
		errors.Is(err, schedulingdomain.ErrSlotEngaged),
		errors.Is(err, schedulingdomain.ErrLockContended),
		errors.Is(err, notificationdomain.ErrTokenOwned):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
