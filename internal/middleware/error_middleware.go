package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers call
// this for any error coming back from the service layer.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrGoogleTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Google token could not be verified")

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled")
	case errors.Is(err, apperrors.ErrNotClassroomOwner):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Only the classroom owner may do this")
	case errors.Is(err, apperrors.ErrNotClassroomMember):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Not a member of this classroom")

	// 404
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrClassroomNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Classroom not found")
	case errors.Is(err, apperrors.ErrInvalidJoinCode):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "No classroom matches this code")
	case errors.Is(err, apperrors.ErrClassroomTaskNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Classroom task not found")
	case errors.Is(err, apperrors.ErrTaskNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Task not found")
	case errors.Is(err, apperrors.ErrCategoryNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Category not found")
	case errors.Is(err, apperrors.ErrFileNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")

	// 409
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrCategoryAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Category already exists")
	case errors.Is(err, apperrors.ErrGoogleAlreadyLinked):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "A Google account is already linked")
	case errors.Is(err, apperrors.ErrGoogleIdentityInUse):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "This Google account is bound to another user")
	case errors.Is(err, apperrors.ErrEmailCollision):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, "An account with this email already exists; log in and link Google from settings")
	case errors.Is(err, apperrors.ErrSyncInProgress):
		respond(c, http.StatusConflict, dto.ErrorCodeSyncInProgress, "A sync is already running for this user")
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists")

	// 400
	case errors.Is(err, apperrors.ErrOwnClassroomJoin):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "A teacher cannot join their own classroom")
	case errors.Is(err, apperrors.ErrGoogleNotLinked):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "No Google account is linked")
	case errors.Is(err, apperrors.ErrPasswordlessUnlink):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Set a password before unlinking the Google account")
	case errors.Is(err, apperrors.ErrInvalidPriority):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Priority level must be between 0 and 3")
	case errors.Is(err, apperrors.ErrInvalidEmail):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email format")
	case errors.Is(err, apperrors.ErrInvalidPassword):
		respondWithDetails(c, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password format", err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondWithDetails(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Bad request")

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func respondWithDetails(c *gin.Context, status int, code dto.ErrorCode, message, details string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message).WithDetails(details)))
}
