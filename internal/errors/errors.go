package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingFile is returned when the prediction request carries no file part.
	ErrMissingFile = errors.New("no file uploaded")
	// ErrEmptyFilename is returned when the uploaded file has an empty name.
	ErrEmptyFilename = errors.New("empty file name")
	// ErrUnsupportedType is returned when the file extension is not an allowed image type.
	ErrUnsupportedType = errors.New("invalid file type")
	// ErrUnreadableImage is returned when a stored upload cannot be decoded as an image.
	ErrUnreadableImage = errors.New("unreadable image")
	// ErrModelUnavailable is returned when the classifier failed to load at startup.
	ErrModelUnavailable = errors.New("model not loaded")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned when a bearer token is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound is returned when the token's user no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when signing up with an already registered email.
	ErrEmailExists = errors.New("email already exists")
	// ErrEmptyQuestion is returned when the chat message is blank.
	ErrEmptyQuestion = errors.New("please enter a question")
	// ErrMissingFields is returned when a signup request omits required fields.
	ErrMissingFields = errors.New("all required fields must be filled")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingFile):
		return NewHTTPError(http.StatusBadRequest, ErrMissingFile.Error(), "MISSING_FILE")
	case errors.Is(err, ErrEmptyFilename):
		return NewHTTPError(http.StatusBadRequest, ErrEmptyFilename.Error(), "EMPTY_FILENAME")
	case errors.Is(err, ErrUnsupportedType):
		return NewHTTPError(http.StatusBadRequest, ErrUnsupportedType.Error(), "UNSUPPORTED_TYPE")
	case errors.Is(err, ErrUnreadableImage):
		return NewHTTPError(http.StatusBadRequest, ErrUnreadableImage.Error(), "UNREADABLE_IMAGE")
	case errors.Is(err, ErrModelUnavailable):
		return NewHTTPError(http.StatusInternalServerError, ErrModelUnavailable.Error(), "MODEL_UNAVAILABLE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailExists):
		// Duplicate email surfaces as a plain 400, matching the signup contract.
		return NewHTTPError(http.StatusBadRequest, ErrEmailExists.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrEmptyQuestion):
		return NewHTTPError(http.StatusBadRequest, ErrEmptyQuestion.Error(), "EMPTY_QUESTION")
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, ErrMissingFields.Error(), "MISSING_FIELDS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
