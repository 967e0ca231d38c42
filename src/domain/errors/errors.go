package errors

import (
	"errors"
	"net/http"
)

type ErrorType string

const (
	NotFound              ErrorType = "NotFound"
	ValidationError       ErrorType = "ValidationError"
	ResourceAlreadyExists ErrorType = "ResourceAlreadyExists"
	RepositoryError       ErrorType = "RepositoryError"
	NotAuthenticated      ErrorType = "NotAuthenticated"
	NotAuthorized         ErrorType = "NotAuthorized"
	UnknownError          ErrorType = "UnknownError"
)

const (
	notFoundMessage              = "record not found"
	validationErrorMessage       = "validation error"
	alreadyExistsErrorMessage    = "resource already exists"
	repositoryErrorMessage       = "error in repository operation"
	notAuthenticatedErrorMessage = "not authenticated"
	notAuthorizedErrorMessage    = "not authorized"
	unknownErrorMessage          = "something went wrong"
)

// AppError carries a classified error through the use case and controller layers
type AppError struct {
	Err  error
	Type ErrorType
}

// GormErr is the JSON shape of a MySQL driver error, used to read the error number
type GormErr struct {
	Number  int    `json:"Number"`
	Message string `json:"Message"`
}

func NewAppError(err error, errType ErrorType) *AppError {
	return &AppError{
		Err:  err,
		Type: errType,
	}
}

func NewAppErrorWithType(errType ErrorType) *AppError {
	var err error

	switch errType {
	case NotFound:
		err = errors.New(notFoundMessage)
	case ValidationError:
		err = errors.New(validationErrorMessage)
	case ResourceAlreadyExists:
		err = errors.New(alreadyExistsErrorMessage)
	case RepositoryError:
		err = errors.New(repositoryErrorMessage)
	case NotAuthenticated:
		err = errors.New(notAuthenticatedErrorMessage)
	case NotAuthorized:
		err = errors.New(notAuthorizedErrorMessage)
	default:
		err = errors.New(unknownErrorMessage)
	}

	return &AppError{
		Err:  err,
		Type: errType,
	}
}

func (appErr *AppError) Error() string {
	return appErr.Err.Error()
}

func (appErr *AppError) Unwrap() error {
	return appErr.Err
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// AppErrorToHTTP maps an AppError to the status code and message written to the client
func AppErrorToHTTP(appErr *AppError) (int, string) {
	switch appErr.Type {
	case NotFound:
		return http.StatusNotFound, appErr.Error()
	case ValidationError:
		return http.StatusBadRequest, appErr.Error()
	case ResourceAlreadyExists:
		return http.StatusConflict, appErr.Error()
	case NotAuthenticated:
		return http.StatusUnauthorized, appErr.Error()
	case NotAuthorized:
		return http.StatusForbidden, appErr.Error()
	case RepositoryError:
		return http.StatusInternalServerError, repositoryErrorMessage
	default:
		return http.StatusInternalServerError, unknownErrorMessage
	}
}
