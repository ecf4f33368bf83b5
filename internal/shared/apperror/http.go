package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError adalah bentuk final error yang siap dikirim ke response layer.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP menerjemahkan error apapun menjadi HTTPError.
// *AppError dipetakan apa adanya; error lain dianggap internal error
// agar detail teknis tidak bocor ke klien.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		httpErr := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil {
			httpErr.Details = appErr.Err.Error()
		}
		return httpErr
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}

// RequiredField membuat error 400 untuk field wajib yang kosong.
func RequiredField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is required", field),
		http.StatusBadRequest,
	)
}

// InvalidField membuat error 400 untuk field dengan nilai tidak valid.
func InvalidField(field string) *AppError {
	return New(
		CodeInvalidInput,
		fmt.Sprintf("%s is invalid", field),
		http.StatusBadRequest,
	)
}
