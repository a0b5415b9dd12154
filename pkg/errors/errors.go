package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error
type ErrorCode string

const (
	ErrUserNotFound           ErrorCode = "USER_NOT_FOUND"
	ErrGroupNotFound          ErrorCode = "GROUP_NOT_FOUND"
	ErrHabitNotFound          ErrorCode = "HABIT_NOT_FOUND"
	ErrSenderNotInGroup       ErrorCode = "SENDER_NOT_IN_GROUP"
	ErrRecipientAlreadyMember ErrorCode = "RECIPIENT_ALREADY_MEMBER"
	ErrUserAlreadyInGroup     ErrorCode = "USER_ALREADY_IN_GROUP"
	ErrDuplicateNickname      ErrorCode = "DUPLICATE_NICKNAME"
	ErrGroupAlreadyExists     ErrorCode = "GROUP_ALREADY_EXISTS"
	ErrInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	ErrBadRequest             ErrorCode = "BAD_REQUEST"
	ErrUnauthorized           ErrorCode = "UNAUTHORIZED"
	ErrInternal               ErrorCode = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status the error maps to.
func (e *AppError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// As unwraps err into an *AppError if one is in the chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Error constructors
func UserNotFound() *AppError {
	return &AppError{Code: ErrUserNotFound, Message: "user not found", Status: http.StatusNotFound}
}

func GroupNotFound() *AppError {
	return &AppError{Code: ErrGroupNotFound, Message: "group not found", Status: http.StatusNotFound}
}

func HabitNotFound() *AppError {
	return &AppError{Code: ErrHabitNotFound, Message: "habit not found", Status: http.StatusNotFound}
}

func SenderNotInGroup() *AppError {
	return &AppError{Code: ErrSenderNotInGroup, Message: "inviting user is not a member of the group", Status: http.StatusForbidden}
}

func RecipientAlreadyMember() *AppError {
	return &AppError{Code: ErrRecipientAlreadyMember, Message: "invited user is already a member of the group", Status: http.StatusConflict}
}

func UserAlreadyInGroup() *AppError {
	return &AppError{Code: ErrUserAlreadyInGroup, Message: "user is already a member of the group", Status: http.StatusConflict}
}

func DuplicateNickname() *AppError {
	return &AppError{Code: ErrDuplicateNickname, Message: "nickname is already taken", Status: http.StatusConflict}
}

func GroupAlreadyExists() *AppError {
	return &AppError{Code: ErrGroupAlreadyExists, Message: "group name is already taken", Status: http.StatusConflict}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: ErrInvalidCredentials, Message: "invalid email or password", Status: http.StatusUnauthorized}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{Code: ErrBadRequest, Message: message, Status: http.StatusBadRequest, Err: err}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "unauthorized", Status: http.StatusUnauthorized, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Status: http.StatusInternalServerError, Err: err}
}
