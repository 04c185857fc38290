package usererrors

import (
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmployeeIDTaken = apperror.New(
		apperror.CodeDuplicateEntry,
		"employee id already in use",
		http.StatusConflict,
	)
	ErrInvalidPin = apperror.New(
		apperror.CodeInvalidInput,
		"pin must be exactly 4 digits",
		http.StatusBadRequest,
	)
	ErrInvalidScheduleGroup = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule group id",
		http.StatusBadRequest,
	)
	ErrScheduleGroupNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule group not found",
		http.StatusNotFound,
	)
)
