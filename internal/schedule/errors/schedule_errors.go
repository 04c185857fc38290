package schedulerrors

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
	ErrInvalidPresetID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid preset id",
		http.StatusBadRequest,
	)
	ErrInvalidGroupID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule group id",
		http.StatusBadRequest,
	)
	ErrInvalidDayCode = apperror.New(
		apperror.CodeInvalidInput,
		"invalid day code, expected mon..sun",
		http.StatusBadRequest,
	)
	ErrInvalidClockTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time value, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrNegativeGrace = apperror.New(
		apperror.CodeInvalidInput,
		"grace_period_minutes must not be negative",
		http.StatusBadRequest,
	)
	ErrPresetNotFound = apperror.New(
		apperror.CodeNotFound,
		"time preset not found",
		http.StatusNotFound,
	)
	ErrGroupNotFound = apperror.New(
		apperror.CodeNotFound,
		"schedule group not found",
		http.StatusNotFound,
	)
	ErrOverrideNotFound = apperror.New(
		apperror.CodeNotFound,
		"day override not found",
		http.StatusNotFound,
	)
	ErrPresetInUse = apperror.New(
		apperror.CodeConflict,
		"time preset is referenced by a group or override",
		http.StatusConflict,
	)
	ErrDanglingOverride = apperror.New(
		apperror.CodeInvalidState,
		"day override references a deleted preset",
		http.StatusInternalServerError,
	)
	ErrDanglingDefaultPreset = apperror.New(
		apperror.CodeInvalidState,
		"schedule group default references a deleted preset",
		http.StatusInternalServerError,
	)
)
