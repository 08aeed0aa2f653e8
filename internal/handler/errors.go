package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/stemsi/codetest-backend/internal/session"
)

// classify maps a domain error onto an HTTP status and error code.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, report.ErrEntryNotFound):
		return http.StatusNotFound, response.ErrReportEntryNotFound
	case errors.Is(err, service.ErrTestNotRunning):
		return http.StatusConflict, response.ErrTestNotRunning
	case errors.Is(err, service.ErrAlreadyAttempted):
		return http.StatusConflict, response.ErrAlreadyAttempted
	case errors.Is(err, judge.ErrInvalidLanguageSelection):
		return http.StatusBadRequest, response.ErrInvalidLanguage
	case errors.Is(err, session.ErrEmptySource):
		return http.StatusBadRequest, response.ErrEmptySource
	case errors.Is(err, session.ErrUnknownQuestion):
		return http.StatusNotFound, response.ErrUnknownQuestion
	case errors.Is(err, session.ErrQuestionBusy):
		return http.StatusConflict, response.ErrQuestionBusy
	case errors.Is(err, session.ErrNotActive):
		return http.StatusConflict, response.ErrSessionNotActive
	case errors.Is(err, session.ErrNoPendingConfirmation):
		return http.StatusConflict, response.ErrNoPendingSubmit
	case errors.Is(err, session.ErrNothingToRetry):
		return http.StatusConflict, response.ErrNothingToRetry
	case errors.Is(err, judge.ErrExecutionUnavailable):
		return http.StatusServiceUnavailable, response.ErrExecutionFailed
	case errors.Is(err, report.ErrWriteUnavailable), errors.Is(err, repository.ErrConcurrentUpdate):
		return http.StatusServiceUnavailable, response.ErrReportWriteFailed
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

func failFromError(c *gin.Context, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg("Unhandled error")
	}
	response.Fail(c, status, code)
}

// pageParams reads page and per_page, clamping to sane bounds.
func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 20
	}
	return page, perPage
}
