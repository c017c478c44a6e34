package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"reporting-service/internal/errorlog/core/domain"
	"reporting-service/internal/errorlog/core/usecase"
)

type LogErrorUseCase interface {
	Execute(ctx context.Context, in usecase.LogErrorInput) (bool, error)
}

type QueryErrorsUseCase interface {
	Recent(ctx context.Context, limit int) ([]domain.ErrorLog, error)
	Stats(ctx context.Context, start, end string) (*domain.Stats, error)
}

type ErrorLogHandler struct {
	logUC   LogErrorUseCase
	queryUC QueryErrorsUseCase
	log     zerolog.Logger
}

func NewErrorLogHandler(logUC LogErrorUseCase, queryUC QueryErrorsUseCase, log zerolog.Logger) *ErrorLogHandler {
	return &ErrorLogHandler{logUC: logUC, queryUC: queryUC, log: log}
}

// LogError godoc
// @Summary Record an application error
// @Description Stores an error entry; repeats within the same minute are collapsed
// @Tags Errors
// @Accept json
// @Produce json
// @Param request body LogErrorRequest true "Error payload"
// @Success 201 {object} LogErrorResponse
// @Success 200 {object} LogErrorResponse "Duplicate entry"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /errors [post]
func (h *ErrorLogHandler) LogError(c *fiber.Ctx) error {
	var req LogErrorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
		})
	}

	created, err := h.logUC.Execute(c.UserContext(), usecase.LogErrorInput{
		ErrorType:  req.ErrorType,
		Message:    req.Message,
		StackTrace: req.StackTrace,
		Severity:   req.Severity,
		Component:  req.Component,
		Timestamp:  req.Timestamp,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidErrorLog),
			errors.Is(err, usecase.ErrInvalidSeverity),
			errors.Is(err, usecase.ErrFutureTime):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
			})
		default:
			h.log.Error().Err(err).Msg("log error failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Message: "Internal server error",
			})
		}
	}

	if !created {
		return c.Status(http.StatusOK).JSON(LogErrorResponse{Success: true, Status: "duplicate"})
	}
	return c.Status(http.StatusCreated).JSON(LogErrorResponse{Success: true, Status: "created"})
}

// RecentErrors godoc
// @Summary List recent errors
// @Description Returns the newest error entries, most recent first
// @Tags Errors
// @Produce json
// @Param limit query int false "Max rows (default 10, max 100)"
// @Success 200 {object} RecentErrorsResponse
// @Failure 500 {object} ErrorResponse
// @Router /errors/recent [get]
func (h *ErrorLogHandler) RecentErrors(c *fiber.Ctx) error {
	rows, err := h.queryUC.Recent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		h.log.Error().Err(err).Msg("recent errors failed")
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
		})
	}

	data := make([]ErrorEntryResponse, 0, len(rows))
	for _, e := range rows {
		data = append(data, ErrorEntryResponse{
			ErrorType:  e.ErrorType,
			Message:    e.Message,
			StackTrace: e.StackTrace,
			Severity:   e.Severity,
			Component:  e.Component,
			Timestamp:  e.OccurredAt.UTC().Format(time.RFC3339),
			Resolved:   e.Resolved,
		})
	}

	return c.Status(http.StatusOK).JSON(RecentErrorsResponse{Success: true, Data: data})
}

// ErrorStats godoc
// @Summary Error statistics for a date range
// @Description Daily counts, severity and component breakdowns, resolution rate
// @Tags Errors
// @Produce json
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /errors/stats [get]
func (h *ErrorLogHandler) ErrorStats(c *fiber.Ctx) error {
	start := c.Query("startDate", "")
	end := c.Query("endDate", "")

	stats, err := h.queryUC.Stats(c.UserContext(), start, end)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingDates),
			errors.Is(err, usecase.ErrInvalidDate),
			errors.Is(err, usecase.ErrFutureDate),
			errors.Is(err, usecase.ErrInvalidRange):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
			})
		default:
			h.log.Error().Err(err).Msg("error stats failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Message: "Internal server error",
			})
		}
	}

	data := StatsData{
		Total:          stats.Total,
		BySeverity:     stats.BySeverity,
		ByComponent:    make([]ComponentStatsResponse, 0, len(stats.ByComponent)),
		ErrorsOverTime: make([]DailyCountResponse, 0, len(stats.ErrorsOverTime)),
		ResolutionRate: stats.ResolutionRate,
	}
	for _, cs := range stats.ByComponent {
		data.ByComponent = append(data.ByComponent, ComponentStatsResponse{
			Component: cs.Component,
			Count:     cs.Count,
			Resolved:  cs.Resolved,
		})
	}
	for _, d := range stats.ErrorsOverTime {
		data.ErrorsOverTime = append(data.ErrorsOverTime, DailyCountResponse{Date: d.Date, Count: d.Count})
	}

	return c.Status(http.StatusOK).JSON(StatsResponse{
		Success: true,
		Data:    data,
		Period:  PeriodResponse{StartDate: start, EndDate: end},
	})
}
