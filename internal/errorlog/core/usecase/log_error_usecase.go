package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"reporting-service/internal/errorlog/core/domain"
	"reporting-service/internal/errorlog/core/ports"
)

var (
	ErrInvalidErrorLog = errors.New("errorType and message are required")
	ErrInvalidSeverity = errors.New("severity must be low, medium, high or critical")
	ErrFutureTime      = errors.New("timestamp cannot be in the future")
)

type LogErrorInput struct {
	ErrorType  string
	Message    string
	StackTrace string
	Severity   string
	Component  string
	Timestamp  int64
}

type LogErrorUseCase struct {
	repo ports.ErrorRepositoryPort
}

func NewLogErrorUseCase(repo ports.ErrorRepositoryPort) *LogErrorUseCase {
	return &LogErrorUseCase{repo: repo}
}

func (uc *LogErrorUseCase) Execute(ctx context.Context, in LogErrorInput) (bool, error) {
	if in.ErrorType == "" || in.Message == "" {
		return false, ErrInvalidErrorLog
	}

	if in.Severity == "" {
		in.Severity = domain.SeverityMedium
	}
	if !domain.ValidSeverity(in.Severity) {
		return false, ErrInvalidSeverity
	}
	if in.Component == "" {
		in.Component = domain.UnknownComponent
	}

	now := time.Now().UTC()
	occurredAt := now
	if in.Timestamp != 0 {
		if in.Timestamp > now.Unix() {
			return false, ErrFutureTime
		}
		occurredAt = time.Unix(in.Timestamp, 0).UTC()
	}

	e := &domain.ErrorLog{
		ErrorType:  in.ErrorType,
		Message:    in.Message,
		StackTrace: in.StackTrace,
		Severity:   in.Severity,
		Component:  in.Component,
		OccurredAt: occurredAt,
		DedupeKey:  buildDedupeKey(in, occurredAt),
	}

	return uc.repo.InsertError(ctx, e)
}

// buildDedupeKey collapses a crash loop to one row per minute:
// error_type + component + message hash + minute bucket.
func buildDedupeKey(in LogErrorInput, t time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(in.Message))
	return fmt.Sprintf("%s|%s|%08x|%d", in.ErrorType, in.Component, h.Sum32(), t.Unix()/60)
}
