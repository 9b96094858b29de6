package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/SscSPs/debt_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// now is swapped in tests to pin audit timestamps.
	now func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current UTC time.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

// Audit builds audit fields stamped by userID at the current time.
func (s *BaseService) Audit(userID string) domain.AuditFields {
	return domain.NewAuditFields(userID, s.Now())
}

// Touch stamps the last-updated fields.
func (s *BaseService) Touch(fields *domain.AuditFields, userID string) {
	fields.Touch(userID, s.Now())
}
