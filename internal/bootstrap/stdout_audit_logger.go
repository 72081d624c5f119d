package bootstrap

import (
	"context"
	"time"

	"go-leave/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries through zap.
type StdoutAuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewStdoutAuditLogger(logger ...*zap.Logger) *StdoutAuditLogger {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &StdoutAuditLogger{
		logger: l.Named("audit"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("timestamp", l.now().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if uid := contextutil.GetUserID(ctx); uid != "" {
		fields = append(fields, zap.String("user_id", uid))
	}
	l.logger.Info("audit event", fields...)
}
