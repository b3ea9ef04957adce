package session

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess         ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure         ActivityEventType = "auth.login.failure"
	ActivityEventSignupSuccess        ActivityEventType = "auth.signup.success"
	ActivityEventSignupFailure        ActivityEventType = "auth.signup.failure"
	ActivityEventSecondFactorRequired ActivityEventType = "auth.second_factor.required"
	ActivityEventLogout               ActivityEventType = "auth.logout"
	ActivityEventSessionRestored      ActivityEventType = "auth.session.restored"
	ActivityEventSessionRejected      ActivityEventType = "auth.session.rejected"
	ActivityEventProfileRefreshed     ActivityEventType = "auth.profile.refreshed"
	ActivityEventJoinRequestApproved  ActivityEventType = "company.join.approved"
)

// ActivityEvent captures audit-friendly information about a lifecycle action.
type ActivityEvent struct {
	EventID    string
	EventType  ActivityEventType
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged, never propagated.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
