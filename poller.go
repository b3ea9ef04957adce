package session

import (
	"context"
	"fmt"
	"time"
)

// RecruiterDashboardPath is where an approved recruiter or admin lands.
const RecruiterDashboardPath = "/recruiter/dashboard"

// DefaultPollInterval is how often the poller re-fetches the identity while
// its enabling predicate holds.
const DefaultPollInterval = 10 * time.Second

// Notification is the one-time user-facing message emitted when a pending
// join request is approved.
type Notification struct {
	Title       string
	Description string
	CompanyName string
	CompanyRole CompanyRole
}

// Notifier receives join-approval notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Navigator performs the post-approval redirect.
type Navigator interface {
	NavigateTo(path string)
}

// StatusPoller periodically re-fetches the identity to detect a pending
// company-join request being approved. Enablement is a pure function of
// current state, re-derived on every tick: the user is a recruiter with no
// affiliation and the app is foregrounded. There is no explicit stop/start
// bookkeeping; once the predicate flips false the ticks become no-ops.
type StatusPoller struct {
	ctrl      *Controller
	api       Backend
	notifier  Notifier
	navigator Navigator

	interval   time.Duration
	foreground func() bool
	logger     Logger
}

// PollerOption customizes poller construction.
type PollerOption func(*StatusPoller)

// WithPollInterval overrides the polling interval.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *StatusPoller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithForegroundCheck gates polling on app visibility; no fetches are
// issued while the hook reports false.
func WithForegroundCheck(fn func() bool) PollerOption {
	return func(p *StatusPoller) {
		if fn != nil {
			p.foreground = fn
		}
	}
}

// WithPollerLogger overrides the poller logger.
func WithPollerLogger(logger Logger) PollerOption {
	return func(p *StatusPoller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewStatusPoller wires the poller to the controller (for refresh), the
// backend (for the probe fetch), and the notification/navigation sinks.
func NewStatusPoller(ctrl *Controller, api Backend, notifier Notifier, navigator Navigator, opts ...PollerOption) *StatusPoller {
	p := &StatusPoller{
		ctrl:       ctrl,
		api:        api,
		notifier:   notifier,
		navigator:  navigator,
		interval:   DefaultPollInterval,
		foreground: func() bool { return true },
		logger:     defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// ShouldPoll re-derives the enabling predicate from current state: a
// recruiter with no company affiliation heuristically has a pending join
// request worth watching.
func (p *StatusPoller) ShouldPoll() bool {
	if !p.foreground() {
		return false
	}
	snap := p.ctrl.Session()
	if snap.User == nil || snap.User.Role != RoleRecruiter {
		return false
	}
	return p.ctrl.Affiliation().Empty()
}

// Run polls on the configured interval until ctx is cancelled.
func (p *StatusPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce performs a single tick: re-check the predicate, probe the
// backend, and react when the identity newly carries an affiliation. The
// predicate is re-checked after the fetch returns so a stale response
// arriving after it flipped false is discarded.
func (p *StatusPoller) PollOnce(ctx context.Context) {
	if !p.ShouldPoll() {
		return
	}

	identity, err := p.api.Me(ctx)
	if err != nil {
		p.logger.Debug("join status probe failed: %v", err)
		return
	}

	if !p.ShouldPoll() {
		return
	}

	if !identity.HasAffiliation() {
		return
	}

	p.notifier.Notify(ctx, joinApprovedNotification(identity))

	if _, err := p.ctrl.RefreshUserData(ctx); err != nil {
		p.logger.Warn("failed to refresh session after join approval: %v", err)
	}

	p.ctrl.emitActivity(ctx, ActivityEventJoinRequestApproved, identity.ID, map[string]any{
		"company":     identity.Company,
		"companyRole": string(identity.CompanyRole),
	})

	p.navigator.NavigateTo(joinApprovedDestination(identity.CompanyRole))
}

func joinApprovedNotification(identity *Identity) Notification {
	company := identity.CompanyName
	if company == "" {
		company = identity.Company
	}

	granted := "a recruiter"
	if identity.CompanyRole == CompanyRoleEmployee {
		granted = "an employee"
	}

	return Notification{
		Title:       fmt.Sprintf("Welcome to %s! Your join request has been accepted.", company),
		Description: fmt.Sprintf("You've been added as %s.", granted),
		CompanyName: company,
		CompanyRole: identity.CompanyRole,
	}
}

func joinApprovedDestination(role CompanyRole) string {
	if role == CompanyRoleEmployee {
		return CandidateHomePath
	}
	return RecruiterDashboardPath
}
