package testfixtures

import (
	"log/slog"
	"time"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/session"
)

// ServiceFactory assists tests with constructing application services using
// deterministic clocks and session tokens.
type ServiceFactory struct {
	Clock  *Clock
	Tokens *TokenSource
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:  NewClock(time.Time{}),
		Tokens: NewTokenSource("token"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.Tokens == nil {
		factory.Tokens = NewTokenSource("token")
	}
	return factory
}

// WithFactoryClock overrides the clock used by the factory.
func WithFactoryClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithFactoryTokens overrides the token source used by the factory.
func WithFactoryTokens(tokens *TokenSource) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Tokens = tokens
	}
}

// NewTracker builds a session tracker driven by the factory clock and token
// source, so conflict and expiry scenarios are reproducible.
func (f *ServiceFactory) NewTracker(opts ...session.Option) *session.Tracker {
	base := []session.Option{
		session.WithClock(f.Clock.NowFunc()),
		session.WithTokenSource(f.Tokens.NextFunc()),
	}
	return session.NewTracker(append(base, opts...)...)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Users   application.UserDirectory
	Tracker application.SessionTracker
	Verify  application.PasswordVerifier
	Hash    application.PasswordHasher
	Now     func() time.Time
	Metrics application.AuthMetrics
	Logger  *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAuthService(
		deps.Users,
		deps.Tracker,
		deps.Verify,
		deps.Hash,
		now,
		deps.Metrics,
		deps.Logger,
	)
}

// EventServiceDeps captures dependencies for constructing an event service.
type EventServiceDeps struct {
	Events    application.EventRepository
	Summaries application.SummaryInvalidator
	Now       func() time.Time
	Logger    *slog.Logger
}

// NewEventService builds an event service using the supplied dependencies.
func (f *ServiceFactory) NewEventService(deps EventServiceDeps) *application.EventService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewEventService(deps.Events, deps.Summaries, now, deps.Logger)
}

// TaskServiceDeps captures dependencies for constructing a task service.
type TaskServiceDeps struct {
	Tasks     application.TaskRepository
	Summaries application.SummaryInvalidator
	Now       func() time.Time
	Logger    *slog.Logger
}

// NewTaskService builds a task service using the supplied dependencies.
func (f *ServiceFactory) NewTaskService(deps TaskServiceDeps) *application.TaskService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewTaskService(deps.Tasks, deps.Summaries, now, deps.Logger)
}

// DashboardServiceDeps captures dependencies for constructing a dashboard
// service.
type DashboardServiceDeps struct {
	Events   application.EventRepository
	Tasks    application.TaskRepository
	CacheTTL time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewDashboardService builds a dashboard service using the supplied
// dependencies.
func (f *ServiceFactory) NewDashboardService(deps DashboardServiceDeps) *application.DashboardService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewDashboardService(deps.Events, deps.Tasks, deps.CacheTTL, now, deps.Logger)
}
