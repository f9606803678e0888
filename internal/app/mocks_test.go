package app

import (
	"context"
	"io"
	"time"

	"lead_followup_engine/internal/domain/activity"
	"lead_followup_engine/internal/domain/demo"
	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/domain/lead"
	"lead_followup_engine/internal/infra/queue"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// MockLeadRepository

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListInactive(ctx context.Context, cutoff time.Time) ([]*lead.Lead, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) SetQuietMode(ctx context.Context, id string, quiet bool) error {
	args := m.Called(ctx, id, quiet)
	return args.Error(0)
}

// MockDemoRepository

type MockDemoRepository struct {
	mock.Mock
}

func (m *MockDemoRepository) ListUnviewedSentBefore(ctx context.Context, sentBefore time.Time) ([]*demo.Demo, error) {
	args := m.Called(ctx, sentBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*demo.Demo), args.Error(1)
}

func (m *MockDemoRepository) ListViewedBefore(ctx context.Context, viewedBefore time.Time) ([]*demo.Demo, error) {
	args := m.Called(ctx, viewedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*demo.Demo), args.Error(1)
}

// MockActivityRepository

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) HasActivitySince(ctx context.Context, leadID string, since time.Time) (bool, error) {
	args := m.Called(ctx, leadID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockActivityRepository) HasWeekendActivity(ctx context.Context, leadID string) (bool, error) {
	args := m.Called(ctx, leadID)
	return args.Bool(0), args.Error(1)
}

func (m *MockActivityRepository) ListByLead(ctx context.Context, leadID string, limit int) ([]*activity.Activity, error) {
	args := m.Called(ctx, leadID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*activity.Activity), args.Error(1)
}

// MockFollowUpRepository

type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) Create(ctx context.Context, f *followup.ScheduledFollowUp) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFollowUpRepository) GetByID(ctx context.Context, id string) (*followup.ScheduledFollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*followup.ScheduledFollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) ListActiveByLead(ctx context.Context, leadID string) ([]*followup.ScheduledFollowUp, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*followup.ScheduledFollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) ListDue(ctx context.Context, due time.Time, limit int) ([]*followup.ScheduledFollowUp, error) {
	args := m.Called(ctx, due, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*followup.ScheduledFollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockFollowUpRepository) MarkCancelled(ctx context.Context, id string, cancelledAt time.Time) error {
	args := m.Called(ctx, id, cancelledAt)
	return args.Error(0)
}

func (m *MockFollowUpRepository) CancelAllPendingForLead(ctx context.Context, leadID string, cancelledAt time.Time) (int64, error) {
	args := m.Called(ctx, leadID, cancelledAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetBool(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsRepository) SetBool(ctx context.Context, key string, value bool) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockSender

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

// MockEventPublisher

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDispatched(ctx context.Context, evt queue.DispatchedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// MockAlertNotifier

type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) Notify(text string) error {
	args := m.Called(text)
	return args.Error(0)
}
