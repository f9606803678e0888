package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/domain/lead"
	idb "lead_followup_engine/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFollowUpFixture() (*FollowUpService, *MockFollowUpRepository, *MockLeadRepository, *MockActivityRepository) {
	followUpRepo := new(MockFollowUpRepository)
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	svc := NewFollowUpService(followUpRepo, leadRepo, activityRepo, newTestLogger())
	return svc, followUpRepo, leadRepo, activityRepo
}

func validScheduleParams() ScheduleParams {
	return ScheduleParams{
		SuggestionID: "demo_not_viewed:demo-1",
		LeadID:       "lead-1",
		Action:       followup.ActionEmail,
		SendAt:       time.Now().Add(48 * time.Hour),
		AutoApproved: true,
		Subject:      "Quick follow-up",
		Body:         "Checking in on the demo",
		CreatedBy:    "api",
	}
}

func TestScheduleCreatesPendingFollowUp(t *testing.T) {
	svc, followUpRepo, _, _ := newFollowUpFixture()

	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").
		Return([]*followup.ScheduledFollowUp{}, nil)
	followUpRepo.On("Create", mock.Anything, mock.AnythingOfType("*followup.ScheduledFollowUp")).
		Return(nil)

	f, err := svc.Schedule(context.Background(), validScheduleParams())

	assert.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "lead-1", f.LeadID)
	assert.Equal(t, followup.ActionEmail, f.Action)
	assert.True(t, f.IsPending())
	assert.Equal(t, "api", f.CreatedBy)
	followUpRepo.AssertExpectations(t)
}

func TestScheduleRejectsUnknownAction(t *testing.T) {
	svc, followUpRepo, _, _ := newFollowUpFixture()

	p := validScheduleParams()
	p.Action = "carrier_pigeon"

	f, err := svc.Schedule(context.Background(), p)

	assert.Nil(t, f)
	assert.True(t, errors.Is(err, ErrInvalidAction))
	followUpRepo.AssertNotCalled(t, "ListActiveByLead", mock.Anything, mock.Anything)
	followUpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScheduleEnforcesWeeklyCap(t *testing.T) {
	svc, followUpRepo, _, _ := newFollowUpFixture()
	now := time.Now()

	// Three jobs created within the week, all scheduled well outside the
	// cooldown window so only the cap can trip.
	existing := make([]*followup.ScheduledFollowUp, 0, 3)
	for i := 0; i < 3; i++ {
		existing = append(existing, &followup.ScheduledFollowUp{
			ID:           "existing",
			LeadID:       "lead-1",
			Action:       followup.ActionEmail,
			ScheduledFor: now.Add(72 * time.Hour),
			CreatedAt:    now.Add(-48 * time.Hour),
		})
	}
	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").Return(existing, nil)

	f, err := svc.Schedule(context.Background(), validScheduleParams())

	assert.Nil(t, f)
	assert.True(t, errors.Is(err, ErrRateLimitExceeded))
	followUpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScheduleEnforcesCooldownAgainstPendingJob(t *testing.T) {
	svc, followUpRepo, _, _ := newFollowUpFixture()
	now := time.Now()

	existing := []*followup.ScheduledFollowUp{{
		ID:           "existing",
		LeadID:       "lead-1",
		Action:       followup.ActionSMS,
		ScheduledFor: now.Add(2 * time.Hour),
		CreatedAt:    now.Add(-10 * 24 * time.Hour),
	}}
	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").Return(existing, nil)

	f, err := svc.Schedule(context.Background(), validScheduleParams())

	assert.Nil(t, f)
	assert.True(t, errors.Is(err, ErrCooldownActive))
	followUpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScheduleEnforcesCooldownAgainstRecentlySentJob(t *testing.T) {
	svc, followUpRepo, _, _ := newFollowUpFixture()
	now := time.Now()

	existing := []*followup.ScheduledFollowUp{{
		ID:           "existing",
		LeadID:       "lead-1",
		Action:       followup.ActionEmail,
		ScheduledFor: now.Add(-4 * time.Hour),
		SentAt:       nullTime(now.Add(-3 * time.Hour)),
		CreatedAt:    now.Add(-10 * 24 * time.Hour),
	}}
	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").Return(existing, nil)

	f, err := svc.Schedule(context.Background(), validScheduleParams())

	assert.Nil(t, f)
	assert.True(t, errors.Is(err, ErrCooldownActive))
	followUpRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCancelPassesThroughTerminalError(t *testing.T) {
	svc, followUpRepo, _, _ := newFollowUpFixture()

	followUpRepo.On("MarkCancelled", mock.Anything, "fu-1", mock.AnythingOfType("time.Time")).
		Return(idb.ErrFollowUpTerminal)

	err := svc.Cancel(context.Background(), "fu-1")

	assert.True(t, errors.Is(err, idb.ErrFollowUpTerminal))
}

func TestSetQuietModeCancelsPendingJobs(t *testing.T) {
	svc, followUpRepo, leadRepo, _ := newFollowUpFixture()

	leadRepo.On("SetQuietMode", mock.Anything, "lead-1", true).Return(nil)
	followUpRepo.On("CancelAllPendingForLead", mock.Anything, "lead-1", mock.AnythingOfType("time.Time")).
		Return(int64(2), nil)

	err := svc.SetQuietMode(context.Background(), "lead-1", true)

	assert.NoError(t, err)
	followUpRepo.AssertExpectations(t)
}

func TestSetQuietModeOffLeavesJobsAlone(t *testing.T) {
	svc, followUpRepo, leadRepo, _ := newFollowUpFixture()

	leadRepo.On("SetQuietMode", mock.Anything, "lead-1", false).Return(nil)

	err := svc.SetQuietMode(context.Background(), "lead-1", false)

	assert.NoError(t, err)
	followUpRepo.AssertNotCalled(t, "CancelAllPendingForLead", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveSendTimeForLeadQuietMode(t *testing.T) {
	svc, _, leadRepo, activityRepo := newFollowUpFixture()

	leadRepo.On("GetByID", mock.Anything, "lead-1").
		Return(&lead.Lead{ID: "lead-1", Name: "Acme", QuietMode: true}, nil)
	activityRepo.On("HasWeekendActivity", mock.Anything, "lead-1").Return(false, nil)

	ts, err := svc.ResolveSendTimeForLead(context.Background(), "lead-1", nil)

	assert.True(t, errors.Is(err, ErrLeadQuietMode))
	assert.True(t, ts.IsZero())
}

func TestResolveSendTimeForLeadReturnsWeekdayInFuture(t *testing.T) {
	svc, _, leadRepo, activityRepo := newFollowUpFixture()

	leadRepo.On("GetByID", mock.Anything, "lead-1").
		Return(&lead.Lead{ID: "lead-1", Name: "Acme"}, nil)
	activityRepo.On("HasWeekendActivity", mock.Anything, "lead-1").Return(false, nil)

	ts, err := svc.ResolveSendTimeForLead(context.Background(), "lead-1", nil)

	assert.NoError(t, err)
	assert.True(t, ts.After(time.Now()))
	assert.NotEqual(t, time.Saturday, ts.Weekday())
	assert.NotEqual(t, time.Sunday, ts.Weekday())
}

func TestAutoSchedulePicksEmailWhenAvailable(t *testing.T) {
	svc, followUpRepo, leadRepo, activityRepo := newFollowUpFixture()

	leadRepo.On("GetByID", mock.Anything, "lead-1").
		Return(&lead.Lead{ID: "lead-1", Name: "Acme", Email: nullStr("ops@acme.test")}, nil)
	activityRepo.On("HasWeekendActivity", mock.Anything, "lead-1").Return(false, nil)
	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").
		Return([]*followup.ScheduledFollowUp{}, nil)
	followUpRepo.On("Create", mock.Anything, mock.AnythingOfType("*followup.ScheduledFollowUp")).
		Return(nil)

	sugg := followup.Suggestion{
		ID:     "lead_inactive:lead-1",
		LeadID: "lead-1",
		Reason: followup.ReasonLeadInactive,
		Text:   "No touchpoint with Acme in over a week",
	}
	f, err := svc.AutoSchedule(context.Background(), sugg)

	assert.NoError(t, err)
	assert.Equal(t, followup.ActionEmail, f.Action)
	assert.True(t, f.AutoApproved)
	assert.Equal(t, "auto-send", f.CreatedBy)
	assert.Equal(t, sugg.ID, f.SuggestionID)
}

func TestAutoScheduleFallsBackToCallReminder(t *testing.T) {
	svc, followUpRepo, leadRepo, activityRepo := newFollowUpFixture()

	// No email and no phone on file.
	leadRepo.On("GetByID", mock.Anything, "lead-1").
		Return(&lead.Lead{ID: "lead-1", Name: "Acme"}, nil)
	activityRepo.On("HasWeekendActivity", mock.Anything, "lead-1").Return(false, nil)
	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").
		Return([]*followup.ScheduledFollowUp{}, nil)
	followUpRepo.On("Create", mock.Anything, mock.AnythingOfType("*followup.ScheduledFollowUp")).
		Return(nil)

	f, err := svc.AutoSchedule(context.Background(), followup.Suggestion{ID: "s", LeadID: "lead-1"})

	assert.NoError(t, err)
	assert.Equal(t, followup.ActionCallReminder, f.Action)
}
