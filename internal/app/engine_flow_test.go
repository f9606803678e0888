package app

import (
	"context"
	"testing"
	"time"

	"lead_followup_engine/internal/domain/activity"
	"lead_followup_engine/internal/domain/demo"
	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/domain/lead"
	"lead_followup_engine/internal/domain/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Walks the whole pipeline for one stale lead: suggestion generation,
// auto-scheduling, then a dispatch run that sends the job and appends the
// activity record.
func TestStaleLeadFlowsFromSuggestionToSentFollowUp(t *testing.T) {
	now := time.Now()

	leadRepo := new(MockLeadRepository)
	demoRepo := new(MockDemoRepository)
	activityRepo := new(MockActivityRepository)
	followUpRepo := new(MockFollowUpRepository)
	settingsRepo := new(MockSettingsRepository)
	emailSender := new(MockSender)
	smsSender := new(MockSender)

	log := newTestLogger()
	suggestionSvc := NewSuggestionService(leadRepo, demoRepo, activityRepo, log)
	followUpSvc := NewFollowUpService(followUpRepo, leadRepo, activityRepo, log)
	dispatchSvc := NewDispatchService(
		followUpRepo, leadRepo, activityRepo, settingsRepo,
		emailSender, smsSender, nil, nil, log, DefaultDispatchBatchSize,
	)

	staleLead := &lead.Lead{
		ID:        "lead-1",
		Name:      "Acme",
		Email:     nullStr("ops@acme.test"),
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		UpdatedAt: now.Add(-10 * 24 * time.Hour),
	}

	// Suggestion generation: only the inactivity rule fires.
	demoRepo.On("ListUnviewedSentBefore", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*demo.Demo{}, nil)
	demoRepo.On("ListViewedBefore", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*demo.Demo{}, nil)
	leadRepo.On("ListInactive", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*lead.Lead{staleLead}, nil)
	activityRepo.On("HasActivitySince", mock.Anything, "lead-1", mock.AnythingOfType("time.Time")).
		Return(false, nil)

	suggestions, err := suggestionSvc.GenerateSuggestions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, followup.ReasonLeadInactive, suggestions[0].Reason)

	// Auto-scheduling: the created job is captured so the dispatch phase can
	// serve it back as due.
	var scheduled *followup.ScheduledFollowUp
	leadRepo.On("GetByID", mock.Anything, "lead-1").Return(staleLead, nil)
	activityRepo.On("HasWeekendActivity", mock.Anything, "lead-1").Return(false, nil)
	followUpRepo.On("ListActiveByLead", mock.Anything, "lead-1").
		Return([]*followup.ScheduledFollowUp{}, nil)
	followUpRepo.On("Create", mock.Anything, mock.AnythingOfType("*followup.ScheduledFollowUp")).
		Run(func(args mock.Arguments) {
			scheduled = args.Get(1).(*followup.ScheduledFollowUp)
		}).
		Return(nil)

	created, err := followUpSvc.AutoSchedule(context.Background(), suggestions[0])
	assert.NoError(t, err)
	assert.Equal(t, followup.ActionEmail, created.Action)
	assert.True(t, created.ScheduledFor.After(now))
	assert.NotEqual(t, time.Saturday, created.ScheduledFor.Weekday())
	assert.NotEqual(t, time.Sunday, created.ScheduledFor.Weekday())
	assert.Same(t, created, scheduled)

	// Dispatch: the job comes due, the email goes out, the job turns terminal
	// and the touchpoint is recorded.
	settingsRepo.On("GetBool", mock.Anything, settings.KeyAutoSendEnabled).Return(true, nil)
	followUpRepo.On("ListDue", mock.Anything, mock.AnythingOfType("time.Time"), DefaultDispatchBatchSize).
		Return([]*followup.ScheduledFollowUp{scheduled}, nil)
	emailSender.On("Send", mock.Anything, "ops@acme.test", "Quick follow-up", suggestions[0].Text).
		Return(nil)
	followUpRepo.On("MarkSent", mock.Anything, scheduled.ID, mock.AnythingOfType("time.Time")).
		Return(nil)
	activityRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *activity.Activity) bool {
		return a.LeadID == "lead-1" && a.Type == "email" && a.IsSystemGenerated
	})).Return(nil)

	summary, err := dispatchSvc.RunDispatch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Empty(t, summary.Errors)

	followUpRepo.AssertExpectations(t)
	emailSender.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}
