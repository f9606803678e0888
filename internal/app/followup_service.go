package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lead_followup_engine/internal/domain/activity"
	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/domain/lead"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Validation errors surfaced to whoever approved the suggestion. They must be
// shown to the caller, never swallowed.
var (
	ErrRateLimitExceeded = fmt.Errorf("rate limit: lead already has %d follow-ups created in the last 7 days", weeklyCap)
	ErrCooldownActive    = fmt.Errorf("cooldown: another follow-up for this lead sends within 24 hours")
	ErrLeadQuietMode     = fmt.Errorf("lead has quiet mode enabled; scheduling aborted")
	ErrInvalidAction     = fmt.Errorf("unknown follow-up action type")
)

const (
	weeklyCap       = 3
	weeklyCapWindow = 7 * 24 * time.Hour
	cooldownWindow  = 24 * time.Hour
)

// ScheduleParams are the inputs to scheduling one follow-up job.
type ScheduleParams struct {
	SuggestionID string
	LeadID       string
	Action       followup.ActionType
	SendAt       time.Time
	AutoApproved bool
	Subject      string
	Body         string
	CreatedBy    string
}

// FollowUpService owns the scheduled-dispatch store: creation with safety
// checks, cancellation, and send-time resolution for a concrete lead.
type FollowUpService struct {
	followUpRepo followup.Repository
	leadRepo     lead.Repository
	activityRepo activity.Repository
	logger       *logrus.Logger
}

func NewFollowUpService(
	fr followup.Repository,
	lr lead.Repository,
	ar activity.Repository,
	logger *logrus.Logger,
) *FollowUpService {
	return &FollowUpService{
		followUpRepo: fr,
		leadRepo:     lr,
		activityRepo: ar,
		logger:       logger,
	}
}

// Schedule persists a new pending follow-up after running the weekly-cap and
// cooldown checks against the lead's existing non-cancelled jobs. On a
// validation failure no record is created.
func (s *FollowUpService) Schedule(ctx context.Context, p ScheduleParams) (*followup.ScheduledFollowUp, error) {
	if !p.Action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, p.Action)
	}

	now := time.Now()
	existing, err := s.followUpRepo.ListActiveByLead(ctx, p.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing follow-ups for lead %s: %w", p.LeadID, err)
	}

	recentlyCreated := 0
	for _, f := range existing {
		if f.CreatedAt.After(now.Add(-weeklyCapWindow)) {
			recentlyCreated++
		}
		if f.SentAt.Valid && withinWindow(f.SentAt.Time, now, cooldownWindow) {
			return nil, ErrCooldownActive
		}
		if f.IsPending() && withinWindow(f.ScheduledFor, now, cooldownWindow) {
			return nil, ErrCooldownActive
		}
	}
	if recentlyCreated >= weeklyCap {
		return nil, ErrRateLimitExceeded
	}

	f := &followup.ScheduledFollowUp{
		ID:           uuid.New().String(),
		SuggestionID: p.SuggestionID,
		LeadID:       p.LeadID,
		Action:       p.Action,
		ScheduledFor: p.SendAt,
		AutoApproved: p.AutoApproved,
		Subject:      nullString(p.Subject),
		Body:         nullString(p.Body),
		CreatedBy:    p.CreatedBy,
		CreatedAt:    now,
	}
	if err := s.followUpRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create scheduled follow-up: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"follow_up_id":  f.ID,
		"lead_id":       f.LeadID,
		"action":        f.Action,
		"scheduled_for": f.ScheduledFor.Format(time.RFC3339),
		"auto_approved": f.AutoApproved,
	}).Info("Follow-up scheduled")
	return f, nil
}

// Cancel marks a pending job cancelled. Cancelling a job that is already sent
// or cancelled fails loudly; that always indicates a caller bug.
func (s *FollowUpService) Cancel(ctx context.Context, id string) error {
	if err := s.followUpRepo.MarkCancelled(ctx, id, time.Now()); err != nil {
		return err
	}
	s.logger.Infof("Follow-up %s cancelled", id)
	return nil
}

// CancelAllForLead cancels every still-pending job for a lead. Used when a
// lead opts into quiet mode or is deleted from the CRM.
func (s *FollowUpService) CancelAllForLead(ctx context.Context, leadID string) (int64, error) {
	cancelled, err := s.followUpRepo.CancelAllPendingForLead(ctx, leadID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending follow-ups for lead %s: %w", leadID, err)
	}
	if cancelled > 0 {
		s.logger.Infof("Cancelled %d pending follow-up(s) for lead %s", cancelled, leadID)
	}
	return cancelled, nil
}

// SetQuietMode flips the lead's quiet-mode flag. Opting in also cancels all
// of the lead's pending jobs immediately.
func (s *FollowUpService) SetQuietMode(ctx context.Context, leadID string, quiet bool) error {
	if err := s.leadRepo.SetQuietMode(ctx, leadID, quiet); err != nil {
		return err
	}
	if quiet {
		if _, err := s.CancelAllForLead(ctx, leadID); err != nil {
			return err
		}
	}
	return nil
}

// ResolveSendTimeForLead runs the pure send-time resolver with the lead's
// current safety constraints. A quiet-mode lead yields ErrLeadQuietMode
// instead of the sentinel timestamp.
func (s *FollowUpService) ResolveSendTimeForLead(ctx context.Context, leadID string, window *followup.ContactWindow) (time.Time, error) {
	l, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return time.Time{}, err
	}
	weekend, err := s.activityRepo.HasWeekendActivity(ctx, leadID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to check weekend activity for lead %s: %w", leadID, err)
	}

	now := time.Now()
	sendAt := followup.ResolveSendTime(now, window, followup.SendConstraints{
		QuietMode:          l.QuietMode,
		HasWeekendActivity: weekend,
	})
	if followup.IsDoNotSchedule(now, sendAt) {
		return time.Time{}, ErrLeadQuietMode
	}
	return sendAt, nil
}

// AutoSchedule turns an auto-approved suggestion into a scheduled job,
// picking the channel from the lead's available contact info (email first,
// then SMS, then a call reminder).
func (s *FollowUpService) AutoSchedule(ctx context.Context, sugg followup.Suggestion) (*followup.ScheduledFollowUp, error) {
	l, err := s.leadRepo.GetByID(ctx, sugg.LeadID)
	if err != nil {
		return nil, err
	}

	sendAt, err := s.ResolveSendTimeForLead(ctx, sugg.LeadID, nil)
	if err != nil {
		return nil, err
	}

	action := followup.ActionCallReminder
	switch {
	case l.HasEmail():
		action = followup.ActionEmail
	case l.HasPhone():
		action = followup.ActionSMS
	}

	return s.Schedule(ctx, ScheduleParams{
		SuggestionID: sugg.ID,
		LeadID:       sugg.LeadID,
		Action:       action,
		SendAt:       sendAt,
		AutoApproved: true,
		Subject:      "Quick follow-up",
		Body:         sugg.Text,
		CreatedBy:    "auto-send",
	})
}

func withinWindow(t, now time.Time, window time.Duration) bool {
	diff := t.Sub(now)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

func nullString(s string) (ns sql.NullString) {
	if s != "" {
		ns.String = s
		ns.Valid = true
	}
	return ns
}
