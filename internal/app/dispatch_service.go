package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lead_followup_engine/internal/domain/activity"
	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/domain/lead"
	"lead_followup_engine/internal/domain/notify"
	"lead_followup_engine/internal/domain/settings"
	idb "lead_followup_engine/internal/infra/database"
	"lead_followup_engine/internal/infra/metrics"
	"lead_followup_engine/internal/infra/queue"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultDispatchBatchSize caps how many due jobs a single worker run
// processes.
const DefaultDispatchBatchSize = 50

// DispatchSummary reports the outcome of one worker run.
type DispatchSummary struct {
	Processed int      // jobs successfully sent
	Cancelled int      // jobs cancelled by the quiet-mode re-check
	Errors    []string // per-job failures, for operator visibility
}

// EventPublisher publishes a dispatched-follow-up event for downstream CRM
// consumers. Publishing is best-effort and never fails a dispatch.
type EventPublisher interface {
	PublishDispatched(ctx context.Context, evt queue.DispatchedEvent) error
}

// AlertNotifier pushes an operator-facing alert message.
type AlertNotifier interface {
	Notify(text string) error
}

// DispatchService drains due follow-up jobs and delivers them. It is meant
// to run as a single periodic task; a TryLock guard skips a tick when the
// previous run is still going, so runs never overlap in-process.
type DispatchService struct {
	followUpRepo followup.Repository
	leadRepo     lead.Repository
	activityRepo activity.Repository
	settingsRepo settings.Repository
	emailSender  notify.Sender
	smsSender    notify.Sender
	events       EventPublisher // optional
	alerts       AlertNotifier  // optional
	logger       *logrus.Logger
	batchSize    int

	runMu sync.Mutex
}

func NewDispatchService(
	fr followup.Repository,
	lr lead.Repository,
	ar activity.Repository,
	sr settings.Repository,
	emailSender notify.Sender,
	smsSender notify.Sender,
	events EventPublisher,
	alerts AlertNotifier,
	logger *logrus.Logger,
	batchSize int,
) *DispatchService {
	if batchSize <= 0 {
		batchSize = DefaultDispatchBatchSize
	}
	return &DispatchService{
		followUpRepo: fr,
		leadRepo:     lr,
		activityRepo: ar,
		settingsRepo: sr,
		emailSender:  emailSender,
		smsSender:    smsSender,
		events:       events,
		alerts:       alerts,
		logger:       logger,
		batchSize:    batchSize,
	}
}

// RunDispatch performs one worker pass: kill-switch check, due-job query,
// then a sequential per-job loop. Per-job failures are isolated and
// accumulated; the job stays pending and is retried on the next run.
func (s *DispatchService) RunDispatch(ctx context.Context) (DispatchSummary, error) {
	summary := DispatchSummary{}

	if !s.runMu.TryLock() {
		s.logger.Warn("Dispatch run skipped: previous run still in progress")
		return summary, nil
	}
	defer s.runMu.Unlock()

	enabled, err := s.settingsRepo.GetBool(ctx, settings.KeyAutoSendEnabled)
	if err != nil {
		// The kill-switch is the master safety control; if we cannot read it,
		// the whole run aborts.
		return summary, fmt.Errorf("kill-switch check failed: %w", err)
	}
	if !enabled {
		s.logger.Info("Auto-send is disabled; dispatch run exiting without processing")
		return summary, nil
	}

	due, err := s.followUpRepo.ListDue(ctx, time.Now(), s.batchSize)
	if err != nil {
		return summary, fmt.Errorf("failed to list due follow-ups: %w", err)
	}
	if len(due) == 0 {
		return summary, nil
	}
	s.logger.Infof("Dispatch run: %d due follow-up(s)", len(due))

	for _, job := range due {
		s.processJob(ctx, job, &summary)
	}

	s.logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"cancelled": summary.Cancelled,
		"errors":    len(summary.Errors),
	}).Info("Dispatch run finished")

	if len(summary.Errors) > 0 && s.alerts != nil {
		text := fmt.Sprintf("Follow-up dispatch run finished with %d error(s):", len(summary.Errors))
		for _, e := range summary.Errors {
			text += "\n- " + e
		}
		if err := s.alerts.Notify(text); err != nil {
			s.logger.Errorf("Failed to send dispatch alert: %v", err)
		}
	}

	return summary, nil
}

func (s *DispatchService) processJob(ctx context.Context, job *followup.ScheduledFollowUp, summary *DispatchSummary) {
	l, err := s.leadRepo.GetByID(ctx, job.LeadID)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("follow-up %s: load lead %s: %v", job.ID, job.LeadID, err))
		metrics.RecordDispatchError()
		return
	}

	// Quiet mode is re-checked at dispatch time, not trusted from creation
	// time. A lead that opted out after approval is cancelled, not sent.
	if l.QuietMode {
		if err := s.followUpRepo.MarkCancelled(ctx, job.ID, time.Now()); err != nil && err != idb.ErrFollowUpTerminal {
			summary.Errors = append(summary.Errors, fmt.Sprintf("follow-up %s: cancel for quiet-mode lead: %v", job.ID, err))
			metrics.RecordDispatchError()
			return
		}
		s.logger.Infof("Follow-up %s cancelled: lead %s is in quiet mode", job.ID, l.ID)
		summary.Cancelled++
		metrics.RecordFollowUpCancelled()
		return
	}

	if err := s.deliver(ctx, job, l); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("follow-up %s: %v", job.ID, err))
		metrics.RecordDispatchError()
		return
	}

	// This is the only place a job transitions to sent. The conditional
	// update means a concurrent run that already claimed the job makes this
	// a no-op rather than a double send.
	if err := s.followUpRepo.MarkSent(ctx, job.ID, time.Now()); err != nil {
		if err == idb.ErrFollowUpTerminal {
			s.logger.Warnf("Follow-up %s was already terminal when marking sent; skipping activity log", job.ID)
			return
		}
		summary.Errors = append(summary.Errors, fmt.Sprintf("follow-up %s: mark sent: %v", job.ID, err))
		metrics.RecordDispatchError()
		return
	}

	s.logActivity(ctx, job, l, summary)
	s.publishEvent(ctx, job)

	summary.Processed++
	metrics.RecordDispatch(string(job.Action))
}

func (s *DispatchService) deliver(ctx context.Context, job *followup.ScheduledFollowUp, l *lead.Lead) error {
	subject := job.Subject.String
	if subject == "" {
		subject = "Quick follow-up"
	}
	body := job.Body.String
	if body == "" {
		body = fmt.Sprintf("Hi %s, just checking in.", l.Name)
	}

	switch job.Action {
	case followup.ActionEmail:
		if !l.HasEmail() {
			return fmt.Errorf("lead %s has no email address", l.ID)
		}
		if err := s.emailSender.Send(ctx, l.Email.String, subject, body); err != nil {
			return fmt.Errorf("email send failed: %w", err)
		}
	case followup.ActionSMS:
		if !l.HasPhone() {
			return fmt.Errorf("lead %s has no phone number", l.ID)
		}
		if err := s.smsSender.Send(ctx, l.Phone.String, subject, body); err != nil {
			return fmt.Errorf("sms send failed: %w", err)
		}
	case followup.ActionCallReminder:
		// No external call; the log entry is the reminder.
		s.logger.Infof("Call reminder due: lead %s (%s)", l.Name, l.ID)
	default:
		return fmt.Errorf("unknown action type %q", job.Action)
	}
	return nil
}

func (s *DispatchService) logActivity(ctx context.Context, job *followup.ScheduledFollowUp, l *lead.Lead, summary *DispatchSummary) {
	subject := fmt.Sprintf("Automated follow-up (%s) sent to %s", job.Action, l.Name)
	a := &activity.Activity{
		ID:                uuid.New().String(),
		LeadID:            l.ID,
		Type:              string(job.Action),
		Subject:           nullString(subject),
		IsSystemGenerated: true,
		CreatedAt:         time.Now(),
	}
	if err := s.activityRepo.Create(ctx, a); err != nil {
		// The send already happened; record the bookkeeping failure but do
		// not undo the terminal transition.
		summary.Errors = append(summary.Errors, fmt.Sprintf("follow-up %s: activity log: %v", job.ID, err))
		s.logger.Errorf("Failed to log activity for follow-up %s: %v", job.ID, err)
	}
}

func (s *DispatchService) publishEvent(ctx context.Context, job *followup.ScheduledFollowUp) {
	if s.events == nil {
		return
	}
	evt := queue.DispatchedEvent{
		FollowUpID:   job.ID,
		SuggestionID: job.SuggestionID,
		LeadID:       job.LeadID,
		Action:       string(job.Action),
		DispatchedAt: time.Now(),
	}
	if err := s.events.PublishDispatched(ctx, evt); err != nil {
		s.logger.Errorf("Failed to publish dispatched event for follow-up %s: %v", job.ID, err)
	}
}
