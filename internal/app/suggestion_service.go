package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lead_followup_engine/internal/domain/activity"
	"lead_followup_engine/internal/domain/demo"
	"lead_followup_engine/internal/domain/followup"
	"lead_followup_engine/internal/domain/lead"

	"github.com/sirupsen/logrus"
)

const (
	maxSuggestions = 5

	demoNotViewedAfter     = 48 * time.Hour
	demoViewedNoReplyAfter = 24 * time.Hour
	leadInactiveAfter      = 7 * 24 * time.Hour
)

// SuggestionService computes ranked outreach candidates from lead, demo and
// activity history. It is a stateless read path; concurrent calls are safe.
type SuggestionService struct {
	leadRepo     lead.Repository
	demoRepo     demo.Repository
	activityRepo activity.Repository
	logger       *logrus.Logger
}

func NewSuggestionService(
	lr lead.Repository,
	dr demo.Repository,
	ar activity.Repository,
	logger *logrus.Logger,
) *SuggestionService {
	return &SuggestionService{
		leadRepo:     lr,
		demoRepo:     dr,
		activityRepo: ar,
		logger:       logger,
	}
}

// suggestionRule couples a reason code and urgency with the collector that
// finds its candidates. Rules are evaluated in priority order; the first rule
// to claim a lead wins. Adding a rule means adding one entry here.
type suggestionRule struct {
	reason  followup.ReasonCode
	urgency int
	collect func(ctx context.Context, now time.Time) ([]followup.Suggestion, error)
}

func (s *SuggestionService) rules() []suggestionRule {
	return []suggestionRule{
		{reason: followup.ReasonDemoNotViewed, urgency: 3, collect: s.collectDemoNotViewed},
		{reason: followup.ReasonDemoViewedNoReply, urgency: 2, collect: s.collectDemoViewedNoReply},
		{reason: followup.ReasonLeadInactive, urgency: 1, collect: s.collectLeadInactive},
	}
}

// GenerateSuggestions evaluates all rules and returns at most five
// suggestions, at most one per lead, ordered by urgency descending and anchor
// time ascending. Given identical store state the result is identical.
func (s *SuggestionService) GenerateSuggestions(ctx context.Context) ([]followup.Suggestion, error) {
	now := time.Now()
	claimed := make(map[string]bool)
	suggestions := make([]followup.Suggestion, 0)

	for _, rule := range s.rules() {
		candidates, err := rule.collect(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("rule %s failed: %w", rule.reason, err)
		}
		for _, c := range candidates {
			if claimed[c.LeadID] {
				continue // a higher-priority rule already claimed this lead
			}
			claimed[c.LeadID] = true
			suggestions = append(suggestions, c)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Urgency != suggestions[j].Urgency {
			return suggestions[i].Urgency > suggestions[j].Urgency
		}
		if !suggestions[i].AnchorAt.Equal(suggestions[j].AnchorAt) {
			return suggestions[i].AnchorAt.Before(suggestions[j].AnchorAt)
		}
		return suggestions[i].ID < suggestions[j].ID
	})

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	s.logger.Debugf("Generated %d suggestion(s)", len(suggestions))
	return suggestions, nil
}

func (s *SuggestionService) collectDemoNotViewed(ctx context.Context, now time.Time) ([]followup.Suggestion, error) {
	demos, err := s.demoRepo.ListUnviewedSentBefore(ctx, now.Add(-demoNotViewedAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to list unviewed demos: %w", err)
	}

	out := make([]followup.Suggestion, 0, len(demos))
	for _, d := range demos {
		if !d.LeadID.Valid || !d.SentAt.Valid {
			continue
		}
		out = append(out, followup.Suggestion{
			ID:       suggestionID(followup.ReasonDemoNotViewed, d.ID),
			LeadID:   d.LeadID.String,
			Reason:   followup.ReasonDemoNotViewed,
			Text:     fmt.Sprintf("Demo sent on %s has not been viewed yet", d.SentAt.Time.Format("Jan 2")),
			Urgency:  3,
			AnchorAt: d.SentAt.Time,
		})
	}
	return out, nil
}

func (s *SuggestionService) collectDemoViewedNoReply(ctx context.Context, now time.Time) ([]followup.Suggestion, error) {
	demos, err := s.demoRepo.ListViewedBefore(ctx, now.Add(-demoViewedNoReplyAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to list viewed demos: %w", err)
	}

	out := make([]followup.Suggestion, 0, len(demos))
	for _, d := range demos {
		if !d.LeadID.Valid || !d.FirstViewedAt.Valid {
			continue
		}
		replied, err := s.activityRepo.HasActivitySince(ctx, d.LeadID.String, d.FirstViewedAt.Time)
		if err != nil {
			return nil, fmt.Errorf("failed to check activity after demo view for lead %s: %w", d.LeadID.String, err)
		}
		if replied {
			continue
		}
		out = append(out, followup.Suggestion{
			ID:       suggestionID(followup.ReasonDemoViewedNoReply, d.ID),
			LeadID:   d.LeadID.String,
			Reason:   followup.ReasonDemoViewedNoReply,
			Text:     fmt.Sprintf("Demo viewed on %s but the lead never responded", d.FirstViewedAt.Time.Format("Jan 2")),
			Urgency:  2,
			AnchorAt: d.FirstViewedAt.Time,
		})
	}
	return out, nil
}

func (s *SuggestionService) collectLeadInactive(ctx context.Context, now time.Time) ([]followup.Suggestion, error) {
	cutoff := now.Add(-leadInactiveAfter)
	leads, err := s.leadRepo.ListInactive(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list inactive leads: %w", err)
	}

	out := make([]followup.Suggestion, 0, len(leads))
	for _, l := range leads {
		active, err := s.activityRepo.HasActivitySince(ctx, l.ID, cutoff)
		if err != nil {
			return nil, fmt.Errorf("failed to check recent activity for lead %s: %w", l.ID, err)
		}
		if active {
			continue
		}
		out = append(out, followup.Suggestion{
			ID:       suggestionID(followup.ReasonLeadInactive, l.ID),
			LeadID:   l.ID,
			Reason:   followup.ReasonLeadInactive,
			Text:     fmt.Sprintf("No touchpoint with %s in over a week", l.Name),
			Urgency:  1,
			AnchorAt: l.UpdatedAt,
		})
	}
	return out, nil
}

func suggestionID(reason followup.ReasonCode, sourceID string) string {
	return fmt.Sprintf("%s:%s", reason, sourceID)
}
