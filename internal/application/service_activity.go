package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bizdesk/auth-service/internal/domain"
	"github.com/bizdesk/auth-service/internal/ports"
)

// onlineWindow is how recently a session must have heartbeated to count as
// online on the dashboard.
const onlineWindow = 5 * time.Minute

// ActivityStats returns the dashboard headline numbers for today.
func (s *Service) ActivityStats(ctx context.Context) (ports.ActivityStats, error) {
	now := s.nowFn()
	return s.activity.Stats(ctx, startOfDay(now), now.Add(-onlineWindow))
}

// OnlineUsers lists the currently active sessions joined with their users.
func (s *Service) OnlineUsers(ctx context.Context) ([]ports.OnlineUser, error) {
	return s.activity.OnlineUsers(ctx, s.nowFn().Add(-onlineWindow))
}

// ListAttempts pages through the ledger with the admin-facing filters.
func (s *Service) ListAttempts(ctx context.Context, q AttemptListQuery) (AttemptPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 50
	}

	attempts, total, err := s.loginAttempts.List(ctx, ports.AttemptFilter{
		Username: q.Username,
		Success:  q.Success,
		From:     q.From,
		To:       q.To,
		SortBy:   q.SortBy,
		SortDesc: q.SortDesc,
		Limit:    q.Limit,
		Offset:   (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return AttemptPage{}, err
	}

	items := make([]AttemptItem, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, toAttemptItem(attempt))
	}
	return AttemptPage{Attempts: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// LoginChart returns the per-day success/failure series for the last N days.
func (s *Service) LoginChart(ctx context.Context, days int) ([]ports.DailyLoginCount, error) {
	if days <= 0 || days > 90 {
		days = 7
	}
	from := startOfDay(s.nowFn()).AddDate(0, 0, -(days - 1))
	return s.activity.DailyCounts(ctx, from)
}

// SessionSummary aggregates per-user usage for one calendar day.
func (s *Service) SessionSummary(ctx context.Context, date string) ([]ports.UserDailyUsage, error) {
	dayStart, dayEnd, err := s.dayBounds(date)
	if err != nil {
		return nil, err
	}
	return s.activity.DailyUsage(ctx, dayStart, dayEnd)
}

// SessionHistory returns one day's sessions grouped by user.
func (s *Service) SessionHistory(ctx context.Context, date string) ([]SessionHistoryGroup, error) {
	dayStart, dayEnd, err := s.dayBounds(date)
	if err != nil {
		return nil, err
	}
	sessions, err := s.activity.SessionsBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	groups := make([]SessionHistoryGroup, 0)
	index := make(map[string]int)
	for _, session := range sessions {
		i, ok := index[session.Username]
		if !ok {
			i = len(groups)
			index[session.Username] = i
			groups = append(groups, SessionHistoryGroup{Username: session.Username})
		}
		groups[i].Sessions = append(groups[i].Sessions, toSessionItem(session))
	}
	return groups, nil
}

// ExternalIPAttempts lists ledger rows from outside the configured internal
// address prefixes, newest first.
func (s *Service) ExternalIPAttempts(ctx context.Context, todayOnly bool) ([]AttemptItem, error) {
	var from *time.Time
	if todayOnly {
		start := startOfDay(s.nowFn())
		from = &start
	}
	attempts, err := s.activity.ExternalIPAttempts(ctx, s.cfg.InternalIPPrefixes, from, 500)
	if err != nil {
		return nil, err
	}
	items := make([]AttemptItem, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, toAttemptItem(attempt))
	}
	return items, nil
}

// DeleteAttempt removes a single ledger row.
func (s *Service) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.loginAttempts.DeleteByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAttempts handles the bulk housekeeping form: either an explicit id
// list or delete-all with an optional cutoff date.
func (s *Service) DeleteAttempts(ctx context.Context, req BulkDeleteRequest) (int64, error) {
	if req.DeleteAll {
		return s.loginAttempts.DeleteBefore(ctx, req.BeforeDate)
	}
	if len(req.IDs) == 0 {
		return 0, fmt.Errorf("%w: ids or deleteAll is required", domain.ErrInvalidInput)
	}
	return s.loginAttempts.DeleteByIDs(ctx, req.IDs)
}

func (s *Service) dayBounds(date string) (time.Time, time.Time, error) {
	day := startOfDay(s.nowFn())
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		day = parsed
	}
	return day, day.AddDate(0, 0, 1), nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
