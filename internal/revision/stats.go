package revision

import (
	"context"
	"fmt"
	"time"
)

// DefaultStatsDays is the window Stats uses when none is given.
const DefaultStatsDays = 7

// DayCount is the number of revisions created on one UTC day.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Stats counts revisions created in the last `days` days, grouped per UTC
// day. The window starts exactly `days` days before now, so its first day
// is partial. Days without revisions are reported as zero. Amended
// revisions count on the day of their latest amend.
func (s *Service) Stats(ctx context.Context, days int) ([]DayCount, error) {
	if days < 1 {
		return nil, fmt.Errorf("stats: days must be positive, got %d", days)
	}

	now := s.clock().UTC()
	since := now.AddDate(0, 0, -days)
	today := truncateDay(now)
	start := truncateDay(since)

	times, err := s.store.CreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	counts := make(map[string]int, days+1)
	for _, t := range times {
		counts[t.UTC().Format(time.DateOnly)]++
	}

	out := make([]DayCount, 0, days+1)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		out = append(out, DayCount{Date: key, Count: counts[key]})
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
