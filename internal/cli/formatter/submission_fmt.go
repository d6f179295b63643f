package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/domain"
)

// FormatSubmissions renders the submission log, newest first.
func FormatSubmissions(subs []*domain.Submission, now time.Time) string {
	if len(subs) == 0 {
		return Dim("No submissions recorded yet.") + "\n"
	}
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		plan := string(s.Plan)
		if plan == "" {
			plan = Dim("-")
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			HumanTimestampFrom(s.CreatedAt, now),
			string(s.Kind),
			s.Target,
			plan,
			StatusPill(s.Status),
			Dim(Truncate(s.Detail, 48)),
		})
	}
	return RenderTable([]string{"ID", "WHEN", "KIND", "TARGET", "PLAN", "STATUS", "DETAIL"}, rows)
}

// FormatSubmissionCounts renders a one-line status tally.
func FormatSubmissionCounts(counts map[domain.SubmissionStatus]int) string {
	parts := make([]string, 0, 3)
	for _, st := range []domain.SubmissionStatus{domain.SubmissionOK, domain.SubmissionFailed, domain.SubmissionSkipped} {
		parts = append(parts, fmt.Sprintf("%s %d", StatusPill(st), counts[st]))
	}
	return strings.Join(parts, "   ") + "\n"
}

// FormatEvents renders tracked analytics events, newest first.
func FormatEvents(events []analytics.Event, now time.Time) string {
	if len(events) == 0 {
		return Dim("No events tracked yet.") + "\n"
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		detail := e.StepName
		if e.Plan != "" {
			detail = e.Plan
		}
		rows = append(rows, []string{
			HumanTimestampFrom(e.Timestamp, now),
			StyleBlue.Render(e.Name),
			detail,
			Dim(analytics.Subject(e)),
		})
	}
	return RenderTable([]string{"WHEN", "EVENT", "DETAIL", "SUBJECT"}, rows)
}
