package sheets

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

// Columns is the header the target sheet is expected to have.
var Columns = []string{
	"Date", "Name", "Email", "Phone", "Company", "Estimate",
	"Service", "Goals", "Budget", "Timeline", "Description", "Requirements",
}

// RowFromSubmission maps a submission onto Columns. Date is the processing
// time, not the time the wizard was filled in.
func RowFromSubmission(s entity.Submission, processedAt time.Time) []string {
	reqs := make([]string, 0, len(s.Requirements))
	for _, r := range s.Requirements {
		reqs = append(reqs, r.Text+" ($"+r.Value.String()+")")
	}

	return []string{
		processedAt.Format(time.RFC3339),
		s.Contact.FullName,
		s.Contact.Email,
		s.Contact.Phone,
		s.Contact.CompanyName,
		s.TotalEstimate.String(),
		strings.Join(s.Objectives.Services, ", "),
		strings.Join(s.Objectives.Goals, ", "),
		s.Objectives.Budget,
		s.Objectives.Timeline,
		s.Description,
		strings.Join(reqs, "\n"),
	}
}

func (c *Client) AppendSubmission(ctx context.Context, s entity.Submission, processedAt time.Time) error {
	return c.AppendRow(ctx, RowFromSubmission(s, processedAt))
}
