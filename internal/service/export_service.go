package service

import (
	"context"
	"fmt"

	appErrors "github.com/acharyahabba/vtufest-api/pkg/errors"
	"github.com/acharyahabba/vtufest-api/pkg/export"
)

// LockChecker reports whether a college has submitted final approval.
type LockChecker interface {
	IsFinalApproved(ctx context.Context, collegeID int64) (bool, error)
}

// ExportService renders the locked master list as CSV or PDF. Exports are
// only available after final approval, since the snapshot does not exist
// before then.
type ExportService struct {
	final    FinalStore
	colleges LockChecker
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
}

// NewExportService constructs the service.
func NewExportService(final FinalStore, colleges LockChecker) *ExportService {
	return &ExportService{
		final:    final,
		colleges: colleges,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
	}
}

var masterListHeaders = []string{
	"Sl No", "Name", "Type", "Phone", "Email", "Role", "Team Manager",
}

// MasterListCSV renders the final snapshot as CSV.
func (s *ExportService) MasterListCSV(ctx context.Context, collegeID int64) ([]byte, error) {
	data, err := s.dataset(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(*data)
}

// MasterListPDF renders the final snapshot as a landscape PDF table.
func (s *ExportService) MasterListPDF(ctx context.Context, collegeID int64) ([]byte, error) {
	data, err := s.dataset(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(*data, "Final Participants Master List")
}

func (s *ExportService) dataset(ctx context.Context, collegeID int64) (*export.Dataset, error) {
	locked, err := s.colleges.IsFinalApproved(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Final approval not submitted yet")
	}

	participants, err := s.final.ListByCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(participants))
	for i, p := range participants {
		role := ""
		if p.AccompanistType != nil {
			role = *p.AccompanistType
		}
		manager := "No"
		if p.IsTeamManager {
			manager = "Yes"
		}
		rows = append(rows, map[string]string{
			"Sl No":        fmt.Sprintf("%d", i+1),
			"Name":         p.FullName,
			"Type":         string(p.PersonType),
			"Phone":        p.Phone,
			"Email":        p.Email,
			"Role":         role,
			"Team Manager": manager,
		})
	}
	return &export.Dataset{Headers: masterListHeaders, Rows: rows}, nil
}
