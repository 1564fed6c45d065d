package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/vbbs/blood-bank-api/internal/models"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
	"github.com/vbbs/blood-bank-api/pkg/export"
)

// ReportFormat selects the rendering backend for admin reports.
type ReportFormat string

const (
	FormatCSV ReportFormat = "csv"
	FormatPDF ReportFormat = "pdf"
)

type reportDonorLister interface {
	List(ctx context.Context) ([]models.Donor, error)
}

type reportInventoryLister interface {
	List(ctx context.Context) ([]models.BloodInventory, error)
}

// Report is a rendered document ready to be served.
type Report struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ReportService renders donor and inventory rosters for admins.
type ReportService struct {
	donors    reportDonorLister
	inventory reportInventoryLister
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(donors reportDonorLister, inventory reportInventoryLister, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		donors:    donors,
		inventory: inventory,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// DonorRoster renders the full donor directory.
func (s *ReportService) DonorRoster(ctx context.Context, format ReportFormat) (*Report, error) {
	donors, err := s.donors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load donors for report")
	}

	data := export.Dataset{
		Title:   "Donor Roster",
		Headers: []string{"Name", "Email", "Phone", "Blood Group", "City", "Available", "Last Donation"},
	}
	for _, d := range donors {
		lastDonation := ""
		if d.LastDonationDate != nil {
			lastDonation = d.LastDonationDate.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, []string{
			d.Name, d.Email, d.Phone, string(d.BloodGroup), d.City,
			strconv.FormatBool(d.Available), lastDonation,
		})
	}

	return s.render(data, "donors", format)
}

// InventoryReport renders the current stock ledger.
func (s *ReportService) InventoryReport(ctx context.Context, format ReportFormat) (*Report, error) {
	rows, err := s.inventory.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory for report")
	}

	data := export.Dataset{
		Title:   "Blood Inventory",
		Headers: []string{"Blood Group", "Units Available", "Last Updated"},
	}
	for _, inv := range rows {
		data.Rows = append(data.Rows, []string{
			string(inv.BloodGroup),
			strconv.Itoa(inv.UnitsAvailable),
			inv.LastUpdated.Format("2006-01-02 15:04"),
		})
	}

	return s.render(data, "inventory", format)
}

func (s *ReportService) render(data export.Dataset, name string, format ReportFormat) (*Report, error) {
	switch format {
	case FormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{ContentType: "text/csv", Filename: name + ".csv", Body: body}, nil
	case FormatPDF:
		body, err := s.pdf.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{ContentType: "application/pdf", Filename: name + ".pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
}
