package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"indentflow/internal/csvexport"
	"indentflow/internal/domain"
	"indentflow/internal/port"
	"indentflow/internal/xlsx"
)

// ExportFormat selects the encoding of an export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFile is a rendered export ready to be streamed as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders stage views as downloadable sheets.
type ExportService interface {
	// ExportIndents exports one stage view, or every indent when filter.Stage is empty.
	ExportIndents(ctx context.Context, actor domain.Actor, filter domain.StageFilter, format ExportFormat) (*ExportFile, error)
	ExportLifts(ctx context.Context, actor domain.Actor, filter domain.StageFilter, format ExportFormat) (*ExportFile, error)
}

type exportService struct {
	indentRepo port.IndentRepository
	liftRepo   port.LiftRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService creates a new ExportService implementation.
func NewExportService(indentRepo port.IndentRepository, liftRepo port.LiftRepository, logger *zap.Logger) ExportService {
	return &exportService{
		indentRepo: indentRepo,
		liftRepo:   liftRepo,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func validFormat(f ExportFormat) bool {
	return f == ExportCSV || f == ExportXLSX
}

func (s *exportService) ExportIndents(ctx context.Context, actor domain.Actor, filter domain.StageFilter, format ExportFormat) (*ExportFile, error) {
	if !validFormat(format) {
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, format)
	}
	if filter.Stage != "" && (!filter.Stage.IsIndentStage() || !validView(filter.View)) {
		return nil, domain.ErrInvalidStage
	}
	filter.Scope = actor.Scope

	var indents []domain.Indent
	for offset := 0; ; offset += scanPageSize {
		var (
			page  []domain.Indent
			total int
			err   error
		)
		if filter.Stage == "" {
			page, total, err = s.indentRepo.ListAll(ctx, actor.TenantID, actor.Scope, offset, scanPageSize)
		} else {
			filter.Offset, filter.Limit = offset, scanPageSize
			page, total, err = s.indentRepo.ListByStage(ctx, actor.TenantID, filter)
		}
		if err != nil {
			return nil, err
		}
		indents = append(indents, page...)
		if len(page) == 0 || len(indents) >= total {
			break
		}
	}

	base := exportBase("indents", filter)
	s.logger.Info("exporting indents",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("file", base),
		zap.Int("rows", len(indents)),
	)

	switch format {
	case ExportXLSX:
		data, err := xlsx.ExportIndents("Indents", indents)
		if err != nil {
			return nil, err
		}
		return s.file(base, format, data), nil
	default:
		var buf bytes.Buffer
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err := w.WriteIndents(indents); err != nil {
			return nil, fmt.Errorf("writing indent csv: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("flushing indent csv: %w", err)
		}
		return s.file(base, format, buf.Bytes()), nil
	}
}

func (s *exportService) ExportLifts(ctx context.Context, actor domain.Actor, filter domain.StageFilter, format ExportFormat) (*ExportFile, error) {
	if !validFormat(format) {
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, format)
	}
	if !filter.Stage.IsLiftStage() || !validView(filter.View) {
		return nil, domain.ErrInvalidStage
	}
	filter.Scope = actor.Scope

	var lifts []domain.Lift
	for offset := 0; ; offset += scanPageSize {
		filter.Offset, filter.Limit = offset, scanPageSize
		page, total, err := s.liftRepo.ListByStage(ctx, actor.TenantID, filter)
		if err != nil {
			return nil, err
		}
		lifts = append(lifts, page...)
		if len(page) == 0 || len(lifts) >= total {
			break
		}
	}

	base := exportBase("lifts", filter)
	s.logger.Info("exporting lifts",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("file", base),
		zap.Int("rows", len(lifts)),
	)

	switch format {
	case ExportXLSX:
		data, err := xlsx.ExportLifts("Lifts", lifts)
		if err != nil {
			return nil, err
		}
		return s.file(base, format, data), nil
	default:
		var buf bytes.Buffer
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf)
		if err := w.WriteLifts(lifts); err != nil {
			return nil, fmt.Errorf("writing lift csv: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("flushing lift csv: %w", err)
		}
		return s.file(base, format, buf.Bytes()), nil
	}
}

func (s *exportService) file(base string, format ExportFormat, data []byte) *ExportFile {
	contentType := "text/csv; charset=utf-8"
	if format == ExportXLSX {
		contentType = xlsxContentType
	}
	return &ExportFile{
		Filename:    csvexport.BuildFilename(base, string(format), s.now()),
		ContentType: contentType,
		Data:        data,
	}
}

func exportBase(kind string, filter domain.StageFilter) string {
	if filter.Stage == "" {
		return kind
	}
	return fmt.Sprintf("%s_%s_%s", kind, filter.Stage, filter.View)
}

func validView(v domain.View) bool {
	return v == domain.ViewPending || v == domain.ViewHistory
}
