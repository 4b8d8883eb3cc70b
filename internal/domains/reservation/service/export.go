package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"sizopi/internal/domains/reservation/model"
	"sizopi/internal/domains/reservation/model/dto"
	"sizopi/shared/constant"
	gDto "sizopi/shared/dto"
	"sizopi/shared/failure"
	"sizopi/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var exportHeader = []string{
	model.FieldUsername,
	model.FieldFacility,
	model.FieldVisitDate,
	model.FieldTickets,
	model.FieldStatus,
	constant.FieldCreatedAt,
	constant.FieldModifiedAt,
}

// Export writes every reservation matching filter to a CSV object and returns
// where it can be downloaded.
func (s *serviceImpl) Export(ctx context.Context, filter gDto.FilterGroup) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: model.FieldVisitDate, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations for export")

		return res, failure.FromDatabase(err, "failed to export reservations")
	}

	data, err := renderCSV(models)
	if err != nil {
		log.Error().Err(err).Msg("failed to render reservations csv")

		return res, failure.InternalError(err)
	}

	fileName := fmt.Sprintf("reservasi-%s-%s.csv", timezone.Now().Format("20060102-150405"), uuid.NewString())

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, s.cfg.App.Export.Directory, fileName, constant.ContentTypeCSV, data)
	if err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("failed to upload reservations export")

		return res, failure.InternalError(err)
	}

	scope.SetAttribute("export.rows", len(models))

	return dto.ExportResponse{URL: url, Total: len(models)}, nil
}

func renderCSV(models []model.Reservation) ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, mod := range models {
		record := []string{
			mod.Username,
			mod.Facility,
			timezone.FormatDate(mod.VisitDate),
			strconv.Itoa(mod.Tickets),
			mod.Status,
			timezone.Format(mod.CreatedAt, constant.DateFormat),
			timezone.Format(mod.ModifiedAt, constant.DateFormat),
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
