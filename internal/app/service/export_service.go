package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/ikkim/variant-editor/internal/storage"
	"github.com/ikkim/variant-editor/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	VariantSheetName = "Variants"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	ErrExportStorageDisabled = errors.New("export storage is not configured")
)

// ExportResult describes an uploaded export.
type ExportResult struct {
	Key         string    `json:"key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ExportService interface {
	WriteXLSX(snap variant.Snapshot, w io.Writer) error
	UploadXLSX(ctx context.Context, sessionID string, snap variant.Snapshot) (*ExportResult, error)
}

type exportService struct {
	storage   storage.ObjectStorage
	urlExpiry time.Duration
}

// NewExportService takes an optional object storage; without one only
// WriteXLSX is available.
func NewExportService(urlExpiry time.Duration, objectStorage ...storage.ObjectStorage) ExportService {
	var store storage.ObjectStorage
	if len(objectStorage) > 0 {
		store = objectStorage[0]
	}
	return &exportService{
		storage:   store,
		urlExpiry: urlExpiry,
	}
}

func (s *exportService) WriteXLSX(snap variant.Snapshot, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), VariantSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(snap.Options)+2)
	for _, option := range snap.Options {
		header = append(header, option.Name)
	}
	header = append(header, "Price", "Inventory")
	if err := writeRow(f, 1, header); err != nil {
		return err
	}

	for i, v := range snap.Variants {
		row := make([]interface{}, 0, len(v.Combination)+2)
		for _, value := range v.Combination {
			row = append(row, value)
		}
		row = append(row, v.Price, v.Inventory)
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	footer := make([]interface{}, len(header))
	footer[0] = "Total inventory"
	footer[len(footer)-1] = snap.TotalInventory
	if err := writeRow(f, len(snap.Variants)+2, footer); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *exportService) UploadXLSX(ctx context.Context, sessionID string, snap variant.Snapshot) (*ExportResult, error) {
	if s.storage == nil {
		return nil, ErrExportStorageDisabled
	}

	var buf bytes.Buffer
	if err := s.WriteXLSX(snap, &buf); err != nil {
		logger.Error("Failed to render export", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	key := storage.ExportKey(sessionID, ".xlsx")
	if err := s.storage.PutObject(ctx, key, XLSXContentType, buf.Bytes()); err != nil {
		logger.Error("Failed to upload export", err, map[string]interface{}{
			"session_id": sessionID,
			"key":        key,
		})
		return nil, err
	}

	url, err := s.storage.PresignGetURL(ctx, key, s.urlExpiry)
	if err != nil {
		logger.Error("Failed to presign export URL", err, map[string]interface{}{
			"session_id": sessionID,
			"key":        key,
		})
		return nil, err
	}

	logger.Info("Export uploaded", map[string]interface{}{
		"session_id": sessionID,
		"key":        key,
		"variants":   len(snap.Variants),
		"bytes":      buf.Len(),
	})
	return &ExportResult{
		Key:         key,
		DownloadURL: url,
		ExpiresAt:   time.Now().Add(s.urlExpiry),
	}, nil
}

func writeRow(f *excelize.File, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(VariantSheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
