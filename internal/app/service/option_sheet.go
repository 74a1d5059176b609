package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidOptionSheet = errors.New("invalid option sheet")
)

// ReadOptionSheet reads option drafts from the first sheet of an XLSX
// workbook. The first row is a header; every following row is
// [option name, value]. Rows are grouped by option name in first-seen order.
// Rows with a blank name or value are skipped.
func ReadOptionSheet(r io.Reader) ([]model.OptionDraft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptionSheet, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets found", ErrInvalidOptionSheet)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %v", ErrInvalidOptionSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: no data rows", ErrInvalidOptionSheet)
	}

	var drafts []model.OptionDraft
	index := make(map[string]int)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])
		if name == "" || value == "" {
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(drafts)
			index[name] = i
			drafts = append(drafts, model.OptionDraft{Name: name})
		}
		drafts[i].Values = append(drafts[i].Values, value)
	}

	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no options found", ErrInvalidOptionSheet)
	}
	return drafts, nil
}
