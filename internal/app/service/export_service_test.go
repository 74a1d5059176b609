package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memoryStorage struct {
	objects     map[string][]byte
	contentType map[string]string
	putErr      error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
	}
}

func (m *memoryStorage) PutObject(_ context.Context, key, contentType string, body []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = body
	m.contentType[key] = contentType
	return nil
}

func (m *memoryStorage) PresignGetURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	return "https://downloads.example.com/" + key + "?expires=" + expiry.String(), nil
}

func sizeColorSnapshot() variant.Snapshot {
	e := variant.NewEditor(variant.Config{})
	e.ReplaceOptions([]model.OptionDraft{
		{Name: "Size", Values: []string{"S", "M"}},
		{Name: "Color", Values: []string{"Red", "Blue"}},
	})
	e.UpdateVariantField(2, model.VariantFieldPrice, "12.5")
	e.UpdateVariantField(2, model.VariantFieldInventory, "3")
	e.UpdateVariantField(4, model.VariantFieldInventory, "5")
	return e.Snapshot()
}

func readSheet(t *testing.T, data []byte) [][]string {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, VariantSheetName, f.GetSheetName(0))
	rows, err := f.GetRows(VariantSheetName)
	require.NoError(t, err)
	return rows
}

func TestExportService_WriteXLSX(t *testing.T) {
	svc := NewExportService(time.Minute)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteXLSX(sizeColorSnapshot(), &buf))

	rows := readSheet(t, buf.Bytes())
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Size", "Color", "Price", "Inventory"}, rows[0])
	assert.Equal(t, []string{"S", "Red", "0", "0"}, rows[1])
	assert.Equal(t, []string{"S", "Blue", "12.5", "3"}, rows[2])
	assert.Equal(t, []string{"M", "Blue", "0", "5"}, rows[4])
	assert.Equal(t, "Total inventory", rows[5][0])
	assert.Equal(t, "8", rows[5][3])
}

func TestExportService_WriteXLSX_Empty(t *testing.T) {
	svc := NewExportService(time.Minute)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteXLSX(variant.NewEditor(variant.Config{}).Snapshot(), &buf))

	rows := readSheet(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Price", "Inventory"}, rows[0])
	assert.Equal(t, []string{"Total inventory", "0"}, rows[1])
}

func TestExportService_UploadXLSX(t *testing.T) {
	store := newMemoryStorage()
	svc := NewExportService(10*time.Minute, store)

	result, err := svc.UploadXLSX(context.Background(), "session-1", sizeColorSnapshot())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "exports/session-1/"))
	assert.Contains(t, result.DownloadURL, result.Key)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), result.ExpiresAt, time.Minute)

	require.Contains(t, store.objects, result.Key)
	assert.Equal(t, XLSXContentType, store.contentType[result.Key])
	assert.Len(t, readSheet(t, store.objects[result.Key]), 6)
}

func TestExportService_UploadXLSX_Errors(t *testing.T) {
	t.Run("Storage disabled", func(t *testing.T) {
		svc := NewExportService(time.Minute)
		_, err := svc.UploadXLSX(context.Background(), "s", sizeColorSnapshot())
		assert.ErrorIs(t, err, ErrExportStorageDisabled)
	})

	t.Run("Put fails", func(t *testing.T) {
		store := newMemoryStorage()
		store.putErr = errors.New("access denied")
		svc := NewExportService(time.Minute, store)

		_, err := svc.UploadXLSX(context.Background(), "s", sizeColorSnapshot())
		assert.ErrorIs(t, err, store.putErr)
		assert.Empty(t, store.objects)
	})
}
