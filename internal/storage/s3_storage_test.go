package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportKey(t *testing.T) {
	first := ExportKey("session-1", ".xlsx")
	second := ExportKey("session-1", ".xlsx")

	assert.True(t, strings.HasPrefix(first, "exports/session-1/"))
	assert.True(t, strings.HasSuffix(first, ".xlsx"))
	assert.NotEqual(t, first, second)
}

func TestS3Storage_PresignGetURL(t *testing.T) {
	s := NewS3Storage("ap-northeast-2", "variant-exports", "test-key", "test-secret")

	url, err := s.PresignGetURL(context.Background(), "exports/s/file.xlsx", 10*time.Minute)
	require.NoError(t, err)

	assert.Contains(t, url, "variant-exports")
	assert.Contains(t, url, "exports/s/file.xlsx")
	assert.Contains(t, url, "X-Amz-Expires=600")
}
