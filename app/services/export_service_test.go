package services_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalogapi/app/dto"
	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/storage"
)

func TestExportWritesSnapshot(t *testing.T) {
	e := newEnv(t)
	seedCatalog(t, e)

	disk, err := storage.NewLocal(t.TempDir(), "http://files.test")
	require.NoError(t, err)
	svc := services.NewExportService(e.db, disk)

	res, err := svc.Export(bg)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Categories)
	assert.Equal(t, 6, res.Products)
	assert.True(t, strings.HasPrefix(res.Path, "exports/catalog-"), res.Path)
	assert.Equal(t, "http://files.test/"+res.Path, res.URL)

	data, err := disk.Get(bg, res.Path)
	require.NoError(t, err)

	var snap dto.CatalogSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.False(t, snap.ExportedAt.IsZero())
	assert.Len(t, snap.Categories, 3)
	require.Len(t, snap.Products, 6)
	assert.Equal(t, "Phone", snap.Products[0].Name)
	assert.Contains(t, string(data), `"price": 500`)

	second, err := svc.Export(bg)
	require.NoError(t, err)
	assert.NotEqual(t, res.Path, second.Path)

	files, err := svc.Exports(bg)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
