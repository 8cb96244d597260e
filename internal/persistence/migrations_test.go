package persistence

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesOrderedAndIdempotent(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name)
	}
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, []string{
		"0001_create_users.sql",
		"0002_create_categories.sql",
		"0003_create_complaints.sql",
		"0004_create_comments.sql",
		"0005_create_activities.sql",
	}, names)

	// Every boot re-applies the full set, so each file must tolerate reruns.
	for _, file := range files {
		assert.Contains(t, file.SQL, "IF NOT EXISTS", file.Name)
	}
}
