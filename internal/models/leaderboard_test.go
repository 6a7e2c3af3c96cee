package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName_FullNameWins(t *testing.T) {
	row := &RemoteLeaderRow{FullName: "Alex Reader", FirstName: "Other", LastName: "Name"}
	assert.Equal(t, "Alex Reader", row.DisplayName())
}

func TestDisplayName_FirstLastFallback(t *testing.T) {
	row := &RemoteLeaderRow{FirstName: "Alex", LastName: "Reader"}
	assert.Equal(t, "Alex Reader", row.DisplayName())
}

func TestDisplayName_FirstOnly(t *testing.T) {
	row := &RemoteLeaderRow{FirstName: "Alex"}
	assert.Equal(t, "Alex", row.DisplayName())
}

func TestDisplayName_EmailFallback(t *testing.T) {
	row := &RemoteLeaderRow{Email: "reader@example.com"}
	assert.Equal(t, "reader@example.com", row.DisplayName())
}

func TestRemoteLeaderRow_SnakeCaseDecoding(t *testing.T) {
	payload := `{"full_name":"Alex Reader","email":"a@b.c","group":"10B","pages_read":55,"books_read":3,"total_time_seconds":1200}`

	var row RemoteLeaderRow
	require.NoError(t, json.Unmarshal([]byte(payload), &row))

	assert.Equal(t, "Alex Reader", row.FullName)
	assert.Equal(t, 55, row.PagesRead)
	assert.Equal(t, 3, row.BooksRead)
	assert.Equal(t, int64(1200), row.TotalTimeSeconds)
}
