package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		database string
		want     string
	}{
		{"no database name", "postgres://u:p@host:5432", "", "postgres://u:p@host:5432"},
		{"plain", "postgres://u:p@host:5432", "luckydraw", "postgres://u:p@host:5432/luckydraw?sslmode=disable"},
		{"trailing slash", "postgres://u:p@host:5432/", "luckydraw", "postgres://u:p@host:5432/luckydraw?sslmode=disable"},
		{"keeps query", "postgres://u:p@host:5432?connect_timeout=5", "luckydraw", "postgres://u:p@host:5432/luckydraw?connect_timeout=5&sslmode=disable"},
		{"keeps sslmode", "postgres://u:p@host:5432/?sslmode=require", "luckydraw", "postgres://u:p@host:5432/luckydraw?sslmode=require"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstructDatabaseURL(tt.baseURL, tt.database))
		})
	}
}
