package mysql

import (
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	normalized, err := NormalizeDSN("app:secret@tcp(db:3306)/invoicing?loc=Local")
	require.NoError(t, err)

	parsed, err := mysqldriver.ParseDSN(normalized)
	require.NoError(t, err)
	require.True(t, parsed.ParseTime)
	require.Equal(t, time.UTC, parsed.Loc)
	require.Equal(t, "invoicing", parsed.DBName)
	require.Equal(t, "db:3306", parsed.Addr)
}

func TestNormalizeDSN_Rejects(t *testing.T) {
	_, err := NormalizeDSN("  ")
	require.Error(t, err)

	_, err = NormalizeDSN("app:secret@tcp(db:3306)")
	require.Error(t, err)
}
