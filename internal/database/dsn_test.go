package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		Driver:   "mysql",
		User:     "wardrobe",
		Password: "secret",
		Name:     "wardrobify",
		Host:     "db.internal",
		Port:     3307,
	})
	require.NoError(t, err)
	require.Equal(t, "wardrobe:secret@tcp(db.internal:3307)/wardrobify?charset=utf8mb4&loc=Local&parseTime=True", dsn)
}

func TestBuildMySQLDSNRequiresUserAndName(t *testing.T) {
	_, err := buildMySQLDSN(Config{Driver: "mysql"})
	require.Error(t, err)
}

func TestBuildPostgresDSNDefaults(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		Driver: "postgres",
		User:   "wardrobe",
		Name:   "wardrobify",
	})
	require.NoError(t, err)
	require.Equal(t, "host=localhost port=5432 user=wardrobe dbname=wardrobify sslmode=disable", dsn)
}

func TestBuildDSNPrefersExplicitDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://explicit"})
	require.NoError(t, err)
	require.Equal(t, "postgres://explicit", dsn)
}
