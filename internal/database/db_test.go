package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/users-service/internal/config"
)

func TestDSN(t *testing.T) {
	got := dsn(config.Config{
		DBUser: "svc",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "users",
	})
	assert.Equal(t,
		"svc:s3cret@tcp(db.internal:3306)/users?charset=utf8mb4&parseTime=true&loc=UTC",
		got)
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn(config.Config{
		DBUser: "svc",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "users",
	})
	assert.Equal(t,
		"svc@tcp(localhost:3306)/users?charset=utf8mb4&parseTime=true&loc=UTC",
		got)
}
