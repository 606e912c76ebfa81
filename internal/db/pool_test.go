package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/fittrack?sslmode=disable",
		ConnString(NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "fittrack"}),
	)
	assert.Equal(t,
		"postgres://fittrack:s%40cret@db:6543/fittrack?sslmode=disable",
		ConnString(NewDBPoolParams{DBHost: "db", DBPort: "6543", DBName: "fittrack", DBUser: "fittrack", DBPassword: "s@cret"}),
	)
}
