package database

import (
	"testing"

	"agrowaste-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAutoMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	m := db.Migrator()
	assert.True(t, m.HasTable(&domain.Producer{}))
	assert.True(t, m.HasTable(&domain.Listing{}))
	assert.True(t, m.HasIndex(&domain.Listing{}, "idx_location_point"))
	assert.True(t, m.HasColumn(&domain.Listing{}, "waste_type"))
}
