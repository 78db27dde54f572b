package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jahandaniyal/notes-api/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&types.User{}, &types.Note{}, &types.Tag{}))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, name string) types.User {
	t.Helper()

	user := types.User{Name: name, Role: types.RoleUser}
	require.NoError(t, user.SetPassword("js.sj"))
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tagList(titles ...string) *[]TagPayload {
	list := make([]TagPayload, len(titles))
	for i, title := range titles {
		list[i] = TagPayload{Title: title}
	}
	return &list
}

func boolPtr(b bool) *bool {
	return &b
}

func tagTitles(tags []types.Tag) []string {
	titles := []string{}
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}
	return titles
}

func noteTitles(notes []types.Note) []string {
	titles := []string{}
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	return titles
}
