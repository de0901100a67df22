package qr

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"visit-access/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewService(db)
}

func TestIssueDefaultsToCurrentDay(t *testing.T) {
	svc := newTestService(t)

	pass, errInfo := svc.Issue(7, time.Time{}, time.Time{}, "guard")
	require.Nil(t, errInfo)
	require.NotZero(t, pass.ID)
	assert.NotEmpty(t, pass.Token)
	assert.Equal(t, "current", pass.State)
	require.NotNil(t, pass.AccessID)
	assert.Equal(t, uint(7), *pass.AccessID)

	now := time.Now()
	assert.True(t, pass.IsCurrent(now))
	assert.Equal(t, now.Day(), pass.ValidFrom.Day())
	assert.True(t, pass.ValidUntil.After(pass.ValidFrom))
}

func TestIssueRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(t)

	from := time.Now()
	_, errInfo := svc.Issue(7, from, from.Add(-time.Hour), "guard")
	require.NotNil(t, errInfo)
	assert.Equal(t, "QR_INVALID", errInfo.Code)
}

func TestIssueWithoutAccess(t *testing.T) {
	svc := newTestService(t)

	pass, errInfo := svc.Issue(0, time.Time{}, time.Time{}, "guard")
	require.Nil(t, errInfo)
	assert.Nil(t, pass.AccessID)
}

func TestValidateAndBurn(t *testing.T) {
	svc := newTestService(t)

	issued, errInfo := svc.Issue(7, time.Time{}, time.Time{}, "guard")
	require.Nil(t, errInfo)

	// Check without burning.
	pass, errInfo := svc.Validate(issued.ID, false, "guard")
	require.Nil(t, errInfo)
	assert.Nil(t, pass.UsedAt)

	// Burn it.
	pass, errInfo = svc.Validate(issued.ID, true, "guard")
	require.Nil(t, errInfo)
	require.NotNil(t, pass.UsedAt)
	assert.Equal(t, "guard", pass.UpdatedBy)

	// A used pass is no longer valid.
	_, errInfo = svc.Validate(issued.ID, false, "guard")
	require.NotNil(t, errInfo)
	assert.Equal(t, "QR_INVALID", errInfo.Code)
}

func TestValidateExpiredPass(t *testing.T) {
	svc := newTestService(t)

	from := time.Now().Add(-2 * time.Hour)
	issued, errInfo := svc.Issue(7, from, from.Add(time.Hour), "guard")
	require.Nil(t, errInfo)

	_, errInfo = svc.Validate(issued.ID, false, "guard")
	require.NotNil(t, errInfo)
	assert.Equal(t, "QR_INVALID", errInfo.Code)
}

func TestValidateUnknownPass(t *testing.T) {
	svc := newTestService(t)

	_, errInfo := svc.Validate(404, false, "guard")
	require.NotNil(t, errInfo)
	assert.Equal(t, "QR_NOT_FOUND", errInfo.Code)
}

func TestImage(t *testing.T) {
	svc := newTestService(t)

	issued, errInfo := svc.Issue(7, time.Time{}, time.Time{}, "guard")
	require.Nil(t, errInfo)

	png, errInfo := svc.Image(issued.ID)
	require.Nil(t, errInfo)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	_, errInfo = svc.Image(404)
	require.NotNil(t, errInfo)
	assert.Equal(t, "QR_NOT_FOUND", errInfo.Code)
}
