package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/store"
)

func newVisitorService() (*VisitorService, *store.Memory) {
	st := store.NewMemory()
	return NewVisitorService(st), st
}

func signIn(t *testing.T, svc *VisitorService, name string) *models.Visitor {
	t.Helper()
	company := "Tech Solutions Inc"
	v, err := svc.SignIn(SignInRequest{
		Name:        name,
		Company:     &company,
		HostName:    "Sarah Johnson",
		VisitReason: models.VisitReasonMeeting,
	})
	require.NoError(t, err)
	return v
}

func TestVisitorService_SignIn(t *testing.T) {
	svc, st := newVisitorService()

	before := time.Now()
	v := signIn(t, svc, "John Smith")
	after := time.Now()

	assert.NotEmpty(t, v.ID)
	assert.False(t, v.IsSignedOut)
	assert.Nil(t, v.SignOutTime)
	assert.False(t, v.EmailSent)
	assert.False(t, v.SignInTime.Before(before))
	assert.False(t, v.SignInTime.After(after))

	// exactly one sign-in audit entry
	entries, err := st.ListAudit()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionVisitorSignIn, entries[0].Action)
	assert.Equal(t, models.EntityTypeVisitor, entries[0].EntityType)
	assert.Equal(t, v.ID, entries[0].EntityID)
	assert.Nil(t, entries[0].UserID)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	assert.Equal(t, "John Smith", details["name"])
	assert.Equal(t, "Sarah Johnson", details["hostName"])

	// ids are unique
	v2 := signIn(t, svc, "John Smith")
	assert.NotEqual(t, v.ID, v2.ID)
}

func TestVisitorService_SignOut(t *testing.T) {
	svc, st := newVisitorService()
	v := signIn(t, svc, "John Smith")

	out := time.Now().Add(time.Minute)
	updated, err := svc.SignOut(v.ID, out)
	require.NoError(t, err)
	assert.True(t, updated.IsSignedOut)
	require.NotNil(t, updated.SignOutTime)
	assert.True(t, updated.SignOutTime.Equal(out))

	_, err = svc.SignOut("no-such-id", out)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// re-sign-out overwrites the time rather than rejecting
	later := out.Add(time.Hour)
	again, err := svc.SignOut(v.ID, later)
	require.NoError(t, err)
	assert.True(t, again.SignOutTime.Equal(later))
	assert.True(t, again.IsSignedOut)

	entries, err := st.ListAudit()
	require.NoError(t, err)
	// 1 sign-in + 2 sign-outs
	assert.Len(t, entries, 3)
	assert.Equal(t, models.ActionVisitorSignOut, entries[0].Action)
}

func TestVisitorService_SignOutByName(t *testing.T) {
	svc, _ := newVisitorService()

	first := signIn(t, svc, "Jane Doe")
	signIn(t, svc, "Jane Doe")

	// resolves the earliest active sign-in, case-insensitively
	updated, err := svc.SignOutByName("JANE DOE", time.Now())
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	// the other Jane is untouched
	current, err := svc.Current()
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.False(t, current[0].IsSignedOut)

	// once no active visitor matches: not found
	_, err = svc.SignOutByName("Jane Doe", time.Now())
	require.NoError(t, err)
	_, err = svc.SignOutByName("Jane Doe", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVisitorService_SignOutByName_Deterministic(t *testing.T) {
	svc, _ := newVisitorService()

	first := signIn(t, svc, "Jane Doe")
	signIn(t, svc, "Jane Doe")

	// repeated lookups against the same state resolve to the same record
	for i := 0; i < 5; i++ {
		v, err := svc.Get(first.ID)
		require.NoError(t, err)
		assert.False(t, v.IsSignedOut)
	}
	updated, err := svc.SignOutByName("Jane Doe", time.Now())
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
}

func TestVisitorService_Update(t *testing.T) {
	svc, st := newVisitorService()
	v := signIn(t, svc, "John Smith")

	require.NoError(t, svc.MarkEmailSent(v.ID))

	updated, err := svc.Get(v.ID)
	require.NoError(t, err)
	assert.True(t, updated.EmailSent)
	// id and sign-in time untouched
	assert.Equal(t, v.ID, updated.ID)
	assert.True(t, v.SignInTime.Equal(updated.SignInTime))

	entries, err := st.ListAudit()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionVisitorUpdated, entries[0].Action)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	assert.Equal(t, true, details["emailSent"])

	_, err = svc.Update("no-such-id", VisitorUpdate{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestVisitorService_AllRedacted(t *testing.T) {
	svc, _ := newVisitorService()

	photo := "data:image/jpeg;base64,xyz"
	_, err := svc.SignIn(SignInRequest{
		Name:        "Emily Chen",
		HostName:    "Mike Williams",
		VisitReason: models.VisitReasonInterview,
		PhotoData:   &photo,
	})
	require.NoError(t, err)

	redacted, err := svc.AllRedacted()
	require.NoError(t, err)
	require.Len(t, redacted, 1)
	assert.Nil(t, redacted[0].PhotoData)

	// full listing still carries the photo
	all, err := svc.All()
	require.NoError(t, err)
	require.NotNil(t, all[0].PhotoData)
}

func TestVisitorService_TodayStats_Empty(t *testing.T) {
	svc, _ := newVisitorService()

	stats, err := svc.TodayStats(time.Now())
	require.NoError(t, err)
	assert.Equal(t, Stats{CurrentVisitors: 0, TodaySignins: 0, AvgDuration: "0.0h"}, stats)
}

func TestVisitorService_TodayStats(t *testing.T) {
	svc, _ := newVisitorService()
	now := time.Now()

	// completed visit: signed in 2h ago, out 1h ago => 1.0h average
	svc.now = func() time.Time { return now.Add(-2 * time.Hour) }
	done := signIn(t, svc, "Robert Brown")
	_, err := svc.SignOut(done.ID, now.Add(-time.Hour))
	require.NoError(t, err)

	// still on site
	svc.now = func() time.Time { return now.Add(-30 * time.Minute) }
	signIn(t, svc, "Emily Chen")

	stats, err := svc.TodayStats(now)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentVisitors)
	assert.Equal(t, "1.0h", stats.AvgDuration)
}

func TestVisitorService_TodayStats_MidnightBoundary(t *testing.T) {
	svc, _ := newVisitorService()
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)

	// yesterday, still active: counts as current but not as a today sign-in
	svc.now = func() time.Time { return now.Add(-24 * time.Hour) }
	signIn(t, svc, "Overnight Guest")

	// today
	svc.now = func() time.Time { return now.Add(-time.Hour) }
	signIn(t, svc, "Morning Guest")

	stats, err := svc.TodayStats(now)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentVisitors)
	assert.Equal(t, 1, stats.TodaySignins)
}

func TestVisitorService_CloseOutActive(t *testing.T) {
	svc, st := newVisitorService()

	signIn(t, svc, "John Smith")
	signIn(t, svc, "Emily Chen")

	n, err := svc.CloseOutActive(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Empty(t, current)

	entries, err := st.ListAudit()
	require.NoError(t, err)
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entries[0].Details, &details))
	assert.Equal(t, true, details["closeout"])

	// nothing left to close out
	n, err = svc.CloseOutActive(time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
