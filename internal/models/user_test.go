package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_CanAccess(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		ownerID int64
		want    bool
	}{
		{name: "self", user: User{ID: 7, Role: RoleUser}, ownerID: 7, want: true},
		{name: "other user", user: User{ID: 7, Role: RoleUser}, ownerID: 9, want: false},
		{name: "admin on other", user: User{ID: 1, Role: RoleAdmin}, ownerID: 9, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.CanAccess(tt.ownerID))
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestMeeting_Overlaps(t *testing.T) {
	base := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	m := Meeting{StartAt: base, EndAt: base.Add(time.Hour)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{name: "same interval", start: base, end: base.Add(time.Hour), want: true},
		{name: "inside", start: base.Add(10 * time.Minute), end: base.Add(20 * time.Minute), want: true},
		{name: "starts before ends inside", start: base.Add(-time.Hour), end: base.Add(time.Minute), want: true},
		{name: "touches end", start: base.Add(time.Hour), end: base.Add(2 * time.Hour), want: false},
		{name: "touches start", start: base.Add(-time.Hour), end: base, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Overlaps(tt.start, tt.end))
		})
	}
}
