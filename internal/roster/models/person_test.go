package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"Player", RolePlayer},
		{"U10 player", RolePlayer},
		{"Volunteer", RoleVolunteer},
		{"Team Volunteer", RoleVolunteer},
		{"Head Coach", RoleCoach},
		{"assistant coach", RoleCoach},
		{"Referee", RoleReferee},
		{"REF", RoleReferee},
		{"Board of Directors", RoleBoard},
		{"League Director", RoleBoard},
		{"", RoleUnknown},
		{"snack shack", RoleUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.raw), "raw %q", tt.raw)
	}
}

func TestNewHouseholdCode(t *testing.T) {
	id := uuid.MustParse("7f3a2c1d-0000-4000-8000-000000000000")
	assert.Equal(t, "HH-7F3A2C", NewHouseholdCode(id))
}

func TestGuardianContactHelpers(t *testing.T) {
	h := &Household{
		Guardian1: Guardian{Email: "dana@example.com", Phone: "5551234567"},
		Guardian2: Guardian{Name: "Sam Reyes"},
	}
	assert.Equal(t, []string{"dana@example.com"}, h.GuardianEmails())
	assert.Equal(t, []string{"5551234567"}, h.GuardianPhones())
	assert.False(t, h.Guardian2.Empty())
	assert.True(t, Guardian{}.Empty())
}
