package exemption

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguedesk/internal/roster/models"
)

type fakeDirectory struct {
	boardEmails map[string]bool
	err         error
}

func (d *fakeDirectory) IsBoardMember(_ context.Context, email, _ string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	return d.boardEmails[email], nil
}

func TestBoardAndCoachRolesAreExempt(t *testing.T) {
	ctx := context.Background()

	status, err := Determine(ctx, nil, models.RoleBoard, "", "")
	require.NoError(t, err)
	assert.True(t, status.Exempt)

	status, err = Determine(ctx, nil, models.RoleCoach, "", "")
	require.NoError(t, err)
	assert.True(t, status.Exempt)
}

func TestVolunteerIsNotExemptByDefault(t *testing.T) {
	status, err := Determine(context.Background(), nil, models.RoleVolunteer, "dana@example.com", "Dana Reyes")
	require.NoError(t, err)
	assert.False(t, status.Exempt)
}

func TestDirectoryBoardMembershipExempts(t *testing.T) {
	directory := &fakeDirectory{boardEmails: map[string]bool{"dana@example.com": true}}

	status, err := Determine(context.Background(), directory, models.RoleVolunteer, "dana@example.com", "Dana Reyes")
	require.NoError(t, err)
	assert.True(t, status.Exempt)
	assert.Equal(t, "board membership", status.Reason)
}

func TestDirectoryFailureDefaultsToNotExempt(t *testing.T) {
	directory := &fakeDirectory{err: errors.New("directory down")}

	status, err := Determine(context.Background(), directory, models.RoleVolunteer, "dana@example.com", "Dana Reyes")
	require.Error(t, err)
	assert.False(t, status.Exempt, "the safe default when the directory fails is not exempt")
}
