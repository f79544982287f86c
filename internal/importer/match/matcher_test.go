package match

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/store/household"
	"leaguedesk/internal/roster/store/person"
)

const seasonID = "2026-spring"

func seed(t *testing.T, store *household.InMemoryStore, households ...*models.Household) {
	t.Helper()
	for _, h := range households {
		require.NoError(t, store.Create(context.Background(), h))
	}
}

func newHousehold(name, email, phone string) *models.Household {
	return &models.Household{
		ID:        uuid.New(),
		SeasonID:  seasonID,
		Guardian1: models.Guardian{Name: name, Email: email, Phone: phone},
		Address:   models.Address{Street: "12 Oak Ln", City: "Millbrook", Zip: "04401"},
	}
}

func TestEmailStrategyWinsOverPhone(t *testing.T) {
	households := household.NewInMemory()
	byEmail := newHousehold("Dana Reyes", "dana@example.com", "9998887777")
	byPhone := newHousehold("Pat Moss", "pat@example.com", "5551234567")
	seed(t, households, byEmail, byPhone)

	m := New(households, person.NewInMemory())
	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Emails: []string{"dana@example.com"},
		Phones: []string{"5551234567"},
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, byEmail.ID, got.ID)
}

func TestSecondGuardianEmailBeatsFirstGuardianPhone(t *testing.T) {
	households := household.NewInMemory()
	byEmail := newHousehold("Dana Reyes", "dana@example.com", "")
	byPhone := newHousehold("Pat Moss", "", "5551234567")
	seed(t, households, byEmail, byPhone)

	m := New(households, person.NewInMemory())
	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Emails: []string{"", "dana@example.com"},
		Phones: []string{"5551234567", ""},
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, byEmail.ID, got.ID, "every email on the row is tried before any phone")
}

func TestPhoneMatchRequiresExactDigits(t *testing.T) {
	households := household.NewInMemory()
	// Shares the last four digits with the probe but differs in full.
	seed(t, households, newHousehold("Pat Moss", "", "2025554567"))

	m := New(households, person.NewInMemory())
	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Phones: []string{"5551234567"},
	})

	require.NoError(t, err)
	assert.Nil(t, got, "a suffix collision alone is not a match")
}

func TestShortPhoneIsIgnored(t *testing.T) {
	households := household.NewInMemory()
	seed(t, households, newHousehold("Pat Moss", "", "4567"))

	m := New(households, person.NewInMemory())
	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Phones: []string{"4567"},
	})

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFuzzyTierNeedsNameAndAddress(t *testing.T) {
	households := household.NewInMemory()
	target := newHousehold("Dana Reyes", "", "")
	seed(t, households, target)

	m := New(households, person.NewInMemory())
	ctx := context.Background()

	got, err := m.FindHousehold(ctx, seasonID, Contact{Name: "Alex Reyes"})
	require.NoError(t, err)
	assert.Nil(t, got, "a name without an address stays below the fuzzy threshold")

	got, err = m.FindHousehold(ctx, seasonID, Contact{Name: "Alex Reyes", Address: "12 Oak Ln"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, target.ID, got.ID)
}

func TestCacheMatchesHouseholdsCreatedEarlierInBatch(t *testing.T) {
	households := household.NewInMemory()
	cache := NewCache()
	m := New(households, person.NewInMemory(), WithCache(cache))

	// Never persisted: only the batch cache knows it.
	fresh := newHousehold("Dana Reyes", "dana@example.com", "5551234567")
	cache.Put(fresh)

	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Emails: []string{"dana@example.com"},
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, fresh.ID, got.ID)
}

func TestPolicyOverrideDisablesTiers(t *testing.T) {
	households := household.NewInMemory()
	seed(t, households, newHousehold("Pat Moss", "", "5551234567"))

	m := New(households, person.NewInMemory(), WithPolicy(Policy{StrategyEmail}))
	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Phones: []string{"5551234567"},
	})

	require.NoError(t, err)
	assert.Nil(t, got, "an email-only policy must never consult the phone tier")
}

func TestAmbiguousMatchWarnsAndTakesFirstCandidate(t *testing.T) {
	households := household.NewInMemory()
	first := newHousehold("Dana Reyes", "shared@example.com", "")
	second := newHousehold("Pat Moss", "shared@example.com", "")
	seed(t, households, first, second)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := New(households, person.NewInMemory(), WithLogger(logger))
	got, err := m.FindHousehold(context.Background(), seasonID, Contact{
		Emails: []string{"shared@example.com"},
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID, "store order decides among equal candidates")
	assert.Contains(t, buf.String(), "ambiguous household match")
}

func TestFindPersonUniqueNameWins(t *testing.T) {
	persons := person.NewInMemory()
	p := &models.Person{ID: uuid.New(), SeasonID: seasonID, GivenName: "Alex", FamilyName: "Reyes"}
	require.NoError(t, persons.Create(context.Background(), p))

	m := New(household.NewInMemory(), persons)
	got, err := m.FindPerson(context.Background(), seasonID, PersonAttrs{
		GivenName: "Alex", FamilyName: "Reyes",
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
}

func TestFindPersonRegistrationIDBreaksNameTie(t *testing.T) {
	persons := person.NewInMemory()
	ctx := context.Background()
	first := &models.Person{ID: uuid.New(), SeasonID: seasonID, GivenName: "Alex", FamilyName: "Reyes", RegistrationID: "R-100"}
	second := &models.Person{ID: uuid.New(), SeasonID: seasonID, GivenName: "Alex", FamilyName: "Reyes", RegistrationID: "R-200"}
	require.NoError(t, persons.Create(ctx, first))
	require.NoError(t, persons.Create(ctx, second))

	m := New(household.NewInMemory(), persons)
	got, err := m.FindPerson(ctx, seasonID, PersonAttrs{
		GivenName: "Alex", FamilyName: "Reyes", RegistrationID: "R-200",
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)
}

func TestFindPersonBirthDateBreaksNameTie(t *testing.T) {
	persons := person.NewInMemory()
	ctx := context.Background()
	older := &models.Person{ID: uuid.New(), SeasonID: seasonID, GivenName: "Alex", FamilyName: "Reyes", BirthDate: "2012-03-01"}
	younger := &models.Person{ID: uuid.New(), SeasonID: seasonID, GivenName: "Alex", FamilyName: "Reyes", BirthDate: "2015-07-22"}
	require.NoError(t, persons.Create(ctx, older))
	require.NoError(t, persons.Create(ctx, younger))

	m := New(household.NewInMemory(), persons)
	got, err := m.FindPerson(ctx, seasonID, PersonAttrs{
		GivenName: "Alex", FamilyName: "Reyes", BirthDate: "2015-07-22",
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, younger.ID, got.ID)
}

func TestFindPersonNoMatch(t *testing.T) {
	m := New(household.NewInMemory(), person.NewInMemory())
	got, err := m.FindPerson(context.Background(), seasonID, PersonAttrs{
		GivenName: "Alex", FamilyName: "Reyes",
	})

	require.NoError(t, err)
	assert.Nil(t, got)
}
