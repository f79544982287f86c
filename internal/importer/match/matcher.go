// Package match resolves import contacts against the household store using
// an ordered set of strategies. Strategy order is an explicit policy: the
// first strategy to yield at least one candidate wins and no later strategy
// is consulted, so email evidence always beats phone evidence and both beat
// the fuzzy fallback.
package match

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
)

// MinPhoneDigits is the minimum normalized length for a phone to be usable
// as a matching key. Shorter values (extensions, partial numbers) are
// ignored rather than matched loosely.
const MinPhoneDigits = 7

// phoneSuffixLen is the pre-filter width: stores index the last digits,
// the matcher confirms with full digits-only equality. The pre-filter is a
// performance optimization, not a relaxation of the match criterion.
const phoneSuffixLen = 4

// Strategy names the household matching tiers.
type Strategy string

const (
	StrategyEmail Strategy = "email"
	StrategyPhone Strategy = "phone"
	StrategyFuzzy Strategy = "fuzzy"
)

// DefaultPolicy is the documented precedence: email, then phone, then the
// low-confidence fuzzy fallback. All import paths share it.
var DefaultPolicy = Policy{StrategyEmail, StrategyPhone, StrategyFuzzy}

// Policy is the ordered list of strategies a matcher applies.
type Policy []Strategy

// Contact carries the normalized matching keys for one import row. Rows
// can carry up to two guardian contacts; emails and phones are tried in
// order within their strategy, so every email on the row is exhausted
// before any phone is consulted.
type Contact struct {
	Emails  []string
	Phones  []string
	Name    string
	Address string
}

// PersonAttrs carries the normalized identity fields for person-level
// re-import matching.
type PersonAttrs struct {
	GivenName      string
	FamilyName     string
	BirthDate      string
	RegistrationID string
}

// Candidate is one ranked household match.
type Candidate struct {
	Household *models.Household
	Strategy  Strategy
}

// Matcher performs read-only candidate searches. A per-batch Cache, when
// set, is consulted before the store so rows can match households created
// earlier in the same batch.
type Matcher struct {
	households ports.HouseholdStore
	persons    ports.PersonStore
	policy     Policy
	cache      *Cache
	logger     *slog.Logger
}

type Option func(*Matcher)

func WithPolicy(policy Policy) Option {
	return func(m *Matcher) {
		if len(policy) > 0 {
			m.policy = policy
		}
	}
}

func WithCache(cache *Cache) Option {
	return func(m *Matcher) {
		m.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

func New(households ports.HouseholdStore, persons ports.PersonStore, opts ...Option) *Matcher {
	m := &Matcher{
		households: households,
		persons:    persons,
		policy:     DefaultPolicy,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindHousehold returns the best household match for a contact, or nil when
// no strategy yields a candidate. At most one household is returned per
// call; ambiguity (two or more candidates from the winning strategy) is
// logged and resolved by taking the first candidate in store order.
func (m *Matcher) FindHousehold(ctx context.Context, seasonID string, contact Contact) (*models.Household, error) {
	candidates, err := m.HouseholdCandidates(ctx, seasonID, contact)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > 1 && m.logger != nil {
		m.logger.WarnContext(ctx, "ambiguous household match, taking first candidate",
			"strategy", candidates[0].Strategy,
			"candidates", len(candidates),
			"household_id", candidates[0].Household.ID,
		)
	}
	return candidates[0].Household, nil
}

// HouseholdCandidates returns the deduplicated ranked candidate list from
// the first strategy that yields anything.
func (m *Matcher) HouseholdCandidates(ctx context.Context, seasonID string, contact Contact) ([]Candidate, error) {
	for _, strategy := range m.policy {
		var (
			found []*models.Household
			err   error
		)
		switch strategy {
		case StrategyEmail:
			found, err = m.byEmails(ctx, seasonID, contact.Emails)
		case StrategyPhone:
			found, err = m.byPhones(ctx, seasonID, contact.Phones)
		case StrategyFuzzy:
			found, err = m.byFuzzy(ctx, seasonID, contact)
		}
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return dedupe(found, strategy), nil
		}
	}
	return nil, nil
}

func (m *Matcher) byEmails(ctx context.Context, seasonID string, emails []string) ([]*models.Household, error) {
	for _, email := range emails {
		if email == "" {
			continue
		}
		if m.cache != nil {
			if h, ok := m.cache.Lookup(emailKey(email)); ok {
				return []*models.Household{h}, nil
			}
		}
		found, err := m.households.FindByGuardianEmail(ctx, seasonID, email)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return nil, nil
}

func (m *Matcher) byPhones(ctx context.Context, seasonID string, phones []string) ([]*models.Household, error) {
	for _, phone := range phones {
		if len(phone) < MinPhoneDigits {
			continue
		}
		if m.cache != nil {
			if h, ok := m.cache.Lookup(phoneKey(phone)); ok {
				return []*models.Household{h}, nil
			}
		}
		prefiltered, err := m.households.FindByPhoneSuffix(ctx, seasonID, phone[len(phone)-phoneSuffixLen:])
		if err != nil {
			return nil, err
		}
		// Confirm with exact digits-only equality; the suffix is only a
		// pre-filter.
		var confirmed []*models.Household
		for _, h := range prefiltered {
			for _, candidate := range h.GuardianPhones() {
				if candidate == phone {
					confirmed = append(confirmed, h)
					break
				}
			}
		}
		if len(confirmed) > 0 {
			return confirmed, nil
		}
	}
	return nil, nil
}

// byFuzzy is the lowest-confidence tier: guardian-name fuzzy match combined
// with address substring containment. Both signals are required. Ties fall
// to store iteration order; rare enough to be an accepted nondeterminism.
func (m *Matcher) byFuzzy(ctx context.Context, seasonID string, contact Contact) ([]*models.Household, error) {
	if contact.Name == "" || contact.Address == "" {
		return nil, nil
	}
	all, err := m.households.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	familyName := lastWord(contact.Name)
	var found []*models.Household
	for _, h := range all {
		if !addressContains(h.Address, contact.Address) {
			continue
		}
		for _, guardian := range []string{h.Guardian1.Name, h.Guardian2.Name} {
			if guardian != "" && fuzzy.MatchNormalizedFold(familyName, guardian) {
				found = append(found, h)
				break
			}
		}
	}
	return found, nil
}

// FindPerson attempts person-level re-import matching within a season:
// exact case-insensitive name, then external registration identifier, then
// name plus birth date to disambiguate namesakes. A unique name match wins
// outright; multiple name matches fall through to the finer tiers and, if
// those cannot separate them, the first name candidate wins.
func (m *Matcher) FindPerson(ctx context.Context, seasonID string, attrs PersonAttrs) (*models.Person, error) {
	var byName []*models.Person
	if attrs.GivenName != "" && attrs.FamilyName != "" {
		var err error
		byName, err = m.persons.FindByName(ctx, seasonID, attrs.GivenName, attrs.FamilyName)
		if err != nil {
			return nil, err
		}
		if len(byName) == 1 {
			return byName[0], nil
		}
	}

	if attrs.RegistrationID != "" {
		byReg, err := m.persons.FindByRegistrationID(ctx, seasonID, attrs.RegistrationID)
		if err != nil {
			return nil, err
		}
		if len(byReg) > 0 {
			return byReg[0], nil
		}
	}

	if attrs.BirthDate != "" {
		for _, p := range byName {
			if p.BirthDate == attrs.BirthDate {
				return p, nil
			}
		}
	}

	if len(byName) > 0 {
		if m.logger != nil {
			m.logger.WarnContext(ctx, "ambiguous person match, taking first candidate",
				"season_id", seasonID, "candidates", len(byName))
		}
		return byName[0], nil
	}
	return nil, nil
}

func dedupe(found []*models.Household, strategy Strategy) []Candidate {
	seen := make(map[string]struct{}, len(found))
	out := make([]Candidate, 0, len(found))
	for _, h := range found {
		if _, ok := seen[h.ID.String()]; ok {
			continue
		}
		seen[h.ID.String()] = struct{}{}
		out = append(out, Candidate{Household: h, Strategy: strategy})
	}
	return out
}

func addressContains(addr models.Address, needle string) bool {
	haystack := strings.ToLower(addr.Street + " " + addr.City + " " + addr.Zip)
	return strings.Contains(haystack, strings.ToLower(needle))
}

func lastWord(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}
