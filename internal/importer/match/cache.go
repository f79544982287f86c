package match

import "leaguedesk/internal/roster/models"

// Cache is the per-batch household-by-contact lookup. It is owned by a
// single batch invocation and discarded with it; it is never shared across
// batches, so it cannot go stale against concurrent imports.
type Cache struct {
	byKey map[string]*models.Household
}

func NewCache() *Cache {
	return &Cache{byKey: make(map[string]*models.Household)}
}

// Lookup returns the cached household for a contact key, if any.
func (c *Cache) Lookup(key string) (*models.Household, bool) {
	h, ok := c.byKey[key]
	return h, ok
}

// Put indexes a household under all of its guardian contact keys. Called
// for every household the batch creates or resolves, so later rows in the
// same batch match it without a store round trip.
func (c *Cache) Put(h *models.Household) {
	if h == nil {
		return
	}
	for _, email := range h.GuardianEmails() {
		c.byKey[emailKey(email)] = h
	}
	for _, phone := range h.GuardianPhones() {
		c.byKey[phoneKey(phone)] = h
	}
}

func emailKey(email string) string { return "email:" + email }
func phoneKey(phone string) string { return "phone:" + phone }
