// Package reconcile turns normalized import rows into household and person
// writes. Each row is resolved against the season's existing records
// (person first, then household by guardian contact), merged with the
// minimal-diff rules, and written; rows that cannot be resolved degrade to
// warnings, never to batch failure.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"leaguedesk/internal/importer/match"
	"leaguedesk/internal/importer/merge"
	"leaguedesk/internal/platform/metrics"
	"leaguedesk/internal/roster/exemption"
	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
	domainerrors "leaguedesk/pkg/domain-errors"
	"leaguedesk/pkg/email"
	"leaguedesk/pkg/platform/audit"
)

// Kind selects the import feed semantics for a batch.
type Kind string

const (
	KindPlayers    Kind = "players"
	KindVolunteers Kind = "volunteers"
	KindShifts     Kind = "shifts"
)

// Reconciler applies import rows against the roster stores. It is stateless
// across batches; all per-batch state lives on the Batch.
type Reconciler struct {
	households ports.HouseholdStore
	persons    ports.PersonStore
	unmatched  ports.UnmatchedStore
	shifts     ports.ShiftStore
	directory  ports.ContactDirectory
	publisher  ports.AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Reconciler)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

func WithDirectory(directory ports.ContactDirectory) Option {
	return func(r *Reconciler) { r.directory = directory }
}

func WithPublisher(publisher ports.AuditPublisher) Option {
	return func(r *Reconciler) { r.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reconciler) { r.metrics = m }
}

func New(
	households ports.HouseholdStore,
	persons ports.PersonStore,
	unmatched ports.UnmatchedStore,
	shifts ports.ShiftStore,
	opts ...Option,
) (*Reconciler, error) {
	if households == nil || persons == nil || unmatched == nil || shifts == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "reconciler requires all stores")
	}
	r := &Reconciler{
		households: households,
		persons:    persons,
		unmatched:  unmatched,
		shifts:     shifts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BatchOptions carries the caller-selectable knobs for one import.
type BatchOptions struct {
	// OnlyActive skips rows whose active column parsed false.
	OnlyActive bool
	// ClearWorkbondIfEmpty makes an empty incoming workbond status reset
	// the stored compliance state on this batch regardless of kind.
	// Volunteer batches always behave this way.
	ClearWorkbondIfEmpty bool
}

// Batch carries one import invocation's identity and its private matching
// state: the contact cache and the set of households this batch created,
// which gates the guardian volunteer synthesis pass.
type Batch struct {
	ID       uuid.UUID
	SeasonID string
	Kind     Kind
	Options  BatchOptions

	cache   *match.Cache
	matcher *match.Matcher
	created map[uuid.UUID]struct{}
}

// NewBatch builds the per-batch state. The cache starts empty and is
// discarded with the batch.
func (r *Reconciler) NewBatch(id uuid.UUID, seasonID string, kind Kind, opts BatchOptions) *Batch {
	cache := match.NewCache()
	return &Batch{
		ID:       id,
		SeasonID: seasonID,
		Kind:     kind,
		Options:  opts,
		cache:      cache,
		matcher: match.New(r.households, r.persons,
			match.WithCache(cache),
			match.WithLogger(r.logger),
		),
		created: make(map[uuid.UUID]struct{}),
	}
}

// Row processes one normalized row. A returned error covers only this row;
// the runner records it as a warning and moves on.
func (r *Reconciler) Row(ctx context.Context, b *Batch, row Row, res *Result) error {
	if b.Kind == KindShifts {
		return r.shiftRow(ctx, b, row, res)
	}
	return r.personRow(ctx, b, row, res)
}

// personRow handles player and volunteer feeds: resolve the person within
// the season, resolve or create the household, merge both, and link.
func (r *Reconciler) personRow(ctx context.Context, b *Batch, row Row, res *Result) error {
	if row.GivenName == "" || row.FamilyName == "" {
		return domainerrors.New(domainerrors.CodeValidation, "missing required name")
	}
	if b.Options.OnlyActive && !row.Active {
		res.Skipped++
		r.countRow("skipped")
		return nil
	}
	if b.Kind == KindVolunteers {
		promoteVolunteerContact(&row)
	}

	person, err := b.matcher.FindPerson(ctx, b.SeasonID, match.PersonAttrs{
		GivenName:      row.GivenName,
		FamilyName:     row.FamilyName,
		BirthDate:      row.BirthDate,
		RegistrationID: row.RegistrationID,
	})
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "person lookup failed")
	}

	household, householdCreated, err := r.resolveHousehold(ctx, b, row, person, res)
	if err != nil {
		return err
	}

	if household != nil && !householdCreated {
		if err := r.mergeHousehold(ctx, b, row, household, res); err != nil {
			return err
		}
	}
	if household != nil {
		b.cache.Put(household)
	}

	if person == nil {
		if err := r.createPerson(ctx, b, row, household, res); err != nil {
			// A household created for this row must not outlive the
			// row's failure.
			if householdCreated {
				if delErr := r.households.Delete(ctx, household.ID); delErr != nil && r.logger != nil {
					r.logger.ErrorContext(ctx, "failed to roll back household after person create failure",
						"household_id", household.ID, "error", delErr)
				}
				res.Households--
			}
			return err
		}
	} else {
		if err := r.updatePerson(ctx, b, row, person, household, res); err != nil {
			return err
		}
	}

	if householdCreated && b.Kind == KindPlayers {
		r.synthesizeGuardians(ctx, b, household, res)
	}
	return nil
}

// resolveHousehold finds the row's household by contact, falls back to the
// matched person's existing link, and lazily creates one when the row
// carries household data nobody has seen before.
func (r *Reconciler) resolveHousehold(ctx context.Context, b *Batch, row Row, person *models.Person, res *Result) (*models.Household, bool, error) {
	household, err := b.matcher.FindHousehold(ctx, b.SeasonID, rowContact(row))
	if err != nil {
		return nil, false, domainerrors.Wrap(err, domainerrors.CodeInternal, "household lookup failed")
	}
	if household != nil {
		return household, false, nil
	}

	if person != nil && person.HouseholdID != nil {
		linked, err := r.households.FindByID(ctx, *person.HouseholdID)
		if err == nil && linked != nil {
			return linked, false, nil
		}
	}

	if !rowHasHouseholdData(row) {
		return nil, false, nil
	}

	household = r.newHousehold(b, row)
	if b.Kind == KindVolunteers {
		r.applyExemption(ctx, b, row, household, res)
	}
	if err := r.households.Create(ctx, household); err != nil {
		return nil, false, domainerrors.Wrap(err, domainerrors.CodeInternal, "household create failed")
	}
	b.created[household.ID] = struct{}{}
	res.Households++
	if r.metrics != nil {
		r.metrics.HouseholdsCreated.Inc()
	}
	audit.Log(ctx, r.logger, r.publisher, audit.Event{
		Action:   audit.ActionHouseholdCreated,
		SeasonID: b.SeasonID,
		BatchID:  b.ID.String(),
		EntityID: household.ID.String(),
		Detail:   household.Code,
	})
	return household, true, nil
}

func (r *Reconciler) newHousehold(b *Batch, row Row) *models.Household {
	id := uuid.New()
	now := time.Now().UTC()
	return &models.Household{
		ID:               id,
		Code:             models.NewHouseholdCode(id),
		SeasonID:         b.SeasonID,
		Guardian1:        row.Guardian1,
		Guardian2:        row.Guardian2,
		Address:          row.Address,
		WorkbondStatus:   row.WorkbondStatus,
		WorkbondReceived: row.WorkbondReceived,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// mergeHousehold folds the row's household data into an existing household
// and persists only when the diff is non-empty. Volunteer feeds own the
// workbond fields, so for them an empty incoming status resets the stored
// one; other feeds get the same behavior on request via the batch option.
func (r *Reconciler) mergeHousehold(ctx context.Context, b *Batch, row Row, household *models.Household, res *Result) error {
	incoming := r.newHousehold(b, row)
	opts := merge.Options{
		ClearWorkbondIfEmpty: b.Options.ClearWorkbondIfEmpty || b.Kind == KindVolunteers,
	}
	if b.Kind == KindVolunteers {
		r.applyExemption(ctx, b, row, incoming, res)
	}

	diff := merge.Household(household, incoming, opts)
	if len(diff) == 0 {
		return nil
	}
	merge.ApplyHousehold(household, diff)
	household.UpdatedAt = time.Now().UTC()
	if err := r.households.Update(ctx, household); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "household update failed")
	}
	if r.metrics != nil {
		r.metrics.HouseholdsUpdated.Inc()
	}
	audit.Log(ctx, r.logger, r.publisher, audit.Event{
		Action:   audit.ActionHouseholdUpdated,
		SeasonID: b.SeasonID,
		BatchID:  b.ID.String(),
		EntityID: household.ID.String(),
		Fields:   diff.Fields(),
	})
	return nil
}

// applyExemption stamps workbond-exempt status on the incoming household
// values when the volunteer's role excuses the obligation. Directory
// failures degrade to a warning; the row proceeds as not exempt.
func (r *Reconciler) applyExemption(ctx context.Context, b *Batch, row Row, incoming *models.Household, res *Result) {
	contactEmail := firstNonEmpty(row.Guardian1.Email, row.ContactEmail)
	status, err := exemption.Determine(ctx, r.directory, row.Role, contactEmail, row.GivenName+" "+row.FamilyName)
	if err != nil {
		res.warnf("row %d: board directory check failed, treating as not exempt", row.Index)
		return
	}
	if status.Exempt && incoming.WorkbondStatus == "" {
		incoming.WorkbondStatus = "exempt (" + status.Reason + ")"
		incoming.WorkbondReceived = true
	}
}

func (r *Reconciler) createPerson(ctx context.Context, b *Batch, row Row, household *models.Household, res *Result) error {
	now := time.Now().UTC()
	person := &models.Person{
		ID:             uuid.New(),
		SeasonID:       b.SeasonID,
		GivenName:      row.GivenName,
		FamilyName:     row.FamilyName,
		BirthDate:      row.BirthDate,
		RegistrationID: row.RegistrationID,
		Role:           rowRole(b.Kind, row),
		Program:        row.Program,
		Active:         row.Active,
		PaymentOK:      row.PaymentOK,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if household != nil {
		id := household.ID
		person.HouseholdID = &id
	}
	if err := r.persons.Create(ctx, person); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "person create failed")
	}
	res.Created++
	r.countRow("created")
	if r.metrics != nil {
		r.metrics.PersonsCreated.Inc()
	}
	audit.Log(ctx, r.logger, r.publisher, audit.Event{
		Action:   audit.ActionPersonCreated,
		SeasonID: b.SeasonID,
		BatchID:  b.ID.String(),
		EntityID: person.ID.String(),
		Detail:   string(person.Role),
	})
	return nil
}

func (r *Reconciler) updatePerson(ctx context.Context, b *Batch, row Row, person *models.Person, household *models.Household, res *Result) error {
	incoming := &models.Person{
		BirthDate:      row.BirthDate,
		RegistrationID: row.RegistrationID,
		Role:           rowRole(b.Kind, row),
		Program:        row.Program,
		Active:         row.Active,
		PaymentOK:      row.PaymentOK,
	}
	if household != nil {
		id := household.ID
		incoming.HouseholdID = &id
	}

	diff := merge.Person(person, incoming, merge.Options{})
	if len(diff) == 0 {
		r.countRow("matched")
		return nil
	}

	linkReplaced := false
	if _, ok := diff[merge.FieldHouseholdID]; ok && person.HouseholdID != nil {
		linkReplaced = true
	}

	merge.ApplyPerson(person, diff)
	person.UpdatedAt = time.Now().UTC()
	if err := r.persons.Update(ctx, person); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "person update failed")
	}
	res.Updated++
	r.countRow("updated")
	if r.metrics != nil {
		r.metrics.PersonsUpdated.Inc()
	}
	audit.Log(ctx, r.logger, r.publisher, audit.Event{
		Action:   audit.ActionPersonUpdated,
		SeasonID: b.SeasonID,
		BatchID:  b.ID.String(),
		EntityID: person.ID.String(),
		Fields:   diff.Fields(),
	})
	if linkReplaced {
		audit.Log(ctx, r.logger, r.publisher, audit.Event{
			Action:   audit.ActionPersonLinkReplaced,
			SeasonID: b.SeasonID,
			BatchID:  b.ID.String(),
			EntityID: person.ID.String(),
			Detail:   fmt.Sprintf("household %s", household.ID),
		})
	}
	return nil
}

// synthesizeGuardians creates volunteer records for a newly created
// household's guardians, so workbond tracking has someone to attribute
// shifts to. Runs only for households this batch created; guardian names
// missing from the row are derived from the email local part.
func (r *Reconciler) synthesizeGuardians(ctx context.Context, b *Batch, household *models.Household, res *Result) {
	for _, guardian := range []models.Guardian{household.Guardian1, household.Guardian2} {
		if guardian.Empty() || (guardian.Name == "" && guardian.Email == "") {
			continue
		}
		givenName, familyName := email.SplitName(guardian.Name)
		if givenName == "" {
			givenName, familyName = email.DeriveName(guardian.Email)
		}

		existing, err := r.persons.FindByName(ctx, b.SeasonID, givenName, familyName)
		if err != nil || len(existing) > 0 {
			continue
		}

		now := time.Now().UTC()
		id := household.ID
		person := &models.Person{
			ID:          uuid.New(),
			SeasonID:    b.SeasonID,
			GivenName:   givenName,
			FamilyName:  familyName,
			Role:        models.RoleVolunteer,
			HouseholdID: &id,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.persons.Create(ctx, person); err != nil {
			res.warnf("guardian volunteer for household %s not created", household.Code)
			continue
		}
		res.Created++
		if r.metrics != nil {
			r.metrics.PersonsCreated.Inc()
		}
		audit.Log(ctx, r.logger, r.publisher, audit.Event{
			Action:   audit.ActionPersonCreated,
			SeasonID: b.SeasonID,
			BatchID:  b.ID.String(),
			EntityID: person.ID.String(),
			Detail:   "guardian volunteer",
		})
	}
}

// shiftRow handles workbond shift feeds: resolve the worker's household and
// credit the shift, or park the record in the unmatched queue.
func (r *Reconciler) shiftRow(ctx context.Context, b *Batch, row Row, res *Result) error {
	contactEmail := firstNonEmpty(row.ContactEmail, row.Guardian1.Email)
	contactPhone := firstNonEmpty(row.ContactPhone, row.Guardian1.Phone)
	contactName := firstNonEmpty(row.ContactName, row.Guardian1.Name)
	if contactEmail == "" && contactPhone == "" && contactName == "" {
		return domainerrors.New(domainerrors.CodeValidation, "missing contact information")
	}

	household, err := b.matcher.FindHousehold(ctx, b.SeasonID, match.Contact{
		Emails:  []string{contactEmail},
		Phones:  []string{contactPhone},
		Name:    contactName,
		Address: row.Address.Street,
	})
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "household lookup failed")
	}

	if household == nil {
		record := &models.UnmatchedRecord{
			ID:        uuid.New(),
			SeasonID:  b.SeasonID,
			Name:      contactName,
			Email:     contactEmail,
			Phone:     contactPhone,
			ShiftDate: row.ShiftDate,
			Hours:     row.Hours,
			CreatedAt: time.Now().UTC(),
		}
		if err := r.unmatched.Create(ctx, record); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "unmatched record create failed")
		}
		res.Queued++
		r.countRow("queued")
		if r.metrics != nil {
			r.metrics.UnmatchedQueued.Inc()
		}
		audit.Log(ctx, r.logger, r.publisher, audit.Event{
			Action:   audit.ActionUnmatchedQueued,
			SeasonID: b.SeasonID,
			BatchID:  b.ID.String(),
			EntityID: record.ID.String(),
			Detail:   contactName,
		})
		return nil
	}

	b.cache.Put(household)
	shift := &models.WorkbondShift{
		ID:          uuid.New(),
		SeasonID:    b.SeasonID,
		HouseholdID: household.ID,
		ShiftDate:   row.ShiftDate,
		Hours:       row.Hours,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.shifts.Create(ctx, shift); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "shift create failed")
	}
	res.Credited++
	r.countRow("credited")
	audit.Log(ctx, r.logger, r.publisher, audit.Event{
		Action:   audit.ActionShiftCredited,
		SeasonID: b.SeasonID,
		BatchID:  b.ID.String(),
		EntityID: shift.ID.String(),
		Detail:   household.Code,
	})
	return nil
}

func (r *Reconciler) countRow(outcome string) {
	if r.metrics != nil {
		r.metrics.RowsProcessed.WithLabelValues(outcome).Inc()
	}
}

// rowContact assembles the matching keys for a player or volunteer row.
// Both guardians' emails come before any phone, keeping the email tier's
// precedence over the phone tier regardless of which guardian carries what.
func rowContact(row Row) match.Contact {
	return match.Contact{
		Emails:  []string{row.Guardian1.Email, row.Guardian2.Email, row.ContactEmail},
		Phones:  []string{row.Guardian1.Phone, row.Guardian2.Phone, row.ContactPhone},
		Name:    firstNonEmpty(row.Guardian1.Name, row.FamilyName),
		Address: row.Address.Street,
	}
}

// promoteVolunteerContact fills the first guardian slot from the
// volunteer's own identity when the feed carries bare contact columns
// instead of guardian columns.
func promoteVolunteerContact(row *Row) {
	if !row.Guardian1.Empty() {
		return
	}
	row.Guardian1 = models.Guardian{
		Name:  firstNonEmpty(row.ContactName, row.GivenName+" "+row.FamilyName),
		Email: row.ContactEmail,
		Phone: row.ContactPhone,
	}
}

func rowHasHouseholdData(row Row) bool {
	return !row.Guardian1.Empty() || !row.Guardian2.Empty() ||
		row.Address.Street != "" || row.Address.City != "" || row.Address.Zip != ""
}

func rowRole(kind Kind, row Row) models.Role {
	if row.Role != models.RoleUnknown {
		return row.Role
	}
	if kind == KindVolunteers {
		return models.RoleVolunteer
	}
	return models.RolePlayer
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
