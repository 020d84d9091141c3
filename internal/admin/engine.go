package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/health-optimised/directory-backend/internal/accounts"
	"github.com/health-optimised/directory-backend/internal/suppliers"
	"github.com/health-optimised/directory-backend/pkg/enums"
	"github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
	"github.com/health-optimised/directory-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	defaultActor       = "Admin"
	defaultEnqueueNote = "Awaiting administrative verification."
)

// IDGenerator provides the engine's ids, tickets, and rotated credentials.
type IDGenerator interface {
	SupplierID() string
	QueueID() string
	EventID() string
	TicketCode() string
	Username(role enums.Role, domain string) string
	Password() string
}

// SupplierInput carries the full supplier form as submitted by an
// administrator.
type SupplierInput struct {
	Brand              string
	Website            string
	DiscountCode       string
	OfferDetails       string
	VerificationStatus bool
	VerificationNotes  string
	VerifiedBy         string
	DateVerified       string
	AverageRating      float64
	TotalReviews       int
}

// Stats summarises the directory for the admin dashboard.
type Stats struct {
	TotalSuppliers    int             `json:"total_suppliers"`
	VerifiedSuppliers int             `json:"verified_suppliers"`
	AverageRating     decimal.Decimal `json:"average_rating"`
	QueueDepth        int             `json:"queue_depth"`
}

// Params wires the engine's collaborators.
type Params struct {
	Repo             *suppliers.Repository
	Store            kv.Store
	Accounts         *accounts.Directory
	IDs              IDGenerator
	Logger           *logger.Logger
	Metrics          *metrics.AdminMetrics
	Confirmer        Confirmer
	Clipboard        Clipboard
	FeedbackTTL      time.Duration
	CredentialDomain string
	Now              func() time.Time
}

// Engine applies admin mutations to the supplier directory and keeps the
// verification queue and activity timeline consistent with it.
type Engine struct {
	repo      *suppliers.Repository
	store     kv.Store
	accounts  *accounts.Directory
	ids       IDGenerator
	logg      *logger.Logger
	metrics   *metrics.AdminMetrics
	confirmer Confirmer
	clipboard Clipboard
	feedback  *feedbackState
	domain    string
	now       func() time.Time

	mu         sync.Mutex
	queue      []QueueEntry
	timeline   []TimelineEntry
	selectedID string
}

// NewEngine loads the queue from storage (seeding it when missing or
// malformed) and starts from the seeded timeline.
func NewEngine(ctx context.Context, p Params) *Engine {
	if p.Confirmer == nil {
		p.Confirmer = AutoConfirm
	}
	if p.Clipboard == nil {
		p.Clipboard = NopClipboard{}
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.FeedbackTTL <= 0 {
		p.FeedbackTTL = 4 * time.Second
	}
	if p.CredentialDomain == "" {
		p.CredentialDomain = "health-optimised.dev"
	}

	e := &Engine{
		repo:      p.Repo,
		store:     p.Store,
		accounts:  p.Accounts,
		ids:       p.IDs,
		logg:      p.Logger,
		metrics:   p.Metrics,
		confirmer: p.Confirmer,
		clipboard: p.Clipboard,
		feedback:  newFeedbackState(p.FeedbackTTL),
		domain:    p.CredentialDomain,
		now:       p.Now,
		timeline:  timelineSeed(),
	}
	e.queue = e.loadQueue(ctx)
	e.metrics.SetQueueDepth(len(e.queue))
	return e
}

// Close releases the feedback timer.
func (e *Engine) Close() {
	e.feedback.stop()
}

func (e *Engine) loadQueue(ctx context.Context) []QueueEntry {
	raw, err := e.store.Get(ctx, QueueStorageKey)
	if err != nil {
		return queueSeed()
	}
	var parsed []QueueEntry
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil || parsed == nil {
		return queueSeed()
	}
	return parsed
}

func (e *Engine) persistQueue(ctx context.Context) error {
	encoded, err := json.Marshal(e.queue)
	if err != nil {
		return err
	}
	if err := e.store.Set(ctx, QueueStorageKey, string(encoded)); err != nil {
		return err
	}
	e.metrics.SetQueueDepth(len(e.queue))
	return nil
}

func (e *Engine) today() string {
	return e.now().UTC().Format("2006-01-02")
}

func actorOrDefault(actor string) string {
	if actor == "" {
		return defaultActor
	}
	return actor
}

// logPersistence records best-effort persistence failures. Persistence errors
// never fail the admin operation itself.
func (e *Engine) logPersistence(ctx context.Context, operation string, errs ...error) {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return
	}
	ctx = e.logg.WithField(ctx, "operation", operation)
	e.logg.Error(ctx, "persistence incomplete", combined)
}

func (e *Engine) prependTimeline(actor, title, detail, date string) {
	entry := TimelineEntry{
		ID:     e.ids.EventID(),
		Title:  title,
		Detail: detail,
		Admin:  actor,
		Date:   date,
	}
	e.timeline = append([]TimelineEntry{entry}, e.timeline...)
}

// enqueueLocked inserts a fresh entry at the head of the queue, dropping any
// prior entry for the same supplier. Caller holds e.mu.
func (e *Engine) enqueueLocked(ctx context.Context, actor string, supplier suppliers.Supplier, note string, notify, timeline bool) error {
	if note == "" {
		note = defaultEnqueueNote
	}
	entry := QueueEntry{
		ID:         e.ids.QueueID(),
		SupplierID: supplier.ID,
		Brand:      supplier.Brand,
		Ticket:     e.ids.TicketCode(),
		Submitted:  e.today(),
		Note:       note,
	}

	next := []QueueEntry{entry}
	for _, item := range e.queue {
		if !matchesSupplier(item, supplier) {
			next = append(next, item)
		}
	}
	e.queue = next

	if timeline {
		e.prependTimeline(actorOrDefault(actor), fmt.Sprintf("%s queued for verification", supplier.Brand), entry.Note, e.today())
	}
	if notify {
		e.feedback.show(fmt.Sprintf("%s added to verification queue.", supplier.Brand))
	}
	return e.persistQueue(ctx)
}

// reconcileLocked drops queue entries whose supplier is gone (back-referenced
// entries only) or already verified. Caller holds e.mu.
func (e *Engine) reconcileLocked(ctx context.Context, list []suppliers.Supplier) error {
	kept := e.queue[:0:0]
	for _, entry := range e.queue {
		var match *suppliers.Supplier
		for i := range list {
			if matchesSupplier(entry, list[i]) {
				match = &list[i]
				break
			}
		}
		if match == nil {
			if entry.SupplierID == "" {
				kept = append(kept, entry)
			}
			continue
		}
		if !match.VerificationStatus {
			kept = append(kept, entry)
		}
	}

	dropped := len(e.queue) - len(kept)
	if dropped == 0 {
		return nil
	}
	e.queue = kept
	e.metrics.AddReconcileDrops(dropped)
	return e.persistQueue(ctx)
}

func (e *Engine) removeFromQueueLocked(ctx context.Context, supplier suppliers.Supplier) error {
	kept := e.queue[:0:0]
	for _, entry := range e.queue {
		if !matchesSupplier(entry, supplier) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(e.queue) {
		return nil
	}
	e.queue = kept
	return e.persistQueue(ctx)
}

// AddSupplier appends a new directory record. Unverified additions are queued
// for review automatically.
func (e *Engine) AddSupplier(ctx context.Context, actor string, input SupplierInput) (suppliers.Supplier, error) {
	if strings.TrimSpace(input.Brand) == "" || strings.TrimSpace(input.Website) == "" {
		e.feedback.show("Brand name and website are required.")
		return suppliers.Supplier{}, errors.New(errors.CodeValidation, "Brand name and website are required.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	verifiedBy := input.VerifiedBy
	if verifiedBy == "" {
		verifiedBy = actorOrDefault(actor)
	}
	dateVerified := ""
	if input.VerificationStatus {
		dateVerified = e.today()
	}

	supplier := suppliers.Supplier{
		ID:                 e.ids.SupplierID(),
		Brand:              input.Brand,
		Website:            input.Website,
		DiscountCode:       input.DiscountCode,
		OfferDetails:       input.OfferDetails,
		VerificationStatus: input.VerificationStatus,
		VerificationNotes:  input.VerificationNotes,
		VerifiedBy:         verifiedBy,
		DateVerified:       dateVerified,
		AverageRating:      input.AverageRating,
		TotalReviews:       input.TotalReviews,
	}

	next := append(e.repo.Load(ctx), supplier)
	saveErr := e.repo.Save(ctx, next)
	e.feedback.show(fmt.Sprintf("%s added to directory.", supplier.Brand))

	var queueErr error
	if !supplier.VerificationStatus {
		queueErr = e.enqueueLocked(ctx, actor, supplier, "Awaiting administrative verification for newly added supplier.", false, false)
	}
	reconcileErr := e.reconcileLocked(ctx, next)

	e.prependTimeline(actorOrDefault(actor), fmt.Sprintf("%s profile created", supplier.Brand), "Supplier added by administrator.", e.today())

	e.metrics.ObserveMutation("add_supplier")
	e.logPersistence(ctx, "add_supplier", saveErr, queueErr, reconcileErr)
	return supplier, nil
}

// EditSupplier replaces the record with the submitted form. Editing an
// unknown id is a no-op.
func (e *Engine) EditSupplier(ctx context.Context, actor, id string, input SupplierInput) (suppliers.Supplier, error) {
	if strings.TrimSpace(input.Brand) == "" || strings.TrimSpace(input.Website) == "" {
		e.feedback.show("Brand name and website are required.")
		return suppliers.Supplier{}, errors.New(errors.CodeValidation, "Brand name and website are required.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.repo.Load(ctx)
	var updated *suppliers.Supplier
	for i := range list {
		if list[i].ID != id {
			continue
		}
		dateVerified := ""
		if input.VerificationStatus {
			dateVerified = input.DateVerified
			if dateVerified == "" {
				dateVerified = e.today()
			}
		}
		list[i] = suppliers.Supplier{
			ID:                 id,
			Brand:              input.Brand,
			Website:            input.Website,
			DiscountCode:       input.DiscountCode,
			OfferDetails:       input.OfferDetails,
			VerificationStatus: input.VerificationStatus,
			VerificationNotes:  input.VerificationNotes,
			VerifiedBy:         input.VerifiedBy,
			DateVerified:       dateVerified,
			AverageRating:      input.AverageRating,
			TotalReviews:       input.TotalReviews,
		}
		updated = &list[i]
		break
	}
	if updated == nil {
		return suppliers.Supplier{}, nil
	}

	saveErr := e.repo.Save(ctx, list)
	e.feedback.show(fmt.Sprintf("%s updated.", updated.Brand))

	var queueErr error
	if updated.VerificationStatus {
		queueErr = e.reconcileLocked(ctx, list)
	} else {
		queueErr = e.enqueueLocked(ctx, actor, *updated, "Pending verification after profile update.", false, false)
	}

	e.prependTimeline(actorOrDefault(actor), fmt.Sprintf("%s details updated", updated.Brand), "Supplier information revised.", e.today())

	e.metrics.ObserveMutation("edit_supplier")
	e.logPersistence(ctx, "edit_supplier", saveErr, queueErr)
	return *updated, nil
}

// ToggleVerification flips the supplier's verified status, stamping or
// clearing the verification date to match. Unknown ids are a no-op.
func (e *Engine) ToggleVerification(ctx context.Context, actor, id string) (suppliers.Supplier, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.repo.Load(ctx)
	var updated *suppliers.Supplier
	for i := range list {
		if list[i].ID != id {
			continue
		}
		nextStatus := !list[i].VerificationStatus
		list[i].VerificationStatus = nextStatus
		if nextStatus {
			list[i].DateVerified = e.today()
		} else {
			list[i].DateVerified = ""
		}
		if actor != "" {
			list[i].VerifiedBy = actor
		} else if list[i].VerifiedBy == "" {
			list[i].VerifiedBy = defaultActor
		}
		updated = &list[i]
		break
	}
	if updated == nil {
		return suppliers.Supplier{}, false, nil
	}

	saveErr := e.repo.Save(ctx, list)

	var title, detail, message string
	if updated.VerificationStatus {
		title = fmt.Sprintf("%s verification approved", updated.Brand)
		detail = "Supplier confirmed via admin review."
		message = fmt.Sprintf("%s marked verified.", updated.Brand)
	} else {
		title = fmt.Sprintf("%s verification reset", updated.Brand)
		detail = "Verification status returned to pending."
		message = fmt.Sprintf("%s set to pending verification.", updated.Brand)
	}
	e.feedback.show(message)

	var queueErr error
	if updated.VerificationStatus {
		queueErr = multierr.Combine(
			e.removeFromQueueLocked(ctx, *updated),
			e.reconcileLocked(ctx, list),
		)
	} else {
		queueErr = e.enqueueLocked(ctx, actor, *updated, "Awaiting verification after status change.", false, false)
	}

	e.prependTimeline(actorOrDefault(actor), title, detail, e.today())

	e.metrics.ObserveMutation("toggle_verification")
	e.logPersistence(ctx, "toggle_verification", saveErr, queueErr)
	return *updated, true, nil
}

// BulkVerify marks every supplier verified as of today and flushes the queue
// entries that referenced them.
func (e *Engine) BulkVerify(ctx context.Context, actor string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	list := e.repo.Load(ctx)
	for i := range list {
		list[i].VerificationStatus = true
		list[i].DateVerified = today
		if actor != "" {
			list[i].VerifiedBy = actor
		} else if list[i].VerifiedBy == "" {
			list[i].VerifiedBy = defaultActor
		}
	}

	saveErr := e.repo.Save(ctx, list)
	e.feedback.show("All suppliers marked as verified.")
	reconcileErr := e.reconcileLocked(ctx, list)

	e.prependTimeline(actorOrDefault(actor), "Bulk verification executed", "Administrator confirmed all active suppliers.", today)

	e.metrics.ObserveMutation("bulk_verify")
	e.logPersistence(ctx, "bulk_verify", saveErr, reconcileErr)
	return nil
}

// DeleteSupplier removes the record after confirmation. It reports whether a
// deletion happened.
func (e *Engine) DeleteSupplier(ctx context.Context, actor, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.repo.Load(ctx)
	var target *suppliers.Supplier
	for i := range list {
		if list[i].ID == id {
			target = &list[i]
			break
		}
	}
	if target == nil {
		return false, nil
	}

	if !e.confirmer.Confirm(fmt.Sprintf("Remove %s from the directory?", target.Brand)) {
		return false, nil
	}

	supplier := *target
	next := make([]suppliers.Supplier, 0, len(list)-1)
	for _, entry := range list {
		if entry.ID != id {
			next = append(next, entry)
		}
	}

	saveErr := e.repo.Save(ctx, next)
	e.feedback.show(fmt.Sprintf("%s removed from directory.", supplier.Brand))

	queueErr := multierr.Combine(
		e.removeFromQueueLocked(ctx, supplier),
		e.reconcileLocked(ctx, next),
	)

	e.prependTimeline(actorOrDefault(actor), fmt.Sprintf("%s removed", supplier.Brand), "Supplier deleted from directory.", e.today())

	if e.selectedID == id {
		e.selectedID = ""
	}

	e.metrics.ObserveMutation("delete_supplier")
	e.logPersistence(ctx, "delete_supplier", saveErr, queueErr)
	return true, nil
}

// EnqueueReview raises a fresh verification ticket for a supplier, replacing
// any existing one.
func (e *Engine) EnqueueReview(ctx context.Context, actor, supplierID, note string) (bool, error) {
	supplier, ok := e.repo.GetByID(ctx, supplierID)
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	queueErr := e.enqueueLocked(ctx, actor, supplier, note, true, true)
	e.metrics.ObserveMutation("enqueue_review")
	e.logPersistence(ctx, "enqueue_review", queueErr)
	return true, nil
}

// ResolveQueueEntry closes a ticket by id. Unknown ids are a no-op.
func (e *Engine) ResolveQueueEntry(ctx context.Context, actor, entryID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var resolved *QueueEntry
	kept := e.queue[:0:0]
	for _, entry := range e.queue {
		if entry.ID == entryID {
			matched := entry
			resolved = &matched
			continue
		}
		kept = append(kept, entry)
	}
	if resolved == nil {
		return false, nil
	}
	e.queue = kept

	queueErr := e.persistQueue(ctx)
	named := actorOrDefault(actor)
	e.prependTimeline(named,
		fmt.Sprintf("%s review completed", resolved.Brand),
		fmt.Sprintf("Queue ticket %s closed by %s.", resolved.Ticket, named),
		e.today())
	e.feedback.show(fmt.Sprintf("%s archived.", resolved.Ticket))

	e.metrics.ObserveMutation("resolve_queue_entry")
	e.logPersistence(ctx, "resolve_queue_entry", queueErr)
	return true, nil
}

// Reconcile re-derives the queue from the current directory.
func (e *Engine) Reconcile(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.reconcileLocked(ctx, e.repo.Load(ctx))
	e.logPersistence(ctx, "reconcile", err)
}

// RotateCredentials issues a fresh username and password for the role's
// account. The role itself never changes, and a live session for that role
// keeps working under the new username.
func (e *Engine) RotateCredentials(ctx context.Context, role enums.Role) (accounts.Account, bool) {
	update := accounts.AccountUpdate{
		Username: e.ids.Username(role, e.domain),
		Password: e.ids.Password(),
	}
	updated, ok := e.accounts.UpdateAccount(ctx, role, update)
	if !ok {
		return accounts.Account{}, false
	}

	label := "User"
	if role == enums.RoleAdmin {
		label = "Admin"
	}
	e.feedback.show(fmt.Sprintf("%s credentials rotated.", label))
	e.metrics.ObserveMutation("rotate_credentials")
	return updated, true
}

// CopyCredentials pushes the role's credential pair to the clipboard
// collaborator. Clipboard failures are swallowed.
func (e *Engine) CopyCredentials(ctx context.Context, role enums.Role) bool {
	account, ok := e.accounts.AccountForRole(role)
	if !ok {
		return false
	}
	if err := e.clipboard.Copy(fmt.Sprintf("%s / %s", account.Username, account.Password)); err != nil {
		e.logg.Warn(ctx, "clipboard copy failed")
	}
	return true
}

// Queue returns a copy of the outstanding tickets, newest first.
func (e *Engine) Queue() []QueueEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]QueueEntry, len(e.queue))
	copy(out, e.queue)
	return out
}

// Timeline returns a copy of the activity feed, newest first.
func (e *Engine) Timeline() []TimelineEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TimelineEntry, len(e.timeline))
	copy(out, e.timeline)
	return out
}

// Feedback returns the current transient status message, if any.
func (e *Engine) Feedback() string {
	return e.feedback.current()
}

// SelectSupplier toggles the ratings snapshot selection. Selecting the
// already-selected id clears it.
func (e *Engine) SelectSupplier(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selectedID == id {
		e.selectedID = ""
		return
	}
	e.selectedID = id
}

// SelectedSupplier resolves the current selection against the directory.
func (e *Engine) SelectedSupplier(ctx context.Context) (suppliers.Supplier, bool) {
	e.mu.Lock()
	id := e.selectedID
	e.mu.Unlock()
	if id == "" {
		return suppliers.Supplier{}, false
	}
	return e.repo.GetByID(ctx, id)
}

// Stats summarises the directory counts and the mean of stored average
// ratings.
func (e *Engine) Stats(ctx context.Context) Stats {
	list := e.repo.Load(ctx)

	verified := 0
	sum := decimal.Zero
	for _, supplier := range list {
		if supplier.VerificationStatus {
			verified++
		}
		sum = sum.Add(decimal.NewFromFloat(supplier.AverageRating))
	}

	average := decimal.Zero
	if len(list) > 0 {
		average = sum.Div(decimal.NewFromInt(int64(len(list)))).Round(2)
	}

	e.mu.Lock()
	depth := len(e.queue)
	e.mu.Unlock()

	return Stats{
		TotalSuppliers:    len(list),
		VerifiedSuppliers: verified,
		AverageRating:     average,
		QueueDepth:        depth,
	}
}
