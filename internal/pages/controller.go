// Package pages holds the page controllers: per request objects that load the
// signed in user's records, shape them for display and run form submissions.
package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/dates"
	"github.com/2beens/fittrack/internal/records"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

var (
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	ErrNoForm               = errors.New("no open form")
	ErrNoIdentity           = errors.New("not signed in")
)

// Clock supplies "today" to the controllers.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) Today() dates.Date {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return dates.Today(now(), c.Location)
}

// Messages are the notices a page shows after its operations.
type Messages struct {
	LoadFailed   string
	Added        string
	Updated      string
	SaveFailed   string
	Deleted      string
	DeleteFailed string
}

// PageSpec describes one entity page.
type PageSpec[T records.Record[T]] struct {
	// Name is the page and route name, e.g. "workouts"
	Name string
	// Entity is the metrics label, e.g. "workout"
	Entity string
	Title  string
	// FormTitle is prefixed with Add or Edit
	FormTitle string
	Order     records.Order
	Messages  Messages
	Empty     EmptyState
	Options   any

	// Blank builds the create form template. prefill holds the query
	// parameters of the create request.
	Blank func(today dates.Date, prefill url.Values) T
	// Rows presents the loaded rows as table rows or cards.
	Rows func(rows []T, today dates.Date) any
	// Charts is optional.
	Charts func(rows []T) []Chart
}

// Controller drives one entity page for one request.
type Controller[T records.Record[T]] struct {
	spec       PageSpec[T]
	collection records.Collection[T]
	session    *auth.Session
	clock      Clock
	metrics    *metrics.Manager

	// bumped by every load and by sign out; a load whose generation is no
	// longer current drops its result
	generation atomic.Uint64

	mu       sync.Mutex
	identity *auth.Identity
	loading  bool
	rows     []T
	form     FormState[T]
	notice   *Notice
	loadErr  error
}

func NewController[T records.Record[T]](
	spec PageSpec[T],
	collection records.Collection[T],
	session *auth.Session,
	clock Clock,
	metricsManager *metrics.Manager,
) *Controller[T] {
	return &Controller[T]{
		spec:       spec,
		collection: collection,
		session:    session,
		clock:      clock,
		metrics:    metricsManager,
	}
}

// Mount subscribes the controller to the session. Rows are loaded whenever an
// identity becomes available.
func (c *Controller[T]) Mount(ctx context.Context) (unmount func()) {
	return c.session.Subscribe(ctx, c.onIdentity)
}

func (c *Controller[T]) onIdentity(ctx context.Context, identity *auth.Identity) {
	if identity == nil {
		c.generation.Add(1)
		c.mu.Lock()
		c.identity = nil
		c.loading = false
		c.rows = nil
		c.form = nil
		c.loadErr = nil
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		log.Errorf("%s: load on identity change: %s", c.spec.Name, err)
	}
}

// Load fetches the owner's rows. A failed load keeps the previous rows.
func (c *Controller[T]) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pages."+c.spec.Name+".load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c.mu.Lock()
	identity := c.identity
	if identity == nil {
		c.mu.Unlock()
		return ErrNoIdentity
	}
	gen := c.generation.Add(1)
	c.loading = true
	c.mu.Unlock()

	rows, err := c.collection.List(ctx, records.Query{
		OwnerID: identity.UserID,
		Order:   c.spec.Order,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation.Load() {
		span.SetAttributes(attribute.Bool("superseded", true))
		return nil
	}

	c.loading = false
	if err != nil {
		c.loadErr = err
		c.notice = errorNotice(c.spec.Messages.LoadFailed)
		return fmt.Errorf("load %s: %w", c.spec.Name, err)
	}

	c.loadErr = nil
	c.rows = rows
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return nil
}

// LoadErr is the error of the latest completed load, if any.
func (c *Controller[T]) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.rows...)
}

func (c *Controller[T]) Form() FormState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller[T]) OpenCreate(prefill url.Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return ErrNoIdentity
	}
	c.form = Creating[T]{Template: c.spec.Blank(c.clock.Today(), prefill)}
	return nil
}

// OpenEdit opens the form on a loaded row.
func (c *Controller[T]) OpenEdit(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return ErrNoIdentity
	}
	for _, row := range c.rows {
		if row.Key() == id {
			c.form = Editing[T]{ID: id, Existing: row.Clone()}
			return nil
		}
	}
	return records.ErrNotFound
}

func (c *Controller[T]) CloseForm() {
	c.mu.Lock()
	c.form = nil
	c.mu.Unlock()
}

// Submit validates record and inserts or updates it depending on the open
// form. On failure the form stays open with record in it.
func (c *Controller[T]) Submit(ctx context.Context, record T) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pages."+c.spec.Name+".submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c.mu.Lock()
	identity, form := c.identity, c.form
	if identity == nil {
		c.mu.Unlock()
		return ErrNoIdentity
	}
	if form == nil {
		c.mu.Unlock()
		return ErrNoForm
	}
	c.form = form.withRecord(record)
	c.mu.Unlock()

	if err := record.Validate(); err != nil {
		c.setNotice(errorNotice(validationMessage(err)))
		return err
	}

	owned := record.WithOwner(identity.UserID)
	var op, success string
	switch f := form.(type) {
	case Editing[T]:
		op, success = "update", c.spec.Messages.Updated
		_, err = c.collection.Update(ctx, identity.UserID, f.ID, owned)
	default:
		op, success = "create", c.spec.Messages.Added
		_, err = c.collection.Insert(ctx, owned)
	}
	c.metrics.RecordMutation(c.spec.Entity, op, err)
	span.SetAttributes(attribute.String("op", op))

	if err != nil {
		c.setNotice(errorNotice(c.spec.Messages.SaveFailed))
		return fmt.Errorf("%s %s: %w", op, c.spec.Entity, err)
	}

	c.mu.Lock()
	c.form = nil
	c.notice = successNotice(success)
	c.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		log.Errorf("%s: refetch after %s: %s", c.spec.Name, op, err)
	}
	return nil
}

// Delete removes a loaded row. Nothing is sent to the store unless confirmed.
func (c *Controller[T]) Delete(ctx context.Context, id uuid.UUID, confirmed bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pages."+c.spec.Name+".delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !confirmed {
		return ErrConfirmationRequired
	}

	c.mu.Lock()
	identity := c.identity
	found := false
	for _, row := range c.rows {
		if row.Key() == id {
			found = true
			break
		}
	}
	c.mu.Unlock()

	if identity == nil {
		return ErrNoIdentity
	}
	if !found {
		return records.ErrNotFound
	}

	err = c.collection.Delete(ctx, identity.UserID, id)
	c.metrics.RecordMutation(c.spec.Entity, "delete", err)
	if err != nil {
		c.setNotice(errorNotice(c.spec.Messages.DeleteFailed))
		return fmt.Errorf("delete %s: %w", c.spec.Entity, err)
	}

	c.setNotice(successNotice(c.spec.Messages.Deleted))
	if err := c.Load(ctx); err != nil {
		log.Errorf("%s: refetch after delete: %s", c.spec.Name, err)
	}
	return nil
}

func (c *Controller[T]) setNotice(n *Notice) {
	c.mu.Lock()
	c.notice = n
	c.mu.Unlock()
}

func (c *Controller[T]) View() PageView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := PageView{
		Page:     c.spec.Name,
		Title:    c.spec.Title,
		Identity: c.identity != nil,
		Loading:  c.loading,
		Notice:   c.notice,
	}
	if c.identity == nil {
		return view
	}

	view.Options = c.spec.Options
	view.Rows = c.spec.Rows(c.rows, c.clock.Today())
	if c.spec.Charts != nil {
		view.Charts = c.spec.Charts(c.rows)
	}
	if len(c.rows) == 0 && !c.loading {
		empty := c.spec.Empty
		view.Empty = &empty
	}

	if c.form != nil {
		formView := &FormView{
			Mode:   c.form.mode(),
			Title:  "Add " + c.spec.FormTitle,
			Record: c.form.Record(),
		}
		if editing, ok := c.form.(Editing[T]); ok {
			id := editing.ID
			formView.ID = &id
			formView.Title = "Edit " + c.spec.FormTitle
		}
		view.Form = formView
	}

	return view
}

// validationMessage flattens joined validation errors into one line.
func validationMessage(err error) string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return err.Error()
	}
	msgs := make([]string, 0, len(joined.Unwrap()))
	for _, e := range joined.Unwrap() {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
