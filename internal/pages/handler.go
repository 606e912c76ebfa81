package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/records"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/pkg"
)

// Handler serves one entity page over HTTP. Every request gets its own
// Controller bound to the request session.
type Handler[T records.Record[T]] struct {
	spec       PageSpec[T]
	collection records.Collection[T]
	clock      Clock
	metrics    *metrics.Manager
}

func NewHandler[T records.Record[T]](
	spec PageSpec[T],
	collection records.Collection[T],
	clock Clock,
	metricsManager *metrics.Manager,
) *Handler[T] {
	return &Handler[T]{
		spec:       spec,
		collection: collection,
		clock:      clock,
		metrics:    metricsManager,
	}
}

func (handler *Handler[T]) SetupRoutes(router *mux.Router) {
	name := handler.spec.Name
	base := "/" + name
	router.HandleFunc(base, handler.handleList).Methods("GET").Name(name)
	router.HandleFunc(base, handler.handleCreate).Methods("POST").Name(name + "-create")
	router.HandleFunc(base+"/new", handler.handleNew).Methods("GET").Name(name + "-new")
	router.HandleFunc(base+"/{id}/edit", handler.handleEdit).Methods("GET").Name(name + "-edit")
	router.HandleFunc(base+"/{id}", handler.handleUpdate).Methods("PUT").Name(name + "-update")
	router.HandleFunc(base+"/{id}", handler.handleDelete).Methods("DELETE").Name(name + "-delete")
}

func requestSession(r *http.Request) *auth.Session {
	if session := auth.SessionFromContext(r.Context()); session != nil {
		return session
	}
	session := auth.NewSession("")
	session.Resolve(r.Context(), nil)
	return session
}

// mount builds the request controller and runs the initial load.
func (handler *Handler[T]) mount(r *http.Request) (*Controller[T], func()) {
	c := NewController(handler.spec, handler.collection, requestSession(r), handler.clock, handler.metrics)
	return c, c.Mount(r.Context())
}

func (handler *Handler[T]) handleList(w http.ResponseWriter, r *http.Request) {
	c, unmount := handler.mount(r)
	defer unmount()

	writeView(w, statusFor(c.LoadErr()), c.View())
}

func (handler *Handler[T]) handleNew(w http.ResponseWriter, r *http.Request) {
	c, unmount := handler.mount(r)
	defer unmount()

	err := c.OpenCreate(r.URL.Query())
	if err == nil {
		err = c.LoadErr()
	}
	writeView(w, statusFor(err), c.View())
}

func (handler *Handler[T]) handleEdit(w http.ResponseWriter, r *http.Request) {
	c, unmount := handler.mount(r)
	defer unmount()

	if err := c.LoadErr(); err != nil {
		writeView(w, statusFor(err), c.View())
		return
	}

	id, ok := handler.openEdit(c, r)
	if !ok {
		writeView(w, http.StatusNotFound, c.View())
		return
	}
	log.Tracef("%s: edit form opened for %s", handler.spec.Name, id)
	writeView(w, http.StatusOK, c.View())
}

func (handler *Handler[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	c, unmount := handler.mount(r)
	defer unmount()

	if err := c.OpenCreate(r.URL.Query()); err != nil {
		writeView(w, statusFor(err), c.View())
		return
	}

	handler.submit(w, r, c, http.StatusCreated)
}

func (handler *Handler[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	c, unmount := handler.mount(r)
	defer unmount()

	if err := c.LoadErr(); err != nil {
		writeView(w, statusFor(err), c.View())
		return
	}
	if _, ok := handler.openEdit(c, r); !ok {
		writeView(w, http.StatusNotFound, c.View())
		return
	}

	handler.submit(w, r, c, http.StatusOK)
}

func (handler *Handler[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	c, unmount := handler.mount(r)
	defer unmount()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		c.setNotice(errorNotice(fmt.Sprintf("%s not found", handler.spec.FormTitle)))
		writeView(w, http.StatusNotFound, c.View())
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := c.Delete(r.Context(), id, confirmed); err != nil {
		switch {
		case errors.Is(err, ErrConfirmationRequired):
			c.setNotice(errorNotice(fmt.Sprintf("Are you sure you want to delete this %s? Repeat with confirm=true.", strings.ToLower(handler.spec.FormTitle))))
		case errors.Is(err, records.ErrNotFound):
			c.setNotice(errorNotice(fmt.Sprintf("%s not found", handler.spec.FormTitle)))
		default:
			log.Errorf("%s: delete %s: %s", handler.spec.Name, id, err)
		}
		writeView(w, statusFor(err), c.View())
		return
	}

	writeView(w, http.StatusOK, c.View())
}

func (handler *Handler[T]) openEdit(c *Controller[T], r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err == nil {
		err = c.OpenEdit(id)
	}
	if err != nil {
		c.setNotice(errorNotice(fmt.Sprintf("%s not found", handler.spec.FormTitle)))
		return uuid.Nil, false
	}
	return id, true
}

// submit decodes the JSON body over a copy of the open form record, so fields
// missing from the payload keep their template or existing values.
func (handler *Handler[T]) submit(w http.ResponseWriter, r *http.Request, c *Controller[T], okStatus int) {
	form := c.Form()
	if form == nil {
		writeView(w, statusFor(ErrNoForm), c.View())
		return
	}

	// decoding writes through pointer fields, so never decode onto shared state
	record := form.Record().Clone()
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Tracef("%s: decode submission: %s", handler.spec.Name, err)
		c.setNotice(errorNotice(fmt.Sprintf("Invalid %s data", strings.ToLower(handler.spec.FormTitle))))
		writeView(w, http.StatusBadRequest, c.View())
		return
	}

	if err := c.Submit(r.Context(), record); err != nil {
		if !records.IsValidationError(err) {
			log.Errorf("%s: submit: %s", handler.spec.Name, err)
		}
		writeView(w, statusFor(err), c.View())
		return
	}

	writeView(w, okStatus, c.View())
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case records.IsValidationError(err), errors.Is(err, ErrNoForm):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeView(w http.ResponseWriter, status int, view any) {
	pkg.WriteJSON(w, status, view)
}

type DashboardHandler struct {
	stores Stores
	clock  Clock
}

func NewDashboardHandler(stores Stores, clock Clock) *DashboardHandler {
	return &DashboardHandler{
		stores: stores,
		clock:  clock,
	}
}

func (handler *DashboardHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/", handler.handleDashboard).Methods("GET").Name("dashboard")
	router.HandleFunc("/404", handleNotFoundPage).Methods("GET").Name("not-found")
}

func (handler *DashboardHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := NewDashboard(handler.stores, requestSession(r), handler.clock)
	unmount := d.Mount(r.Context())
	defer unmount()

	writeView(w, statusFor(d.LoadErr()), d.View())
}

type NotFoundView struct {
	Page    string `json:"page"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

func handleNotFoundPage(w http.ResponseWriter, _ *http.Request) {
	writeView(w, http.StatusNotFound, NotFoundView{
		Page:    "not_found",
		Title:   "Page not found",
		Message: "The page you are looking for does not exist.",
		Link:    "/",
	})
}

// SetupRoutes registers the dashboard, the not found page and every entity page.
func SetupRoutes(router *mux.Router, stores Stores, clock Clock, metricsManager *metrics.Manager) {
	NewDashboardHandler(stores, clock).SetupRoutes(router)
	NewHandler(WorkoutsPage(), stores.Workouts, clock, metricsManager).SetupRoutes(router)
	NewHandler(WeightPage(), stores.Weights, clock, metricsManager).SetupRoutes(router)
	NewHandler(WaterPage(), stores.Water, clock, metricsManager).SetupRoutes(router)
	NewHandler(SleepPage(), stores.Sleep, clock, metricsManager).SetupRoutes(router)
	NewHandler(GoalsPage(), stores.Goals, clock, metricsManager).SetupRoutes(router)
}
