// Package web serves the tablet signup flow over HTTP. Each tablet holds a
// cookie-keyed session that walks category, date, form, success; every
// response is the full flow state so the front end just renders what it is
// given.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nicetransit/operator-signup/internal/config"
	"github.com/nicetransit/operator-signup/pkg/core/model"
	"github.com/nicetransit/operator-signup/pkg/core/services"
	"github.com/nicetransit/operator-signup/pkg/core/window"
	"github.com/nicetransit/operator-signup/pkg/store"
)

// RosterSource serves the operator picker.
type RosterSource interface {
	Get(ctx context.Context) model.Roster
}

// Handler owns the signup flow endpoints.
type Handler struct {
	cfg       *config.Config
	loc       *time.Location
	store     store.SignupStore
	mirror    services.SignupMirror
	roster    RosterSource
	blackouts *window.Blackouts
	sessions  *Sessions
	logger    *zap.Logger

	now func() time.Time
}

// NewHandler wires the flow to its collaborators.
func NewHandler(
	cfg *config.Config,
	loc *time.Location,
	signupStore store.SignupStore,
	m services.SignupMirror,
	roster RosterSource,
	blackouts *window.Blackouts,
	logger *zap.Logger,
) *Handler {
	now := func() time.Time { return time.Now().In(loc) }
	return &Handler{
		cfg:       cfg,
		loc:       loc,
		store:     signupStore,
		mirror:    m,
		roster:    roster,
		blackouts: blackouts,
		sessions:  NewSessions(now),
		logger:    logger,
		now:       now,
	}
}

// Sessions exposes the session table so the server can run its GC.
func (h *Handler) Sessions() *Sessions {
	return h.sessions
}

// Routes assembles the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.withSession)
		r.Get("/state", h.state)
		r.Post("/category", h.selectCategory)
		r.Post("/date", h.selectDate)
		r.Post("/back", h.back)
		r.Post("/signup", h.submit)
		r.Get("/signups", h.listSignups)
	})

	return r
}

type categoryRequest struct {
	Category string `json:"category"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type signupRequest struct {
	Operator     string `json:"operator"`
	ShiftTime    string `json:"shiftTime"`
	WorkInterest string `json:"workInterest"`
	WorkChoice   string `json:"workChoice"`
	PhoneNumber  string `json:"phoneNumber"`
	Notes        string `json:"notes"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	h.renderState(w, r, sess)
}

func (h *Handler) selectCategory(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	category, err := model.ParseCategory(req.Category)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown signup category.")
		return
	}

	sess.Success = nil
	sess.Category = category
	sess.Date = ""
	h.renderState(w, r, sess)
}

func (h *Handler) selectDate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	var req dateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if sess.Category == "" {
		respondError(w, http.StatusConflict, "Pick a clipboard first.")
		return
	}

	date, err := window.ParseKey(req.Date, h.loc)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date.")
		return
	}

	now := h.now()
	if !window.Contains(now, h.cfg.WindowDays, date) || h.blackouts.Excludes(date) {
		respondError(w, http.StatusUnprocessableEntity, "That date is no longer open for signup.")
		return
	}

	sess.Success = nil
	sess.Date = window.Key(date)
	h.renderState(w, r, sess)
}

// back pops one step: the date first, then the category.
func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	sess.Success = nil
	switch {
	case sess.Date != "":
		sess.Date = ""
	case sess.Category != "":
		sess.Category = ""
	}
	h.renderState(w, r, sess)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if sess.Category == "" || sess.Date == "" {
		respondError(w, http.StatusConflict, "Pick a clipboard and date first.")
		return
	}

	// The 11am cutoff may have passed while the form sat open, so the date
	// is checked again here, not just when it was tapped.
	now := h.now()
	date, err := window.ParseKey(sess.Date, h.loc)
	if err != nil || !window.Contains(now, h.cfg.WindowDays, date) || h.blackouts.Excludes(date) {
		sess.Date = ""
		respondError(w, http.StatusUnprocessableEntity, "That date is no longer open for signup.")
		return
	}

	// An unknown or unselected picker entry submits an empty operator ID,
	// which validation turns into the usual per-field message.
	var operatorID, operatorName string
	if op, ok := h.roster.Get(r.Context()).Lookup(req.Operator); ok {
		operatorID = op.ID
		operatorName = op.FullName()
	}

	result, err := services.SubmitSignup(r.Context(), h.store, h.mirror, h.logger, services.SubmitRequest{
		Category:     sess.Category,
		Date:         sess.Date,
		OperatorID:   operatorID,
		OperatorName: operatorName,
		ShiftTime:    req.ShiftTime,
		WorkInterest: req.WorkInterest,
		WorkChoice:   req.WorkChoice,
		Phone:        req.PhoneNumber,
		Notes:        req.Notes,
	})
	if err != nil {
		var verrs services.ValidationErrors
		if errors.As(err, &verrs) {
			respondFieldErrors(w, verrs.ByField())
			return
		}
		h.logger.Error("Failed to save signup",
			zap.String("category", string(sess.Category)),
			zap.String("date", sess.Date),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Could not save your signup. Please try again or find a supervisor.")
		return
	}

	sess.Success = &Success{
		OperatorName:  result.Signup.OperatorName,
		CategoryLabel: sess.Category.TabName(),
		DateLabel:     window.DisplayLabel(now, date),
		ShownAt:       now,
	}
	h.renderState(w, r, sess)
}

func (h *Handler) listSignups(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Lock()
	defer sess.Unlock()

	if sess.Category == "" || sess.Date == "" {
		respondError(w, http.StatusConflict, "Pick a clipboard and date first.")
		return
	}

	signups, err := h.store.List(r.Context(), sess.Category, sess.Date)
	if err != nil {
		h.logger.Error("Failed to list signups",
			zap.String("category", string(sess.Category)),
			zap.String("date", sess.Date),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Could not load signups. Please try again.")
		return
	}

	table := services.BuildSignupTable(sess.Category, signups)
	respondJSON(w, http.StatusOK, TableView{Headers: table.Headers, Rows: table.Rows})
}

// renderState answers with the session's current screen. Callers hold the
// session lock.
func (h *Handler) renderState(w http.ResponseWriter, r *http.Request, sess *Session) {
	now := h.now()
	sess.expireSuccess(now)

	view, err := h.stateView(r.Context(), sess, now)
	if err != nil {
		h.logger.Error("Failed to render flow state", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Could not load signups. Please try again.")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) stateView(ctx context.Context, sess *Session, now time.Time) (StateView, error) {
	switch {
	case sess.Success != nil:
		remaining := successResetDelay - now.Sub(sess.Success.ShownAt)
		return StateView{
			Step: StepSuccess,
			Success: &SuccessView{
				OperatorName:   sess.Success.OperatorName,
				CategoryLabel:  sess.Success.CategoryLabel,
				DateLabel:      sess.Success.DateLabel,
				ResetInSeconds: int((remaining + time.Second - 1) / time.Second),
			},
		}, nil
	case sess.Category == "":
		return StateView{Step: StepCategories, Categories: CategoryTiles()}, nil
	case sess.Date == "":
		return StateView{Step: StepDates, Dates: DateButtons(now, h.cfg.WindowDays, h.blackouts)}, nil
	default:
		return h.formView(ctx, sess, now)
	}
}

func (h *Handler) formView(ctx context.Context, sess *Session, now time.Time) (StateView, error) {
	date, err := window.ParseKey(sess.Date, h.loc)
	if err != nil {
		return StateView{}, err
	}

	signups, err := h.store.List(ctx, sess.Category, sess.Date)
	if err != nil {
		return StateView{}, err
	}

	roster := h.roster.Get(ctx)
	table := services.BuildSignupTable(sess.Category, signups)

	return StateView{
		Step: StepForm,
		Form: &FormView{
			Category:      sess.Category,
			CategoryTitle: sess.Category.Title(),
			Date:          sess.Date,
			DateLabel:     window.DisplayLabel(now, date),
			Fields:        sess.Category.FormFields(),
			ShiftOptions:  formShiftOptions(sess.Category),
			Operators:     roster.DisplayList,
			Signups:       TableView{Headers: table.Headers, Rows: table.Rows},
		},
	}, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]map[string]string{"errors": fields})
}
