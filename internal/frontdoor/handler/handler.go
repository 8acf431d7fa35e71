package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	fmodels "helptoheat/internal/feedback/models"
	"helptoheat/internal/frontdoor/service"
	q "helptoheat/internal/questionnaire"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/httputil"
	"helptoheat/pkg/requestcontext"
)

// Service defines the questionnaire operations the handler exposes.
type Service interface {
	Start(ctx context.Context) service.Submission
	GetPage(ctx context.Context, sessionID uuid.UUID, page q.Page, change bool) (*service.PageView, error)
	SubmitPage(ctx context.Context, sessionID uuid.UUID, page q.Page, data map[string]any, change bool) (*service.Submission, error)
	Summary(ctx context.Context, sessionID uuid.UUID) ([]q.SummaryLine, error)
	Eligibility(ctx context.Context, sessionID uuid.UUID) ([]service.SchemeView, error)
	Journey(ctx context.Context, sessionID uuid.UUID, to, from q.Page) ([]q.Page, error)
	NextPage(page q.Page, answers q.Answers) (q.Page, error)
	PrevPage(page q.Page, answers q.Answers) (q.Page, error)
	Evaluate(ctx context.Context, answers q.Answers) []service.SchemeView
}

// FeedbackService stores survey feedback.
type FeedbackService interface {
	Save(ctx context.Context, sessionID *uuid.UUID, page string, raw map[string]string) (*fmodels.Feedback, error)
}

// Handler serves the citizen-facing questionnaire API.
type Handler struct {
	service  Service
	feedback FeedbackService
	logger   *slog.Logger
}

// New constructs a frontdoor handler.
func New(service Service, feedback FeedbackService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		feedback: feedback,
		logger:   logger,
	}
}

// Register mounts the frontdoor routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sessions", h.HandleStart)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/pages/{page}", h.HandleGetPage)
		r.Post("/pages/{page}", h.HandleSubmitPage)
		r.Get("/summary", h.HandleSummary)
		r.Get("/eligibility", h.HandleEligibility)
		r.Get("/journey", h.HandleJourney)
	})
	r.Post("/routing/next", h.HandleNextPage)
	r.Post("/routing/prev", h.HandlePrevPage)
	r.Post("/eligibility/evaluate", h.HandleEvaluate)
	r.Post("/feedback", h.HandleFeedback)
}

// HandleStart handles POST /sessions.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusCreated, h.service.Start(r.Context()))
}

// HandleGetPage handles GET /sessions/{sessionID}/pages/{page}.
func (h *Handler) HandleGetPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	page := q.Page(chi.URLParam(r, "page"))

	view, err := h.service.GetPage(ctx, sessionID, page, isChange(r))
	if err != nil {
		h.logFailure(ctx, "failed to get page", sessionID, page, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleSubmitPage handles POST /sessions/{sessionID}/pages/{page}.
func (h *Handler) HandleSubmitPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	page := q.Page(chi.URLParam(r, "page"))

	req, ok := httputil.DecodeAndPrepare[SubmitPageRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub, err := h.service.SubmitPage(ctx, sessionID, page, req.Data, isChange(r))
	if err != nil {
		h.logFailure(ctx, "failed to submit page", sessionID, page, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}

// HandleSummary handles GET /sessions/{sessionID}/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	lines, err := h.service.Summary(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if lines == nil {
		lines = []q.SummaryLine{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"summary": lines})
}

// HandleEligibility handles GET /sessions/{sessionID}/eligibility.
func (h *Handler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	schemes, err := h.service.Eligibility(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EligibilityResponse{Eligible: len(schemes) > 0, Schemes: schemes})
}

// HandleJourney handles GET /sessions/{sessionID}/journey?to=&from=.
func (h *Handler) HandleJourney(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	to := q.Page(r.URL.Query().Get("to"))
	if to == "" {
		httputil.WriteError(w, dErrors.Validation("to is required", map[string]string{"to": "Enter the page to route to"}))
		return
	}
	from := q.Page(r.URL.Query().Get("from"))

	journey, err := h.service.Journey(r.Context(), sessionID, to, from)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"journey": journey})
}

// HandleNextPage handles POST /routing/next.
func (h *Handler) HandleNextPage(w http.ResponseWriter, r *http.Request) {
	h.route(w, r, h.service.NextPage)
}

// HandlePrevPage handles POST /routing/prev.
func (h *Handler) HandlePrevPage(w http.ResponseWriter, r *http.Request) {
	h.route(w, r, h.service.PrevPage)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request, fn func(q.Page, q.Answers) (q.Page, error)) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RouteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	page, err := fn(req.parsedPage, q.Answers(req.Answers))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RouteResponse{Page: page})
}

// HandleEvaluate handles POST /eligibility/evaluate.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	schemes := h.service.Evaluate(ctx, q.Answers(req.Answers))
	httputil.WriteJSON(w, http.StatusOK, EligibilityResponse{Eligible: len(schemes) > 0, Schemes: schemes})
}

// HandleFeedback handles POST /feedback.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[FeedbackRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	f, err := h.feedback.Save(ctx, req.parsedSessionID, req.PageName, req.Answers)
	if err != nil {
		h.logger.InfoContext(ctx, "feedback rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FeedbackResponse{ID: f.ID})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid session id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, sessionID uuid.UUID, page q.Page, err error) {
	level := slog.LevelInfo
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID.String(),
		"page", string(page),
		"error", err,
	)
}

func isChange(r *http.Request) bool {
	change, _ := strconv.ParseBool(r.URL.Query().Get("change"))
	return change
}
