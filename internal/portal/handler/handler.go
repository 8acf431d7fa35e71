package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"helptoheat/internal/portal/models"
	portalService "helptoheat/internal/portal/service"
	referralModels "helptoheat/internal/referral/models"
	referralService "helptoheat/internal/referral/service"
	supplierModels "helptoheat/internal/supplier/models"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/httputil"
	"helptoheat/pkg/requestcontext"
)

// HeaderPortalUser names the portal user acting on downloads.
const HeaderPortalUser = "X-Portal-User"

type SupplierService interface {
	ListForPortal(ctx context.Context) ([]*supplierModels.Supplier, error)
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*supplierModels.Supplier, error)
}

type UserService interface {
	CreateUser(ctx context.Context, req portalService.CreateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, supplierID *uuid.UUID) ([]*models.User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
}

type ReferralService interface {
	UnreadCount(ctx context.Context, supplierID uuid.UUID) (int, error)
	CreateDownload(ctx context.Context, supplierID uuid.UUID, downloadedBy string) (*referralService.Batch, error)
	ListDownloads(ctx context.Context, supplierID uuid.UUID) ([]*referralModels.Download, error)
	GetDownload(ctx context.Context, id uuid.UUID, downloadedBy string) (*referralService.Batch, error)
	ListRange(ctx context.Context, in referralService.RangeInput, withPII bool) (*referralService.Batch, error)
}

type FeedbackService interface {
	Rows(ctx context.Context) ([]map[string]string, error)
}

// Handler serves the supplier portal API. Mount it behind the admin token
// middleware.
type Handler struct {
	suppliers SupplierService
	users     UserService
	referrals ReferralService
	feedback  FeedbackService
	logger    *slog.Logger
}

func New(suppliers SupplierService, users UserService, referrals ReferralService, feedback FeedbackService, logger *slog.Logger) *Handler {
	return &Handler{
		suppliers: suppliers,
		users:     users,
		referrals: referrals,
		feedback:  feedback,
		logger:    logger,
	}
}

// Register mounts the portal routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/portal/suppliers", h.HandleListSuppliers)
	r.Route("/portal/suppliers/{supplierID}", func(r chi.Router) {
		r.Put("/disabled", h.HandleSetSupplierDisabled)
		r.Get("/users", h.HandleListSupplierUsers)
		r.Get("/referrals/unread", h.HandleUnreadCount)
		r.Post("/downloads", h.HandleCreateDownload)
		r.Get("/downloads", h.HandleListDownloads)
	})
	r.Get("/portal/users", h.HandleListServiceManagers)
	r.Post("/portal/users", h.HandleCreateUser)
	r.Put("/portal/users/{userID}/role", h.HandleChangeRole)
	r.Get("/portal/downloads/{downloadID}", h.HandleGetDownload)
	r.Get("/portal/referrals", h.HandleListRange)
	r.Get("/portal/feedback", h.HandleFeedback)
}

// HandleListSuppliers handles GET /portal/suppliers.
func (h *Handler) HandleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.ListForPortal(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list suppliers", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

// HandleSetSupplierDisabled handles PUT /portal/suppliers/{supplierID}/disabled.
func (h *Handler) HandleSetSupplierDisabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	supplierID, ok := pathID(w, r, "supplierID")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetDisabledRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	supplier, err := h.suppliers.SetDisabled(ctx, supplierID, *req.Disabled)
	if err != nil {
		h.fail(w, r, "failed to update supplier", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, supplier)
}

// HandleListSupplierUsers handles GET /portal/suppliers/{supplierID}/users.
func (h *Handler) HandleListSupplierUsers(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(w, r, "supplierID")
	if !ok {
		return
	}
	h.listUsers(w, r, &supplierID)
}

// HandleListServiceManagers handles GET /portal/users.
func (h *Handler) HandleListServiceManagers(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, nil)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, supplierID *uuid.UUID) {
	users, err := h.users.ListUsers(r.Context(), supplierID)
	if err != nil {
		h.fail(w, r, "failed to list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// HandleCreateUser handles POST /portal/users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	user, err := h.users.CreateUser(ctx, req.toService())
	if err != nil {
		h.fail(w, r, "failed to create user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

// HandleChangeRole handles PUT /portal/users/{userID}/role.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChangeRoleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	user, err := h.users.ChangeRole(ctx, userID, req.Role)
	if err != nil {
		h.fail(w, r, "failed to change role", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// HandleUnreadCount handles GET /portal/suppliers/{supplierID}/referrals/unread.
func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(w, r, "supplierID")
	if !ok {
		return
	}
	n, err := h.referrals.UnreadCount(r.Context(), supplierID)
	if err != nil {
		h.fail(w, r, "failed to count referrals", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"unread": n})
}

// HandleCreateDownload handles POST /portal/suppliers/{supplierID}/downloads.
func (h *Handler) HandleCreateDownload(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(w, r, "supplierID")
	if !ok {
		return
	}
	batch, err := h.referrals.CreateDownload(r.Context(), supplierID, r.Header.Get(HeaderPortalUser))
	if err != nil {
		h.fail(w, r, "failed to create download", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, batch)
}

// HandleListDownloads handles GET /portal/suppliers/{supplierID}/downloads.
func (h *Handler) HandleListDownloads(w http.ResponseWriter, r *http.Request) {
	supplierID, ok := pathID(w, r, "supplierID")
	if !ok {
		return
	}
	downloads, err := h.referrals.ListDownloads(r.Context(), supplierID)
	if err != nil {
		h.fail(w, r, "failed to list downloads", err)
		return
	}
	if downloads == nil {
		downloads = []*referralModels.Download{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"downloads": downloads})
}

// HandleGetDownload handles GET /portal/downloads/{downloadID}.
func (h *Handler) HandleGetDownload(w http.ResponseWriter, r *http.Request) {
	downloadID, ok := pathID(w, r, "downloadID")
	if !ok {
		return
	}
	batch, err := h.referrals.GetDownload(r.Context(), downloadID, r.Header.Get(HeaderPortalUser))
	if err != nil {
		h.fail(w, r, "failed to fetch download", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, batch)
}

// HandleListRange handles GET /portal/referrals. The date parts are query
// parameters named like the form fields, e.g. from-year.
func (h *Handler) HandleListRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	in := referralService.RangeInput{
		FromYear:  query.Get("from-year"),
		FromMonth: query.Get("from-month"),
		FromDay:   query.Get("from-day"),
		ToYear:    query.Get("to-year"),
		ToMonth:   query.Get("to-month"),
		ToDay:     query.Get("to-day"),
	}
	withPII := true
	if raw := query.Get("pii"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Validation("invalid pii flag", map[string]string{"pii": "Must be true or false"}))
			return
		}
		withPII = parsed
	}

	batch, err := h.referrals.ListRange(r.Context(), in, withPII)
	if err != nil {
		h.fail(w, r, "failed to list referrals", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, batch)
}

// HandleFeedback handles GET /portal/feedback.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	rows, err := h.feedback.Rows(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list feedback", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}
