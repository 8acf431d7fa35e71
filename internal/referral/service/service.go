package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"helptoheat/internal/audit"
	"helptoheat/internal/eligibility"
	q "helptoheat/internal/questionnaire"
	"helptoheat/internal/referral/metrics"
	"helptoheat/internal/referral/models"
	"helptoheat/internal/supplier/converter"
	supplierModels "helptoheat/internal/supplier/models"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/sentinel"
	"helptoheat/pkg/requestcontext"
)

const tracerName = "helptoheat/referral"

// DefaultDuplicateWindow is how far back an earlier referral for the same
// property counts as a duplicate.
const DefaultDuplicateWindow = 183 * 24 * time.Hour

type Store interface {
	Create(ctx context.Context, referral *models.Referral) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*models.Referral, error)
	MostRecentByUPRN(ctx context.Context, uprn string, since time.Time) (*models.Referral, error)
	CountUnread(ctx context.Context, supplierID uuid.UUID) (int, error)
	CreateDownload(ctx context.Context, download *models.Download) ([]*models.Referral, error)
	FindDownload(ctx context.Context, id uuid.UUID) (*models.Download, error)
	ListDownloads(ctx context.Context, supplierID uuid.UUID) ([]*models.Download, error)
	ListByDownload(ctx context.Context, downloadID uuid.UUID) ([]*models.Referral, error)
	TouchDownload(ctx context.Context, id uuid.UUID, by string, at time.Time) error
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Referral, error)
}

type SessionReader interface {
	GetSession(ctx context.Context, sessionID uuid.UUID) (q.Answers, error)
}

type SupplierFinder interface {
	FindByName(ctx context.Context, name string) (*supplierModels.Supplier, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LeadPublisher forwards created referrals to downstream consumers.
type LeadPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Service creates referrals and serves them to the supplier portal.
type Service struct {
	store           Store
	sessions        SessionReader
	suppliers       SupplierFinder
	logger          *slog.Logger
	auditPublisher  AuditPublisher
	leads           LeadPublisher
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	duplicateWindow time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithLeadPublisher(publisher LeadPublisher) Option {
	return func(s *Service) {
		s.leads = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithDuplicateWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.duplicateWindow = d
		}
	}
}

func New(store Store, sessions SessionReader, suppliers SupplierFinder, opts ...Option) *Service {
	s := &Service{
		store:           store,
		sessions:        sessions,
		suppliers:       suppliers,
		logger:          slog.Default(),
		tracer:          otel.Tracer(tracerName),
		duplicateWindow: DefaultDuplicateWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lead is the record published for each new referral.
type Lead struct {
	ReferralID string    `json:"referral_id"`
	SessionID  string    `json:"session_id"`
	Supplier   string    `json:"supplier"`
	Schemes    []string  `json:"schemes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create turns the session into a referral for the converted supplier.
// A session can be referred once; later attempts return a conflict.
func (s *Service) Create(ctx context.Context, sessionID uuid.UUID) (*models.Referral, error) {
	ctx, span := s.tracer.Start(ctx, "referral.Create",
		trace.WithAttributes(attribute.String("session.id", sessionID.String())))
	defer span.End()

	referral, err := s.create(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("referral.id", referral.ReferralID),
		attribute.String("referral.supplier", referral.SupplierName),
	)
	return referral, nil
}

func (s *Service) create(ctx context.Context, sessionID uuid.UUID) (*models.Referral, error) {
	answers, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data := converter.ReplaceInSessionData(answers)
	supplierName := data.String(q.FieldSupplier)
	if supplierName == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session has no supplier")
	}
	supplier, err := s.suppliers.FindByName(ctx, supplierName)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unknown supplier")
		}
		return nil, err
	}
	if supplier.IsDisabled {
		return nil, dErrors.New(dErrors.CodeForbidden, "applications are closed for this supplier")
	}

	now := requestcontext.Now(ctx)
	referral := &models.Referral{
		ID:           uuid.New(),
		SessionID:    sessionID,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Data:         data,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if err := s.store.Create(ctx, referral); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "referral already exists for session")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create referral")
	}

	s.metrics.IncrementCreated(supplier.Name)
	s.logger.InfoContext(ctx, "referral created",
		"referral_id", referral.FormattedID(),
		"supplier", supplier.Name,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{
		Name:      audit.EventReferralCreated,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"id":          referral.ID.String(),
			"referral_id": referral.FormattedID(),
			"supplier":    supplier.Name,
		},
	})
	s.publish(ctx, referral, answers)
	return referral, nil
}

func (s *Service) publish(ctx context.Context, referral *models.Referral, answers q.Answers) {
	if s.leads == nil {
		return
	}
	lead := Lead{
		ReferralID: referral.FormattedID(),
		SessionID:  referral.SessionID.String(),
		Supplier:   referral.SupplierName,
		Schemes:    eligibility.Strings(eligibility.Calculate(answers)),
		CreatedAt:  referral.CreatedAt,
	}
	if err := s.leads.PublishJSON(ctx, referral.SupplierID.String(), lead); err != nil {
		s.metrics.IncrementPublishFailures()
		s.logger.ErrorContext(ctx, "failed to publish referral",
			"referral_id", lead.ReferralID,
			"error", err,
		)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "event", event.Name, "error", err)
	}
}

// FindBySession returns the session's referral.
func (s *Service) FindBySession(ctx context.Context, sessionID uuid.UUID) (*models.Referral, error) {
	referral, err := s.store.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "referral not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find referral")
	}
	return referral, nil
}

// CheckDuplicate looks for the most recent referral for the same uprn
// inside the duplicate window. Answers without a uprn never match.
func (s *Service) CheckDuplicate(ctx context.Context, answers q.Answers) (models.Duplicate, error) {
	uprn := answers.String(q.FieldUPRN)
	if uprn == "" {
		return models.Duplicate{}, nil
	}
	since := requestcontext.Now(ctx).Add(-s.duplicateWindow)
	previous, err := s.store.MostRecentByUPRN(ctx, uprn, since)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementDuplicateCheck("none")
			return models.Duplicate{}, nil
		}
		return models.Duplicate{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check duplicate referral")
	}

	dup := models.Duplicate{
		Found:        true,
		SameSupplier: previous.SupplierName == converter.SuccessPage(answers, ""),
		Supplier:     previous.SupplierName,
		CreatedAt:    previous.CreatedAt,
	}
	if dup.SameSupplier {
		s.metrics.IncrementDuplicateCheck("same_supplier")
	} else {
		s.metrics.IncrementDuplicateCheck("other_supplier")
	}
	return dup, nil
}

// UnreadCount is the number of referrals the supplier has not downloaded.
func (s *Service) UnreadCount(ctx context.Context, supplierID uuid.UUID) (int, error) {
	n, err := s.store.CountUnread(ctx, supplierID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count referrals")
	}
	return n, nil
}

// Batch is a set of export rows.
type Batch struct {
	Download *models.Download `json:"download,omitempty"`
	Columns  []string         `json:"columns"`
	Rows     []Row            `json:"rows"`
}

func newBatch(download *models.Download, referrals []*models.Referral, withPII bool) *Batch {
	rows := make([]Row, 0, len(referrals))
	for _, r := range referrals {
		rows = append(rows, BuildRow(r, withPII))
	}
	return &Batch{Download: download, Columns: ColumnsFor(withPII), Rows: rows}
}

// CreateDownload moves every unread referral of the supplier into a new
// download batch and returns its rows.
func (s *Service) CreateDownload(ctx context.Context, supplierID uuid.UUID, downloadedBy string) (*Batch, error) {
	now := requestcontext.Now(ctx)
	download := &models.Download{
		ID:               uuid.New(),
		SupplierID:       supplierID,
		FileName:         models.DownloadFileName(now.In(London)),
		LastDownloadedBy: downloadedBy,
		CreatedAt:        now,
		ModifiedAt:       now,
	}
	referrals, err := s.store.CreateDownload(ctx, download)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create referral download")
	}
	s.metrics.IncrementDownloads()
	s.logger.InfoContext(ctx, "referral download created",
		"download_id", download.ID.String(),
		"supplier_id", supplierID.String(),
		"referrals", len(referrals),
	)
	return newBatch(download, referrals, true), nil
}

func (s *Service) ListDownloads(ctx context.Context, supplierID uuid.UUID) ([]*models.Download, error) {
	downloads, err := s.store.ListDownloads(ctx, supplierID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list referral downloads")
	}
	return downloads, nil
}

// GetDownload re-exports an earlier batch and records who fetched it.
func (s *Service) GetDownload(ctx context.Context, id uuid.UUID, downloadedBy string) (*Batch, error) {
	if err := s.store.TouchDownload(ctx, id, downloadedBy, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "referral download not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update referral download")
	}
	download, err := s.store.FindDownload(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load referral download")
	}
	referrals, err := s.store.ListByDownload(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list referrals")
	}
	return newBatch(download, referrals, true), nil
}

// ListRange exports every referral submitted between the two dates,
// inclusive, in London time.
func (s *Service) ListRange(ctx context.Context, in RangeInput, withPII bool) (*Batch, error) {
	from, to, err := ParseDateRange(in, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	referrals, err := s.store.ListCreatedBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list referrals")
	}
	return newBatch(nil, referrals, withPII), nil
}
