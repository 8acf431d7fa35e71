package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"helptoheat/internal/eligibility"
	"helptoheat/internal/frontdoor/metrics"
	q "helptoheat/internal/questionnaire"
	rmodels "helptoheat/internal/referral/models"
	"helptoheat/internal/routing"
	smodels "helptoheat/internal/session/models"
	"helptoheat/internal/supplier/converter"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/requestcontext"
)

type SessionService interface {
	NewSessionID() uuid.UUID
	SaveAnswer(ctx context.Context, sessionID uuid.UUID, page q.Page, data map[string]any) (*smodels.Answer, error)
	GetAnswer(ctx context.Context, sessionID uuid.UUID, page q.Page) (map[string]any, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (q.Answers, error)
}

type ReferralService interface {
	Create(ctx context.Context, sessionID uuid.UUID) (*rmodels.Referral, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*rmodels.Referral, error)
	CheckDuplicate(ctx context.Context, answers q.Answers) (rmodels.Duplicate, error)
}

type SupplierService interface {
	IsDisabled(ctx context.Context, name string) (bool, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, answers q.Answers) []eligibility.Scheme
}

// supplierPages show the supplier the referral will go to.
var supplierPages = map[q.Page]bool{
	q.PageBulbWarning:             true,
	q.PageShellWarning:            true,
	q.PageUtilityWarehouseWarning: true,
	q.PageApplicationsClosed:      true,
	q.PageContactDetails:          true,
	q.PageConfirmAndSubmit:        true,
}

// closingPages can route to applications-closed when the supplier stops
// taking referrals.
var closingPages = map[q.Page]bool{
	q.PageSupplier:            true,
	q.PageAlternativeSupplier: true,
	q.PageConfirmAndSubmit:    true,
}

// endPages have no form; visiting one is recorded in the session.
var endPages = map[q.Page]bool{
	q.PageNorthernIreland:           true,
	q.PageApplicationsClosed:        true,
	q.PageParkHomeApplicationClosed: true,
	q.PageEPCIneligible:             true,
	q.PageIneligible:                true,
}

// SchemeView is a scheme with its display name.
type SchemeView struct {
	Code eligibility.Scheme `json:"code"`
	Name string             `json:"name"`
}

// PageContext is the extra information a page shows beside its form.
type PageContext struct {
	Supplier   string             `json:"supplier,omitempty"`
	Schemes    []SchemeView       `json:"schemes,omitempty"`
	Summary    []q.SummaryLine    `json:"summary,omitempty"`
	Duplicate  *rmodels.Duplicate `json:"duplicate,omitempty"`
	ReferralID string             `json:"referral_id,omitempty"`
}

// PageView is everything needed to render a page.
type PageView struct {
	SessionID uuid.UUID      `json:"session_id"`
	Page      q.Page         `json:"page"`
	Prev      q.Page         `json:"prev_page"`
	Change    bool           `json:"change,omitempty"`
	Data      map[string]any `json:"data"`
	Context   PageContext    `json:"context"`
}

// Submission is the result of an accepted page submission.
type Submission struct {
	SessionID uuid.UUID `json:"session_id"`
	Page      q.Page    `json:"page"`
	Next      q.Page    `json:"next_page"`
	Change    bool      `json:"change,omitempty"`
}

// Service drives a citizen through the questionnaire.
type Service struct {
	sessions  SessionService
	referrals ReferralService
	suppliers SupplierService
	evaluator Evaluator
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(sessions SessionService, referrals ReferralService, suppliers SupplierService, evaluator Evaluator, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		referrals: referrals,
		suppliers: suppliers,
		evaluator: evaluator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a new session. The first question is the country page.
func (s *Service) Start(ctx context.Context) Submission {
	id := s.sessions.NewSessionID()
	s.logger.InfoContext(ctx, "session started",
		"session_id", id.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return Submission{SessionID: id, Page: q.PageStart, Next: q.PageCountry}
}

// GetPage returns the saved answers for page together with the previous
// page and page context. In change mode the previous page is the page the
// change returns to.
func (s *Service) GetPage(ctx context.Context, sessionID uuid.UUID, page q.Page, change bool) (*PageView, error) {
	if !page.IsKnown() {
		return nil, dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	answers, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if page != q.PageSuccess {
		if err := s.ensureOpen(answers); err != nil {
			return nil, err
		}
	}

	prev := routing.PrevPage(page, answers)
	if change {
		target, ok := q.ChangeReturnPage(page)
		if !ok {
			return nil, dErrors.New(dErrors.CodeBadRequest, "page cannot be changed")
		}
		prev = target
	}

	data, err := s.sessions.GetAnswer(ctx, sessionID, page)
	if err != nil {
		return nil, err
	}
	if endPages[page] {
		if _, err := s.sessions.SaveAnswer(ctx, sessionID, page, map[string]any{string(q.FieldPageName): string(page)}); err != nil {
			return nil, err
		}
	}

	pageContext, err := s.pageContext(ctx, sessionID, page, answers)
	if err != nil {
		return nil, err
	}
	return &PageView{
		SessionID: sessionID,
		Page:      page,
		Prev:      prev,
		Change:    change,
		Data:      data,
		Context:   pageContext,
	}, nil
}

func (s *Service) pageContext(ctx context.Context, sessionID uuid.UUID, page q.Page, answers q.Answers) (PageContext, error) {
	var pc PageContext
	if supplierPages[page] {
		pc.Supplier = converter.GeneralPage(answers)
	}

	switch page {
	case q.PageSchemes:
		schemes := s.evaluator.Evaluate(ctx, answers)
		saved := map[string]any{string(q.FieldSchemes): eligibility.Strings(schemes)}
		if _, err := s.sessions.SaveAnswer(ctx, sessionID, q.PageSchemes, saved); err != nil {
			return pc, err
		}
		for _, scheme := range schemes {
			if scheme == eligibility.ECO4 {
				continue
			}
			pc.Schemes = append(pc.Schemes, SchemeView{Code: scheme, Name: scheme.DisplayName()})
		}
	case q.PageSummary, q.PageConfirmAndSubmit:
		pc.Summary = q.Summary(answers)
	case q.PageReferralAlreadySubmitted:
		dup, err := s.referrals.CheckDuplicate(ctx, answers)
		if err != nil {
			return pc, err
		}
		pc.Duplicate = &dup
		pc.Supplier = converter.GeneralPage(answers)
	case q.PageSuccess:
		referral, err := s.referrals.FindBySession(ctx, sessionID)
		if err != nil {
			return pc, err
		}
		pc.ReferralID = referral.FormattedID()
		pc.Supplier = converter.SuccessPage(answers, referral.SupplierName)
	}
	return pc, nil
}

// SubmitPage checks and saves the answers for page and returns the next
// page. In change mode the user goes back to the change return page once
// the journey to it is complete again.
func (s *Service) SubmitPage(ctx context.Context, sessionID uuid.UUID, page q.Page, data map[string]any, change bool) (*Submission, error) {
	if !page.IsKnown() {
		return nil, dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	answers, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(answers); err != nil {
		return nil, err
	}
	if missing := q.MissingFields(page, data); len(missing) > 0 {
		s.metrics.IncrementMissingAnswers(string(page))
		return nil, dErrors.Validation("missing answers", missing)
	}

	data, err = s.enrich(ctx, page, answers, data)
	if err != nil {
		return nil, err
	}
	saved, err := s.sessions.SaveAnswer(ctx, sessionID, page, data)
	if err != nil {
		return nil, err
	}
	merged := answers.Merge(saved.Data)

	next, err := s.next(ctx, sessionID, page, merged, change)
	if err != nil {
		return nil, err
	}
	if next == q.PageUnknown {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "could not determine next page")
	}

	s.metrics.IncrementSubmission(string(page), string(next))
	return &Submission{
		SessionID: sessionID,
		Page:      page,
		Next:      next,
		Change:    change && next != q.PageSummary && next != q.PageConfirmAndSubmit,
	}, nil
}

// enrich adds the answers a page derives from what was submitted.
func (s *Service) enrich(ctx context.Context, page q.Page, answers q.Answers, data map[string]any) (map[string]any, error) {
	out := q.Answers(data).Clone()
	switch page {
	case q.PageSupplier:
		out[string(q.FieldUserSelectedSupplier)] = out[string(q.FieldSupplier)]
	case q.PageParkHomeMainResidence:
		if out.Is(q.FieldParkHomeMainResidence, q.Yes) {
			out[string(q.FieldPropertyType)] = q.PropertyTypeParkHome
			out[string(q.FieldPropertySubtype)] = q.PropertySubtypeParkHome
		}
	case q.PageEPCSelect, q.PageAddressSelect:
		if !out.Has(q.FieldUPRN) {
			return out, nil
		}
		dup, err := s.referrals.CheckDuplicate(ctx, answers.Merge(out))
		if err != nil {
			return nil, err
		}
		out[string(q.FieldUPRNIsDuplicate)] = yesNo(dup.Found)
		if dup.Found {
			out[string(q.FieldSubmittedToSameSupplier)] = yesNo(dup.SameSupplier)
		} else {
			delete(out, string(q.FieldSubmittedToSameSupplier))
		}
	}
	return out, nil
}

func (s *Service) next(ctx context.Context, sessionID uuid.UUID, page q.Page, merged q.Answers, change bool) (q.Page, error) {
	if closingPages[page] {
		disabled, err := s.suppliers.IsDisabled(ctx, converter.GeneralPage(merged))
		if err != nil {
			return q.PageUnknown, err
		}
		if disabled {
			return q.PageApplicationsClosed, nil
		}
	}

	if page == q.PageConfirmAndSubmit {
		if err := s.submitReferral(ctx, sessionID); err != nil {
			return q.PageUnknown, err
		}
		return q.PageSuccess, nil
	}

	if change {
		if target, ok := q.ChangeReturnPage(page); ok && routing.IsReachable(merged, target) {
			return target, nil
		}
	}
	return routing.NextPage(page, merged), nil
}

func (s *Service) submitReferral(ctx context.Context, sessionID uuid.UUID) error {
	referral, err := s.referrals.Create(ctx, sessionID)
	if err != nil {
		return err
	}
	createdAt := map[string]any{
		string(q.FieldReferralCreatedAt): requestcontext.Now(ctx).UTC().Format(time.RFC3339),
	}
	if _, err := s.sessions.SaveAnswer(ctx, sessionID, q.PageConfirmAndSubmit, createdAt); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "session submitted",
		"session_id", sessionID.String(),
		"referral_id", referral.FormattedID(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) ensureOpen(answers q.Answers) error {
	if answers.Has(q.FieldReferralCreatedAt) {
		s.metrics.IncrementClosedSession()
		return dErrors.New(dErrors.CodeGone, "a referral has already been submitted for this session")
	}
	return nil
}

// Summary lists the household answers given so far.
func (s *Service) Summary(ctx context.Context, sessionID uuid.UUID) ([]q.SummaryLine, error) {
	answers, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return q.Summary(answers), nil
}

// Eligibility evaluates the session's answers.
func (s *Service) Eligibility(ctx context.Context, sessionID uuid.UUID) ([]SchemeView, error) {
	answers, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(ctx, answers), nil
}

// Journey lists the pages from `from` to `to` under the session's answers.
func (s *Service) Journey(ctx context.Context, sessionID uuid.UUID, to, from q.Page) ([]q.Page, error) {
	if !to.IsKnown() || (from != "" && !from.IsKnown()) {
		return nil, dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	answers, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	journey, err := routing.CalculateJourney(answers, to, from)
	if err != nil {
		if errors.Is(err, routing.ErrCouldNotCalculateJourney) {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "page is not reachable with the answers given")
		}
		return nil, err
	}
	return journey, nil
}

// NextPage routes forwards from page without a session.
func (s *Service) NextPage(page q.Page, answers q.Answers) (q.Page, error) {
	if !page.IsKnown() {
		return q.PageUnknown, dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	next := routing.NextPage(page, answers)
	if next == q.PageUnknown {
		return next, dErrors.New(dErrors.CodeInvalidInput, "could not determine next page")
	}
	return next, nil
}

// PrevPage routes backwards from page without a session.
func (s *Service) PrevPage(page q.Page, answers q.Answers) (q.Page, error) {
	if !page.IsKnown() {
		return q.PageUnknown, dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	prev := routing.PrevPage(page, answers)
	if prev == q.PageUnknown {
		return prev, dErrors.New(dErrors.CodeInvalidInput, "page is not reachable with the answers given")
	}
	return prev, nil
}

// Evaluate returns every scheme the answers qualify for.
func (s *Service) Evaluate(ctx context.Context, answers q.Answers) []SchemeView {
	schemes := s.evaluator.Evaluate(ctx, answers)
	views := make([]SchemeView, 0, len(schemes))
	for _, scheme := range schemes {
		views = append(views, SchemeView{Code: scheme, Name: scheme.DisplayName()})
	}
	return views
}

func yesNo(b bool) string {
	if b {
		return q.Yes
	}
	return q.No
}
