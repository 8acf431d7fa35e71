package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"helptoheat/internal/eligibility"
	"helptoheat/internal/frontdoor/metrics"
	q "helptoheat/internal/questionnaire"
	referralService "helptoheat/internal/referral/service"
	referralStore "helptoheat/internal/referral/store"
	sessionService "helptoheat/internal/session/service"
	sessionStore "helptoheat/internal/session/store"
	"helptoheat/internal/supplier/seed"
	supplierService "helptoheat/internal/supplier/service"
	supplierStore "helptoheat/internal/supplier/store"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/requestcontext"
)

const uprn = "100023336956"

type step struct {
	page q.Page
	data map[string]any
	next q.Page
}

func journeyTo(page q.Page) []step {
	steps := []step{
		{q.PageCountry, map[string]any{"country": q.CountryEngland}, q.PageSupplier},
		{q.PageSupplier, map[string]any{"supplier": q.SupplierBritishGas}, q.PageOwnProperty},
		{q.PageOwnProperty, map[string]any{"own_property": q.OwnPropertyOwner}, q.PageParkHome},
		{q.PageParkHome, map[string]any{"park_home": q.No}, q.PageAddress},
		{q.PageAddress, map[string]any{
			"building_name_or_number": "10",
			"postcode":                "SW1A 2AA",
			"address_choice":          q.AddressChoiceEPCAPIFail,
		}, q.PageAddressSelect},
		{q.PageAddressSelect, map[string]any{
			"uprn":                  uprn,
			"address":               "10 Downing Street, London, SW1A 2AA",
			"address_select_choice": q.AddressSelectChoiceSelectAddress,
			"epc_found":             q.No,
		}, q.PageCouncilTaxBand},
		{q.PageCouncilTaxBand, map[string]any{"council_tax_band": "B"}, q.PageNoEPC},
		{q.PageNoEPC, map[string]any{"confirm_no_epc": q.Yes}, q.PageBenefits},
		{q.PageBenefits, map[string]any{"benefits": q.Yes}, q.PagePropertyType},
		{q.PagePropertyType, map[string]any{"property_type": q.PropertyTypeHouse}, q.PagePropertySubtype},
		{q.PagePropertySubtype, map[string]any{"property_subtype": q.PropertySubtypeDetached}, q.PageNumberOfBedrooms},
		{q.PageNumberOfBedrooms, map[string]any{"number_of_bedrooms": q.BedroomsTwo}, q.PageWallType},
		{q.PageWallType, map[string]any{"wall_type": q.WallTypeCavity}, q.PageWallInsulation},
		{q.PageWallInsulation, map[string]any{"wall_insulation": q.WallInsulationNone}, q.PageLoft},
		{q.PageLoft, map[string]any{"loft": q.LoftNo}, q.PageSummary},
		{q.PageSummary, map[string]any{}, q.PageSchemes},
		{q.PageSchemes, map[string]any{}, q.PageContactDetails},
		{q.PageContactDetails, map[string]any{
			"first_name": "Ada",
			"last_name":  "Lovelace",
			"email":      "ada@example.com",
		}, q.PageConfirmAndSubmit},
		{q.PageConfirmAndSubmit, map[string]any{"permission": true, "acknowledge": true}, q.PageSuccess},
	}
	for i, st := range steps {
		if st.page == page {
			return steps[:i]
		}
	}
	return steps
}

type FrontdoorServiceSuite struct {
	suite.Suite
	ctx       context.Context
	suppliers *supplierService.Service
	sessions  *sessionService.Service
	metrics   *metrics.Metrics
	service   *Service
}

func TestFrontdoorServiceSuite(t *testing.T) {
	suite.Run(t, new(FrontdoorServiceSuite))
}

func (s *FrontdoorServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC))
	s.sessions = sessionService.New(sessionStore.NewInMemory())
	s.suppliers = supplierService.New(supplierStore.NewInMemory(), nil)
	entries, err := seed.Load("")
	s.Require().NoError(err)
	s.Require().NoError(s.suppliers.Seed(s.ctx, entries))

	referrals := referralService.New(referralStore.NewInMemory(), s.sessions, s.suppliers)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.service = New(s.sessions, referrals, s.suppliers, eligibility.NewService(nil), WithMetrics(s.metrics))
}

func (s *FrontdoorServiceSuite) walk(sessionID uuid.UUID, steps []step) {
	for _, st := range steps {
		sub, err := s.service.SubmitPage(s.ctx, sessionID, st.page, st.data, false)
		s.Require().NoError(err, "submitting %s", st.page)
		s.Require().Equal(st.next, sub.Next, "next page after %s", st.page)
	}
}

func (s *FrontdoorServiceSuite) TestStart() {
	sub := s.service.Start(s.ctx)
	s.NotEqual(uuid.Nil, sub.SessionID)
	s.Equal(q.PageCountry, sub.Next)
}

func (s *FrontdoorServiceSuite) TestCompleteJourneyCreatesReferral() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(""))

	view, err := s.service.GetPage(s.ctx, sessionID, q.PageSuccess, false)
	s.Require().NoError(err)
	s.Equal("GBIS0000001", view.Context.ReferralID)
	s.Equal(q.SupplierBritishGas, view.Context.Supplier)

	answers, err := s.sessions.GetSession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Equal("2024-07-15T09:30:00Z", answers.String(q.FieldReferralCreatedAt))
	s.Equal(q.SupplierBritishGas, answers.String(q.FieldUserSelectedSupplier))
	s.Equal(q.No, answers.String(q.FieldUPRNIsDuplicate))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("confirm-and-submit", "success")))
}

func (s *FrontdoorServiceSuite) TestSubmittedSessionIsClosed() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(""))

	_, err := s.service.GetPage(s.ctx, sessionID, q.PageCountry, false)
	s.True(dErrors.HasCode(err, dErrors.CodeGone))

	_, err = s.service.SubmitPage(s.ctx, sessionID, q.PageCountry, map[string]any{"country": q.CountryWales}, false)
	s.True(dErrors.HasCode(err, dErrors.CodeGone))
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.ClosedSessionHits))
}

func (s *FrontdoorServiceSuite) TestMissingAnswers() {
	sessionID := s.service.Start(s.ctx).SessionID

	_, err := s.service.SubmitPage(s.ctx, sessionID, q.PageCountry, map[string]any{}, false)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(map[string]string{"country": "Select where the property is located"}, dErrors.FieldErrors(err))
}

func (s *FrontdoorServiceSuite) TestContactDetailsNeedEmailOrPhone() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageContactDetails))

	_, err := s.service.SubmitPage(s.ctx, sessionID, q.PageContactDetails, map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	}, false)
	s.Require().Error(err)
	fields := dErrors.FieldErrors(err)
	s.Contains(fields, "email")
	s.Contains(fields, "contact_number")

	sub, err := s.service.SubmitPage(s.ctx, sessionID, q.PageContactDetails, map[string]any{
		"first_name":     "Ada",
		"last_name":      "Lovelace",
		"contact_number": "+44 20 7946 0000",
	}, false)
	s.Require().NoError(err)
	s.Equal(q.PageConfirmAndSubmit, sub.Next)
}

func (s *FrontdoorServiceSuite) TestUnknownPage() {
	sessionID := s.service.Start(s.ctx).SessionID

	_, err := s.service.GetPage(s.ctx, sessionID, q.Page("nope"), false)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.SubmitPage(s.ctx, sessionID, q.Page("nope"), nil, false)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *FrontdoorServiceSuite) TestGetPageReturnsSavedDataAndPrev() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageOwnProperty))

	view, err := s.service.GetPage(s.ctx, sessionID, q.PageSupplier, false)
	s.Require().NoError(err)
	s.Equal(q.PageCountry, view.Prev)
	s.Equal(q.SupplierBritishGas, view.Data["supplier"])

	view, err = s.service.GetPage(s.ctx, sessionID, q.PageCountry, false)
	s.Require().NoError(err)
	s.Equal(q.PageStart, view.Prev)

	view, err = s.service.GetPage(s.ctx, sessionID, q.PageLoft, false)
	s.Require().NoError(err)
	s.Equal(q.PageUnknown, view.Prev, "loft is not reachable yet")
	s.Empty(view.Data)
}

func (s *FrontdoorServiceSuite) TestChangeMode() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageSchemes))

	view, err := s.service.GetPage(s.ctx, sessionID, q.PageCouncilTaxBand, true)
	s.Require().NoError(err)
	s.Equal(q.PageSummary, view.Prev)

	sub, err := s.service.SubmitPage(s.ctx, sessionID, q.PageCouncilTaxBand, map[string]any{"council_tax_band": "C"}, true)
	s.Require().NoError(err)
	s.Equal(q.PageSummary, sub.Next)
	s.False(sub.Change)

	sub, err = s.service.SubmitPage(s.ctx, sessionID, q.PageParkHome, map[string]any{"park_home": q.Yes}, true)
	s.Require().NoError(err)
	s.Equal(q.PageParkHomeMainResidence, sub.Next, "a new branch continues the journey")
	s.True(sub.Change)

	_, err = s.service.GetPage(s.ctx, sessionID, q.PageAddressSelect, true)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *FrontdoorServiceSuite) TestDisabledSupplierClosesApplications() {
	supplier, err := s.suppliers.FindByName(s.ctx, q.SupplierBritishGas)
	s.Require().NoError(err)
	_, err = s.suppliers.SetDisabled(s.ctx, supplier.ID, true)
	s.Require().NoError(err)

	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageSupplier))
	sub, err := s.service.SubmitPage(s.ctx, sessionID, q.PageSupplier, map[string]any{"supplier": q.SupplierBritishGas}, false)
	s.Require().NoError(err)
	s.Equal(q.PageApplicationsClosed, sub.Next)

	view, err := s.service.GetPage(s.ctx, sessionID, q.PageApplicationsClosed, false)
	s.Require().NoError(err)
	s.Equal(q.SupplierBritishGas, view.Context.Supplier)

	answers, err := s.sessions.GetSession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Equal(string(q.PageApplicationsClosed), answers.String(q.FieldPageName))
}

func (s *FrontdoorServiceSuite) TestConvertedSupplierShownOnWarningPage() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageSupplier))
	sub, err := s.service.SubmitPage(s.ctx, sessionID, q.PageSupplier, map[string]any{"supplier": q.SupplierShell}, false)
	s.Require().NoError(err)
	s.Equal(q.PageShellWarning, sub.Next)

	view, err := s.service.GetPage(s.ctx, sessionID, q.PageShellWarning, false)
	s.Require().NoError(err)
	s.Equal(q.SupplierOctopus, view.Context.Supplier)
}

func (s *FrontdoorServiceSuite) TestSchemesPageRecordsSchemes() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageSchemes))

	view, err := s.service.GetPage(s.ctx, sessionID, q.PageSchemes, false)
	s.Require().NoError(err)
	s.Equal([]SchemeView{{Code: eligibility.GBIS, Name: "Great British Insulation Scheme"}}, view.Context.Schemes)

	answers, err := s.sessions.GetSession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Equal([]any{"GBIS", "ECO4"}, answers[string(q.FieldSchemes)])

	all, err := s.service.Eligibility(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *FrontdoorServiceSuite) TestDuplicateAddressIsDetected() {
	first := s.service.Start(s.ctx).SessionID
	s.walk(first, journeyTo(""))

	second := s.service.Start(s.ctx).SessionID
	steps := journeyTo(q.PageAddressSelect)
	s.walk(second, steps)

	sub, err := s.service.SubmitPage(s.ctx, second, q.PageAddressSelect, map[string]any{
		"uprn":                  uprn,
		"address_select_choice": q.AddressSelectChoiceSelectAddress,
		"epc_found":             q.No,
	}, false)
	s.Require().NoError(err)
	s.Equal(q.PageReferralAlreadySubmitted, sub.Next)

	answers, err := s.sessions.GetSession(s.ctx, second)
	s.Require().NoError(err)
	s.Equal(q.Yes, answers.String(q.FieldUPRNIsDuplicate))
	s.Equal(q.Yes, answers.String(q.FieldSubmittedToSameSupplier))

	view, err := s.service.GetPage(s.ctx, second, q.PageReferralAlreadySubmitted, false)
	s.Require().NoError(err)
	s.Require().NotNil(view.Context.Duplicate)
	s.True(view.Context.Duplicate.Found)
	s.Equal(q.SupplierBritishGas, view.Context.Duplicate.Supplier)
}

func (s *FrontdoorServiceSuite) TestParkHomeMainResidenceRecordsPropertyType() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, append(journeyTo(q.PageParkHome),
		step{q.PageParkHome, map[string]any{"park_home": q.Yes}, q.PageParkHomeMainResidence},
		step{q.PageParkHomeMainResidence, map[string]any{"park_home_main_residence": q.Yes}, q.PageAddress},
	))

	answers, err := s.sessions.GetSession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Equal(q.PropertyTypeParkHome, answers.String(q.FieldPropertyType))
	s.Equal(q.PropertySubtypeParkHome, answers.String(q.FieldPropertySubtype))

	other := s.service.Start(s.ctx).SessionID
	s.walk(other, append(journeyTo(q.PageParkHome),
		step{q.PageParkHome, map[string]any{"park_home": q.Yes}, q.PageParkHomeMainResidence},
		step{q.PageParkHomeMainResidence, map[string]any{"park_home_main_residence": q.No}, q.PageParkHomeApplicationClosed},
	))
	answers, err = s.sessions.GetSession(s.ctx, other)
	s.Require().NoError(err)
	s.False(answers.Has(q.FieldPropertyType))
}

func (s *FrontdoorServiceSuite) TestSummaryAndJourney() {
	sessionID := s.service.Start(s.ctx).SessionID
	s.walk(sessionID, journeyTo(q.PageAddress))

	lines, err := s.service.Summary(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(lines, 4)
	s.Equal(q.FieldCountry, lines[0].Field)

	journey, err := s.service.Journey(s.ctx, sessionID, q.PageAddress, "")
	s.Require().NoError(err)
	s.Equal([]q.Page{q.PageStart, q.PageCountry, q.PageSupplier, q.PageOwnProperty, q.PageParkHome, q.PageAddress}, journey)

	_, err = s.service.Journey(s.ctx, sessionID, q.PageLoft, "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *FrontdoorServiceSuite) TestStatelessRouting() {
	answers := q.Answers{"country": q.CountryNorthernIreland}

	next, err := s.service.NextPage(q.PageCountry, answers)
	s.Require().NoError(err)
	s.Equal(q.PageNorthernIreland, next)

	prev, err := s.service.PrevPage(q.PageNorthernIreland, answers)
	s.Require().NoError(err)
	s.Equal(q.PageCountry, prev)

	_, err = s.service.NextPage(q.PageSupplier, answers)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	_, err = s.service.PrevPage(q.Page("nope"), answers)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
