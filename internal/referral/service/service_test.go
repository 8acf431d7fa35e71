package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"helptoheat/internal/audit"
	"helptoheat/internal/referral/metrics"
	"helptoheat/internal/referral/store"
	sessionService "helptoheat/internal/session/service"
	sessionStore "helptoheat/internal/session/store"
	"helptoheat/internal/supplier/seed"
	supplierService "helptoheat/internal/supplier/service"
	supplierStore "helptoheat/internal/supplier/store"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/requestcontext"
)

type recordingLeads struct {
	mu    sync.Mutex
	leads []Lead
	err   error
}

func (r *recordingLeads) PublishJSON(_ context.Context, _ string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.leads = append(r.leads, v.(Lead))
	return nil
}

type ReferralServiceSuite struct {
	suite.Suite
	now       time.Time
	sessions  *sessionService.Service
	suppliers *supplierService.Service
	store     *store.InMemory
	events    *audit.InMemoryStore
	leads     *recordingLeads
	metrics   *metrics.Metrics
	service   *Service
}

func TestReferralServiceSuite(t *testing.T) {
	suite.Run(t, new(ReferralServiceSuite))
}

func (s *ReferralServiceSuite) SetupTest() {
	s.now = time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)
	s.events = audit.NewInMemoryStore()
	publisher := audit.NewPublisher(s.events)
	s.sessions = sessionService.New(sessionStore.NewInMemory(), sessionService.WithAuditPublisher(publisher))
	s.suppliers = supplierService.New(supplierStore.NewInMemory(), nil)
	entries, err := seed.Load("")
	s.Require().NoError(err)
	s.Require().NoError(s.suppliers.Seed(context.Background(), entries))

	s.store = store.NewInMemory()
	s.leads = &recordingLeads{}
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.service = New(s.store, s.sessions, s.suppliers,
		WithAuditPublisher(publisher),
		WithLeadPublisher(s.leads),
		WithMetrics(s.metrics),
	)
}

func (s *ReferralServiceSuite) ctxAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *ReferralServiceSuite) newSession(at time.Time, data map[string]any) uuid.UUID {
	session := s.sessions.NewSessionID()
	_, err := s.sessions.SaveAnswer(s.ctxAt(at), session, "country", data)
	s.Require().NoError(err)
	return session
}

func eligibleAnswers(supplier string) map[string]any {
	return map[string]any{
		"country":          "England",
		"supplier":         supplier,
		"own_property":     "Yes, I own my property and live in it",
		"benefits":         "Yes",
		"uprn":             "100023336956",
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"contact_number":   "07700 900000",
		"address_line_1":   "1 High Street",
		"town_or_city":     "London",
		"postcode":         "SW1A 1AA",
		"council_tax_band": "B",
	}
}

func (s *ReferralServiceSuite) TestCreate() {
	s.Run("creates sequential referrals for the converted supplier", func() {
		first := s.newSession(s.now, eligibleAnswers("Shell"))
		second := s.newSession(s.now, eligibleAnswers("EDF"))

		r1, err := s.service.Create(s.ctxAt(s.now), first)
		s.Require().NoError(err)
		r2, err := s.service.Create(s.ctxAt(s.now), second)
		s.Require().NoError(err)

		s.Equal("GBIS0000001", r1.FormattedID())
		s.Equal("GBIS0000002", r2.FormattedID())
		s.Equal("Octopus Energy", r1.SupplierName)
		s.Equal("Octopus Energy", r1.Data["supplier"])
		s.Equal("Shell", r1.Data["user_selected_supplier"])
		s.Equal(s.now, r1.CreatedAt)

		s.Require().Len(s.leads.leads, 2)
		s.Equal([]string{"GBIS", "ECO4"}, s.leads.leads[0].Schemes)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Created.WithLabelValues("Octopus Energy")))

		events, err := s.events.ListBySession(context.Background(), first.String())
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(audit.EventAnswerSaved, events[0].Name)
		s.Equal(audit.EventReferralCreated, events[1].Name)
		s.Equal("GBIS0000001", events[1].Data["referral_id"])
	})

	s.Run("second referral for a session conflicts", func() {
		session := s.newSession(s.now, eligibleAnswers("OVO"))
		_, err := s.service.Create(s.ctxAt(s.now), session)
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctxAt(s.now), session)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("disabled supplier is forbidden", func() {
		utilita, err := s.suppliers.FindByName(context.Background(), "Utilita")
		s.Require().NoError(err)
		_, err = s.suppliers.SetDisabled(context.Background(), utilita.ID, true)
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctxAt(s.now), s.newSession(s.now, eligibleAnswers("Utilita")))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("session without supplier is rejected", func() {
		_, err := s.service.Create(s.ctxAt(s.now), s.newSession(s.now, map[string]any{"country": "Wales"}))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("publish failure does not fail creation", func() {
		s.leads.err = errors.New("broker down")
		defer func() { s.leads.err = nil }()

		_, err := s.service.Create(s.ctxAt(s.now), s.newSession(s.now, eligibleAnswers("EDF")))
		s.Require().NoError(err)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.PublishFailures))
	})
}

func (s *ReferralServiceSuite) TestCheckDuplicate() {
	earlier := s.now.AddDate(0, -2, 0)
	_, err := s.service.Create(s.ctxAt(earlier), s.newSession(earlier, eligibleAnswers("Bulb, now part of Octopus Energy")))
	s.Require().NoError(err)

	s.Run("same supplier after conversion", func() {
		dup, err := s.service.CheckDuplicate(s.ctxAt(s.now), eligibleAnswers("Octopus Energy"))
		s.Require().NoError(err)
		s.True(dup.Found)
		s.True(dup.SameSupplier)
		s.Equal(earlier, dup.CreatedAt)
	})

	s.Run("different supplier", func() {
		dup, err := s.service.CheckDuplicate(s.ctxAt(s.now), eligibleAnswers("EDF"))
		s.Require().NoError(err)
		s.True(dup.Found)
		s.False(dup.SameSupplier)
		s.Equal("Octopus Energy", dup.Supplier)
	})

	s.Run("outside the window", func() {
		later := s.now.AddDate(0, 6, 0)
		dup, err := s.service.CheckDuplicate(s.ctxAt(later), eligibleAnswers("EDF"))
		s.Require().NoError(err)
		s.False(dup.Found)
	})

	s.Run("no uprn", func() {
		dup, err := s.service.CheckDuplicate(s.ctxAt(s.now), map[string]any{"supplier": "EDF"})
		s.Require().NoError(err)
		s.False(dup.Found)
	})
}

func (s *ReferralServiceSuite) TestDownloads() {
	ctx := s.ctxAt(s.now)
	edf, err := s.suppliers.FindByName(ctx, "EDF")
	s.Require().NoError(err)

	for range 2 {
		_, err := s.service.Create(ctx, s.newSession(s.now, eligibleAnswers("EDF")))
		s.Require().NoError(err)
	}
	_, err = s.service.Create(ctx, s.newSession(s.now, eligibleAnswers("OVO")))
	s.Require().NoError(err)

	unread, err := s.service.UnreadCount(ctx, edf.ID)
	s.Require().NoError(err)
	s.Equal(2, unread)

	batch, err := s.service.CreateDownload(ctx, edf.ID, "leader@edf.example")
	s.Require().NoError(err)
	s.Equal("15-07-2024 10_30", batch.Download.FileName, "file name uses London time")
	s.Require().Len(batch.Rows, 2)
	s.Equal("Yes", batch.Rows[0]["ECO4"])
	s.Equal("2024-07-15", batch.Rows[0]["submission_date"])
	s.Equal("10:30:00", batch.Rows[0]["submission_time"])
	s.Equal("1 High Street, London, SW1A 1AA", batch.Rows[0]["address"])

	unread, err = s.service.UnreadCount(ctx, edf.ID)
	s.Require().NoError(err)
	s.Equal(0, unread)

	empty, err := s.service.CreateDownload(ctx, edf.ID, "leader@edf.example")
	s.Require().NoError(err)
	s.Empty(empty.Rows)

	downloads, err := s.service.ListDownloads(ctx, edf.ID)
	s.Require().NoError(err)
	s.Len(downloads, 2)

	again, err := s.service.GetDownload(ctx, batch.Download.ID, "member@edf.example")
	s.Require().NoError(err)
	s.Len(again.Rows, 2)
	s.Equal("member@edf.example", again.Download.LastDownloadedBy)

	_, err = s.service.GetDownload(ctx, uuid.New(), "x")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ReferralServiceSuite) TestListRange() {
	day := func(d int) time.Time { return time.Date(2024, 7, d, 23, 30, 0, 0, time.UTC) }
	for _, at := range []time.Time{day(1), day(2), day(10)} {
		_, err := s.service.Create(s.ctxAt(at), s.newSession(at, eligibleAnswers("EDF")))
		s.Require().NoError(err)
	}

	in := RangeInput{FromYear: "2024", FromMonth: "7", FromDay: "2", ToYear: "2024", ToMonth: "7", ToDay: "10"}
	batch, err := s.service.ListRange(s.ctxAt(s.now), in, false)
	s.Require().NoError(err)

	// 23:30 UTC on 1 July is 00:30 on 2 July in London; 10 July falls on the 11th.
	s.Require().Len(batch.Rows, 2)
	s.Equal("2024-07-02", batch.Rows[0]["submission_date"])
	s.NotContains(batch.Columns, "first_name")
	_, hasName := batch.Rows[0]["first_name"]
	s.False(hasName)
}

func TestBuildRowHidesNotFoundRating(t *testing.T) {
	row := BuildRow(referralWith(map[string]any{"epc_rating": "Not found", "country": "Wales"}), true)
	assert.Equal(t, "", row["epc_rating"])
	assert.Equal(t, "No", row["GBIS"])
	assert.Equal(t, "EDF", row["supplier"])
	require.Contains(t, row, "Property main heat source")
}
