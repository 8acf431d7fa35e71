package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"helptoheat/internal/portal/handler/mocks"
	"helptoheat/internal/portal/models"
	portalService "helptoheat/internal/portal/service"
	referralModels "helptoheat/internal/referral/models"
	referralService "helptoheat/internal/referral/service"
	supplierModels "helptoheat/internal/supplier/models"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/middleware/admin"
	"helptoheat/pkg/testutil"
)

const adminToken = "portal-secret"

//go:generate mockgen -source=handler.go -destination=mocks/portal-mocks.go -package=mocks SupplierService,UserService,ReferralService,FeedbackService
type PortalHandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	suppliers *mocks.MockSupplierService
	users     *mocks.MockUserService
	referrals *mocks.MockReferralService
	feedback  *mocks.MockFeedbackService
	router    http.Handler
}

func TestPortalHandlerSuite(t *testing.T) {
	suite.Run(t, new(PortalHandlerSuite))
}

func (s *PortalHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.suppliers = mocks.NewMockSupplierService(s.ctrl)
	s.users = mocks.NewMockUserService(s.ctrl)
	s.referrals = mocks.NewMockReferralService(s.ctrl)
	s.feedback = mocks.NewMockFeedbackService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Use(admin.RequireAdminToken(adminToken, logger))
	New(s.suppliers, s.users, s.referrals, s.feedback, logger).Register(r)
	s.router = r
}

func (s *PortalHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PortalHandlerSuite) do(req *http.Request) (int, string) {
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))
	return rr.Code, rr.Body.String()
}

func (s *PortalHandlerSuite) TestRequiresAdminToken() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))

	req := testutil.WithAdminToken(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers", nil), "wrong")
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
}

func (s *PortalHandlerSuite) TestListSuppliers() {
	s.suppliers.EXPECT().ListForPortal(gomock.Any()).Return([]*supplierModels.Supplier{
		{ID: uuid.New(), Name: "EDF"},
		{ID: uuid.New(), Name: "OVO", IsDisabled: true},
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers", nil), adminToken))

	s.Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[struct {
		Suppliers []supplierModels.Supplier `json:"suppliers"`
	}](s.T(), rr)
	s.Require().Len(resp.Suppliers, 2)
	s.True(resp.Suppliers[1].IsDisabled)
}

func (s *PortalHandlerSuite) TestSetSupplierDisabled() {
	id := uuid.New()
	s.suppliers.EXPECT().SetDisabled(gomock.Any(), id, true).
		Return(&supplierModels.Supplier{ID: id, Name: "EDF", IsDisabled: true}, nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/portal/suppliers/"+id.String()+"/disabled", `{"disabled":true}`)
	code, body := s.do(req)

	s.Equal(http.StatusOK, code)
	s.Contains(body, `"is_disabled":true`)
}

func (s *PortalHandlerSuite) TestSetSupplierDisabledRequiresFlag() {
	id := uuid.New()
	req := testutil.WithAdminToken(testutil.NewRequestWithBody(s.T(), http.MethodPut, "/portal/suppliers/"+id.String()+"/disabled", `{}`), adminToken)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *PortalHandlerSuite) TestSetSupplierDisabledUnknownSupplier() {
	id := uuid.New()
	s.suppliers.EXPECT().SetDisabled(gomock.Any(), id, false).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "supplier not found"))

	req := testutil.WithAdminToken(testutil.NewRequestWithBody(s.T(), http.MethodPut, "/portal/suppliers/"+id.String()+"/disabled", `{"disabled":false}`), adminToken)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
}

func (s *PortalHandlerSuite) TestInvalidSupplierID() {
	req := testutil.WithAdminToken(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers/nope/users", nil), adminToken)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
}

func (s *PortalHandlerSuite) TestListUsers() {
	supplierID := uuid.New()
	s.users.EXPECT().ListUsers(gomock.Any(), &supplierID).Return([]*models.User{
		{ID: uuid.New(), Email: "lead@edf.example", Role: models.RoleTeamLeader, SupplierID: &supplierID},
	}, nil)
	s.users.EXPECT().ListUsers(gomock.Any(), (*uuid.UUID)(nil)).Return([]*models.User{}, nil)

	code, body := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers/"+supplierID.String()+"/users", nil))
	s.Equal(http.StatusOK, code)
	s.Contains(body, "lead@edf.example")

	code, body = s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/users", nil))
	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"users":[]}`, body)
}

func (s *PortalHandlerSuite) TestCreateUser() {
	supplierID := uuid.New()
	expected := portalService.CreateUserRequest{
		Email:      "member@edf.example",
		FullName:   "Member",
		Role:       "Team Member",
		SupplierID: &supplierID,
	}
	s.users.EXPECT().CreateUser(gomock.Any(), expected).Return(&models.User{
		ID:         uuid.New(),
		Email:      expected.Email,
		FullName:   expected.FullName,
		Role:       models.RoleTeamMember,
		SupplierID: &supplierID,
	}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/portal/users", CreateUserRequest{
		Email:      "member@edf.example",
		FullName:   "Member",
		Role:       "Team Member",
		SupplierID: supplierID.String(),
	})
	code, body := s.do(req)

	s.Equal(http.StatusCreated, code)
	s.Contains(body, `"role":"Team Member"`)
}

func (s *PortalHandlerSuite) TestCreateUserInvalidSupplier() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/portal/users", CreateUserRequest{
		Email:      "member@edf.example",
		FullName:   "Member",
		Role:       "Team Member",
		SupplierID: "edf",
	})
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *PortalHandlerSuite) TestCreateUserConflict() {
	s.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "a user with this email already exists"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/portal/users", CreateUserRequest{
		Email:    "manager@example.com",
		FullName: "Manager",
		Role:     "Service Manager",
	})
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
}

func (s *PortalHandlerSuite) TestChangeRole() {
	id := uuid.New()
	s.users.EXPECT().ChangeRole(gomock.Any(), id, "Team Leader").
		Return(&models.User{ID: id, Role: models.RoleTeamLeader}, nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/portal/users/"+id.String()+"/role", `{"role":"Team Leader"}`)
	code, body := s.do(req)

	s.Equal(http.StatusOK, code)
	s.Contains(body, `"role":"Team Leader"`)
}

func (s *PortalHandlerSuite) TestChangeRoleRequiresRole() {
	id := uuid.New()
	req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/portal/users/"+id.String()+"/role", `{"role":"  "}`)
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *PortalHandlerSuite) TestUnreadCount() {
	supplierID := uuid.New()
	s.referrals.EXPECT().UnreadCount(gomock.Any(), supplierID).Return(3, nil)

	code, body := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers/"+supplierID.String()+"/referrals/unread", nil))

	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"unread":3}`, body)
}

func (s *PortalHandlerSuite) TestCreateDownloadUsesPortalUser() {
	supplierID := uuid.New()
	s.referrals.EXPECT().CreateDownload(gomock.Any(), supplierID, "lead@edf.example").Return(&referralService.Batch{
		Download: &referralModels.Download{ID: uuid.New(), SupplierID: supplierID, FileName: "15-07-2024 10_30"},
		Columns:  []string{"referral_code"},
		Rows:     []referralService.Row{{"referral_code": "GBIS0000001"}},
	}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/portal/suppliers/"+supplierID.String()+"/downloads", nil)
	req.Header.Set(HeaderPortalUser, "lead@edf.example")
	code, body := s.do(req)

	s.Equal(http.StatusCreated, code)
	s.Contains(body, "GBIS0000001")
	s.Contains(body, "15-07-2024 10_30")
}

func (s *PortalHandlerSuite) TestCreateDownloadNothingNew() {
	supplierID := uuid.New()
	s.referrals.EXPECT().CreateDownload(gomock.Any(), supplierID, "").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no new referrals to download"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/portal/suppliers/"+supplierID.String()+"/downloads", nil)
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
}

func (s *PortalHandlerSuite) TestListDownloadsEmpty() {
	supplierID := uuid.New()
	s.referrals.EXPECT().ListDownloads(gomock.Any(), supplierID).Return(nil, nil)

	code, body := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/suppliers/"+supplierID.String()+"/downloads", nil))

	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"downloads":[]}`, body)
}

func (s *PortalHandlerSuite) TestGetDownload() {
	id := uuid.New()
	s.referrals.EXPECT().GetDownload(gomock.Any(), id, "member@edf.example").Return(&referralService.Batch{
		Download: &referralModels.Download{ID: id, LastDownloadedBy: "member@edf.example"},
		Columns:  []string{"referral_code"},
		Rows:     []referralService.Row{},
	}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/downloads/"+id.String(), nil)
	req.Header.Set(HeaderPortalUser, "member@edf.example")
	code, body := s.do(req)

	s.Equal(http.StatusOK, code)
	s.Contains(body, `"last_downloaded_by":"member@edf.example"`)
}

func (s *PortalHandlerSuite) TestListRange() {
	in := referralService.RangeInput{
		FromYear: "2024", FromMonth: "7", FromDay: "1",
		ToYear: "2024", ToMonth: "7", ToDay: "15",
	}
	s.referrals.EXPECT().ListRange(gomock.Any(), in, false).Return(&referralService.Batch{
		Columns: referralService.ColumnsFor(false),
		Rows:    []referralService.Row{},
	}, nil)

	path := "/portal/referrals?from-year=2024&from-month=7&from-day=1&to-year=2024&to-month=7&to-day=15&pii=false"
	code, _ := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil))

	s.Equal(http.StatusOK, code)
}

func (s *PortalHandlerSuite) TestListRangeInvalidDates() {
	s.referrals.EXPECT().ListRange(gomock.Any(), gomock.Any(), true).
		Return(nil, dErrors.Validation("invalid date range", map[string]string{"from-year": "Year must be a number"}))

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/referrals?from-year=abc", nil)
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *PortalHandlerSuite) TestListRangeInvalidPIIFlag() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/referrals?pii=maybe", nil)
	rr := testutil.DoRequest(s.router, testutil.WithAdminToken(req, adminToken))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func (s *PortalHandlerSuite) TestFeedback() {
	s.feedback.EXPECT().Rows(gomock.Any()).Return([]map[string]string{{"satisfaction": "Satisfied"}}, nil)

	code, body := s.do(testutil.NewJSONRequest(s.T(), http.MethodGet, "/portal/feedback", nil))

	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"rows":[{"satisfaction":"Satisfied"}]}`, body)
}
