package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/common"
	"github.com/Tushar365/reportappmedghor/internal/jobs/background"
	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/rendering"
	"github.com/Tushar365/reportappmedghor/internal/repositories"
	"github.com/Tushar365/reportappmedghor/internal/services"
	"github.com/Tushar365/reportappmedghor/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	e         *echo.Echo
	reportSvc *MockReportService
	editorSvc *MockEditorService
	authSvc   *MockAuthService
	reports   *ReportHandlers
	editor    *EditorHandlers
	products  *ProductHandlers
	auth      *AuthHandlers
	userID    uuid.UUID
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.e = echo.New()
	suite.reportSvc = new(MockReportService)
	suite.editorSvc = new(MockEditorService)
	suite.authSvc = new(MockAuthService)
	suite.reports = NewReportHandlers(suite.reportSvc, suite.editorSvc)
	suite.editor = NewEditorHandlers(suite.editorSvc)
	suite.products = NewProductHandlers(suite.reportSvc)
	suite.auth = NewAuthHandlers(suite.authSvc)
	suite.userID = uuid.New()
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.reportSvc.AssertExpectations(suite.T())
	suite.editorSvc.AssertExpectations(suite.T())
	suite.authSvc.AssertExpectations(suite.T())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// newContext builds a request carrying a manager principal unless anonymous is set.
func (suite *HandlersTestSuite) newContext(method, target, body string, anonymous bool) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if !anonymous {
		p := models.NewPrincipal(suite.userID.String(), "rina", []models.Role{models.RoleManager})
		req = req.WithContext(common.WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return suite.e.NewContext(req, rec), rec
}

func (suite *HandlersTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp common.ErrorResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func generated(id int64, url string) *services.GeneratedReport {
	return &services.GeneratedReport{
		Report: &models.SavedReport{ID: id},
		Document: &services.Document{
			Filename:    "Medghor_Focus_Items_01022024_29022024.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.3"),
			URL:         url,
		},
	}
}

func (suite *HandlersTestSuite) TestGenerate_WithRequestLines() {
	body := `{"start_date":"2024-02-01","end_date":"2024-02-29","brand_name":"AZINTAS",
		"lines":[{"name":"PARA","rate":"10%"}]}`
	c, rec := suite.newContext(http.MethodPost, "/v1/reports/generate", body, false)

	suite.reportSvc.On("Generate", mock.Anything, &suite.userID, mock.MatchedBy(func(s models.ReportSpec) bool {
		return s.BrandName == "AZINTAS" &&
			s.RateColumnLabel == defaultRateLabel &&
			s.StartDate.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) &&
			len(s.Lines) == 1 && s.Lines[0].Name == "PARA"
	})).Return(generated(12, "http://minio/signed"), nil).Once()

	suite.Require().NoError(suite.reports.Generate(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("application/pdf", rec.Header().Get(echo.HeaderContentType))
	suite.Equal(`attachment; filename="Medghor_Focus_Items_01022024_29022024.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	suite.Equal("12", rec.Header().Get("X-Report-ID"))
	suite.Equal("http://minio/signed", rec.Header().Get("X-Document-URL"))
	suite.Equal("%PDF-1.3", rec.Body.String())
}

func (suite *HandlersTestSuite) TestGenerate_FallsBackToEditorLines() {
	body := `{"start_date":"2024-02-01","end_date":"2024-02-29","rate_column_label":"MRP"}`
	c, rec := suite.newContext(http.MethodPost, "/v1/reports/generate", body, false)
	editorLines := []models.ProductLine{{Name: "DOLO", Rate: "5"}}

	suite.editorSvc.On("Lines", mock.Anything, suite.userID.String()).Return(editorLines, nil).Once()
	suite.reportSvc.On("Generate", mock.Anything, &suite.userID, mock.MatchedBy(func(s models.ReportSpec) bool {
		return s.BrandName == defaultBrand && s.RateColumnLabel == "MRP" && len(s.Lines) == 1
	})).Return(generated(3, ""), nil).Once()

	suite.Require().NoError(suite.reports.Generate(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Empty(rec.Header().Get("X-Document-URL"))
}

func (suite *HandlersTestSuite) TestGenerate_BadDate() {
	c, rec := suite.newContext(http.MethodPost, "/v1/reports/generate", `{"start_date":"01/02/2024","end_date":"2024-02-29"}`, false)

	suite.Require().NoError(suite.reports.Generate(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorCode(rec))
}

func (suite *HandlersTestSuite) TestGenerate_ErrorMapping() {
	conflict := &repositories.StoreWriteError{Op: "insert report", Err: &pgconn.PgError{Code: "23505"}}
	outage := &repositories.StoreWriteError{Op: "commit", Err: errors.New("connection reset")}
	cases := []struct {
		err  error
		code int
		body string
	}{
		{rendering.ErrEmptyInput, http.StatusBadRequest, "VALIDATION_ERROR"},
		{&rendering.RenderError{Err: errors.New("font")}, http.StatusInternalServerError, "SERVER_ERROR"},
		{conflict, http.StatusConflict, "CONFLICT"},
		{outage, http.StatusServiceUnavailable, "UNAVAILABLE"},
	}
	for _, tc := range cases {
		body := `{"start_date":"2024-02-01","end_date":"2024-02-29","lines":[]}`
		c, rec := suite.newContext(http.MethodPost, "/v1/reports/generate", body, false)
		suite.reportSvc.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

		suite.Require().NoError(suite.reports.Generate(c))
		suite.Equal(tc.code, rec.Code, tc.err.Error())
		suite.Equal(tc.body, suite.errorCode(rec))
	}
}

func (suite *HandlersTestSuite) TestGenerate_Unauthenticated() {
	c, rec := suite.newContext(http.MethodPost, "/v1/reports/generate", `{}`, true)

	suite.Require().NoError(suite.reports.Generate(c))
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *HandlersTestSuite) TestListReports_Mine() {
	c, rec := suite.newContext(http.MethodGet, "/v1/reports?mine=true", "", false)
	reports := []*models.SavedReport{{ID: 2, Lines: []models.ProductLine{{Name: "A", Rate: "1"}, {Name: "B", Rate: "2"}}}}
	suite.reportSvc.On("List", mock.Anything, &suite.userID).Return(reports, nil).Once()

	suite.Require().NoError(suite.reports.ListReports(c))
	suite.Equal(http.StatusOK, rec.Code)

	var got []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	suite.Require().Len(got, 1)
	suite.Equal(float64(2), got[0]["product_count"])
	suite.Len(got[0]["products"], 2)
}

func (suite *HandlersTestSuite) TestGetReport_NotFound() {
	c, rec := suite.newContext(http.MethodGet, "/v1/reports/41", "", false)
	c.SetParamNames("id")
	c.SetParamValues("41")
	suite.reportSvc.On("Get", mock.Anything, int64(41)).Return(nil, repositories.ErrNotFound).Once()

	suite.Require().NoError(suite.reports.GetReport(c))
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestGetReport_BadID() {
	c, rec := suite.newContext(http.MethodGet, "/v1/reports/abc", "", false)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	suite.Require().NoError(suite.reports.GetReport(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestDownloadPDF_LabelQuery() {
	c, rec := suite.newContext(http.MethodGet, "/v1/reports/9/pdf?rate_label=MRP", "", false)
	c.SetParamNames("id")
	c.SetParamValues("9")
	doc := &services.Document{Filename: "Medghor_Report_9.pdf", ContentType: "application/pdf", Data: []byte("pdf")}
	suite.reportSvc.On("RenderSaved", mock.Anything, int64(9), "MRP").Return(doc, nil).Once()

	suite.Require().NoError(suite.reports.DownloadPDF(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Header().Get(echo.HeaderContentDisposition), "Medghor_Report_9.pdf")
}

func (suite *HandlersTestSuite) TestDownloadSpreadsheet_DefaultLabel() {
	c, rec := suite.newContext(http.MethodGet, "/v1/reports/9/xlsx", "", false)
	c.SetParamNames("id")
	c.SetParamValues("9")
	doc := &services.Document{Filename: "Medghor_Report_9.xlsx", ContentType: "application/octet-stream", Data: []byte("xlsx")}
	suite.reportSvc.On("ExportSpreadsheet", mock.Anything, int64(9), defaultRateLabel).Return(doc, nil).Once()

	suite.Require().NoError(suite.reports.DownloadSpreadsheet(c))
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestLoadIntoEditorAndDelete() {
	c, rec := suite.newContext(http.MethodPost, "/v1/reports/5/load", "", false)
	c.SetParamNames("id")
	c.SetParamValues("5")
	lines := []models.ProductLine{{Name: "PARA", Rate: "10%"}}
	suite.editorSvc.On("LoadReport", mock.Anything, suite.userID.String(), int64(5)).Return(lines, nil).Once()

	suite.Require().NoError(suite.reports.LoadIntoEditor(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"lines":[{"name":"PARA","rate":"10%"}]}`, rec.Body.String())

	c, rec = suite.newContext(http.MethodDelete, "/v1/reports/5", "", false)
	c.SetParamNames("id")
	c.SetParamValues("5")
	suite.reportSvc.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

	suite.Require().NoError(suite.reports.DeleteReport(c))
	suite.Equal(http.StatusNoContent, rec.Code)
}

func (suite *HandlersTestSuite) TestEditor_GetEmpty() {
	c, rec := suite.newContext(http.MethodGet, "/v1/editor", "", false)
	suite.editorSvc.On("Lines", mock.Anything, suite.userID.String()).Return(nil, nil).Once()

	suite.Require().NoError(suite.editor.GetEditor(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"lines":[]}`, rec.Body.String())
}

func (suite *HandlersTestSuite) TestEditor_AddLineValidation() {
	c, rec := suite.newContext(http.MethodPost, "/v1/editor/lines", `{"name":"PARA"}`, false)
	suite.editorSvc.On("Add", mock.Anything, suite.userID.String(), models.ProductLine{Name: "PARA"}).
		Return(nil, session.ErrMissingRate).Once()

	suite.Require().NoError(suite.editor.AddLine(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(rec.Body.String(), "rate")
}

func (suite *HandlersTestSuite) TestEditor_QuickAdd() {
	c, rec := suite.newContext(http.MethodPost, "/v1/editor/quick-add", `{"product_name":"PARA"}`, false)
	lines := []models.ProductLine{{Name: "PARA", Rate: "12%"}}
	suite.editorSvc.On("QuickAdd", mock.Anything, suite.userID.String(), "PARA").Return(lines, nil).Once()

	suite.Require().NoError(suite.editor.QuickAdd(c))
	suite.Equal(http.StatusCreated, rec.Code)

	c, rec = suite.newContext(http.MethodPost, "/v1/editor/quick-add", `{}`, false)
	suite.Require().NoError(suite.editor.QuickAdd(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestEditor_RemoveLine() {
	c, rec := suite.newContext(http.MethodDelete, "/v1/editor/lines/x", "", false)
	c.SetParamNames("index")
	c.SetParamValues("x")
	suite.Require().NoError(suite.editor.RemoveLine(c))
	suite.Equal(http.StatusBadRequest, rec.Code)

	c, rec = suite.newContext(http.MethodDelete, "/v1/editor/lines/4", "", false)
	c.SetParamNames("index")
	c.SetParamValues("4")
	suite.editorSvc.On("Remove", mock.Anything, suite.userID.String(), 4).
		Return(nil, &session.IndexError{Index: 4, Len: 1}).Once()
	suite.Require().NoError(suite.editor.RemoveLine(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestEditor_Clear() {
	c, rec := suite.newContext(http.MethodDelete, "/v1/editor/lines", "", false)
	suite.editorSvc.On("Clear", mock.Anything, suite.userID.String()).Return(nil).Once()

	suite.Require().NoError(suite.editor.Clear(c))
	suite.Equal(http.StatusNoContent, rec.Code)
}

func (suite *HandlersTestSuite) TestPopularProducts() {
	c, rec := suite.newContext(http.MethodGet, "/v1/products/popular", "", false)
	usages := []*models.ProductUsage{{ID: 1, ProductName: "PARA", LastRate: "10%", UsageCount: 2}}
	suite.reportSvc.On("TopProducts", mock.Anything, services.DefaultPopularLimit).Return(usages, nil).Once()

	suite.Require().NoError(suite.products.PopularProducts(c))
	suite.Equal(http.StatusOK, rec.Code)

	c, rec = suite.newContext(http.MethodGet, "/v1/products/popular?limit=-1", "", false)
	suite.Require().NoError(suite.products.PopularProducts(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestLogin() {
	user := &models.User{ID: suite.userID, Username: "rina", Roles: []models.Role{models.RoleManager}}
	token := &models.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}
	suite.authSvc.On("Login", mock.Anything, "rina", "secret1").Return(token, user, nil).Once()

	c, rec := suite.newContext(http.MethodPost, "/v1/auth/login", `{"username":"rina","password":"secret1"}`, true)
	suite.Require().NoError(suite.auth.Login(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"access_token":"tok"`)
	suite.NotContains(rec.Body.String(), "password")

	suite.authSvc.On("Login", mock.Anything, "rina", "bad").Return(nil, nil, services.ErrInvalidCredentials).Once()
	c, rec = suite.newContext(http.MethodPost, "/v1/auth/login", `{"username":"rina","password":"bad"}`, true)
	suite.Require().NoError(suite.auth.Login(c))
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *HandlersTestSuite) TestSetRoles() {
	target := uuid.New()
	c, rec := suite.newContext(http.MethodPut, "/v1/users/"+target.String()+"/roles", `{"roles":["admin"]}`, false)
	c.SetParamNames("id")
	c.SetParamValues(target.String())
	suite.authSvc.On("SetRoles", mock.Anything, target, []models.Role{models.RoleAdmin}).Return(nil).Once()

	suite.Require().NoError(suite.auth.SetRoles(c))
	suite.Equal(http.StatusNoContent, rec.Code)

	c, rec = suite.newContext(http.MethodPut, "/v1/users/"+target.String()+"/roles", `{"roles":["owner"]}`, false)
	c.SetParamNames("id")
	c.SetParamValues(target.String())
	suite.Require().NoError(suite.auth.SetRoles(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestUpdateProfile() {
	in := services.ProfileInput{Email: "rina@medghor.test", FullName: "Rina Das"}
	user := &models.User{ID: suite.userID, Username: "rina", Email: in.Email, FullName: in.FullName}
	suite.authSvc.On("UpdateProfile", mock.Anything, suite.userID, in).Return(user, nil).Once()

	c, rec := suite.newContext(http.MethodPut, "/v1/me", `{"email":"rina@medghor.test","full_name":"Rina Das"}`, false)
	suite.Require().NoError(suite.auth.UpdateProfile(c))
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), `"full_name":"Rina Das"`)

	taken := services.ProfileInput{Email: "taken@medghor.test"}
	conflict := &repositories.StoreWriteError{Op: "update profile", Err: &pgconn.PgError{Code: "23505"}}
	suite.authSvc.On("UpdateProfile", mock.Anything, suite.userID, taken).Return(nil, conflict).Once()

	c, rec = suite.newContext(http.MethodPut, "/v1/me", `{"email":"taken@medghor.test"}`, false)
	suite.Require().NoError(suite.auth.UpdateProfile(c))
	suite.Equal(http.StatusConflict, rec.Code)

	c, rec = suite.newContext(http.MethodPut, "/v1/me", `{"email":"x@y"}`, true)
	suite.Require().NoError(suite.auth.UpdateProfile(c))
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *HandlersTestSuite) TestChangePassword() {
	suite.authSvc.On("ChangePassword", mock.Anything, suite.userID, "secret1", "better-secret").Return(nil).Once()

	c, rec := suite.newContext(http.MethodPut, "/v1/me/password", `{"current_password":"secret1","new_password":"better-secret"}`, false)
	suite.Require().NoError(suite.auth.ChangePassword(c))
	suite.Equal(http.StatusNoContent, rec.Code)

	wrong := &services.ValidationError{Field: "current_password", Message: "is incorrect"}
	suite.authSvc.On("ChangePassword", mock.Anything, suite.userID, "nope", "better-secret").Return(wrong).Once()

	c, rec = suite.newContext(http.MethodPut, "/v1/me/password", `{"current_password":"nope","new_password":"better-secret"}`, false)
	suite.Require().NoError(suite.auth.ChangePassword(c))
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Equal("VALIDATION_ERROR", suite.errorCode(rec))
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthCheck(t *testing.T) {
	e := echo.New()

	cases := []struct {
		name   string
		db     error
		status int
		state  string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"database down", errors.New("refused"), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandlers(stubPinger{err: tc.db}, nil, nil, "1.0.0")
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			if err := h.HealthCheck(c); err != nil {
				t.Fatal(err)
			}
			var status HealthStatus
			if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tc.status || status.Status != tc.state {
				t.Fatalf("got %d %q, want %d %q", rec.Code, status.Status, tc.status, tc.state)
			}
		})
	}
}

type stubRunner struct {
	ran []string
}

func (s *stubRunner) Status() []background.JobStatus {
	return []background.JobStatus{{Name: background.PopularWarmupJob}}
}

func (s *stubRunner) RunNow(name string) error {
	s.ran = append(s.ran, name)
	return nil
}

func TestRunJob(t *testing.T) {
	e := echo.New()
	runner := &stubRunner{}
	h := NewJobHandlers(runner)

	for _, tc := range []struct {
		name string
		code int
	}{
		{background.PopularWarmupJob, http.StatusAccepted},
		{"unknown", http.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/jobs/"+tc.name+"/run", nil), rec)
		c.SetParamNames("name")
		c.SetParamValues(tc.name)
		if err := h.RunJob(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tc.code {
			t.Fatalf("%s: got %d, want %d", tc.name, rec.Code, tc.code)
		}
	}
	if len(runner.ran) != 1 || runner.ran[0] != background.PopularWarmupJob {
		t.Fatalf("unexpected runs %v", runner.ran)
	}
}
