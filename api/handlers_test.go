package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compra-app/compra-go/aggregate"
	"github.com/compra-app/compra-go/analytics"
	"github.com/compra-app/compra-go/cache"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/platform"
	"github.com/compra-app/compra-go/store"
	"github.com/compra-app/compra-go/targeting"
	"github.com/compra-app/compra-go/utils"
)

type stubRegistrar struct {
	registered []string
}

func (r *stubRegistrar) Register(_ context.Context, _ *models.Store, scriptURL string) (*platform.ScriptTag, error) {
	r.registered = append(r.registered, scriptURL)
	return &platform.ScriptTag{ID: 4242, Event: "onload", Src: scriptURL}, nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine, *stubRegistrar) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registrar := &stubRegistrar{}
	srv := &Server{
		DB:          db,
		Evaluator:   targeting.NewEvaluator(db.Surveys),
		Aggregator:  aggregate.NewAggregator(db),
		Engine:      analytics.NewEngine(db),
		Cache:       cache.NewManager(time.Minute),
		ScriptTags:  registrar,
		Host:        "http://localhost:8080",
		Development: true,
	}

	r := gin.New()
	srv.RegisterRoutes(r)
	return srv, r, registrar
}

func seedStore(t *testing.T, srv *Server) *models.Store {
	t.Helper()
	st := &models.Store{
		ID:          utils.NewID(),
		ShopDomain:  "demo.myshopify.com",
		AccessToken: "token",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, srv.DB.Stores.Insert(context.Background(), st))
	return st
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateSurveyRequiresExistingStore(t *testing.T) {
	_, r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/surveys", models.CreateSurveyRequest{
		StoreID:   "missing",
		Title:     "Orphan survey",
		Questions: []models.Question{{Text: "Hi?", Type: models.QuestionText}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSurveyMergesStoreStyleDefaults(t *testing.T) {
	srv, r, _ := newTestServer(t)
	styled := &models.Store{
		ID:         utils.NewID(),
		ShopDomain: "styled.myshopify.com",
		Settings:   models.StoreSettings{DefaultSurveyStyle: models.SurveyStyle{PrimaryColor: "#123456"}},
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, srv.DB.Stores.Insert(context.Background(), styled))

	w := doJSON(t, r, http.MethodPost, "/api/surveys", models.CreateSurveyRequest{
		StoreID:   styled.ID,
		Title:     "Styled",
		Questions: []models.Question{{Text: "Hi?", Type: models.QuestionText}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Survey](t, w)
	assert.Equal(t, "#123456", created.Style.PrimaryColor)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.NotEmpty(t, created.Questions[0].ID, "question IDs are generated")
}

func TestSubmitResponseValidation(t *testing.T) {
	_, r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/survey-responses", map[string]any{
		"surveyId": "s1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitResponseUnknownSurvey(t *testing.T) {
	_, r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/survey-responses", models.SubmitResponseRequest{
		SurveyID:     "missing",
		Responses:    []models.QuestionResponse{{QuestionID: "q1", Answer: models.TextAnswer("x")}},
		CustomerType: models.CustomerNew,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyticsEndpointsReturn404ForUnknownSurvey(t *testing.T) {
	_, r, _ := newTestServer(t)
	for _, path := range []string{
		"/api/surveys/missing/analytics",
		"/api/surveys/missing/sentiment-analysis",
		"/api/surveys/missing/correlation-analysis",
		"/api/surveys/missing/completion-prediction",
		"/api/surveys/missing/user-journey",
	} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestActiveSurveysTargeting(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)

	w := doJSON(t, r, http.MethodPost, "/api/surveys", models.CreateSurveyRequest{
		StoreID:  st.ID,
		Title:    "New customer survey",
		Priority: 5,
		Questions: []models.Question{
			{Text: "How did you find us?", Type: models.QuestionText},
		},
		TargetAudience: models.TargetAudience{NewCustomers: true},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Survey](t, w)

	// Draft surveys are never delivered.
	w = doJSON(t, r, http.MethodGet, "/api/active-surveys?storeId="+st.ID+"&customerType=new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = doJSON(t, r, http.MethodPatch, "/api/surveys/"+created.ID+"/status", models.UpdateStatusRequest{Status: models.StatusActive})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/active-surveys?storeId="+st.ID+"&customerType=new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	match := decode[models.Survey](t, w)
	assert.Equal(t, created.ID, match.ID)

	// Returning shoppers fail the audience predicate.
	w = doJSON(t, r, http.MethodGet, "/api/active-surveys?storeId="+st.ID+"&customerType=returning", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestEndToEndResponseFlow(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)

	w := doJSON(t, r, http.MethodPost, "/api/surveys", models.CreateSurveyRequest{
		StoreID: st.ID,
		Title:   "Post-purchase",
		Questions: []models.Question{
			{Text: "Rate your experience", Type: models.QuestionRating, Required: true},
			{Text: "Tell us more", Type: models.QuestionText, Required: true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	survey := decode[models.Survey](t, w)
	q1, q2 := survey.Questions[0].ID, survey.Questions[1].ID

	w = doJSON(t, r, http.MethodPost, "/api/surveys/"+survey.ID+"/view", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/survey-responses", models.SubmitResponseRequest{
		SurveyID: survey.ID,
		Responses: []models.QuestionResponse{
			{QuestionID: q1, Answer: models.NumberAnswer(5), TimeSpent: 2},
			{QuestionID: q2, Answer: models.TextAnswer("great checkout, very helpful staff"), TimeSpent: 11},
		},
		CustomerType:   models.CustomerNew,
		TotalTimeSpent: 13,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/surveys/"+survey.ID+"/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[models.DetailedAnalytics](t, w)

	assert.Equal(t, 1, report.Views)
	assert.Equal(t, 1, report.Completions)
	require.Len(t, report.QuestionAnalytics, 2)
	assert.Equal(t, 1, report.QuestionAnalytics[0].Responses)
	assert.Equal(t, 1, report.QuestionAnalytics[1].Responses)
	assert.Equal(t, 1, report.Demographics.NewCustomers)
	assert.Equal(t, 1, report.ResponseBreakdown[q1].Responses["5"])
}

func TestRecordViewSeparateFromFetch(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)
	ctx := context.Background()

	survey := activeSurvey(t, srv, st.ID)

	// Fetching through targeting never bumps the view counter.
	w := doJSON(t, r, http.MethodGet, "/api/active-surveys?storeId="+st.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	rollup, err := srv.DB.Analytics.FindBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rollup.Views)

	doJSON(t, r, http.MethodPost, "/api/surveys/"+survey.ID+"/view", nil)
	rollup, err = srv.DB.Analytics.FindBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rollup.Views)
}

func TestMaxDisplaysPerVisitor(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)
	activeSurvey(t, srv, st.ID)

	url := "/api/active-surveys?storeId=" + st.ID + "&visitorId=v1"

	w := doJSON(t, r, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "[]", w.Body.String())

	// maxDisplaysPerUser is 1, so the second fetch returns nothing.
	w = doJSON(t, r, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	// A different visitor still gets the survey.
	w = doJSON(t, r, http.MethodGet, "/api/active-surveys?storeId="+st.ID+"&visitorId=v2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "[]", w.Body.String())
}

func TestDeleteSurveyCascades(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)
	survey := activeSurvey(t, srv, st.ID)
	ctx := context.Background()

	w := doJSON(t, r, http.MethodPost, "/api/survey-responses", models.SubmitResponseRequest{
		SurveyID: survey.ID,
		Responses: []models.QuestionResponse{
			{QuestionID: survey.Questions[0].ID, Answer: models.NumberAnswer(3)},
		},
		CustomerType: models.CustomerNew,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/surveys/"+survey.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	gone, err := srv.DB.Surveys.FindByID(ctx, survey.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	n, err := srv.DB.Responses.CountBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	rollup, err := srv.DB.Analytics.FindBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	assert.Nil(t, rollup)

	w = doJSON(t, r, http.MethodDelete, "/api/surveys/"+survey.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSurveyScriptEndpoint(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)
	survey := activeSurvey(t, srv, st.ID)

	w := doJSON(t, r, http.MethodGet, "/surveys/"+survey.ID+"/script.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/javascript")
	assert.Contains(t, w.Body.String(), "(function() {")
	assert.Contains(t, w.Body.String(), "http://localhost:8080/api/survey-responses")

	// Second fetch is served from cache and identical.
	w2 := doJSON(t, r, http.MethodGet, "/surveys/"+survey.ID+"/script.js", nil)
	assert.Equal(t, w.Body.String(), w2.Body.String())
}

func TestPublishSurveyRegistersScriptTag(t *testing.T) {
	srv, r, registrar := newTestServer(t)
	st := seedStore(t, srv)
	survey := activeSurvey(t, srv, st.ID)

	w := doJSON(t, r, http.MethodPost, "/api/surveys/"+survey.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, registrar.registered, 1)
	assert.Equal(t, fmt.Sprintf("http://localhost:8080/surveys/%s/script.js", survey.ID), registrar.registered[0])

	updated, err := srv.DB.Surveys.FindByID(context.Background(), survey.ID)
	require.NoError(t, err)
	assert.Equal(t, "4242", updated.ScriptTagID)
}

func TestLegacyRoutes(t *testing.T) {
	srv, r, _ := newTestServer(t)
	st := seedStore(t, srv)

	w := doJSON(t, r, http.MethodGet, "/api/survey", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "no deliverable survey yet")

	survey := activeSurvey(t, srv, st.ID)

	w = doJSON(t, r, http.MethodGet, "/api/survey", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[models.Survey](t, w)
	assert.Equal(t, survey.ID, fetched.ID)

	w = doJSON(t, r, http.MethodPost, "/api/response", map[string]any{
		"surveyId": survey.ID,
		"responses": map[string]any{
			survey.Questions[0].ID: 4,
		},
		"customerId": "cust-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/response", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// activeSurvey seeds an active survey with one rating question, open
// targeting, and a one-display-per-visitor cap.
func activeSurvey(t *testing.T, srv *Server, storeID string) *models.Survey {
	t.Helper()
	now := time.Now().UTC()
	survey := &models.Survey{
		ID:      utils.NewID(),
		StoreID: storeID,
		Title:   "Checkout pulse",
		Status:  models.StatusActive,
		Active:  true,
		Questions: []models.Question{
			{ID: utils.NewID(), Text: "Rate us", Type: models.QuestionRating, Required: true},
		},
		TargetAudience: models.TargetAudience{NewCustomers: true, ReturningCustomers: true},
		DisplayRules:   models.DisplayRules{MaxDisplaysPerUser: 1},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	ctx := context.Background()
	require.NoError(t, srv.DB.Surveys.Insert(ctx, survey))
	require.NoError(t, srv.DB.Analytics.Init(ctx, survey.ID))
	return survey
}
