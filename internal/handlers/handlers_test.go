package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cultivation-service/internal/event"
	"cultivation-service/internal/models"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================================================
// TEST HELPERS
// ============================================================================

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func userToken(t *testing.T, userID string) string {
	return signToken(t, testSecret, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
	Meta struct {
		Total *int `json:"total"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func publicRouter() *gin.Engine {
	router := gin.New()
	h := NewCalculatorHandler()
	h.now = func() time.Time { return testNow }
	h.RegisterRoutes(router)
	return router
}

// fakeCultivationService records the caller and returns canned results.
// Methods not overridden panic through the nil embedded interface.
type fakeCultivationService struct {
	services.ICultivationService
	gotUserID string
	gotLimit  int
	gotNow    time.Time
	err       error
}

func (f *fakeCultivationService) Create(_ context.Context, userID string, req models.CreateCultivationRequest) (*models.Cultivation, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Cultivation{ID: uuid.New(), UserID: userID, Name: req.Name, PlantType: req.PlantType}, nil
}

func (f *fakeCultivationService) Get(_ context.Context, userID, id string) (*models.Cultivation, error) {
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Cultivation{ID: uuid.MustParse(id), UserID: userID}, nil
}

func (f *fakeCultivationService) List(_ context.Context, userID string, limit, _ int) ([]models.Cultivation, error) {
	f.gotUserID = userID
	f.gotLimit = limit
	return []models.Cultivation{{UserID: userID}, {UserID: userID}}, f.err
}

func (f *fakeCultivationService) Status(_ context.Context, userID, _ string, now time.Time) (*models.CultivationStatusReport, error) {
	f.gotUserID = userID
	f.gotNow = now
	if f.err != nil {
		return nil, f.err
	}
	return &models.CultivationStatusReport{}, nil
}

type fakeAnalysisService struct {
	services.IAnalysisService
	err error
}

func (f *fakeAnalysisService) AnalyzeCultivation(context.Context, string, models.CultivationAnalysisRequest) (*models.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalysisResult{Analysis: "ok"}, nil
}

type fakeNotificationService struct {
	services.INotificationService
	gotUnread      bool
	gotLimit       int
	gotPreferences *models.UpdateNotificationPreferencesRequest
}

func (f *fakeNotificationService) List(_ context.Context, _ string, unreadOnly bool, limit int) ([]models.Notification, error) {
	f.gotUnread = unreadOnly
	f.gotLimit = limit
	return []models.Notification{}, nil
}

func (f *fakeNotificationService) MarkAllRead(context.Context, string) (int64, error) {
	return 3, nil
}

func (f *fakeNotificationService) GetPreferences(_ context.Context, userID string) (*models.NotificationPreferences, error) {
	p := models.DefaultNotificationPreferences(userID)
	return &p, nil
}

func (f *fakeNotificationService) UpdatePreferences(_ context.Context, userID string, req models.UpdateNotificationPreferencesRequest) (*models.NotificationPreferences, error) {
	f.gotPreferences = &req
	p := models.DefaultNotificationPreferences(userID)
	if req.PushEnabled != nil {
		p.PushEnabled = *req.PushEnabled
	}
	return &p, nil
}

type fakeDashboardService struct {
	gotUser string
}

func (f *fakeDashboardService) Summary(_ context.Context, userID string) (*models.DashboardSummary, error) {
	f.gotUser = userID
	return &models.DashboardSummary{
		Stats:        models.DashboardStats{TotalCultivations: 2, ActiveCultivations: 1, TotalEvents: 7},
		Cultivations: []models.DashboardCultivation{},
		RecentEvents: []models.CultivationEvent{},
	}, nil
}

func protectedRouter(cultivations services.ICultivationService, analysis services.IAnalysisService, notifications services.INotificationService) *gin.Engine {
	router := gin.New()
	auth := NewAuthMiddleware(testSecret).RequireAuth()
	NewCultivationHandler(cultivations, nil, nil).RegisterRoutes(router, auth)
	NewAIHandler(analysis).RegisterRoutes(router, auth)
	NewNotificationHandler(notifications).RegisterRoutes(router, auth)
	return router
}

// ============================================================================
// ERROR MAPPING
// ============================================================================

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{repository.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{repository.ErrConflict, "CONFLICT", http.StatusConflict},
		{services.ErrForbidden, "FORBIDDEN", http.StatusForbidden},
		{services.ErrBadRequest, "BAD_REQUEST", http.StatusBadRequest},
		{phase.ErrInvalidPlantType, "BAD_REQUEST", http.StatusBadRequest},
		{errors.Join(services.ErrAIUnavailable, errors.New("quota")), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{services.ErrStorageUnavailable, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{context.DeadlineExceeded, "TIMEOUT", http.StatusGatewayTimeout},
		{errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		code, status := MapErrorToHTTPStatus(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

// ============================================================================
// AUTH MIDDLEWARE
// ============================================================================

func TestRequireAuth(t *testing.T) {
	router := gin.New()
	router.GET("/me", NewAuthMiddleware(testSecret).RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFrom(c))
	})

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "MISSING_TOKEN", decode(t, rec).Error.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other", Claims{UserID: "u1"})
		rec := doRequest(t, router, http.MethodGet, "/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_TOKEN", decode(t, rec).Error.Code)
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, testSecret, Claims{
			UserID:           "u1",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		})
		rec := doRequest(t, router, http.MethodGet, "/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user id claim", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/me", userToken(t, "u1"), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("subject fallback", func(t *testing.T) {
		token := signToken(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u2"}})
		rec := doRequest(t, router, http.MethodGet, "/me", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u2", rec.Body.String())
	})
}

func TestVerifyToken_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u1"})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewAuthMiddleware(testSecret).VerifyToken(signed)
	assert.Error(t, err)
}

func TestVerifyToken_EmptySecret(t *testing.T) {
	_, err := NewAuthMiddleware("").VerifyToken(userToken(t, "u1"))
	assert.Error(t, err)
}

// ============================================================================
// PUBLIC ENDPOINTS
// ============================================================================

func TestCalculate(t *testing.T) {
	body := map[string]any{
		"setup": map[string]any{
			"area_m2": 2.25, "custo_equip_iluminacao": 2000, "custo_tenda_estrutura": 1500,
			"custo_ventilacao_exaustao": 800, "custo_outros_equipamentos": 500,
		},
		"cycle": map[string]any{
			"potencia_watts": 480, "num_plantas": 6, "producao_por_planta_g": 80,
			"dias_vegetativo": 60, "horas_luz_veg": 18, "dias_floracao": 70, "horas_luz_flor": 12, "dias_secagem_cura": 20,
		},
		"market": map[string]any{
			"preco_kwh": 0.95, "custo_sementes_clones": 500, "custo_substrato": 120,
			"custo_nutrientes": 350, "custos_operacionais_misc": 100, "preco_venda_por_grama": 45,
		},
	}

	rec := doRequest(t, publicRouter(), http.MethodPost, "/cultivation/public/api/v1/calculator", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result map[string]any
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, 4800.0, result["custo_total_investimento"])
	assert.Equal(t, 480.0, result["producao_total_g"])
	assert.Equal(t, 150.0, result["duracao_total_ciclo"])
}

func TestCalculate_ValidationError(t *testing.T) {
	body := map[string]any{"setup": map[string]any{"area_m2": 0}}

	rec := doRequest(t, publicRouter(), http.MethodPost, "/cultivation/public/api/v1/calculator", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.NotEmpty(t, env.Error.Details)
}

func TestPhase(t *testing.T) {
	body := map[string]any{
		"start_date": testNow.AddDate(0, 0, -70).Format(time.RFC3339),
		"plant_type": "photoperiod",
	}

	rec := doRequest(t, publicRouter(), http.MethodPost, "/cultivation/public/api/v1/phase", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var info struct {
		Phase                phase.Phase `json:"phase"`
		DaysSinceStart       int         `json:"days_since_start"`
		ShouldStartFlowering bool        `json:"should_start_flowering"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &info))
	assert.Equal(t, 70, info.DaysSinceStart)
	assert.Equal(t, phase.Flowering, info.Phase)
}

func TestPhase_InvalidPlantType(t *testing.T) {
	body := map[string]any{"plant_type": "hydro"}

	rec := doRequest(t, publicRouter(), http.MethodPost, "/cultivation/public/api/v1/phase", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Error.Code)
}

func TestHarvest(t *testing.T) {
	body := map[string]any{"start_date": "2025-01-01T00:00:00Z", "plant_type": "autoflowering"}

	rec := doRequest(t, publicRouter(), http.MethodPost, "/cultivation/public/api/v1/phase/harvest", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var schedule phase.HarvestSchedule
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &schedule))
	assert.True(t, schedule.CompletionDate.After(schedule.HarvestDate))
}

func TestGetGenetics(t *testing.T) {
	router := publicRouter()

	rec := doRequest(t, router, http.MethodGet, "/cultivation/public/api/v1/genetics/OG%20Kush", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var strain struct {
		Key               string           `json:"key"`
		TimelineOverrides *phase.Overrides `json:"timeline_overrides"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &strain))
	assert.Equal(t, "og_kush", strain.Key)
	assert.NotNil(t, strain.TimelineOverrides)

	rec = doRequest(t, router, http.MethodGet, "/cultivation/public/api/v1/genetics/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDefaultCycleConfig_UnknownPlantType(t *testing.T) {
	rec := doRequest(t, publicRouter(), http.MethodGet, "/cultivation/public/api/v1/cycle-config/default/hydro", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode(t, rec).Error.Code)
}

func TestListPresets(t *testing.T) {
	rec := doRequest(t, publicRouter(), http.MethodGet, "/cultivation/public/api/v1/presets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	require.NotNil(t, env.Meta.Total)
	assert.Positive(t, *env.Meta.Total)
}

// ============================================================================
// PROTECTED ENDPOINTS
// ============================================================================

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := protectedRouter(&fakeCultivationService{}, &fakeAnalysisService{}, &fakeNotificationService{})

	rec := doRequest(t, router, http.MethodGet, "/cultivation/protected/api/v1/cultivations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCultivation(t *testing.T) {
	svc := &fakeCultivationService{}
	router := protectedRouter(svc, nil, nil)
	body := map[string]any{"name": "Tenda 1", "seed_strain": "OG Kush", "plant_type": "photoperiod"}

	rec := doRequest(t, router, http.MethodPost, "/cultivation/protected/api/v1/cultivations", userToken(t, "u1"), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "u1", svc.gotUserID)
}

func TestGetCultivation_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		router := protectedRouter(&fakeCultivationService{err: tt.err}, nil, nil)
		path := "/cultivation/protected/api/v1/cultivations/" + uuid.NewString()

		rec := doRequest(t, router, http.MethodGet, path, userToken(t, "u1"), nil)
		assert.Equal(t, tt.status, rec.Code)
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	router := protectedRouter(&fakeCultivationService{err: errors.New("pq: password authentication failed")}, nil, nil)
	path := "/cultivation/protected/api/v1/cultivations/" + uuid.NewString()

	rec := doRequest(t, router, http.MethodGet, path, userToken(t, "u1"), nil)
	assert.Equal(t, "internal server error", decode(t, rec).Error.Message)
}

func TestListCultivations_Limit(t *testing.T) {
	svc := &fakeCultivationService{}
	router := protectedRouter(svc, nil, nil)
	token := userToken(t, "u1")

	rec := doRequest(t, router, http.MethodGet, "/cultivation/protected/api/v1/cultivations", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultListLimit, svc.gotLimit)
	assert.Equal(t, 2, *decode(t, rec).Meta.Total)

	rec = doRequest(t, router, http.MethodGet, "/cultivation/protected/api/v1/cultivations?limit=500", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCultivationStatus_At(t *testing.T) {
	svc := &fakeCultivationService{}
	router := protectedRouter(svc, nil, nil)
	base := "/cultivation/protected/api/v1/cultivations/" + uuid.NewString() + "/status"

	rec := doRequest(t, router, http.MethodGet, base+"?at=2025-03-01T00:00:00Z", userToken(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), svc.gotNow.UTC())

	rec = doRequest(t, router, http.MethodGet, base+"?at=yesterday", userToken(t, "u1"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeCultivation_AIUnavailable(t *testing.T) {
	router := protectedRouter(nil, &fakeAnalysisService{err: errors.Join(services.ErrAIUnavailable, errors.New("api key leaked"))}, nil)

	rec := doRequest(t, router, http.MethodPost, "/cultivation/protected/api/v1/ai/cultivation-analysis", userToken(t, "u1"), map[string]any{"question": "como está?"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	env := decode(t, rec)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "api key")
}

func TestNotifications(t *testing.T) {
	svc := &fakeNotificationService{}
	router := protectedRouter(nil, nil, svc)
	token := userToken(t, "u1")

	rec := doRequest(t, router, http.MethodGet, "/cultivation/protected/api/v1/notifications?unread=true&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.gotUnread)
	assert.Equal(t, 10, svc.gotLimit)

	rec = doRequest(t, router, http.MethodPost, "/cultivation/protected/api/v1/notifications/mark-all-read", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]float64
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, 3.0, data["updated"])
}

func TestNotificationPreferences(t *testing.T) {
	svc := &fakeNotificationService{}
	router := protectedRouter(nil, nil, svc)
	token := userToken(t, "u1")
	path := "/cultivation/protected/api/v1/notifications/preferences"

	rec := doRequest(t, router, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs models.NotificationPreferences
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &prefs))
	assert.Equal(t, "u1", prefs.UserID)
	assert.Equal(t, 22, prefs.QuietHoursStart)

	rec = doRequest(t, router, http.MethodPut, path, token, map[string]any{"push_enabled": false, "quiet_hours_end": 7})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.gotPreferences)
	assert.Equal(t, 7, *svc.gotPreferences.QuietHoursEnd)
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &prefs))
	assert.False(t, prefs.PushEnabled)

	for _, body := range []map[string]any{
		{"quiet_hours_start": 24},
		{"quiet_hours_end": -1},
		{"timezone": "Mars/Olympus_Mons"},
	} {
		rec = doRequest(t, router, http.MethodPut, path, token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestDashboard(t *testing.T) {
	svc := &fakeDashboardService{}
	router := gin.New()
	NewDashboardHandler(svc).RegisterRoutes(router, NewAuthMiddleware(testSecret).RequireAuth())

	rec := doRequest(t, router, http.MethodGet, "/cultivation/protected/api/v1/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/cultivation/protected/api/v1/dashboard", userToken(t, "u1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", svc.gotUser)

	var summary models.DashboardSummary
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &summary))
	assert.Equal(t, 2, summary.Stats.TotalCultivations)
	assert.Equal(t, 7, summary.Stats.TotalEvents)
}

// ============================================================================
// BODY LIMITS
// ============================================================================

func oversizedImageRequest(t *testing.T, path string, chunked bool) *http.Request {
	t.Helper()
	image := "data:image/png;base64," + strings.Repeat("A", int(maxImageBodyBytes))
	body, err := json.Marshal(map[string]any{"image": image, "cultivation_id": uuid.NewString()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+userToken(t, "u1"))
	if chunked {
		req.ContentLength = -1
	}
	return req
}

func TestImageRoutes_RejectOversizedBody(t *testing.T) {
	router := protectedRouter(&fakeCultivationService{}, &fakeAnalysisService{}, nil)

	for _, path := range []string{
		"/cultivation/protected/api/v1/images",
		"/cultivation/protected/api/v1/ai/vision",
	} {
		for _, chunked := range []bool{false, true} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, oversizedImageRequest(t, path, chunked))

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, "%s chunked=%v", path, chunked)
			assert.Equal(t, "PAYLOAD_TOO_LARGE", decode(t, rec).Error.Code)
		}
	}
}

func TestBodySizeLimit_AllowsSmallBodies(t *testing.T) {
	router := gin.New()
	router.POST("/echo", BodySizeLimit(64), func(c *gin.Context) {
		var req map[string]string
		if !bindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})

	rec := doRequest(t, router, http.MethodPost, "/echo", "", map[string]string{"a": "b"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/echo", "", map[string]string{"a": strings.Repeat("b", 100)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

// ============================================================================
// HEALTH
// ============================================================================

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakePublisherHealth struct{ healthy bool }

func (f fakePublisherHealth) HealthCheck() event.PublisherHealthStatus {
	return event.PublisherHealthStatus{IsHealthy: f.healthy, Queue: event.PushNotiQueue}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name      string
		db        error
		publisher PublisherHealth
		status    int
		want      string
	}{
		{"ok without publisher", nil, nil, http.StatusOK, "ok"},
		{"publisher down", nil, fakePublisherHealth{healthy: false}, http.StatusOK, "degraded"},
		{"database down", errors.New("refused"), fakePublisherHealth{healthy: true}, http.StatusServiceUnavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			NewHealthHandler(fakePinger{err: tt.db}, tt.publisher).RegisterRoutes(router)

			rec := doRequest(t, router, http.MethodGet, "/cultivation/public/api/v1/health", "", nil)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["status"])
		})
	}
}
