package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kase1111-hash/speccheck/internal/analyze"
	"github.com/kase1111-hash/speccheck/internal/model"
)

func ptr(v float64) *float64 {
	return &v
}

func testLED() model.ComponentWithSpecs {
	return model.ComponentWithSpecs{
		Match: model.MatchedComponent{
			Status:     model.MatchConfident,
			PartNumber: "XHP50.2",
			Category:   model.ComponentLED,
			Confidence: 0.95,
		},
		Specs: &model.ComponentSpecs{
			PartNumber: "XHP50.2",
			Category:   model.ComponentLED,
			Specs: map[string]model.SpecValue{
				model.SpecLuminousFlux:   {Value: 1000, Unit: "lm", Max: ptr(1052)},
				model.SpecMaxCurrent:     {Value: 3000, Unit: "mA"},
				model.SpecForwardVoltage: {Value: 6, Unit: "V"},
			},
		},
	}
}

func newTestServer(t *testing.T, mutate func(*model.ServerConfig)) http.Handler {
	t.Helper()
	cfg := model.DefaultConfig()
	if mutate != nil {
		mutate(&cfg.Server)
	}
	return New(cfg.Server, analyze.NewAnalyzer(cfg, nil, nil, nil), nil).Handler()
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["err"]
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestParse(t *testing.T) {
	h := newTestServer(t, nil)

	w := post(t, h, "/api/v1/parse", gin.H{"text": "20,000mAh / 65W", "source": "listing"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Claims []parsedClaim `json:"claims"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Claims, 2)
	assert.Equal(t, model.CategoryMAh, body.Claims[0].Claim.Category)
	assert.Equal(t, 20000.0, body.Claims[0].Claim.Value)
	assert.Equal(t, model.SourceListing, body.Claims[0].Claim.Source)
	assert.Equal(t, model.CategoryWatts, body.Claims[1].Claim.Category)
	assert.True(t, body.Claims[1].Validation.Valid)
}

func TestParse_Errors(t *testing.T) {
	h := newTestServer(t, nil)

	w := post(t, h, "/api/v1/parse", gin.H{"text": "feels sturdy"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, analyze.ErrUnparsableClaim.Error(), errorOf(t, w))

	w = post(t, h, "/api/v1/parse", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, h, "/api/v1/parse", gin.H{"text": "65W", "source": "rumour"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerify(t *testing.T) {
	h := newTestServer(t, nil)

	w := post(t, h, "/api/v1/verify", gin.H{
		"claim":      "5000 lumens",
		"components": []model.ComponentWithSpecs{testLED()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body verifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Report)
	assert.Equal(t, model.VerdictImpossible, body.Report.Verdict.Result)
	assert.Equal(t, 1052.0, body.Report.Verdict.MaxPossible)
	assert.Equal(t, model.VerdictImpossible, body.Analysis.Verdict)
	assert.Equal(t, body.Report.Verdict.Explanation, body.Analysis.Reasoning)
}

func TestVerify_All(t *testing.T) {
	h := newTestServer(t, nil)

	w := post(t, h, "/api/v1/verify", gin.H{
		"claim":      "1000 lumens and 5000 lumens",
		"components": []model.ComponentWithSpecs{testLED()},
		"all":        true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []verifyResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, model.VerdictPlausible, body.Results[0].Report.Verdict.Result)
	assert.Equal(t, model.VerdictImpossible, body.Results[1].Report.Verdict.Result)
}

func TestVerify_Errors(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"missing claim", gin.H{}, http.StatusBadRequest},
		{"unparsable", gin.H{"claim": "very bright"}, http.StatusUnprocessableEntity},
		{"unknown product", gin.H{"claim": "65W", "product": "toaster"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, "/api/v1/verify", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.NotEmpty(t, errorOf(t, w))
		})
	}
}

func TestShare(t *testing.T) {
	h := newTestServer(t, nil)
	part := "LM3409"

	w := post(t, h, "/api/v1/share", shareRequest{Verdict: model.Verdict{
		Result:      model.VerdictImpossible,
		Confidence:  model.ConfidenceHigh,
		Claimed:     2000,
		MaxPossible: 526,
		Unit:        "lm",
		Bottleneck:  &part,
		Explanation: "The claimed 2.0k lm is not achievable.",
		AnalyzedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Verdict: ❌ Impossible")
	assert.Contains(t, w.Body.String(), "Analyzed: 2026-03-14T09:26:53Z")

	w = post(t, h, "/api/v1/share", gin.H{"verdict": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, func(cfg *model.ServerConfig) {
		cfg.RequestsPerSecond = 0.001
		cfg.Burst = 1
	})

	first := post(t, h, "/api/v1/parse", gin.H{"text": "65W"})
	second := post(t, h, "/api/v1/parse", gin.H{"text": "65W"})

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "rate limit exceeded", errorOf(t, second))

	// Health checks are never throttled
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, func(cfg *model.ServerConfig) {
		cfg.CORSOrigins = []string{"https://speccheck.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/verify", nil)
	req.Header.Set("Origin", "https://speccheck.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://speccheck.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_Shutdown(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	srv := New(cfg.Server, analyze.NewAnalyzer(cfg, nil, nil, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
