package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantframe/forecast-api-go/internal/cache"
	"github.com/quantframe/forecast-api-go/internal/models"
	"github.com/quantframe/forecast-api-go/internal/services"
	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

type stubForecaster struct {
	ready bool
	err   error
	calls int
}

func (s *stubForecaster) Initialize(ctx context.Context) error { return nil }
func (s *stubForecaster) IsReady(ctx context.Context) bool     { return s.ready }
func (s *stubForecaster) Close() error                         { return nil }
func (s *stubForecaster) ModelVersion() string                 { return "timesfm-test" }

func (s *stubForecaster) Forecast(ctx context.Context, horizon int, inputs [][]float64) (*timesfm.ForecastOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	points := make([][]float64, len(inputs))
	for i, series := range inputs {
		last := series[len(series)-1]
		row := make([]float64, horizon)
		for j := range row {
			row[j] = last + float64(j+1)
		}
		points[i] = row
	}
	return &timesfm.ForecastOutput{PointForecasts: points, ModelVersion: "timesfm-test"}, nil
}

func setupRouter(f timesfm.Forecaster, predictionCache *cache.PredictionCache) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service := services.NewPredictionService(f, logger)
	handler := NewPredictionHandler(service, f, predictionCache)

	router := gin.New()
	router.POST("/predict", handler.Predict)
	router.POST("/batch-predict", handler.BatchPredict)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewBufferString(raw)
	} else if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorField(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func seriesBody(symbol string, n, horizon int) map[string]any {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return map[string]any{"symbol": symbol, "prices": prices, "horizon": horizon}
}

func TestPredict_Success(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 30, 7))
	require.Equal(t, http.StatusOK, w.Code)

	var result models.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "BTC/USDT", result.Symbol)
	assert.Equal(t, models.DirectionUp, result.Direction)
	assert.Equal(t, 7, result.Horizon)
	assert.Len(t, result.Forecast, 7)
	assert.Equal(t, "timesfm-test", result.ModelVersion)
}

func TestPredict_CoercesUnsupportedHorizon(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 30, 14))
	require.Equal(t, http.StatusOK, w.Code)

	var result models.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 7, result.Horizon)
}

func TestPredict_ModelNotLoaded(t *testing.T) {
	stub := &stubForecaster{ready: false}
	router := setupRouter(stub, nil)

	w := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 30, 7))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Model not loaded", errorField(t, w))
	assert.Equal(t, 0, stub.calls)
}

func TestPredict_MissingBody(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/predict", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data provided", errorField(t, w))
}

func TestPredict_EmptyObjectBody(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/predict", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data provided", errorField(t, w))
}

func TestPredict_MalformedJSON(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/predict", `{"prices": [not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No data provided", errorField(t, w))
}

func TestPredict_InsufficientHistory(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 29, 7))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Need at least 30 price data points", errorField(t, w))
}

func TestPredict_DefaultsSymbol(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	body := seriesBody("", 30, 1)
	delete(body, "symbol")
	w := doJSON(t, router, "/predict", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "UNKNOWN", result.Symbol)
}

func TestPredict_ForecastingFailure(t *testing.T) {
	stub := &stubForecaster{ready: true, err: errors.New("model runner error (500): inference crashed")}
	router := setupRouter(stub, nil)

	w := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 30, 7))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorField(t, w), "inference crashed")
}

func TestPredict_CachedResponse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	predictionCache := cache.NewPredictionCache(client, time.Minute)

	stub := &stubForecaster{ready: true}
	router := setupRouter(stub, predictionCache)

	body := seriesBody("BTC/USDT", 30, 7)

	first := doJSON(t, router, "/predict", body)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, stub.calls)

	second := doJSON(t, router, "/predict", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, stub.calls, "second identical request should be served from cache")

	var a, b models.PredictionResult
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.Forecast, b.Forecast)
	assert.Equal(t, a.Confidence, b.Confidence)
}

func TestPredict_CacheKeyNormalized(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	predictionCache := cache.NewPredictionCache(client, time.Minute)

	stub := &stubForecaster{ready: true}
	router := setupRouter(stub, predictionCache)

	// Unsupported horizon coerces to 7; the cached entry must be
	// shared with an explicit horizon-7 request for the same series.
	first := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 30, 5))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, stub.calls)

	second := doJSON(t, router, "/predict", seriesBody("BTC/USDT", 30, 7))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, stub.calls)

	// Same for the defaulted symbol.
	anon := seriesBody("", 30, 7)
	delete(anon, "symbol")
	third := doJSON(t, router, "/predict", anon)
	require.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, 2, stub.calls)

	fourth := doJSON(t, router, "/predict", seriesBody("UNKNOWN", 30, 7))
	require.Equal(t, http.StatusOK, fourth.Code)
	assert.Equal(t, 2, stub.calls)
}

func TestBatchPredict_Success(t *testing.T) {
	stub := &stubForecaster{ready: true}
	router := setupRouter(stub, nil)

	w := doJSON(t, router, "/batch-predict", map[string]any{
		"requests": []map[string]any{
			seriesBody("BTC/USDT", 30, 1),
			seriesBody("TOO_SHORT", 5, 7),
			seriesBody("ETH/USDT", 40, 30),
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchPredictionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Predictions, 2)
	assert.Equal(t, "BTC/USDT", resp.Predictions[0].Symbol)
	assert.Len(t, resp.Predictions[0].Forecast, 1)
	assert.Equal(t, "ETH/USDT", resp.Predictions[1].Symbol)
	assert.Len(t, resp.Predictions[1].Forecast, 30)
	assert.Equal(t, 1, stub.calls)
}

func TestBatchPredict_NoRequests(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/batch-predict", map[string]any{"requests": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No requests provided", errorField(t, w))
}

func TestBatchPredict_AllItemsInvalid(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: true}, nil)

	w := doJSON(t, router, "/batch-predict", map[string]any{
		"requests": []map[string]any{
			seriesBody("A", 3, 7),
			seriesBody("B", 0, 1),
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No valid inputs (need at least 30 prices each)", errorField(t, w))
}

func TestBatchPredict_ModelNotLoaded(t *testing.T) {
	router := setupRouter(&stubForecaster{ready: false}, nil)

	w := doJSON(t, router, "/batch-predict", map[string]any{
		"requests": []map[string]any{seriesBody("BTC/USDT", 30, 7)},
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Model not loaded", errorField(t, w))
}
