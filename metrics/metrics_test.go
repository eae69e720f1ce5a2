package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/pokemons/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/pokemons/1", "/pokemons/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/pokemons/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveUpload(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveUpload("image/png", "stored", 128)
	m.ObserveUpload("", "rejected", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageUploads.WithLabelValues("image/png", "stored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImageUploads.WithLabelValues("unknown", "rejected")))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.ImageBytes))
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)
	m.ObserveUpload("image/webp", "stored", 1)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pokemon_api_image_uploads_total{mime_type="image/webp",result="stored"} 1`)
}
