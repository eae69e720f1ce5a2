package database_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/database"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/router"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/services"
)

// startMongo runs a throwaway MongoDB container and connects the package to it.
// The test is skipped when Docker is not reachable.
func startMongo(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start mongo")
	t.Cleanup(func() {
		_ = database.Disconnect(context.Background())
		_ = pool.Purge(resource)
	})

	uri := fmt.Sprintf("mongodb://localhost:%s", resource.GetPort("27017/tcp"))
	dbName := fmt.Sprintf("pokedex_test_%d", time.Now().UnixNano())
	require.NoError(t, pool.Retry(func() error {
		return database.Connect(uri, dbName, "pokemons", database.WithoutBackgroundIndexes())
	}), "mongo never became ready")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, database.EnsureIndexes(ctx, database.GetCollection()))

	specs, err := database.GetCollection().Indexes().ListSpecifications(ctx)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, idx := range specs {
		names[idx.Name] = idx.Unique != nil && *idx.Unique
	}
	require.Contains(t, names, "id_unique")
	require.True(t, names["id_unique"], "id index must be unique")
	require.Contains(t, names, "name_english")
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestPokemonLifecycleAgainstMongo(t *testing.T) {
	startMongo(t)
	gin.SetMode(gin.TestMode)

	engine, err := router.New(router.Options{
		Collection:   database.GetCollection(),
		Assets:       services.NewLocalStoreFs(afero.NewMemMapFs()),
		DBTimeout:    5 * time.Second,
		MaxBodyBytes: 10 << 20,
		Ping:         database.Ping,
	})
	require.NoError(t, err)

	pikachu := `{"id": 25, "name": {"english": "Pikachu", "japanese": "ピカチュウ", "french": "Pikachu"}, "type": ["Electric"]}`

	w := do(t, engine, http.MethodPost, "/pokemons", pikachu)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, engine, http.MethodPost, "/pokemons", pikachu)
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate id must be rejected by the unique index")

	w = do(t, engine, http.MethodGet, "/pokemons/25", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"english":"Pikachu"`)

	w = do(t, engine, http.MethodGet, "/pokemons/search/PIKA", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":25`)

	w = do(t, engine, http.MethodGet, "/pokemons/search/a.c", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "search terms are literal, not regular expressions")

	w = do(t, engine, http.MethodPut, "/pokemon/25", `{"id": 25, "name": {"english": "Raichu"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"english":"Raichu"`)
	assert.NotContains(t, w.Body.String(), "Electric", "replace drops omitted fields")

	w = do(t, engine, http.MethodGet, "/pokemons", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPokemons":1`)

	w = do(t, engine, http.MethodDelete, "/pokemon/25", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodDelete, "/pokemon/25", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPingBeforeConnect(t *testing.T) {
	assert.ErrorIs(t, database.Ping(context.Background()), database.ErrNotConnected)
	assert.NoError(t, database.Disconnect(context.Background()))
	assert.Nil(t, database.GetCollection())
}
