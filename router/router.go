package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/handlers"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/metrics"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/middleware"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/models"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/services"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultMaxBodyBytes = 10 << 20

// Options carries the dependencies the routes are wired to.
type Options struct {
	Collection   *mongo.Collection
	Assets       services.AssetStore
	DBTimeout    time.Duration
	MaxBodyBytes int64
	// Ping checks the database for /health. Optional.
	Ping func(ctx context.Context) error
	// Metrics is created on a fresh registry when nil.
	Metrics *metrics.Metrics
}

// New builds the gin engine with every route of the API.
func New(opts Options) (*gin.Engine, error) {
	if err := models.RegisterValidators(); err != nil {
		return nil, err
	}

	m := opts.Metrics
	if m == nil {
		var err error
		if m, err = metrics.New(prometheus.NewRegistry()); err != nil {
			return nil, err
		}
	}
	if opts.Assets == nil {
		return nil, fmt.Errorf("router: asset store is required")
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(m.Middleware())
	r.Use(cors.New(corsConfig()))
	r.Use(middleware.BodyLimit(opts.MaxBodyBytes))

	pokemons := handlers.NewPokemonHandler(opts.Collection, opts.DBTimeout)
	images := handlers.NewImageHandler(opts.Assets, m)
	health := handlers.NewHealthHandler(opts.Ping)

	r.POST("/upload/pokemon/:id", images.UploadPokemonImage)
	r.GET(handlers.AssetsRoute+"/*filepath", images.ServeAsset)
	r.HEAD(handlers.AssetsRoute+"/*filepath", images.ServeAsset)

	r.GET("/", handlers.Home)
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.GET("/pokemons", pokemons.ListPokemons)
	r.GET("/pokemons/search/:name", pokemons.SearchPokemon)
	r.GET("/pokemons/:id", pokemons.GetPokemon)
	r.POST("/pokemons", pokemons.CreatePokemon)
	r.PUT("/pokemon/:id", pokemons.UpdatePokemon)
	r.DELETE("/pokemon/:id", pokemons.DeletePokemon)

	r.NoRoute(middleware.PreflightFallback)

	return r, nil
}

// corsConfig accepts any origin. Preflights answer 200 rather than the
// library's default 204.
func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type"}
	config.OptionsResponseStatusCode = http.StatusOK
	return config
}
