package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/config"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/database"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/router"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/services"
)

const readHeaderTimeout = 10 * time.Second

func serveCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg)
		},
	}
}

// runServer connects to MongoDB, serves HTTP until ctx is cancelled, then
// drains in-flight requests and closes the database connection.
func runServer(ctx context.Context, cfg *config.Config) error {
	if err := database.Connect(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection); err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := database.Disconnect(dctx); err != nil {
			log.Printf("Error during MongoDB disconnect: %v", err)
		}
	}()

	store, err := newAssetStore(ctx, cfg)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	engine, err := router.New(router.Options{
		Collection:   database.GetCollection(),
		Assets:       store,
		DBTimeout:    cfg.DBTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Ping:         database.Ping,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting and listening on http://localhost:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Println("Server stopped.")
	return nil
}

func newAssetStore(ctx context.Context, cfg *config.Config) (services.AssetStore, error) {
	switch cfg.AssetStorage {
	case config.StorageMinio:
		store, err := services.NewMinioStore(ctx, services.MinioOptions{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Region:    cfg.Minio.Region,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("Storing assets in MinIO bucket %q at %s", cfg.Minio.Bucket, cfg.Minio.Endpoint)
		return store, nil
	default:
		log.Printf("Storing assets under %s", cfg.AssetsDir)
		return services.NewLocalStore(cfg.AssetsDir), nil
	}
}
