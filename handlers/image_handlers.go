package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/metrics"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/models"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/services"
)

// Longer timeout for decode + storage write than for plain DB calls
const uploadTimeout = 30 * time.Second

const (
	// AssetsRoute is the public prefix under which stored assets are served.
	AssetsRoute = "/assets"
	// pokemonImageDir is the asset directory holding pokemon images.
	pokemonImageDir = "pokemons"
)

// ImageHandler stores uploaded pokemon images and serves stored assets back.
type ImageHandler struct {
	store   services.AssetStore
	metrics *metrics.Metrics
}

// NewImageHandler returns a handler writing to store. m may be nil.
func NewImageHandler(store services.AssetStore, m *metrics.Metrics) *ImageHandler {
	return &ImageHandler{store: store, metrics: m}
}

// UploadPokemonImage godoc
// @Summary Upload a pokemon image
// @Description Accepts a base64 data URL, or imageBase64 + mimeType. Only png, jpeg and webp are stored. The image is written to assets/pokemons/<id>.<ext>, replacing any previous upload.
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "Pokemon id"
// @Param image body models.UploadImagePayload true "Image payload"
// @Success 200 {object} models.UploadImageResponse "Public URL of the stored image"
// @Failure 400 {object} map[string]string "Malformed or unsupported image"
// @Failure 413 {object} map[string]string "Request body too large"
// @Failure 500 {object} map[string]string "Failed to save image"
// @Router /upload/pokemon/{id} [post]
func (h *ImageHandler) UploadPokemonImage(c *gin.Context) {
	id := c.Param("id")

	var payload models.UploadImagePayload
	// An empty body is treated as an empty payload and rejected below.
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		h.observe("", "rejected", 0)
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	img, err := services.DecodeImagePayload(payload.DataURL, payload.ImageBase64, payload.MimeType)
	if err != nil {
		h.observe("", "rejected", 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": uploadErrorMessage(err)})
		return
	}

	fileName := id + "." + img.Extension
	key := path.Join(pokemonImageDir, fileName)

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if err := h.store.Save(ctx, key, img.Data, img.MimeType); err != nil {
		log.Printf("Error saving image for pokemon '%s': %v", id, err)
		h.observe(img.MimeType, "failed", 0)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	h.observe(img.MimeType, "stored", len(img.Data))
	c.JSON(http.StatusOK, models.UploadImageResponse{URL: publicAssetURL(c.Request, key)})
}

// ServeAsset streams a stored asset. Range and conditional requests are
// handled by http.ServeContent.
func (h *ImageHandler) ServeAsset(c *gin.Context) {
	key := services.CleanAssetKey(c.Param("filepath"))
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	asset, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			log.Printf("Error opening asset '%s': %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read asset"})
		}
		return
	}
	defer asset.Content.Close()

	if asset.ContentType != "" {
		c.Header("Content-Type", asset.ContentType)
	}
	http.ServeContent(c.Writer, c.Request, path.Base(key), asset.ModTime, asset.Content)
}

func (h *ImageHandler) observe(mimeType, result string, size int) {
	if h.metrics != nil {
		h.metrics.ObserveUpload(mimeType, result, size)
	}
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidDataURL):
		return "Invalid data URL format"
	case errors.Is(err, services.ErrMissingImage):
		return "imageBase64 and mimeType are required"
	case errors.Is(err, services.ErrUnsupportedMIME):
		return "Only image/png, image/jpeg, image/webp are allowed"
	case errors.Is(err, services.ErrInvalidBase64):
		return "Invalid base64 payload"
	default:
		return err.Error()
	}
}

// publicAssetURL builds the URL of key from the scheme and host the client used.
func publicAssetURL(r *http.Request, key string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + AssetsRoute + "/" + key
}
