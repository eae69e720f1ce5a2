package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Context timeout for database operations when none is configured
const defaultDBTimeout = 5 * time.Second

var notFoundBody = gin.H{"error": "Pokemon not found"}

// PokemonHandler serves the CRUD routes over the pokemon collection.
type PokemonHandler struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewPokemonHandler binds the handlers to coll. Every database call gets its
// own context bounded by timeout. models.RegisterValidators must have
// succeeded before the handlers bind a request; router.New does that.
func NewPokemonHandler(coll *mongo.Collection, timeout time.Duration) *PokemonHandler {
	if timeout <= 0 {
		timeout = defaultDBTimeout
	}
	return &PokemonHandler{coll: coll, timeout: timeout}
}

func (h *PokemonHandler) dbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

// ListPokemons godoc
// @Summary List all pokemons
// @Description Get every pokemon in the collection with the total count. No pagination.
// @Tags pokemons
// @Produce json
// @Success 200 {object} models.ListPokemonsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pokemons [get]
func (h *PokemonHandler) ListPokemons(c *gin.Context) {
	ctx, cancel := h.dbContext()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := h.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Printf("Error finding pokemons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var pokemons []models.Pokemon
	if err := cursor.All(ctx, &pokemons); err != nil {
		log.Printf("Error decoding pokemons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Return empty array instead of null if the collection is empty
	if pokemons == nil {
		pokemons = []models.Pokemon{}
	}

	c.JSON(http.StatusOK, models.ListPokemonsResponse{
		Pokemons:      pokemons,
		TotalPokemons: len(pokemons),
	})
}

// SearchPokemon godoc
// @Summary Find a pokemon by name
// @Description Case-insensitive substring match on the english, japanese, chinese and french names. Returns the first match by id.
// @Tags pokemons
// @Produce json
// @Param name path string true "Part of the pokemon name, in any language"
// @Success 200 {object} models.Pokemon
// @Failure 404 {object} map[string]string "Pokemon not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pokemons/search/{name} [get]
func (h *PokemonHandler) SearchPokemon(c *gin.Context) {
	ctx, cancel := h.dbContext()
	defer cancel()

	name := c.Param("name")
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name.english": pattern},
		bson.M{"name.japanese": pattern},
		bson.M{"name.chinese": pattern},
		bson.M{"name.french": pattern},
	}}
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: 1}})

	var pokemon models.Pokemon
	err := h.coll.FindOne(ctx, filter, opts).Decode(&pokemon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, notFoundBody)
		} else {
			log.Printf("Error searching pokemon '%s': %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, pokemon)
}

// GetPokemon godoc
// @Summary Get a pokemon by id
// @Tags pokemons
// @Produce json
// @Param id path int true "Pokemon id"
// @Success 200 {object} models.Pokemon
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 {object} map[string]string "Pokemon not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pokemons/{id} [get]
func (h *PokemonHandler) GetPokemon(c *gin.Context) {
	id, ok := pokemonIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := h.dbContext()
	defer cancel()

	var pokemon models.Pokemon
	err := h.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pokemon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, notFoundBody)
		} else {
			log.Printf("Error finding pokemon %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, pokemon)
}

// CreatePokemon godoc
// @Summary Create a pokemon
// @Description Validates the body and inserts it. Duplicate ids are rejected by the unique index.
// @Tags pokemons
// @Accept json
// @Produce json
// @Param pokemon body models.Pokemon true "Pokemon data"
// @Success 201 {object} models.PokemonMessageResponse
// @Failure 400 {object} map[string]string "Invalid input or database rejection"
// @Failure 413 {object} map[string]string "Request body too large"
// @Router /pokemons [post]
func (h *PokemonHandler) CreatePokemon(c *gin.Context) {
	var pokemon models.Pokemon
	if !bindPokemon(c, &pokemon) {
		return
	}
	// MongoDB generates _id; a client-supplied one is ignored.
	pokemon.ObjectID = primitive.NilObjectID

	ctx, cancel := h.dbContext()
	defer cancel()

	result, err := h.coll.InsertOne(ctx, pokemon)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			log.Printf("Error inserting pokemon %d: %v", pokemon.ID, err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		pokemon.ObjectID = oid
	}

	c.JSON(http.StatusCreated, models.PokemonMessageResponse{
		Message: "Pokemon created successfully",
		Pokemon: pokemon,
	})
}

// UpdatePokemon godoc
// @Summary Replace a pokemon
// @Description Full-document replace of the pokemon with the given id. Fields omitted from the body are dropped.
// @Tags pokemons
// @Accept json
// @Produce json
// @Param id path int true "Pokemon id"
// @Param pokemon body models.Pokemon true "Replacement document"
// @Success 200 {object} models.PokemonMessageResponse
// @Failure 400 {object} map[string]string "Invalid input or database rejection"
// @Failure 404 {object} map[string]string "Pokemon not found"
// @Router /pokemon/{id} [put]
func (h *PokemonHandler) UpdatePokemon(c *gin.Context) {
	id, ok := pokemonIDParam(c)
	if !ok {
		return
	}

	var replacement models.Pokemon
	if !bindPokemon(c, &replacement) {
		return
	}
	// The existing _id is kept by MongoDB on replace.
	replacement.ObjectID = primitive.NilObjectID

	ctx, cancel := h.dbContext()
	defer cancel()

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated models.Pokemon
	err := h.coll.FindOneAndReplace(ctx, bson.M{"id": id}, replacement, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, notFoundBody)
		} else {
			log.Printf("Error replacing pokemon %d: %v", id, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, models.PokemonMessageResponse{
		Message: "Pokemon updated successfully",
		Pokemon: updated,
	})
}

// DeletePokemon godoc
// @Summary Delete a pokemon
// @Tags pokemons
// @Produce json
// @Param id path int true "Pokemon id"
// @Success 200 {object} models.PokemonMessageResponse "Deleted pokemon"
// @Failure 404 {object} map[string]string "Pokemon not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /pokemon/{id} [delete]
func (h *PokemonHandler) DeletePokemon(c *gin.Context) {
	id, ok := pokemonIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := h.dbContext()
	defer cancel()

	var deleted models.Pokemon
	err := h.coll.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, notFoundBody)
		} else {
			log.Printf("Error deleting pokemon %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, models.PokemonMessageResponse{
		Message: "Pokemon deleted successfully",
		Pokemon: deleted,
	})
}

func pokemonIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pokemon id"})
		return 0, false
	}
	return id, true
}

// bindPokemon decodes and validates the JSON body, writing the error
// response itself when that fails.
func bindPokemon(c *gin.Context, pokemon *models.Pokemon) bool {
	err := c.ShouldBindJSON(pokemon)
	if err == nil {
		return true
	}
	if isBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": models.ValidationMessage(err)})
	return false
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
