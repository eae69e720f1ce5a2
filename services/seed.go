package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReadPokedex decodes a JSON array of pokemons and validates every entry.
// The first invalid entry aborts the read.
func ReadPokedex(r io.Reader) ([]models.Pokemon, error) {
	var pokemons []models.Pokemon
	if err := json.NewDecoder(r).Decode(&pokemons); err != nil {
		return nil, fmt.Errorf("decode pokedex: %w", err)
	}

	for i := range pokemons {
		if err := pokemons[i].Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %s", i, models.ValidationMessage(err))
		}
	}
	return pokemons, nil
}

// SeedPokemons upserts every pokemon by its application id in a single
// unordered bulk write. Existing documents are replaced in full.
func SeedPokemons(ctx context.Context, coll *mongo.Collection, pokemons []models.Pokemon) (*mongo.BulkWriteResult, error) {
	if len(pokemons) == 0 {
		return &mongo.BulkWriteResult{}, nil
	}

	writes := make([]mongo.WriteModel, 0, len(pokemons))
	for _, p := range pokemons {
		p.ObjectID = primitive.NilObjectID
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": p.ID}).
			SetReplacement(p).
			SetUpsert(true))
	}

	result, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return result, fmt.Errorf("bulk upsert pokemons: %w", err)
	}

	log.Printf("Seeded pokemons: %d inserted, %d replaced", result.UpsertedCount, result.ModifiedCount)
	return result, nil
}
