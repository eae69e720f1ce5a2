package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pokemon represents a pokedex entry stored in the MongoDB collection.
// ID is the application-level identifier used by every lookup; ObjectID is
// whatever MongoDB generated and is never used as a key.
type Pokemon struct {
	ObjectID    primitive.ObjectID `json:"_id,omitzero" bson:"_id,omitempty"`
	ID          int                `json:"id" bson:"id" binding:"required,min=1"`
	Name        LocalizedName      `json:"name" bson:"name"`
	Type        []string           `json:"type,omitempty" bson:"type,omitempty" binding:"omitempty,max=2,dive,pokemontype"`
	Base        *BaseStats         `json:"base,omitempty" bson:"base,omitempty"`
	Species     string             `json:"species,omitempty" bson:"species,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Profile     *Profile           `json:"profile,omitempty" bson:"profile,omitempty"`
	Image       *Image             `json:"image,omitempty" bson:"image,omitempty"`
}

// LocalizedName holds the pokemon name per language. Search matches all four.
type LocalizedName struct {
	English  string `json:"english" bson:"english" binding:"required"`
	Japanese string `json:"japanese,omitempty" bson:"japanese,omitempty"`
	Chinese  string `json:"chinese,omitempty" bson:"chinese,omitempty"`
	French   string `json:"french,omitempty" bson:"french,omitempty"`
}

// BaseStats uses the pokedex JSON keys on the wire. The bson keys avoid
// dotted field names in MongoDB.
type BaseStats struct {
	HP        int `json:"HP" bson:"hp" binding:"min=0"`
	Attack    int `json:"Attack" bson:"attack" binding:"min=0"`
	Defense   int `json:"Defense" bson:"defense" binding:"min=0"`
	SpAttack  int `json:"Sp. Attack" bson:"spAttack" binding:"min=0"`
	SpDefense int `json:"Sp. Defense" bson:"spDefense" binding:"min=0"`
	Speed     int `json:"Speed" bson:"speed" binding:"min=0"`
}

type Profile struct {
	Height  string     `json:"height,omitempty" bson:"height,omitempty"`
	Weight  string     `json:"weight,omitempty" bson:"weight,omitempty"`
	Egg     []string   `json:"egg,omitempty" bson:"egg,omitempty"`
	Ability [][]string `json:"ability,omitempty" bson:"ability,omitempty"`
	Gender  string     `json:"gender,omitempty" bson:"gender,omitempty"`
}

type Image struct {
	Sprite    string `json:"sprite,omitempty" bson:"sprite,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	HiRes     string `json:"hires,omitempty" bson:"hires,omitempty"`
}

// PokemonTypes is the closed set accepted in Pokemon.Type.
var PokemonTypes = []string{
	"Normal", "Fire", "Water", "Grass", "Electric", "Ice",
	"Fighting", "Poison", "Ground", "Flying", "Psychic", "Bug",
	"Rock", "Ghost", "Dragon", "Dark", "Steel", "Fairy",
}

// ListPokemonsResponse is the body of GET /pokemons.
type ListPokemonsResponse struct {
	Pokemons      []Pokemon `json:"pokemons"`
	TotalPokemons int       `json:"totalPokemons"`
}

// PokemonMessageResponse is returned by create, update and delete.
type PokemonMessageResponse struct {
	Message string  `json:"message"`
	Pokemon Pokemon `json:"pokemon"`
}

// UploadImagePayload is the JSON body of POST /upload/pokemon/:id.
// DataURL takes precedence over the explicit fields when set.
type UploadImagePayload struct {
	DataURL     string `json:"dataUrl"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// UploadImageResponse carries the public URL of the stored image.
type UploadImageResponse struct {
	URL string `json:"url"`
}
