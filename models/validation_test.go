package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPokemon() Pokemon {
	return Pokemon{
		ID:   25,
		Name: LocalizedName{English: "Pikachu", Japanese: "ピカチュウ", Chinese: "皮卡丘", French: "Pikachu"},
		Type: []string{"Electric"},
		Base: &BaseStats{HP: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90},
	}
}

func TestPokemonValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Pokemon)
		wantMsg string
	}{
		{"valid", func(p *Pokemon) {}, ""},
		{"missing id", func(p *Pokemon) { p.ID = 0 }, "id: is required"},
		{"negative id", func(p *Pokemon) { p.ID = -3 }, "id: must be at least 1"},
		{"missing english name", func(p *Pokemon) { p.Name.English = "" }, "name.english: is required"},
		{"unknown type", func(p *Pokemon) { p.Type = []string{"Plasma"} }, `type[0]: "Plasma" is not a valid pokemon type`},
		{"too many types", func(p *Pokemon) { p.Type = []string{"Fire", "Water", "Grass"} }, "type: must have at most 2 entries"},
		{"negative stat", func(p *Pokemon) { p.Base.Speed = -1 }, "base.Speed: must be at least 0"},
		{"no optional fields", func(p *Pokemon) { p.Type = nil; p.Base = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPokemon()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, ValidationMessage(err), tt.wantMsg)
		})
	}
}

func TestValidationMessage_NonValidationError(t *testing.T) {
	msg := ValidationMessage(assert.AnError)
	assert.Equal(t, "Invalid input: "+assert.AnError.Error(), msg)
}

func TestRegisterValidators_Idempotent(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators())
}
