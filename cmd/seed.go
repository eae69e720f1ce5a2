package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/config"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/database"
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/services"
)

const seedTimeout = 2 * time.Minute

func seedCommand(v *viper.Viper) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert pokemons from a pokedex JSON file",
		Long:  "Reads a JSON array of pokemons, validates every entry and upserts them by id. Existing entries are replaced.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			// Read and validate before touching the database.
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open pokedex: %w", err)
			}
			defer f.Close()

			pokemons, err := services.ReadPokedex(f)
			if err != nil {
				return err
			}

			if err := database.Connect(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, database.WithoutBackgroundIndexes()); err != nil {
				return err
			}
			defer func() {
				if err := database.Disconnect(context.Background()); err != nil {
					log.Printf("Error during MongoDB disconnect: %v", err)
				}
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), seedTimeout)
			defer cancel()

			coll := database.GetCollection()
			if err := database.EnsureIndexes(ctx, coll); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}

			result, err := services.SeedPokemons(ctx, coll, pokemons)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d pokemons from %s (%d inserted, %d replaced)\n",
				len(pokemons), file, result.UpsertedCount, result.ModifiedCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "data/pokedex.json", "Path to a JSON array of pokemons")
	return cmd
}
