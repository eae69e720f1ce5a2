package main

import (
	"github.com/zkerkeb-class/tp-partie-back-darkmaul01/cmd"
)

// @title Pokemon API (MongoDB)
// @version 1.0
// @description CRUD over the pokedex collection plus pokemon image uploads.

// @license.name MIT

// @host localhost:3000
// @BasePath /
func main() {
	// Configuration (.env, environment, flags) is resolved by the command.
	cmd.Execute()
}
