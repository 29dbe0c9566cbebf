package main

import (
	"log"

	"github.com/azvmotors/fleetcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
