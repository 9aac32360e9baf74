package main

import (
	"log"

	"github.com/teamfit/teamfit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
