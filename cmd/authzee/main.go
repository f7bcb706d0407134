package main

import (
	"log"

	"github.com/authzee/authzee-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
