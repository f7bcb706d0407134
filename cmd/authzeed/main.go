package main

import "log"

func main() {
	log.Print("Initializing authzeed")
	if err := Run(); err != nil {
		log.Fatal(err)
	}
}
