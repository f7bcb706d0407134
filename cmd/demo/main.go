package main

import "log"

func main() {
	log.Print("Running Authzee scenario demo")
	Run()
}
