package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/authzee/authzee-go/internal/di"
	"github.com/authzee/authzee-go/internal/server"
	"github.com/authzee/authzee-go/internal/workflow"
)

func Run() error {
	engine := workflow.New(di.ProvideSearcher()).WithOptions(workflow.Options{Concurrency: concurrency()})

	h := server.BuildRouter(server.Deps{Engine: engine}, server.Options{
		EnableCORS:     true,
		AuditSkipEvery: 4,
	})

	srv := &http.Server{Addr: ":" + port(), Handler: h}
	log.Print("listening on port ::: " + srv.Addr)
	return srv.ListenAndServe()
}

func port() string {
	if p := os.Getenv("AUTHZEED_PORT"); p != "" {
		if _, err := strconv.Atoi(p); err == nil {
			return p
		}
	}
	return "8085"
}

func concurrency() int {
	if v := os.Getenv("AUTHZEED_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
