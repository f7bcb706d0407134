package cli

import (
	"fmt"
	"net/http"

	"github.com/authzee/authzee-go/internal/di"
	"github.com/authzee/authzee-go/internal/server"
	"github.com/authzee/authzee-go/internal/workflow"
	"github.com/spf13/cobra"
)

// cmdServe starts authzeed in-process: one stateless workflow server
// listening directly, with no subprocess to spawn or supervise.
func cmdServe() *cobra.Command {
	var port int
	var concurrency int
	var enableCORS bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start authzeed, the workflow HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := workflow.New(di.ProvideSearcher()).WithOptions(workflow.Options{Concurrency: concurrency})
			router := server.BuildRouter(server.Deps{Engine: engine}, server.Options{
				EnableCORS:     enableCORS,
				AuditSkipEvery: 4,
			})

			addr := fmt.Sprintf(":%d", port)
			fmt.Printf("authzeed listening on %s\n", addr)
			return http.ListenAndServe(addr, router)
		},
	}
	c.Flags().IntVar(&port, "port", 8085, "listen port")
	c.Flags().IntVar(&concurrency, "concurrency", 0, "max grants evaluated concurrently per workflow call (0 = serial)")
	c.Flags().BoolVar(&enableCORS, "cors", false, "enable permissive CORS for browser clients")
	return c
}
