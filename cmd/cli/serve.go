package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"gospc/internal/api"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Long: `Start the HTTP API. Runs are persisted when DATABASE_URL is set.

Endpoints:
  POST /api/v1/capability   POST /api/v1/hypothesis
  POST /api/v1/battery      POST /api/v1/gage
  GET  /api/v1/specs        GET  /api/v1/runs[/:id]
  GET  /healthz             GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.Close()

			if port == "" {
				port = e.cfg.Server.Port
			}
			gin.SetMode(e.cfg.Server.GinMode)
			return api.NewServer(e.svc).ListenAndServe(cmd.Context(), ":"+port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default: PORT)")
	return cmd
}
