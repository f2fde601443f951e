// Package main provides the TMS CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SebastinST/tms-backend/internal/config"
	"github.com/SebastinST/tms-backend/internal/logging"
	"github.com/SebastinST/tms-backend/internal/notify"
	"github.com/SebastinST/tms-backend/internal/store/sqlite"
	"github.com/SebastinST/tms-backend/internal/workflow"
)

var (
	version = "0.1.0"
	backend *sqlite.Backend
	engine  *workflow.Engine
	events  *notify.NATSPublisher
	pretty  = true
	log     = logging.New("cli")
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tms",
		Short: "Task Management System backend",
		Long: `TMS: task workflow backend with group-scoped authorization.

Tasks move through a fixed lifecycle (Open → ToDo → Doing → Done → Close).
Each application configures which group may act on tasks per state, and
every mutation appends an entry to the task's immutable note trail.

Use 'tms status' to show backend status.
Use 'tms help' for the full command list.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env := config.Env()

			var err error
			backend, err = sqlite.New(env.DataDir)
			if err != nil {
				fatalError(err)
			}

			// Notification bus is optional; the engine degrades to a
			// no-op publisher when NATS is not configured or down.
			var publisher notify.Publisher
			if env.NATSURL != "" {
				events, err = notify.Connect(env.NATSURL)
				if err != nil {
					log.Warn("nats_unavailable", map[string]interface{}{
						"url": env.NATSURL,
					}, err)
				} else {
					publisher = events
				}
			}

			engine = workflow.New(backend, publisher)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if events != nil {
				events.Close()
			}
			if backend != nil {
				backend.Close()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", term.IsTerminal(int(os.Stdout.Fd())), "Pretty print output")

	rootCmd.AddCommand(
		taskCmd(),
		appCmd(),
		userCmd(),
		planCmd(),
		serveCmd(),
		statusCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
