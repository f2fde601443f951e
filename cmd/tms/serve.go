package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SebastinST/tms-backend/internal/config"
	"github.com/SebastinST/tms-backend/internal/metrics"
	"github.com/SebastinST/tms-backend/internal/notify"
	"github.com/SebastinST/tms-backend/internal/render"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the metrics endpoint and mail notifier",
		Long: `Run the long-lived side of the backend: the metrics endpoint
and, when SMTP and NATS are configured, the mail notifier consuming
task events off the bus.

Done-transition mail is best-effort; a dead relay never affects the
workflow itself.`,
		Run: func(cmd *cobra.Command, args []string) {
			env := config.Env()

			srv := metrics.NewServer(env.MetricsPort)
			if err := srv.Start(); err != nil {
				fatalError(err)
			}
			render.Stdout().Println("metrics on :%d/metrics", env.MetricsPort)

			if events != nil && env.MailConfigured() {
				mailer := notify.NewMailer(env.SMTPHost, env.SMTPPort, env.MailFrom, env.MailTo)
				sub, err := events.Subscribe(mailer.Handle)
				if err != nil {
					fatalError(err)
				}
				defer sub.Unsubscribe()
				render.Stdout().Println("mail notifier consuming %s.task.>", notify.SubjectPrefix)
			} else {
				render.Stdout().Println("mail notifier disabled (NATS or SMTP not configured)")
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Stop(ctx)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend status",
		Run: func(cmd *cobra.Command, args []string) {
			env := config.Env()
			w := render.Stdout()

			w.Println("database: %s", backend.Path())
			if err := backend.Ping(context.Background()); err != nil {
				w.Item("✗ unreachable: %v", err)
			} else {
				w.Item("✓ reachable")
			}

			if env.NATSURL == "" {
				w.Println("nats: not configured")
			} else if events == nil {
				w.Println("nats: %s (unreachable)", env.NATSURL)
			} else {
				w.Println("nats: %s (connected)", env.NATSURL)
			}

			if env.MailConfigured() {
				w.Println("mail: %s:%d → %d recipient(s)", env.SMTPHost, env.SMTPPort, len(env.MailTo))
			} else {
				w.Println("mail: not configured")
			}
		},
	}
}
