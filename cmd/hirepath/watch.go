package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	session "github.com/hirepath/go-session"
)

type terminalNotifier struct{}

func (terminalNotifier) Notify(_ context.Context, n session.Notification) {
	fmt.Println(successStyle.Render(n.Title))
	fmt.Println(n.Description)
}

type terminalNavigator struct{}

func (terminalNavigator) NavigateTo(path string) {
	fmt.Println(infoStyle.Render("Open " + path + " to get started."))
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a pending company-join request until it is approved",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.controller.Initialize(ctx); err != nil {
			return err
		}

		decision := a.gate.Evaluate("/watch", session.Requirement{
			NeedsAuth:    true,
			AllowedRoles: []session.Role{session.RoleRecruiter},
		})
		if decision.Kind != session.DecisionRender {
			fmt.Println("Watching requires a signed-in recruiter.")
			return nil
		}

		poller := session.NewStatusPoller(a.controller, a.client, terminalNotifier{}, terminalNavigator{},
			session.WithPollInterval(time.Duration(a.cfg.GetPollInterval())*time.Second),
			session.WithPollerLogger(a.logger),
		)

		if !poller.ShouldPoll() {
			fmt.Println("You already belong to a company; nothing to watch.")
			return nil
		}

		fmt.Println(infoStyle.Render("Waiting for your join request to be approved (ctrl-c to stop)..."))

		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
