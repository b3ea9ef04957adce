package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	session "github.com/hirepath/go-session"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Faint(true).Width(12)
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.controller.Initialize(ctx); err != nil {
			return err
		}

		decision := a.gate.Evaluate("/whoami", session.Requirement{NeedsAuth: true})
		if decision.Kind != session.DecisionRender {
			fmt.Println("Not signed in. Run: hirepath login")
			return nil
		}

		snap := a.controller.Session()
		aff := a.controller.Affiliation()
		layout, _ := session.SelectLayout(snap.User, aff, false)

		row := func(label, value string) {
			if value == "" {
				value = "-"
			}
			fmt.Println(labelStyle.Render(label) + value)
		}

		row("Name", snap.User.Name)
		row("Email", snap.User.Email)
		row("Role", string(snap.User.Role))
		if !aff.Empty() {
			row("Company", snap.User.CompanyName)
			row("Team role", string(aff.CompanyRole))
		}
		row("Resume", snap.ResumeURL)
		row("Shell", string(layout))
		return nil
	},
}
