package main

import (
	"fmt"

	"github.com/spf13/cobra"

	session "github.com/hirepath/go-session"
)

var (
	loginEmail    string
	loginPassword string
	loginOTP      string

	signupName     string
	signupEmail    string
	signupPassword string
	signupRole     string

	verifyUserID string
	verifyOTP    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and establish a local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.controller.Login(ctx, session.LoginInput{
			Email:    loginEmail,
			Password: loginPassword,
			OTP:      loginOTP,
		})
		if err != nil {
			return err
		}

		if result.TwoFactorRequired {
			fmt.Println(infoStyle.Render("A one-time code was sent to your email."))
			fmt.Println("Re-run with --otp <code> to finish signing in.")
			return nil
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Signed in as %s (%s)", result.Identity.Name, result.Identity.Role)))
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		role, ok := session.ParseRole(signupRole)
		if !ok {
			return fmt.Errorf("invalid role %q (want candidate or recruiter)", signupRole)
		}

		result, err := a.controller.Signup(ctx, session.SignupInput{
			Name:     signupName,
			Email:    signupEmail,
			Password: signupPassword,
			Role:     role,
		})
		if err != nil {
			return err
		}

		if result.TwoFactorRequired {
			fmt.Println(infoStyle.Render("A verification code was sent to your email."))
			fmt.Printf("Run: hirepath verify --user-id %s --otp <code>\n", result.UserID)
			return nil
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Welcome, %s! You are signed in.", result.Identity.Name)))
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Complete a pending signup verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.controller.VerifySignup2FA(ctx, verifyUserID, verifyOTP)
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Account verified. Signed in as %s.", result.Identity.Name)))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.controller.Logout(ctx); err != nil {
			return err
		}

		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.Flags().StringVar(&loginOTP, "otp", "", "one-time code (second factor)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	signupCmd.Flags().StringVar(&signupName, "name", "", "display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password")
	signupCmd.Flags().StringVar(&signupRole, "role", "candidate", "account role (candidate or recruiter)")
	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")

	verifyCmd.Flags().StringVar(&verifyUserID, "user-id", "", "user id from signup")
	verifyCmd.Flags().StringVar(&verifyOTP, "otp", "", "verification code")
	_ = verifyCmd.MarkFlagRequired("user-id")
	_ = verifyCmd.MarkFlagRequired("otp")
}
