package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/example/crm/internal/ports/primary"
)

// Terminal access, swapped out in tests.
var (
	isTerminal   = terminal.IsTerminal
	readPassword = terminal.ReadPassword
)

// readSecret returns flagValue, or prompts for it on the command's input.
// Input from a terminal is read without echo.
func readSecret(cmd *cobra.Command, prompt, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	var line string
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(int(f.Fd())) {
		b, err := readPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		line = string(b)
	} else {
		var err error
		line, err = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("a password is required")
	}
	return line, nil
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in and keep the session on this machine.

Examples:
  crm login --email ana@example.com
  crm login --email ana@example.com --password secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			secret, err := readSecret(cmd, "Password: ", password)
			if err != nil {
				return err
			}
			if _, err := c.AuthAdapter(cmd.OutOrStdout()).Login(cmd.Context(), email, secret); err != nil {
				return err
			}
			if current := c.Companies.Current(); current != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  Company: %s\n", current.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

// RegisterCmd returns the register command
func RegisterCmd() *cobra.Command {
	var req primary.SignUpRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			if req.Password, err = readSecret(cmd, "Password: ", req.Password); err != nil {
				return err
			}
			_, err = c.AuthAdapter(cmd.OutOrStdout()).Register(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("name")
	return cmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.AuthAdapter(cmd.OutOrStdout()).Logout(cmd.Context())
		},
	}
}

// ResetPasswordCmd returns the reset-password command
func ResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [email]",
		Short: "Send a password recovery email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.AuthAdapter(cmd.OutOrStdout()).ResetPassword(cmd.Context(), args[0])
		},
	}
}

// WhoAmICmd returns the whoami command
func WhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			if _, err := c.AuthAdapter(cmd.OutOrStdout()).WhoAmI(); err != nil {
				return err
			}
			if current := c.Companies.Current(); current != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Company: %s\n", current.Name)
			}
			return nil
		},
	}
}
