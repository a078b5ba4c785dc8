package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func newUserCmd(rt *adminEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptNewPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := rt.auth.CreateUser(cmd.Context(), args[0], password); err != nil {
				return err
			}
			cmd.Printf("user %q created\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "passwd <username>",
		Short: "Replace an account's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptNewPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := rt.auth.SetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			cmd.Printf("password for %q updated\n", args[0])
			return nil
		},
	})
	return cmd
}

var errPasswordMismatch = errors.New("passwords do not match")

// promptNewPassword asks twice without echo.
func promptNewPassword(w io.Writer) (string, error) {
	first, err := readSecret(w, "Password: ")
	if err != nil {
		return "", err
	}
	second, err := readSecret(w, "Confirm password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	if first == "" {
		return "", errors.New("password must not be empty")
	}
	return first, nil
}

func readSecret(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
