package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/h4ks-com/cashbook/internal/logging"
	"github.com/h4ks-com/cashbook/internal/repository"
	"github.com/h4ks-com/cashbook/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAdduserCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user account",
		Long: `Create a user account. The password is prompted for when --password is
omitted; input is hidden when reading from a terminal.`,
		Example: `  cashbook adduser -u alice
  cashbook adduser --user alice --password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdduser(cmd, username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted for when omitted)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func runAdduser(cmd *cobra.Command, username, password string) error {
	stdout := cmd.OutOrStdout()

	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	accounts := services.NewAccountService(repository.NewUserRepository(a.db), logging.Component(a.logger, logging.ComponentAuth))
	user, err := accounts.Create(strings.TrimSpace(username), password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return fmt.Errorf("user %s already exists", username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
