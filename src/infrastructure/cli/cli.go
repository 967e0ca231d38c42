// Package cli holds the operator commands of the mailing service.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	domainMailing "go-mailing-api/src/domain/mailing"
	domainUser "go-mailing-api/src/domain/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type MailingTrigger interface {
	Trigger(ctx context.Context, id int, status domainMailing.Status, frequency domainMailing.Frequency) (*domainMailing.Mailing, error)
}

type AdminCreator interface {
	CreateAdmin(email, firstName, lastName, password string) (*domainUser.User, error)
}

type ManagerSeeder interface {
	SeedManagerGroup(assignEmails []string) (int, error)
}

// Dependencies are the use cases the commands drive
type Dependencies struct {
	Mailings MailingTrigger
	Users    AdminCreator
	Groups   ManagerSeeder
	// ReadPassword prompts for a secret. Defaults to a hidden terminal prompt.
	ReadPassword func(cmd *cobra.Command, prompt string) (string, error)
}

func NewRootCommand(deps Dependencies) *cobra.Command {
	if deps.ReadPassword == nil {
		deps.ReadPassword = (&prompter{}).readPassword
	}
	root := &cobra.Command{
		Use:           "manage",
		Short:         "Operator commands for the mailing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStartMailingCommand(deps))
	root.AddCommand(newCreateAdminCommand(deps))
	root.AddCommand(newCreateGroupManagerCommand(deps))
	return root
}

func newStartMailingCommand(deps Dependencies) *cobra.Command {
	var status, frequency string
	cmd := &cobra.Command{
		Use:   "start-mailing <id>",
		Short: "Force the status and frequency of a mailing and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid mailing id %q", args[0])
			}
			mailing, err := deps.Mailings.Trigger(cmd.Context(), id, domainMailing.Status(status), domainMailing.Frequency(frequency))
			if err != nil {
				return fmt.Errorf("start mailing %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mailing %d is %s\n", mailing.ID, mailing.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domainMailing.StatusCreated), "status to set before running")
	cmd.Flags().StringVar(&frequency, "frequency", string(domainMailing.FrequencyDaily), "frequency to set before running")
	return cmd
}

func newCreateAdminCommand(deps Dependencies) *cobra.Command {
	var email, firstName, lastName, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				first, err := deps.ReadPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				confirm, err := deps.ReadPassword(cmd, "Password (again): ")
				if err != nil {
					return err
				}
				if first != confirm {
					return errors.New("passwords do not match")
				}
				password = first
			}
			created, err := deps.Users.CreateAdmin(email, firstName, lastName, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Administrator %s created with id %d\n", created.Email, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "admin@example.com", "administrator email")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "administrator first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "administrator last name")
	cmd.Flags().StringVar(&password, "password", "", "administrator password, prompted when empty")
	return cmd
}

func newCreateGroupManagerCommand(deps Dependencies) *cobra.Command {
	var assign []string
	cmd := &cobra.Command{
		Use:   "create-group-manager",
		Short: "Grant the manager permissions and assign the role to users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assigned, err := deps.Groups.SeedManagerGroup(assign)
			if err != nil {
				return fmt.Errorf("create manager group: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manager group ready, %d user(s) assigned\n", assigned)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&assign, "assign", nil, "emails of users to make managers")
	return cmd
}

// prompter reads hidden input from a terminal, or lines from piped stdin
type prompter struct {
	lines *bufio.Reader
}

func (p *prompter) readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	if p.lines == nil {
		p.lines = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := p.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
