// Hash-password command prints a bcrypt hash for provisioning users.csv.
package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/movielist/internal/auth"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash of a password",
		Long: `Hash-password reads a password from stdin and prints its bcrypt hash.
Put the hash in the password column of users.csv in place of the plain
text; login accepts either form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecret(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
			if err != nil {
				return userError(fmt.Errorf("read password: %w", err))
			}
			hash, err := auth.Hash(password)
			if err != nil {
				return classify(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
