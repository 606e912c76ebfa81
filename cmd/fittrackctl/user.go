package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/db"
)

var (
	userEmail    string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account, with the same rules as sign up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		params, err := dbParams(cmd.Context())
		if err != nil {
			return err
		}
		pool, err := db.NewDBPool(cmd.Context(), params)
		if err != nil {
			return err
		}
		defer pool.Close()

		// no sessions needed, sign up never signs in
		provider := auth.NewProvider(auth.NewUsersRepo(pool), nil, nil, nil)
		identity, err := provider.SignUp(cmd.Context(), userEmail, userPassword)
		if err != nil {
			var failure *auth.Failure
			if errors.As(err, &failure) {
				return errors.New(failure.Reason)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", identity.Email, identity.UserID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
