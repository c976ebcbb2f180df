package main

import (
	"fmt"
	"text/tabwriter"

	"pollos-admin/internal/model"
	"pollos-admin/internal/service"
	"pollos-admin/internal/views"

	"github.com/spf13/cobra"
)

var (
	userName     string
	userRole     string
	userPassword string
	userInactive bool
)

// userCmd is the parent command for account management
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long: `Manage user accounts.

Available subcommands:
  create         - Create an account
  reset-password - Replace an account's password
  enable         - Allow an account to sign in
  disable        - Block an account from signing in
  list           - List every account`,
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runUserCreate),
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Replace an account's password",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runUserResetPassword),
}

var userEnableCmd = &cobra.Command{
	Use:   "enable <username>",
	Short: "Allow an account to sign in",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(setActive(true)),
}

var userDisableCmd = &cobra.Command{
	Use:   "disable <username>",
	Short: "Block an account from signing in",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(setActive(false)),
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every account",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runUserList),
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "full name")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(model.RoleCashier), "ADMINISTRADOR or CAJERO")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "initial password (at least 6 characters)")
	userCreateCmd.Flags().BoolVar(&userInactive, "inactive", false, "create the account disabled")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("password")

	userResetPasswordCmd.Flags().StringVar(&userPassword, "password", "", "new password (at least 6 characters)")
	_ = userResetPasswordCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd, userResetPasswordCmd, userEnableCmd, userDisableCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserCreate(cmd *cobra.Command, args []string, e *env) error {
	auth, err := e.authService()
	if err != nil {
		return err
	}
	user, err := auth.CreateUser(cmd.Context(), service.SystemActor, service.UserInput{
		Username: args[0],
		Password: userPassword,
		Name:     userName,
		Role:     userRole,
		Active:   !userInactive,
	})
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Usuario %s creado con rol %s.\n", user.Username, user.Role.Label())
	return nil
}

func runUserResetPassword(cmd *cobra.Command, args []string, e *env) error {
	auth, err := e.authService()
	if err != nil {
		return err
	}
	if err := auth.ResetPassword(cmd.Context(), service.SystemActor, args[0], userPassword); err != nil {
		return describe(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Contraseña de %s actualizada.\n", args[0])
	return nil
}

func setActive(active bool) func(*cobra.Command, []string, *env) error {
	return func(cmd *cobra.Command, args []string, e *env) error {
		auth, err := e.authService()
		if err != nil {
			return err
		}
		if err := auth.SetUserActive(cmd.Context(), service.SystemActor, args[0], active); err != nil {
			return describe(err)
		}
		state := "deshabilitado"
		if active {
			state = "habilitado"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Usuario %s %s.\n", args[0], state)
		return nil
	}
}

func runUserList(cmd *cobra.Command, _ []string, e *env) error {
	auth, err := e.authService()
	if err != nil {
		return err
	}
	users, err := auth.ListUsers(cmd.Context(), service.SystemActor)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USUARIO\tNOMBRE\tROL\tACTIVO\tÚLTIMO ACCESO")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", u.Username, u.Name, u.Role, u.Active, views.DateTime(u.LastLogin))
	}
	return w.Flush()
}
