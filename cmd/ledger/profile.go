package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Create the local profile",
		Long: `Create the profile that owns this ledger. The PIN must be exactly 8 digits.
A fresh installation also gets a default wallet account.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			existing, err := s.ledger.GetUser(ctx)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("profile %q is already registered", existing.Username)
			}

			pin, err := readPIN(cmd, "Choose an 8-digit PIN")
			if err != nil {
				return err
			}

			if err := s.ledger.RegisterUser(ctx, args[0], pin); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Registered %s", args[0])))
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check the PIN against the stored profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			user, err := s.ledger.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			defer s.ledger.Logout(cmd.Context())

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Welcome back, %s %s", user.Avatar, user.Username)))
			return nil
		},
	}
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile",
	}

	cmd.AddCommand(showProfileCmd())
	cmd.AddCommand(updateProfileCmd())

	return cmd
}

func showProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			user, err := s.ledger.GetUser(cmd.Context())
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Username:   %s\nAvatar:     %s\nBiometrics: %s",
				user.Username, user.Avatar, strconv.FormatBool(user.BiometricsEnabled))
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Profile", content))
			return nil
		},
	}
}

func updateProfileCmd() *cobra.Command {
	var (
		username   string
		newPIN     string
		avatar     string
		biometrics bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long:  `Change the username, PIN, avatar or biometrics preference. Only the flags given are changed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var update model.UserUpdate
			if cmd.Flags().Changed("username") {
				update.Username = &username
			}
			if cmd.Flags().Changed("new-pin") {
				update.PIN = &newPIN
			}
			if cmd.Flags().Changed("avatar") {
				update.Avatar = &avatar
			}
			if cmd.Flags().Changed("biometrics") {
				update.BiometricsEnabled = &biometrics
			}
			if update == (model.UserUpdate{}) {
				return common.NewUserError("nothing to update", fmt.Errorf("pass at least one of --username, --new-pin, --avatar, --biometrics"))
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.ledger.UpdateUser(cmd.Context(), update); err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Profile updated"))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&newPIN, "new-pin", "", "New 8-digit PIN")
	cmd.Flags().StringVar(&avatar, "avatar", "", "New avatar")
	cmd.Flags().BoolVar(&biometrics, "biometrics", false, "Enable biometric unlock")

	return cmd
}
