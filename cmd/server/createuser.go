package main

import (
	"context"
	"fmt"

	"github.com/notekeeper/internal/db"
	"github.com/notekeeper/internal/service"
	"github.com/spf13/cobra"
)

var createUserCmd = &cobra.Command{
	Use:   "createuser <username> <password>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		users := service.NewUserService(db.DB)
		user, err := users.Register(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("创建用户失败: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "user %q created (id %d)\n", user.Username, user.ID)
		return nil
	},
}
