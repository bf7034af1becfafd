package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdc-club/backend/internal/models"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registrations as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			regs, err := c.client().List(cmd.Context())
			if err != nil {
				return err
			}
			if regs == nil {
				regs = []models.Registration{}
			}
			return c.printJSON(regs)
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <pending|approved|rejected>",
		Short: "Set the review status of a registration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.Status(args[1])
			if !status.Valid() {
				return fmt.Errorf("invalid status %q", args[1])
			}
			reg, err := c.client().UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			return c.printJSON(reg)
		},
	}
}
