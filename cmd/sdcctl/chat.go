package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdc-club/backend/internal/chatbot"
	"github.com/sdc-club/backend/pkg/utils"
)

func newChatCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <text...>",
		Short: "Ask the SDC assistant a question (answered locally)",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			resp := chatbot.GenerateResponse(strings.Join(args, " "))
			fmt.Fprintln(c.out, resp.Text)
			for _, o := range resp.Options {
				fmt.Fprintln(c.out, "  "+o)
			}
		},
	}
}

func newHashPasswordCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("password must not be empty")
			}
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, hash)
			return nil
		},
	}
}
