package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdc-club/backend/pkg/client"
)

const defaultAPIURL = "http://localhost:5000"

type cli struct {
	out    io.Writer
	apiURL string
}

func (c *cli) client() *client.Client {
	return client.New(c.apiURL, nil)
}

func (c *cli) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	apiURL := os.Getenv("SDC_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	root := &cobra.Command{
		Use:   "sdcctl",
		Short: "Submit and review MVJCE Software Development Club registrations",
		Long: `sdcctl talks to the SDC registration API.

The API address comes from --api or SDC_API_URL (default http://localhost:5000).`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.apiURL, "api", apiURL, "registration API base URL")

	root.AddCommand(
		newSubmitCmd(c),
		newListCmd(c),
		newStatusCmd(c),
		newChatCmd(c),
		newHashPasswordCmd(c),
	)
	return root
}
