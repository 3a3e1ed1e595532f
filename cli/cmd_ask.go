package main

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

var askSession string

// askCmd runs a single router turn.
var askCmd = &cobra.Command{
	Use:   "ask <utterance...>",
	Short: "Send one utterance and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := bearer()
		if err != nil {
			return err
		}
		client := newAPIClient(serverAddr, tok)

		var resp domain.ChatResponse
		req := domain.ChatRequest{Prompt: strings.Join(args, " "), SessionID: askSession}
		if err := client.do(cmd.Context(), http.MethodPost, "/ai/chat", req, &resp); err != nil {
			return err
		}

		cmd.Println(resp.Message)
		if resp.Data != nil {
			printJSON(resp.Data)
		}
		return nil
	},
}

// toolsCmd lists what the caller may do.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the operations available to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := bearer()
		if err != nil {
			return err
		}

		var resp domain.ListToolsResponse
		if err := newAPIClient(serverAddr, tok).do(cmd.Context(), http.MethodGet, "/ai/tools", nil, &resp); err != nil {
			return err
		}
		for _, t := range resp.Tools {
			cmd.Printf("%-26s %s\n", t.Name, t.Description)
			if len(t.Required) > 0 {
				cmd.Printf("%-26s required: %s\n", "", strings.Join(t.Required, ", "))
			}
		}
		return nil
	},
}

// tokenCmd prints a dev token.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a dev token signed with --dev-secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		token = ""
		tok, err := bearer()
		if err != nil {
			return err
		}
		cmd.Println(tok)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id to record the turn in")
}
