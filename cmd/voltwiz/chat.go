package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/voltwiz/voltwiz/internal/presentation/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive configuration chat",
	Long: `Opens an interactive terminal chat with the wizard. Type your scenario
details in natural language; /status shows progress, /reset clears the
session, /quit exits.`,
	Run: func(cmd *cobra.Command, args []string) {
		wiz, _, cleanup := buildFromFlags(cmd)
		defer cleanup()

		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		tui.PrintBanner()
		render := tui.NewRenderer()
		fmt.Printf("Session %s. Describe your charging scenario (/quit to exit).\n\n", sessionID)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			switch line {
			case "/quit", "/exit":
				return
			case "/reset":
				if err := wiz.ClearSession(cmd.Context(), sessionID); err != nil {
					fmt.Printf("Reset failed: %v\n", err)
					continue
				}
				fmt.Println("Session cleared.")
				continue
			case "/status":
				status, err := wiz.SessionStatus(cmd.Context(), sessionID)
				if err != nil {
					fmt.Printf("No session data yet: %v\n", err)
					continue
				}
				fmt.Printf("Step %d (%s), %d message(s)\n",
					status.CurrentStep, status.StepName, status.HistoryLen)
				tui.PrintStepProgress(status.Completeness, status.CurrentStep)
				continue
			}

			resp, err := wiz.ProcessMessage(cmd.Context(), sessionID, line)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}

			out, err := render(tui.FormatTurn(resp, wiz.Schema()))
			if err != nil {
				fmt.Println(resp.Message)
				continue
			}
			fmt.Print(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "", "Session ID to resume (default: new session)")
}
