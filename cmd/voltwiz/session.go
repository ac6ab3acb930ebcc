package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage wizard sessions",
	Long:  `List, inspect, and remove stored configuration sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		wiz, _, cleanup := buildFromFlags(cmd)
		defer cleanup()

		sessions, err := wiz.Sessions(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No active sessions found.")
			return
		}
		fmt.Println("Active sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect a session's step and extracted data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wiz, _, cleanup := buildFromFlags(cmd)
		defer cleanup()

		status, err := wiz.SessionStatus(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling status: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))

		printTypedSummary(status.Parameters)
	},
}

// printTypedSummary decodes the sections the wizard knows the shape of
// and prints a compact human-readable digest under the raw JSON.
func printTypedSummary(params map[string]any) {
	if raw, ok := params[domain.SectionScenario]; ok {
		if scenario, err := domain.DecodeSection[domain.Scenario](raw); err == nil {
			fmt.Printf("\nScenario sizing: %d MCS, %d CEV, %d nodes\n",
				scenario.NumMCS, scenario.NumCEV, scenario.NumNodes)
		}
	}
	if raw, ok := params[domain.SectionParameters]; ok {
		if mp, err := domain.DecodeSection[domain.ModelParameters](raw); err == nil {
			fmt.Printf("Model: eta_ch_dch=%.2f, MCS capacity [%.0f, %.0f] starting at %.0f\n",
				mp.EtaChDch, mp.MCSMin, mp.MCSMax, mp.MCSIni)
		}
	}
	if raw, ok := params[domain.SectionEVData]; ok {
		if units, err := domain.DecodeSection[[]domain.EVUnit](raw); err == nil && len(units) > 0 {
			fmt.Printf("EV fleet: %d vehicles, first SOE envelope [%.0f, %.0f] at %.0f kW\n",
				len(units), units[0].SOEMin, units[0].SOEMax, units[0].ChRate)
		}
	}
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wiz, _, cleanup := buildFromFlags(cmd)
		defer cleanup()

		hasError := false
		for _, sessionID := range args {
			if err := wiz.ClearSession(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
	rootCmd.AddCommand(sessionCmd)
}
