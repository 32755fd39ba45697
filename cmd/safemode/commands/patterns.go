package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Validate and list the active mode's allow-list patterns",
	RunE:  runPatterns,
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := loadModeConfig()
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", cfg.DisplayName)

	if len(cfg.ReadOnlyBashPatterns) == 0 {
		fmt.Println("No bash patterns configured: every command is rejected.")
	} else {
		fmt.Println("Read-only bash patterns:")
		for _, p := range cfg.ReadOnlyBashPatterns {
			if p.Comment != "" {
				fmt.Printf("  %-40s # %s\n", p.Source, p.Comment)
			} else {
				fmt.Printf("  %s\n", p.Source)
			}
		}
	}

	if len(cfg.ReadOnlyMCPPatterns) > 0 {
		fmt.Println("\nRead-only MCP tool name patterns:")
		for _, p := range cfg.ReadOnlyMCPPatterns {
			fmt.Printf("  %s\n", p.String())
		}
	}

	return nil
}
