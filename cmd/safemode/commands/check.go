package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/safemode/internal/config"
	"github.com/opencode-ai/safemode/internal/permission"
	"github.com/opencode-ai/safemode/internal/safety"
)

var checkCmd = &cobra.Command{
	Use:   "check [command...]",
	Short: "Classify shell commands against the active mode",
	Long: `Classify one or more shell commands. The command is taken from the
arguments, or read line by line from stdin when no arguments are given.

Exits 0 when every command is allowed and 1 when any is rejected; the
formatted rejection message is printed for each rejected command.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadModeConfig()
	if err != nil {
		return err
	}

	var commands []string
	if len(args) > 0 {
		commands = []string{strings.Join(args, " ")}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				commands = append(commands, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	rejected := false
	for _, command := range commands {
		decision := safety.Classify(command, cfg)
		if decision.Allowed {
			fmt.Printf("allowed: %s\n", command)
			continue
		}
		rejected = true
		fmt.Println(safety.FormatRejectionMessage(command, decision.Reason, cfg))
	}

	if rejected {
		os.Exit(1)
	}
	return nil
}

// loadModeConfig loads and compiles the effective configuration, honoring
// the --config and --directory flags.
func loadModeConfig() (*safety.ModeConfig, error) {
	var file *config.File
	var err error

	if configPath != "" {
		file, err = config.Load(configPath)
	} else {
		dir, dirErr := GetWorkDir(workDir)
		if dirErr != nil {
			return nil, dirErr
		}
		file, _, err = config.LoadDefault(dir)
	}
	if err != nil {
		return nil, err
	}

	return file.Compile(permission.BlockedTools())
}
