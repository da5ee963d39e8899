// ABOUTME: Install Claude Code skill for sleepdash
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the sleepdash skill for Claude Code.

This copies the skill definition to ~/.claude/skills/sleepdash/
so Claude Code can run sleepdash reports contextually.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(cmd.OutOrStdout(), cmd.InOrStdin(), home)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPathFor(home string) string {
	return filepath.Join(home, ".claude", "skills", "sleepdash", "SKILL.md")
}

func installSkill(out io.Writer, in io.Reader, home string) error {
	skillPath := skillPathFor(home)

	_, _ = fmt.Fprintln(out, "This will install the sleepdash skill, enabling Claude Code to:")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "  • Summarise your sleep by year, month and weekday")
	_, _ = fmt.Fprintln(out, "  • Compare HRV, resting heart rate and recovery over time")
	_, _ = fmt.Fprintln(out, "  • Export reports to Markdown, Excel or SQLite")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Destination:")
	_, _ = fmt.Fprintf(out, "  %s\n", skillPath)
	_, _ = fmt.Fprintln(out)

	if _, err := os.Stat(skillPath); err == nil {
		_, _ = fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		_, _ = fmt.Fprintln(out)
	}

	if !skillSkipConfirm {
		_, _ = fmt.Fprint(out, "Install the sleepdash skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			_, _ = fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		_, _ = fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(skillPath), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	_, _ = fmt.Fprintln(out, "✓ Installed sleepdash skill successfully!")
	_, _ = fmt.Fprintln(out, "Try asking Claude: \"How did my sleep compare on weekdays last quarter?\"")
	return nil
}
