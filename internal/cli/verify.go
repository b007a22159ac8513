package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check matchers against the rule registry",
	Long: `Verify confirms that every rule id the matchers can produce has a
registered rule, and that no id is produced by more than one matcher.
A missing rule means the engine would fail open at match time; catch
it here instead.`,
	SilenceUsage: true,
	RunE:         runVerify,
}

func init() {
	addRulesetFlags(verifyCmd)
}

// GetVerifyCmd export
func GetVerifyCmd() *cobra.Command {
	return verifyCmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	reg, set, err := buildRuleset()
	if err != nil {
		return err
	}

	var missing []string
	seen := make(map[string]int)
	for _, id := range set.RuleIDs() {
		seen[id]++
		if _, ok := reg.Get(id); !ok {
			missing = append(missing, id)
		}
	}

	var duplicates []string
	for id, n := range seen {
		if n > 1 {
			duplicates = append(duplicates, id)
		}
	}

	for _, id := range duplicates {
		fmt.Printf("%s⚠%s rule id %s is produced by %d matchers (first registered wins)\n",
			colorYellow, colorReset, id, seen[id])
	}

	if len(missing) > 0 {
		for _, id := range missing {
			fmt.Printf("%s✗%s matcher references unregistered rule id %s\n", colorRed, colorReset, id)
		}
		teardownObservability(cmd, args)
		os.Exit(ExitError)
	}

	fmt.Printf("%s✓ %d rules, %d matcher ids, all consistent%s\n",
		colorGreen, reg.Len(), len(seen), colorReset)
	return nil
}
