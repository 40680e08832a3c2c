package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/admin/mtg-cli/internal/cards"
	"github.com/admin/mtg-cli/internal/tui"
)

var (
	searchText        string
	searchType        string
	searchColors      string
	searchIdentity    string
	searchSet         string
	searchRarity      string
	searchMinCMC      float64
	searchMaxCMC      float64
	searchLegal       string
	searchLimit       int
	searchJSON        bool
	searchInteractive bool
)

var cardSearchCmd = &cobra.Command{
	Use:   "card-search [query words]",
	Short: "Search the local card database",
	Long: `Search cards imported by 'mtg sync'. Positional arguments join into a
name query; flags add oracle text, type, color, set, rarity, mana value,
and format legality filters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := cards.Filters{
			Name:     strings.Join(args, " "),
			Text:     searchText,
			TypeLine: searchType,
			Colors:   searchColors,
			Identity: searchIdentity,
			Set:      searchSet,
			Rarity:   searchRarity,
			MinCMC:   searchMinCMC,
			MaxCMC:   searchMaxCMC,
			Legal:    searchLegal,
			Limit:    searchLimit,
		}

		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		results, err := cards.NewStore(pool).Search(ctx, filters)
		if err != nil {
			return err
		}

		if searchInteractive {
			model := tui.NewModel(results)
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running browser: %w", err)
			}
			return nil
		}

		if searchJSON {
			return printCardsJSON(results)
		}

		printCardTable(results)
		return nil
	},
}

func init() {
	cardSearchCmd.Flags().StringVar(&searchText, "text", "", "Oracle text substring")
	cardSearchCmd.Flags().StringVar(&searchType, "type", "", "Type line substring (e.g. \"Legendary Creature\")")
	cardSearchCmd.Flags().StringVar(&searchColors, "colors", "", "Color subset match (e.g. WU)")
	cardSearchCmd.Flags().StringVar(&searchIdentity, "identity", "", "Color identity subset (commander-style)")
	cardSearchCmd.Flags().StringVar(&searchSet, "set", "", "Set code")
	cardSearchCmd.Flags().StringVar(&searchRarity, "rarity", "", "Rarity (common, uncommon, rare, mythic)")
	cardSearchCmd.Flags().Float64Var(&searchMinCMC, "min-cmc", -1, "Minimum mana value")
	cardSearchCmd.Flags().Float64Var(&searchMaxCMC, "max-cmc", -1, "Maximum mana value")
	cardSearchCmd.Flags().StringVar(&searchLegal, "legal", "", "Only cards legal in this format (e.g. commander)")
	cardSearchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of results")
	cardSearchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as a JSON array")
	cardSearchCmd.Flags().BoolVar(&searchInteractive, "interactive", false, "Browse results interactively")
}

func printCardsJSON(results []cards.Card) error {
	if results == nil {
		results = []cards.Card{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printCardTable(results []cards.Card) {
	if len(results) == 0 {
		fmt.Println("No cards found.")
		return
	}

	fmt.Printf("%-40s %-14s %-30s %-5s %-8s\n", "NAME", "COST", "TYPE", "SET", "RARITY")
	for _, c := range results {
		fmt.Printf("%-40s %-14s %-30s %-5s %-8s\n",
			c.Name, c.ManaCost, c.TypeLine, strings.ToUpper(c.Set), c.Rarity)
	}
	fmt.Printf("\n%d cards\n", len(results))
}
