package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/admin/mtg-cli/internal/analysis"
	"github.com/admin/mtg-cli/internal/cards"
	"github.com/admin/mtg-cli/internal/decks"
	"github.com/admin/mtg-cli/internal/tui"
)

var deckBuilderCmd = &cobra.Command{
	Use:   "deck-builder",
	Short: "Import, inspect, and enrich Commander decks",
	Long: `Deck management on top of the local card database: import deck lists,
inspect them, run deck analysis, and enrich decks with Commander
Spellbook bracket/combo data and generated descriptions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var deckImportCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import deck lists (text or YAML manifest)",
	Long: `Parse deck list files and upsert them into the database. With no
arguments, imports every .txt/.yaml list in the deck directory.
Re-importing a deck name replaces its cards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			for _, pattern := range []string{"*.txt", "*.yaml", "*.yml"} {
				matches, err := filepath.Glob(filepath.Join(cfg.DeckDir, pattern))
				if err != nil {
					return err
				}
				files = append(files, matches...)
			}
			sort.Strings(files)
			if len(files) == 0 {
				return fmt.Errorf("no deck lists found in %s", cfg.DeckDir)
			}
		}

		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := decks.NewStore(pool)
		for _, file := range files {
			fmt.Println("Importing deck:", file)
			deck, err := decks.ParseFile(file)
			if err != nil {
				fmt.Println("Error importing deck:", err)
				continue
			}
			res, err := store.Import(ctx, deck)
			if err != nil {
				fmt.Println("Error importing deck:", err)
				continue
			}
			verb := "Imported"
			if res.Replaced {
				verb = "Replaced"
			}
			fmt.Printf("%s deck %q: %d cards", verb, deck.Name, res.Imported)
			if len(res.Unresolved) > 0 {
				fmt.Printf(", %d unresolved: %s", len(res.Unresolved), strings.Join(res.Unresolved, ", "))
			}
			fmt.Println()
		}
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks with card counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		summaries, err := decks.NewStore(pool).List(ctx)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		fmt.Printf("%-30s %-30s %6s %s\n", "NAME", "COMMANDER", "CARDS", "ANALYZED")
		for _, s := range summaries {
			analyzed := ""
			if s.Analyzed {
				analyzed = "yes"
			}
			fmt.Printf("%-30s %-30s %6d %s\n", s.Name, s.Commander, s.CardCount, analyzed)
		}
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show <deck>",
	Short: "Show a deck list and its stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := decks.NewStore(pool)
		deckID, deck, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Deck: %s\n", deck.Name)
		if deck.Commander != "" {
			fmt.Printf("Commander: %s\n", deck.Commander)
		}
		if desc, model, err := store.Description(ctx, deckID); err == nil && desc != "" {
			fmt.Printf("\n%s\n(described by %s)\n", desc, model)
		}
		fmt.Println()
		if err := decks.Export(os.Stdout, deck); err != nil {
			return err
		}

		handle, err := openSQL()
		if err != nil {
			return err
		}
		defer handle.Close()

		stored, err := analysis.LoadStored(ctx, handle, deckID.String())
		if err != nil {
			return err
		}
		if stored == nil {
			fmt.Println("\nNo analysis stored. Run 'mtg deck-builder analyze'.")
			return nil
		}

		fmt.Println("\nAnalysis:")
		fmt.Printf("  Draw: %d  Ramp: %d  Removal: %d single / %d mass  Counterspells: %d\n",
			stored.DrawCount, stored.Ramp, stored.SingleTargetRemoval, stored.MassRemoval, stored.Counterspells)
		fmt.Printf("  Tokens: %d  Recursion: %d\n", stored.Tokens, stored.Recursion)
		fmt.Printf("  Lands: %d (%d basic, %d nonbasic)\n", stored.Lands, stored.BasicLands, stored.NonBasicLands)
		fmt.Printf("  Avg mana value: %.2f  Highest: %.0f\n", stored.AverageManaValue, stored.HighestManaValue)
		fmt.Printf("  Color pips: %v\n", stored.ColorPips)
		fmt.Printf("  Card types: %s\n", strings.Join(stored.CardTypes, ", "))
		return nil
	},
}

var deckAnalyzeCmd = &cobra.Command{
	Use:   "analyze [deck]",
	Short: "Compute and store deck analysis",
	Long: `Classify commander/mainboard cards with oracle-text heuristics and
store mana curve, color pip, and land statistics. With no argument,
analyzes every deck missing an analysis.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		handle, err := openSQL()
		if err != nil {
			return err
		}
		defer handle.Close()

		if len(args) == 0 {
			return analysis.AnalyzeMissing(ctx, handle)
		}

		deckID, err := resolveDeckID(cmd, args[0])
		if err != nil {
			return err
		}
		if err := analysis.AnalyzeDeck(ctx, handle, deckID); err != nil {
			return err
		}
		fmt.Printf("Analyzed deck %q\n", args[0])
		return nil
	},
}

var deckBracketCmd = &cobra.Command{
	Use:   "bracket [deck]",
	Short: "Estimate Commander brackets via Commander Spellbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		spellbook := decks.NewSpellbook(pool)
		if len(args) == 0 {
			return spellbook.EstimateAllBrackets(ctx)
		}

		deckID, _, err := decks.NewStore(pool).Get(ctx, args[0])
		if err != nil {
			return err
		}
		return spellbook.EstimateBracket(ctx, deckID)
	},
}

var deckCombosCmd = &cobra.Command{
	Use:   "combos [deck]",
	Short: "Fetch combos for decks via Commander Spellbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		spellbook := decks.NewSpellbook(pool)
		if len(args) == 0 {
			return spellbook.ImportMissingCombos(ctx)
		}

		deckID, _, err := decks.NewStore(pool).Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := spellbook.ImportCombos(ctx, deckID); err != nil {
			return err
		}
		fmt.Printf("Stored combos for deck %q\n", args[0])
		return nil
	},
}

var deckDescribeCmd = &cobra.Command{
	Use:   "describe [deck]",
	Short: "Generate deck descriptions with OpenAI",
	Long: `Generate a short play-style description per deck via the OpenAI chat
completions API and store it on the deck. Requires OPENAI_API_KEY.
With no argument, describes every deck without a description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		describer := decks.NewDescriber(pool, cfg.OpenAIAPIKey)
		if len(args) == 0 {
			return describer.DescribeMissing(ctx)
		}

		deckID, _, err := decks.NewStore(pool).Get(ctx, args[0])
		if err != nil {
			return err
		}
		return describer.DescribeDeck(ctx, deckID)
	},
}

var deckExportOut string

var deckExportCmd = &cobra.Command{
	Use:   "export <deck>",
	Short: "Write a deck back out as a text deck list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		_, deck, err := decks.NewStore(pool).Get(ctx, args[0])
		if err != nil {
			return err
		}

		if deckExportOut == "" {
			return decks.Export(os.Stdout, deck)
		}

		f, err := os.Create(deckExportOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		if err := decks.Export(f, deck); err != nil {
			return err
		}
		fmt.Printf("Wrote deck %q to %s\n", deck.Name, deckExportOut)
		return nil
	},
}

var (
	buildDeckName string
	buildIdentity string
	buildLimit    int
)

var deckBuildCmd = &cobra.Command{
	Use:   "build [query words]",
	Short: "Build a deck interactively from card search results",
	Long: `Open the card browser over a search result set, mark cards, and save
them as a new deck. One copy per card, commander-style.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if buildDeckName == "" {
			return fmt.Errorf("--name is required")
		}

		ctx := cmd.Context()
		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		filters := cards.NewFilters()
		filters.Name = strings.Join(args, " ")
		filters.Identity = buildIdentity
		filters.Limit = buildLimit

		results, err := cards.NewStore(pool).Search(ctx, filters)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No cards found.")
			return nil
		}

		model := tui.NewBuildModel(results, buildDeckName, decks.NewStore(pool))
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running browser: %w", err)
		}
		return nil
	},
}

// resolveDeckID maps a deck name to its id using the pool path.
func resolveDeckID(cmd *cobra.Command, name string) (string, error) {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return "", err
	}
	defer pool.Close()

	deckID, _, err := decks.NewStore(pool).Get(ctx, name)
	if err != nil {
		return "", err
	}
	return deckID.String(), nil
}

func init() {
	deckExportCmd.Flags().StringVarP(&deckExportOut, "out", "o", "", "Output file (default stdout)")

	deckBuildCmd.Flags().StringVar(&buildDeckName, "name", "", "Name of the deck to create")
	deckBuildCmd.Flags().StringVar(&buildIdentity, "identity", "", "Color identity subset for the candidate pool")
	deckBuildCmd.Flags().IntVar(&buildLimit, "limit", 500, "Maximum candidate cards")

	deckBuilderCmd.AddCommand(deckImportCmd)
	deckBuilderCmd.AddCommand(deckListCmd)
	deckBuilderCmd.AddCommand(deckShowCmd)
	deckBuilderCmd.AddCommand(deckAnalyzeCmd)
	deckBuilderCmd.AddCommand(deckBracketCmd)
	deckBuilderCmd.AddCommand(deckCombosCmd)
	deckBuilderCmd.AddCommand(deckDescribeCmd)
	deckBuilderCmd.AddCommand(deckExportCmd)
	deckBuilderCmd.AddCommand(deckBuildCmd)
}
