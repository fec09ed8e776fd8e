package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/gmkornilov/chess-puzzle-widget/internal/config"
	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/gmkornilov/chess-puzzle-widget/internal/db"
	"github.com/gmkornilov/chess-puzzle-widget/internal/importer"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/grammar"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/notation"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "puzzlectl",
		Short:        "Tools for chess puzzle move grammars and catalogs",
		SilenceUsage: true,
	}
	root.AddCommand(expandCmd(), normalizeCmd(), validateCmd(), importCmd())
	return root
}

func expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <moves>",
		Short: "Print every branch of a move grammar, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := grammar.Expand(args[0])
			if err != nil {
				return err
			}
			for _, b := range branches {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

func normalizeCmd() *cobra.Command {
	var fen, to string
	cmd := &cobra.Command{
		Use:   "normalize <moves>",
		Short: "Rewrite a move grammar into long (lan) or short (san) notation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch to {
			case "lan":
				fmt.Fprintln(cmd.OutOrStdout(), notation.NormalizeToLong(fen, args[0]))
			case "san":
				fmt.Fprintln(cmd.OutOrStdout(), notation.NormalizeToShort(fen, args[0]))
			default:
				return fmt.Errorf("--to should be lan or san, got %q", to)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fen, "fen", "", "starting position")
	cmd.Flags().StringVar(&to, "to", "lan", "target notation: lan or san")
	cmd.MarkFlagRequired("fen")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog.yaml|games.pgn>",
		Short: "Replay every branch of every puzzle in a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for i, d := range defs {
				if err := puzzle.Validate(d.Normalized()); err != nil {
					failed++
					fmt.Fprintf(out, "puzzle %d: %v\n", i+1, err)
					continue
				}
				fmt.Fprintf(out, "puzzle %d: ok\n", i+1)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d puzzles are invalid", failed, len(defs))
			}
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import <catalog.yaml|games.pgn>",
		Short: "Store the valid puzzles of a catalog as a puzzle set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.InitConfig()
			if err != nil {
				return err
			}
			if !cfg.StorageEnabled() {
				return fmt.Errorf("MONGO_ADDRESS is not set")
			}
			dbClient, err := db.NewDbClient(cfg)
			if err != nil {
				return err
			}
			defer dbClient.Close()

			data, err := ioutil.ReadFile(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = args[0]
			}
			factory := importer.NewCatalogImporterFactory(dao.NewPuzzleRepository(dbClient))
			report, err := factory.CreateImporter(importer.Source{
				Title:  title,
				Format: importer.FormatForPath(args[0]),
				Data:   string(data),
			}).Import()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "\t")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title of the stored set (defaults to the file name)")
	return cmd
}

func load(path string) ([]puzzle.Definition, error) {
	if importer.FormatForPath(path) == importer.FormatPGN {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return puzzle.FromPGN(f)
	}
	return puzzle.LoadCatalog(path)
}
