package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mchawla/murmur/internal/board"
	"github.com/mchawla/murmur/internal/categorize"
	"github.com/mchawla/murmur/internal/config"
	"github.com/mchawla/murmur/internal/importer"
	"github.com/mchawla/murmur/internal/layout"
	"github.com/mchawla/murmur/internal/preview"
	"github.com/mchawla/murmur/internal/session"
	"github.com/mchawla/murmur/internal/transcript"
	"github.com/mchawla/murmur/internal/tui"
)

var defaultAnchor = layout.Point{X: 640, Y: 400}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg     config.Config
	store   *board.Store
	engine  *layout.Engine
	synth   *board.Synthesizer
	manager *session.Manager
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		boardPath   string
		noAltScreen bool
		verbose     bool
	)

	root := &cobra.Command{
		Use:   "murmur",
		Short: "Turn rambling dictation into an organized note board",
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(configPath, boardPath)
			if err != nil {
				return err
			}
			opts := []tea.ProgramOption{}
			if !noAltScreen {
				opts = append(opts, tea.WithAltScreen())
			}
			program := tea.NewProgram(
				tui.New(tui.Config{Manager: a.manager, Store: a.store}),
				opts...,
			)
			_, err = program.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a murmur.yaml config file")
	root.PersistentFlags().StringVar(&boardPath, "board", "", "path to the board JSON file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	root.AddCommand(
		dictateCmd(&configPath, &boardPath),
		importCmd(&configPath, &boardPath),
		organizeCmd(&configPath, &boardPath),
	)
	return root
}

func dictateCmd(configPath, boardPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "dictate [file]",
		Short: "Organize a transcript from a file or stdin into board notes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath, *boardPath)
			if err != nil {
				return err
			}
			text, err := readTranscript(args)
			if err != nil {
				return err
			}

			keyTerms := storedKeyTerms(a.store)
			batch, err := a.manager.Start(cmd.Context(), text, keyTerms)
			if err != nil {
				return err
			}
			if batch == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to stage from that transcript.")
				return nil
			}
			return finishBatch(cmd.OutOrStdout(), batch, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "approve every staged note without review")
	return cmd
}

func importCmd(configPath, boardPath *string) *cobra.Command {
	var (
		yes      bool
		strategy string
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a markdown or PDF document onto the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath, *boardPath)
			if err != nil {
				return err
			}
			path := args[0]

			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf":
				// PDF text has no structure to parse, so it rides the same
				// categorization pipeline as dictation.
				text, err := importer.ExtractPDFText(path)
				if err != nil {
					return err
				}
				batch, err := a.manager.Start(cmd.Context(), text, storedKeyTerms(a.store))
				if err != nil {
					return err
				}
				if batch == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "The document produced no notes.")
					return nil
				}
				return finishBatch(cmd.OutOrStdout(), batch, yes)
			default:
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				units := importer.ParseMarkdown(string(data))
				if len(units) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "The document produced no notes.")
					return nil
				}
				chosen := resolveStrategy(strategy, importer.Analyze(units))
				placed := a.engine.Layout(units, chosen, defaultAnchor)
				notes := a.synth.SynthesizeDocument(placed)
				batch := preview.NewBatch(a.store, notes)
				log.Info("import staged", "file", path, "strategy", chosen, "notes", len(notes))
				return finishBatch(cmd.OutOrStdout(), batch, yes)
			}
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "approve every staged note without review")
	cmd.Flags().StringVar(&strategy, "strategy", "", "layout strategy: grid, hierarchy, workflow or cluster")
	return cmd
}

func organizeCmd(configPath, boardPath *string) *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Recompute positions for every note already on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(*configPath, *boardPath)
			if err != nil {
				return err
			}
			notes, err := a.store.Load()
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The board is empty.")
				return nil
			}

			units := make([]layout.ContentUnit, 0, len(notes))
			for _, note := range notes {
				unit := layout.ContentUnit{
					Title:    note.Content,
					Category: note.Category,
					Body:     note.Content,
				}
				for _, task := range note.Tasks {
					unit.Tasks = append(unit.Tasks, layout.UnitTask{Text: task.Text, Done: task.Done})
				}
				units = append(units, unit)
			}

			chosen := resolveStrategy(strategy, layout.ProfileUnits(units))
			placed := a.engine.Layout(units, chosen, defaultAnchor)
			for i := range notes {
				notes[i].Position = board.Position{X: placed[i].Position.X, Y: placed[i].Position.Y}
				notes[i].UpdatedAt = time.Now()
			}
			if err := a.store.Replace(notes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rearranged %d notes with the %s strategy.\n", len(notes), chosen)
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "", "layout strategy: grid, hierarchy, workflow or cluster")
	return cmd
}

func buildApp(configPath, boardPath string) (*app, error) {
	if configPath == "" {
		if base, err := os.UserConfigDir(); err == nil {
			configPath = filepath.Join(base, "murmur", "config.yaml")
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if boardPath != "" {
		cfg.BoardPath = boardPath
	}

	engineCfg := layout.DefaultConfig()
	applyLayoutOverrides(&engineCfg, cfg.Layout)
	engine, err := layout.NewEngine(engineCfg)
	if err != nil {
		return nil, err
	}

	store := board.NewStore(cfg.BoardPath)
	synth := board.NewSynthesizer(board.NewSeededRand(time.Now().UnixNano()))
	manager := session.NewManager(session.Config{
		Port: categorize.NewClient(categorize.Config{
			APIKey:   cfg.APIKey,
			Model:    cfg.Model,
			Endpoint: cfg.Endpoint,
		}),
		Engine:  engine,
		Synth:   synth,
		Sink:    store,
		Logger:  log.Default(),
		Anchor:  defaultAnchor,
		Timeout: cfg.Timeout,
	})

	return &app{cfg: cfg, store: store, engine: engine, synth: synth, manager: manager}, nil
}

func applyLayoutOverrides(dst *layout.Config, src config.LayoutConfig) {
	if src.NoteWidth > 0 {
		dst.NoteWidth = src.NoteWidth
	}
	if src.NoteHeight > 0 {
		dst.NoteHeight = src.NoteHeight
	}
	if src.Spacing > 0 {
		dst.Spacing = src.Spacing
	}
	if src.ClusterRadius > 0 {
		dst.ClusterRadius = src.ClusterRadius
	}
	if src.ChildDistance > 0 {
		dst.ChildDistance = src.ChildDistance
	}
}

func resolveStrategy(flag string, profiles []layout.SourceProfile) layout.Strategy {
	switch strings.ToLower(flag) {
	case "grid":
		return layout.StrategyGrid
	case "hierarchy":
		return layout.StrategyHierarchy
	case "workflow":
		return layout.StrategyWorkflow
	case "cluster":
		return layout.StrategyCluster
	default:
		return layout.ChooseStrategy(profiles)
	}
}

func readTranscript(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func storedKeyTerms(store *board.Store) []string {
	bodies, err := store.Bodies()
	if err != nil {
		log.Warn("could not read existing board for key terms", "err", err)
		return nil
	}
	return transcript.KeyTerms(bodies)
}

func finishBatch(out io.Writer, batch *preview.Batch, approve bool) error {
	printBatch(out, batch)
	if !approve {
		fmt.Fprintln(out, "Nothing was saved. Re-run with --yes to approve, or run murmur without arguments to review interactively.")
		return nil
	}
	if err := batch.ApproveAll(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %d notes to the board.\n", batch.CommittedCount())
	return nil
}

func printBatch(out io.Writer, batch *preview.Batch) {
	items := batch.Items()
	fmt.Fprintf(out, "Staged %d notes:\n", len(items))
	for i, item := range items {
		note := item.Note
		fmt.Fprintf(out, "%2d. [%s] %s (%.0f, %.0f)\n", i+1, note.Type, firstLine(note.Content), note.Position.X, note.Position.Y)
		for _, task := range note.Tasks {
			box := "[ ]"
			if task.Done {
				box = "[x]"
			}
			fmt.Fprintf(out, "      %s %s\n", box, task.Text)
		}
	}
}

func firstLine(content string) string {
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	if len(content) > 72 {
		content = strings.TrimSpace(content[:69]) + "…"
	}
	return content
}
