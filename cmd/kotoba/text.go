package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/kotoba/internal/corpus"
	"github.com/cognicore/kotoba/internal/subs2srs"
	"github.com/cognicore/kotoba/pkg/kotoba"
	"github.com/cognicore/kotoba/pkg/kotoba/analytics"
	"github.com/cognicore/kotoba/pkg/kotoba/config"
	"github.com/cognicore/kotoba/pkg/kotoba/filter"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/levels"
	"github.com/cognicore/kotoba/pkg/kotoba/lexicon"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
	"github.com/cognicore/kotoba/pkg/kotoba/sentences"
	"github.com/cognicore/kotoba/pkg/kotoba/store"
	"github.com/cognicore/kotoba/pkg/kotoba/token"
)

func tokenizeCmd(a *app) *cobra.Command {
	var (
		filtered bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "tokenize <text>...",
		Short: "Print the tokens of a sentence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			sentence := strings.Join(args, " ")

			var toks []token.Token
			if filtered {
				toks, err = k.TokenizeFiltered(sentence, a.cfg.Filter.Options())
			} else {
				toks, err = k.Tokenize(sentence)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(toks)
			}
			printTokens(out, toks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&filtered, "filtered", false, "Apply the configured filter stages")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print tokens as JSON")
	return cmd
}

func printTokens(w io.Writer, toks []token.Token) {
	for _, t := range toks {
		if t.Compound {
			fmt.Fprintf(w, "%s (compound)\n", t)
			continue
		}
		fmt.Fprintln(w, t)
	}
}

func importDictCmd(a *app) *cobra.Command {
	var jmdict, supplement string
	cmd := &cobra.Command{
		Use:   "import-dict",
		Short: "Parse JMdict once and store its entries in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if jmdict == "" {
				jmdict = a.cfg.Data.JMdict
			}
			if jmdict == "" {
				return fmt.Errorf("no JMdict file, set data.jmdict or --jmdict: %w", internalerr.ErrInvalidConfig)
			}

			lex := lexicon.New()
			n, err := lex.LoadJMdictFile(jmdict)
			if err != nil {
				return err
			}
			if supplement != "" {
				m, err := lex.LoadFromYAML(supplement)
				if err != nil {
					return err
				}
				n += m
			}
			a.logger.Info("parsed dictionary", "path", jmdict, "entries", n)

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			entries := make([]lexicon.Entry, 0, lex.Len())
			for _, e := range lex.Entries() {
				entries = append(entries, *e)
			}
			stored, err := st.ImportEntries(ctx, entries)
			if err != nil {
				return fmt.Errorf("import entries: %w", err)
			}

			stats := lex.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d spellings, %d readings) into %s\n",
				stored, stats.Spellings, stats.Readings, a.cfg.Data.DB)
			return nil
		},
	}
	cmd.Flags().StringVar(&jmdict, "jmdict", "", "JMdict XML file (default data.jmdict)")
	cmd.Flags().StringVar(&supplement, "lexicon", "", "Optional YAML supplement imported with the dictionary")
	return cmd
}

func mineCmd(a *app) *cobra.Command {
	var (
		minCount   int
		limit      int
		save       bool
		export     bool
		knownDeck  string
		useCache   bool
		printNotes bool
		listPath   string
		jlpt       int
	)
	cmd := &cobra.Command{
		Use:   "mine [file]",
		Short: "Build notes for the words that recur in a text file",
		Long: `Reads sentences from a text or JSONL file, tokenizes them with the
configured filters and builds a note for every root seen at least
--min-count times, most frequent first.

With --list or --jlpt every word of a vocabulary list, or every word of a
JLPT level, gets a note in list order instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sources := len(args)
			if listPath != "" {
				sources++
			}
			if jlpt != 0 {
				sources++
			}
			if sources != 1 {
				return fmt.Errorf("give exactly one of <file>, --list or --jlpt: %w", internalerr.ErrInvalidInput)
			}
			if jlpt != 0 && (jlpt < levels.MinLevel || jlpt > levels.MaxLevel) {
				return fmt.Errorf("jlpt level %d out of range: %w", jlpt, internalerr.ErrInvalidInput)
			}

			var (
				lines []string
				err   error
			)
			switch {
			case listPath != "":
				lines, err = corpus.LoadLines(listPath, a.logger)
			case len(args) == 1:
				lines, err = corpus.LoadLines(args[0], a.logger)
			}
			if err != nil {
				return err
			}
			k, err := a.engine(ctx)
			if err != nil {
				return err
			}
			if jlpt != 0 {
				comp, err := a.components(ctx)
				if err != nil {
					return err
				}
				lines = comp.Levels.VocabForLevel(jlpt)
				if len(lines) == 0 {
					return fmt.Errorf("no words at jlpt level %d, set data.levels: %w", jlpt, internalerr.ErrInvalidConfig)
				}
			}

			opts := kotoba.MineOptions{
				Filter:   a.cfg.Filter.Options(),
				MinCount: int64(minCount),
				Limit:    limit,
				Save:     save,
			}
			if opts.MinCount <= 0 {
				opts.MinCount = int64(a.cfg.Filter.MinCount)
			}
			if knownDeck != "" {
				dm, err := a.deckManager(ctx, false)
				if err != nil {
					return err
				}
				if opts.Known, err = dm.Known(ctx, knownDeck); err != nil {
					return err
				}
			}
			if useCache {
				examples, err := loadSentenceCaches(a, a.cfg.Data.Sentences)
				if err != nil {
					return err
				}
				opts.Examples = examples
			}

			var res kotoba.MineResult
			if listPath != "" || jlpt != 0 {
				res, err = k.BuildFromList(ctx, lines, opts)
			} else {
				res, err = k.Mine(ctx, lines, opts)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, n := range res.Notes {
				fmt.Fprintf(out, "%s - %d - %s - %s - %s\n", n.Japanese, n.Count, n.Reading, orUnknown(n.Extra), firstLine(n.English))
				if printNotes {
					printNote(out, n)
				}
			}
			for _, g := range res.NoDefinition {
				fmt.Fprintf(out, "%s - %d - %s - No Note\n", g.Root, g.Count, g.First.PartOfSpeech)
			}
			fmt.Fprintf(out, "Potential Additions: %d (known %d, no definition %d)\n", len(res.Notes), res.Known, len(res.NoDefinition))

			if export && len(res.Notes) > 0 {
				dm, err := a.deckManager(ctx, false)
				if err != nil {
					return err
				}
				added, err := dm.AddNotes(ctx, a.cfg.Anki.MiningDeck, a.cfg.Anki.Model, res.Notes)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Exported %d notes to %s\n", added, a.cfg.Anki.MiningDeck)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minCount, "min-count", 0, "Minimum occurrences (default filter.min_count)")
	cmd.Flags().StringVar(&listPath, "list", "", "Build a note for every word in this vocabulary list")
	cmd.Flags().IntVar(&jlpt, "jlpt", 0, "Build a note for every word of this JLPT level (1-5)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum notes to build")
	cmd.Flags().BoolVar(&save, "save", false, "Store the built notes")
	cmd.Flags().BoolVar(&export, "export", false, "Add the built notes to the mining deck")
	cmd.Flags().StringVar(&knownDeck, "known-deck", "", "Skip words already in this deck")
	cmd.Flags().BoolVar(&useCache, "examples", false, "Pick example sentences from data.sentences caches")
	cmd.Flags().BoolVar(&printNotes, "print", false, "Print every field of the built notes")
	return cmd
}

func printNote(w io.Writer, n notes.Note) {
	fmt.Fprintf(w, "    Japanese(Full): %s\n", n.Japanese)
	fmt.Fprintf(w, "    Japanese(Kana): %s\n", n.Reading)
	fmt.Fprintf(w, "    Part of Speech: %s\n", n.PartOfSpeech)
	fmt.Fprintf(w, "    English: %s\n", strings.ReplaceAll(n.English, "\n", "\n             "))
	fmt.Fprintf(w, "    Extra: %s\n", n.Extra)
	fmt.Fprintf(w, "    Sentence: %s\n", n.Sentence)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "???"
	}
	return s
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}

func statsCmd(a *app) *cobra.Command {
	var (
		top        int
		minPercent float64
		filtered   bool
	)
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show the most common roots of a text and ignore-list candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lines, err := corpus.LoadLines(args[0], a.logger)
			if err != nil {
				return err
			}
			k, err := a.engine(ctx)
			if err != nil {
				return err
			}

			opts := filter.Options{}
			if filtered {
				opts = a.cfg.Filter.Options()
			}
			an := analytics.NewAnalyzer()
			for _, line := range lines {
				toks, err := k.TokenizeFiltered(line, opts)
				if err != nil {
					return err
				}
				an.Process(toks)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sentences: %d, distinct roots: %d\n", an.TotalSentences(), an.Len())
			ranked := an.Ranked(1)
			if top > 0 && len(ranked) > top {
				ranked = ranked[:top]
			}
			for _, st := range ranked {
				fmt.Fprintf(out, "%8d  %6d  %s\n", st.Count, st.Sentences, st.Root)
			}
			cands := an.IgnoreCandidates(minPercent, top)
			if len(cands) > 0 {
				fmt.Fprintf(out, "\nIgnore candidates (in >= %.0f%% of sentences):\n", minPercent)
				for _, c := range cands {
					fmt.Fprintf(out, "%6.1f%%  %s\n", c.DFPercent, c.Root)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 50, "Number of roots to list")
	cmd.Flags().Float64Var(&minPercent, "ignore-percent", 20, "Sentence share that makes a root an ignore candidate")
	cmd.Flags().BoolVar(&filtered, "filtered", false, "Apply the configured filter stages first")
	return cmd
}

func ignoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignore",
		Short: "Manage ignored roots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <root>...",
		Short: "Ignore roots in every future run",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range args {
				if err := st.IgnoreRoot(cmd.Context(), r); err != nil {
					return err
				}
			}
			a.logger.Info("ignored roots", "roots", args)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <root>...",
		Short: "Stop ignoring stored roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range args {
				if err := st.UnignoreRoot(cmd.Context(), r); err != nil {
					return err
				}
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List ignored roots and where they come from",
		RunE: func(cmd *cobra.Command, args []string) error {
			ignore := filter.NewIgnoreList(nil)
			if path := a.cfg.Data.IgnoreList; path != "" {
				il, err := config.LoadIgnoreList(path)
				if err != nil {
					return err
				}
				ignore = filter.NewIgnoreList(il.Terms)
			}
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			roots, err := st.IgnoredRoots(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range roots {
				ignore.Add(r, filter.SourceStore)
			}
			out := cmd.OutOrStdout()
			for _, r := range ignore.All() {
				src, _ := ignore.SourceOf(r)
				fmt.Fprintf(out, "%s\t%s\n", r, src)
			}
			return nil
		},
	})
	return cmd
}

func sentencesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentences",
		Short: "Build and query example sentence caches",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "build <input> <cache>",
		Short: "Tokenize the sentences of a file into a cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lines, err := corpus.LoadLines(args[0], a.logger)
			if err != nil {
				return err
			}
			comp, err := a.components(ctx)
			if err != nil {
				return err
			}
			k, err := a.engine(ctx)
			if err != nil {
				return err
			}

			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			n, err := sentences.BuildCache(k, lines, comp.Ignore, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cached %d of %d sentences in %s\n", n, len(lines), args[1])
			return nil
		},
	})

	var caches []string
	pick := &cobra.Command{
		Use:   "pick <root>...",
		Short: "Pick the easiest example sentence for roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths := strings.Join(caches, ",")
			if paths == "" {
				paths = a.cfg.Data.Sentences
			}
			m, err := loadSentenceCaches(a, paths)
			if err != nil {
				return err
			}
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			known, err := store.Known(ctx, st)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, root := range args {
				s, ok := m.Pick(root, known)
				if !ok {
					fmt.Fprintf(out, "%s\t(no sentence)\n", root)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", root, s)
			}
			return nil
		},
	}
	pick.Flags().StringSliceVar(&caches, "cache", nil, "Cache files, highest priority first (default data.sentences)")
	cmd.AddCommand(pick)
	return cmd
}

// loadSentenceCaches loads comma separated cache paths. Earlier paths get
// the higher priority.
func loadSentenceCaches(a *app, paths string) (*sentences.Manager, error) {
	m := sentences.New(a.logger)
	if strings.TrimSpace(paths) == "" {
		return nil, fmt.Errorf("no sentence caches, set data.sentences or --cache: %w", internalerr.ErrInvalidConfig)
	}
	for i, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		n, err := m.Load(f, i)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		a.logger.Debug("loaded sentence cache", "path", p, "priority", i, "sentences", n)
	}
	return m, nil
}

func subs2srsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "subs2srs <input.tsv> <output.tsv>",
		Short: "Add token roots to a subs2srs export",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}

			n, err := subs2srs.Process(k, in, out, limit, a.logger)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d lines to %s\n", n, args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum lines to process")
	return cmd
}
