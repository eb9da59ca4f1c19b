package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cognicore/kotoba/pkg/kotoba/deck"
)

func enrichCmd(a *app) *cobra.Command {
	var (
		query string
		opts  deck.EnrichOptions
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fill part of speech and frequency fields and tags of deck notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := a.deckManager(cmd.Context(), true)
			if err != nil {
				return err
			}
			if query == "" {
				query = deck.Query(a.cfg.Anki.MiningDeck)
			}
			report, err := dm.Enrich(cmd.Context(), query, opts)
			if err != nil {
				return err
			}
			printEnrichReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Anki search selecting the notes (default the mining deck)")
	cmd.Flags().BoolVar(&opts.OverridePartOfSpeech, "override-pos", false, "Replace part of speech fields that are already filled")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "Only enrich notes with this tag")
	cmd.Flags().BoolVar(&opts.Again, "again", false, "Enrich notes that were enriched before")
	return cmd
}

func printEnrichReport(w io.Writer, r deck.EnrichReport) {
	fmt.Fprintf(w, "Filtered Notes: %d\n", r.Matched)
	fmt.Fprintf(w, "Updated Notes: %d\n", r.Updated)
	fmt.Fprintf(w, "Tags Added: %d\n", r.TagsAdded)
	fmt.Fprintf(w, "Num No Defs: %d\n", len(r.NoDefinition))
	for _, j := range r.NoDefinition {
		fmt.Fprintf(w, "    %s\n", j)
	}
}

func sortCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Order the new cards of a deck by word frequency",
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := a.deckManager(cmd.Context(), false)
			if err != nil {
				return err
			}
			if name == "" {
				name = a.cfg.Anki.Deck
			}
			n, err := dm.Sort(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sorted %d cards in %s\n", n, name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "deck", "", "Deck to sort (default anki.deck)")
	return cmd
}

func moveCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move every card of one deck into another",
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := a.deckManager(cmd.Context(), false)
			if err != nil {
				return err
			}
			if from == "" {
				from = a.cfg.Anki.MiningDeck
			}
			if to == "" {
				to = a.cfg.Anki.Deck
			}
			n, err := dm.Move(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %d cards from %s to %s\n", n, from, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source deck (default anki.mining_deck)")
	cmd.Flags().StringVar(&to, "to", "", "Target deck (default anki.deck)")
	return cmd
}

func summaryCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count learned and new notes per frequency bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := a.deckManager(cmd.Context(), false)
			if err != nil {
				return err
			}
			if name == "" {
				name = a.cfg.Anki.Deck
			}
			s, err := dm.Summarize(cmd.Context(), name)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "deck", "", "Deck to summarize (default anki.deck)")
	return cmd
}

func printSummary(w io.Writer, s deck.Summary) {
	fmt.Fprintf(w, "%-16s %8s %8s %8s %8s\n", "Bucket", "Learned", "Total", "New", "Total")
	for _, b := range s.Buckets {
		fmt.Fprintf(w, "%-16s %8d %8d %8d %8d\n", b.Tag, b.Learned, b.LearnedTotal, b.New, b.NewTotal)
	}
	fmt.Fprintf(w, "Learned: %d, New: %d, Learned without a bucket: %d\n", s.Learned, s.New, s.Untagged)
}

func audioCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Download pronunciations for notes without audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			dm, err := a.deckManager(cmd.Context(), false)
			if err != nil {
				return err
			}
			if query == "" {
				query = deck.Query(a.cfg.Anki.Deck)
			}
			r, err := dm.AddAudio(cmd.Context(), query)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Candidates: %d, added: %d, no audio: %d, bad reading: %d\n",
				r.Candidates, r.Added, r.NoAudio, r.BadReading)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Anki search selecting the notes (default anki.deck)")
	return cmd
}

// refreshCmd runs the routine after a mining session: enrich the mined
// notes, move them into the main deck, re-sort it and print the summary.
func refreshCmd(a *app) *cobra.Command {
	var withAudio bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Enrich the mining deck, move it into the main deck, sort and summarize",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dm, err := a.deckManager(ctx, true)
			if err != nil {
				return err
			}
			mining, target := a.cfg.Anki.MiningDeck, a.cfg.Anki.Deck
			out := cmd.OutOrStdout()

			report, err := dm.Enrich(ctx, deck.Query(mining), deck.EnrichOptions{})
			if err != nil {
				return err
			}
			printEnrichReport(out, report)

			if withAudio {
				r, err := dm.AddAudio(ctx, deck.Query(mining))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Audio added: %d\n", r.Added)
			}

			moved, err := dm.Move(ctx, mining, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Moved %d cards\n", moved)

			sorted, err := dm.Sort(ctx, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Sorted %d cards\n", sorted)

			s, err := dm.Summarize(ctx, target)
			if err != nil {
				return err
			}
			printSummary(out, s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withAudio, "audio", false, "Also download audio for the mined notes")
	return cmd
}
