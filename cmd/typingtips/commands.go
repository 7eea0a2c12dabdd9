package main

import (
	"fmt"
	"strings"

	"github.com/bbtyping/go-typingtips/internal/trainer"
	"github.com/bbtyping/go-typingtips/render"
	"github.com/bbtyping/go-typingtips/tips/hint"
	"github.com/bbtyping/go-typingtips/tips/segment"
	"github.com/bbtyping/go-typingtips/tips/tipjson"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) newShowCmd() *cobra.Command {
	var (
		src   source
		typed int
	)
	cmd := &cobra.Command{
		Use:   "show [text]",
		Short: "Show the text grouped into words, with the code to type next",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := a.tokens(cmd.Context(), &src, args)
			if err != nil {
				return err
			}
			units, err := segment.Segment(tokens, typed)
			if err != nil {
				return err
			}
			r := render.New(lipgloss.NewRenderer(cmd.OutOrStdout())).WithWidth(a.cfg.Render.Width)
			if a.cfg.Render.ShowHint {
				code, found, err := hint.Current(tokens, typed)
				if err != nil {
					return err
				}
				if found {
					fmt.Fprintln(cmd.OutOrStdout(), r.Badge(code))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Units(units))
			return nil
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVarP(&typed, "typed", "t", 0, "number of characters already typed")
	cmd.Flags().Int("width", 0, "wrap rows at this many terminal cells (0: no wrapping)")
	_ = a.v.BindPFlag("render.width", cmd.Flags().Lookup("width"))
	return cmd
}

func (a *app) newHintCmd() *cobra.Command {
	var (
		src   source
		typed int
		word  bool
	)
	cmd := &cobra.Command{
		Use:   "hint [text]",
		Short: "Print the code to type next; prints nothing once everything is typed",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := a.tokens(cmd.Context(), &src, args)
			if err != nil {
				return err
			}
			resolver, err := hint.NewResolver(tokens)
			if err != nil {
				return err
			}
			code, found, err := resolver.Current(typed)
			if err != nil || !found {
				return err
			}
			if word {
				text, _, err := resolver.Word(typed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", text, code)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVarP(&typed, "typed", "t", 0, "number of characters already typed")
	cmd.Flags().BoolVarP(&word, "word", "w", false, "also print the word the code is for")
	return cmd
}

func (a *app) newFetchCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "fetch <text>",
		Short: "Fetch the tip stream of text, save it as last-used text and print it as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			client := a.client()
			fetch := client.Fetch
			if force {
				fetch = client.Refetch
			}
			tokens, err := fetch(cmd.Context(), text)
			if err != nil {
				return err
			}
			if err := a.store().Write(cmd.Context(), text); err != nil {
				return err
			}
			content, err := tipjson.Marshal(tokens)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(content))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "ignore cached tip streams")
	return cmd
}

func (a *app) newDescribeCmd() *cobra.Command {
	var (
		src   source
		index int
	)
	cmd := &cobra.Command{
		Use:   "describe [text]",
		Short: "Print the full annotation record of one character",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := a.tokens(cmd.Context(), &src, args)
			if err != nil {
				return err
			}
			if index < 0 || index >= len(tokens) {
				return errors.Errorf("--index %d out of range, the text has %d characters", index, len(tokens))
			}
			for _, line := range render.Describe(tokens[index]) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	src.addFlags(cmd)
	cmd.Flags().IntVarP(&index, "index", "i", 0, "index of the character")
	return cmd
}

func (a *app) newTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type [text]",
		Short: "Practice typing interactively; ctrl+e loads new text from the clipboard, f3 clears the input",
		Long: `Opens the typing screen on the last-used text, or on the text given as argument. The hint and word
groups follow what has been typed in the input box.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.store()
			if len(args) > 0 {
				if err := st.Write(cmd.Context(), strings.Join(args, " ")); err != nil {
					return err
				}
			}
			model := trainer.New(cmd.Context(), trainer.Config{
				Fetcher:  a.client(),
				Store:    st,
				ShowHint: a.cfg.Render.ShowHint,
				Width:    a.cfg.Render.Width,
			})
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return errors.Wrapf(err, "typing screen failed")
			}
			return nil
		},
	}
}
