package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/models"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		category string
		letter   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the glossary",
		Long:  "Search term names and definitions. Words are joined into one query; with no query the filtered directory is listed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			facets := models.Facets{
				Category: category,
				Letter:   letter,
				Query:    strings.Join(args, " "),
			}
			page, err := a.Glossary.Directory(ctx, facets, 0, limit)
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only terms in this category (exact match)")
	cmd.Flags().StringVar(&letter, "letter", "", "only terms starting with this letter")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum results")
	return cmd
}

func printPage(out io.Writer, page *models.DirectoryPage) {
	if page.Total == 0 {
		if page.Searched {
			fmt.Fprintln(out, "No terms match.")
		} else {
			fmt.Fprintln(out, "No terms in this selection.")
		}
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, t := range page.Terms {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Category, t.Preview)
	}
	tw.Flush()

	if page.Count < page.Total {
		fmt.Fprintf(out, "\n%d of %d terms shown\n", page.Count, page.Total)
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|slug>",
		Short: "Show a term's full definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.Join(args, " ")
			detail, err := a.Glossary.Term(ctx, glossary.Slug(name))
			if errors.Is(err, glossary.ErrNotFound) {
				// The argument may already be a slug.
				detail, err = a.Glossary.Term(ctx, name)
			}
			if errors.Is(err, glossary.ErrNotFound) {
				return fmt.Errorf("term not found: %s (browse with `glossa search`)", name)
			}
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func printDetail(out io.Writer, d *models.TermDetail) {
	fmt.Fprintln(out, d.Name)
	if d.Category != "" {
		fmt.Fprintf(out, "Category: %s\n", d.Category)
	}
	fmt.Fprintf(out, "\n%s\n", d.Definition)

	if len(d.Related) == 0 {
		return
	}
	names := make([]string, 0, len(d.Related))
	for _, r := range d.Related {
		if r.Exists {
			names = append(names, r.Name)
		} else {
			names = append(names, r.Name+" (not in glossary)")
		}
	}
	fmt.Fprintf(out, "\nRelated: %s\n", strings.Join(names, ", "))
}

func newCategoriesCmd(opts *options) *cobra.Command {
	var letters bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with term counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.Glossary.Categories
			if letters {
				list = a.Glossary.Letters
			}
			counts, err := list(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.Count)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&letters, "letters", false, "list starting letters instead")
	return cmd
}

func newSuggestCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Quick name suggestions for a partial term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			suggestions, err := a.Glossary.Suggest(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			for _, s := range suggestions {
				fmt.Fprintln(cmd.OutOrStdout(), s.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum suggestions (default from config)")
	return cmd
}
