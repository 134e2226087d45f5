package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/query"
	"github.com/ancientlore/quill/site"
)

// titleWidth is the widest title shown in listings, in terminal columns.
const titleWidth = 50

// postSummary is how a post is printed as JSON.
type postSummary struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Excerpt  string   `json:"excerpt,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`
	Draft    bool     `json:"draft,omitempty"`
}

func printPosts(w io.Writer, posts []content.Post, jsonOut bool) error {
	if jsonOut {
		out := make([]postSummary, 0, len(posts))
		for _, p := range posts {
			out = append(out, postSummary{
				Slug:     p.Slug,
				Title:    p.Title,
				Date:     p.Date.Format("2006-01-02"),
				Excerpt:  p.Excerpt,
				Tags:     p.Tags,
				Category: p.Category,
				Draft:    p.Draft,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts found.")
		return err
	}
	slugWidth := 0
	for _, p := range posts {
		slugWidth = max(slugWidth, runewidth.StringWidth(p.Slug))
	}
	for _, p := range posts {
		line := p.Date.Format("2006-01-02") + "  " +
			runewidth.FillRight(p.Slug, slugWidth) + "  " +
			runewidth.FillRight(runewidth.Truncate(p.Title, titleWidth, "…"), titleWidth)
		if len(p.Tags) > 0 {
			line += "  " + strings.Join(p.Tags, ", ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// printCounts prints names and counts in two columns.
func printCounts(w io.Writer, names []string, counts []int) error {
	width := 0
	for _, n := range names {
		width = max(width, runewidth.StringWidth(n))
	}
	for i := range names {
		if _, err := fmt.Fprintf(w, "%s  %d\n", runewidth.FillRight(names[i], width), counts[i]); err != nil {
			return err
		}
	}
	return nil
}

func slugsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slugs",
		Short: "List the slug of every post file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, _, err := opts.open()
			if err != nil {
				return err
			}
			slugs, err := loader.ListSlugs()
			if err != nil {
				return err
			}
			for _, s := range slugs {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func listCmd(opts *options) *cobra.Command {
	var (
		tag      string
		category string
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, _, err := opts.snapshot()
			if err != nil {
				return err
			}
			posts := snap.Posts
			if tag != "" {
				decoded, err := query.DecodeTag(tag)
				if err != nil {
					return fmt.Errorf("bad tag %q: %w", tag, err)
				}
				posts = query.ByTag(posts, decoded)
			}
			if category != "" {
				posts = query.ByCategory(posts, category)
			}
			return printPosts(cmd.OutOrStdout(), posts, jsonOut)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only posts with this tag (may be percent-encoded)")
	cmd.Flags().StringVar(&category, "category", "", "Only posts in this category")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func tagsCmd(opts *options) *cobra.Command {
	var categories bool
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags and how many posts use them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, _, err := opts.snapshot()
			if err != nil {
				return err
			}
			var (
				names  []string
				counts []int
			)
			if categories {
				for _, c := range query.AllCategories(snap.Posts) {
					names = append(names, c.Category)
					counts = append(counts, c.Count)
				}
			} else {
				for _, t := range query.AllTags(snap.Posts) {
					names = append(names, t.Tag)
					counts = append(counts, t.Count)
				}
			}
			return printCounts(cmd.OutOrStdout(), names, counts)
		},
	}
	cmd.Flags().BoolVar(&categories, "categories", false, "List categories instead of tags")
	return cmd
}

func searchCmd(opts *options) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "search <terms>...",
		Short: "Find posts whose title, excerpt or tags contain any of the terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, _, err := opts.snapshot()
			if err != nil {
				return err
			}
			return printPosts(cmd.OutOrStdout(), query.Search(snap.Posts, strings.Join(args, " ")), jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func relatedCmd(opts *options) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "related <slug>",
		Short: "List posts related to a post by category and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, loader, cfg, err := opts.snapshot()
			if err != nil {
				return err
			}
			p := snap.Find(args[0])
			if p == nil {
				// drafts are not in the snapshot but can still be asked about
				if p, err = loader.GetBySlug(cmd.Context(), args[0]); err != nil {
					return err
				}
			}
			if limit <= 0 {
				limit = cfg.RelatedLimit
			}
			return printPosts(cmd.OutOrStdout(), query.Related(snap.Posts, p.Slug, p.Tags, p.Category, limit), jsonOut)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of related posts (default from quill.toml)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func showCmd(opts *options) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a post with its reading time, contents and neighbors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, loader, cfg, err := opts.snapshot()
			if err != nil {
				return err
			}
			p, err := loader.GetBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", p.Title)
			fmt.Fprintf(w, "%s · %d min read\n", p.Date.Format("January 2, 2006"), query.ReadingTime(p.Raw, cfg.WordsPerMinute))
			if len(p.Tags) > 0 {
				fmt.Fprintf(w, "Tags: %s\n", strings.Join(p.Tags, ", "))
			}
			if p.Category != "" {
				fmt.Fprintf(w, "Category: %s\n", p.Category)
			}
			n := query.Adjacent(snap.Posts, p.Slug)
			if n.Prev != nil {
				fmt.Fprintf(w, "Previous: %s\n", n.Prev.Slug)
			}
			if n.Next != nil {
				fmt.Fprintf(w, "Next: %s\n", n.Next.Slug)
			}
			if sections := content.GroupHeadings(content.Headings(p.Raw)); len(sections) > 0 {
				fmt.Fprintln(w, "\nContents:")
				for _, s := range sections {
					fmt.Fprintf(w, "  %s\n", s.Text)
					for _, sub := range s.Subheadings {
						fmt.Fprintf(w, "    %s\n", sub.Text)
					}
				}
			}
			fmt.Fprintln(w)
			if html {
				fmt.Fprintln(w, p.Content)
			} else {
				fmt.Fprintln(w, p.Raw)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Print the rendered HTML instead of the Markdown")
	return cmd
}

func exportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the whole site as static files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, cfg, err := opts.open()
			if err != nil {
				return err
			}
			vfs, err := site.New(os.DirFS(opts.folder), loader, cfg)
			if err != nil {
				return err
			}
			return site.Export(cmd.Context(), vfs, args[0])
		},
	}
}
