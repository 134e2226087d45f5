// quill lists, searches and exports the posts of a quill blog.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ancientlore/quill/content"
	"github.com/ancientlore/quill/site"
)

var version = "dev"

// options are the flags shared by every command.
type options struct {
	folder string
	drafts bool
}

// open reads the site configuration and returns a loader for its posts.
func (o *options) open() (*content.Loader, *site.Config, error) {
	cfg, err := site.ReadConfig(os.DirFS(o.folder))
	if err != nil {
		return nil, nil, err
	}
	postsDir := cfg.Posts
	if !filepath.IsAbs(postsDir) {
		postsDir = filepath.Join(o.folder, postsDir)
	}
	loader := content.New(postsDir)
	loader.IncludeDrafts = o.drafts
	return loader, cfg, nil
}

// snapshot loads the posts.
func (o *options) snapshot() (*content.Snapshot, *content.Loader, *site.Config, error) {
	loader, cfg, err := o.open()
	if err != nil {
		return nil, nil, nil, err
	}
	snap, err := loader.Snapshot()
	if err != nil {
		return nil, nil, nil, err
	}
	return snap, loader, cfg, nil
}

func newRootCommand() *cobra.Command {
	var opts options
	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "quill - a file-based blog",
		Long: `quill reads Markdown and MDX posts with front matter from a folder and
answers questions about them: listings, tags, search, related posts. It can
also export the whole site as static files.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.folder, "folder", ".", "Site folder holding quill.toml")
	rootCmd.PersistentFlags().BoolVar(&opts.drafts, "drafts", false, "Include draft posts")

	rootCmd.AddCommand(slugsCmd(&opts))
	rootCmd.AddCommand(listCmd(&opts))
	rootCmd.AddCommand(tagsCmd(&opts))
	rootCmd.AddCommand(searchCmd(&opts))
	rootCmd.AddCommand(relatedCmd(&opts))
	rootCmd.AddCommand(showCmd(&opts))
	rootCmd.AddCommand(exportCmd(&opts))
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
