package site

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ancientlore/quill/query"
)

// ConfigFile is the name of the site configuration file at the root of the site folder.
const ConfigFile = "quill.toml"

// Config contains configuration data from the quill.toml file.
type Config struct {
	Name           string            `toml:"name"`
	URL            string            `toml:"url"`
	Description    string            `toml:"description"`
	Author         string            `toml:"author"`
	Posts          string            `toml:"posts"`    // folder holding the posts, relative to the site
	WordsPerMinute int               `toml:"wpm"`      // reading speed for reading time
	RelatedLimit   int               `toml:"related"`  // related posts shown on a post
	FeedSize       int               `toml:"feedsize"` // posts in feed.xml
	HomeSize       int               `toml:"homesize"` // posts on the home page
	Expires        Duration          `toml:"expires"`
	StaticExpires  Duration          `toml:"staticexpires"`
	Headers        map[string]string `toml:"headers"`
}

// DefaultConfig returns the configuration used when quill.toml is missing.
func DefaultConfig() *Config {
	return &Config{
		Name:           "Blog",
		URL:            "http://localhost:9000/",
		Posts:          "posts",
		WordsPerMinute: query.DefaultWordsPerMinute,
		RelatedLimit:   query.DefaultRelatedLimit,
		FeedSize:       20,
		HomeSize:       5,
	}
}

// ReadConfig returns configuration from the quill.toml file in fsys.
// It is not an error if the file does not exist; defaults are used instead.
// Settings missing from the file also take their defaults.
func ReadConfig(fsys fs.FS) (*Config, error) {
	cfg := DefaultConfig()
	cfgBytes, err := fs.ReadFile(fsys, ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("ReadConfig: cannot read config file: %w", err)
	}
	err = toml.Unmarshal(cfgBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("ReadConfig: cannot parse config file: %w", err)
	}
	cfg.fill()
	return cfg, nil
}

// fill replaces invalid settings with defaults.
func (cfg *Config) fill() {
	def := DefaultConfig()
	if cfg.Posts == "" {
		cfg.Posts = def.Posts
	}
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = def.WordsPerMinute
	}
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = def.RelatedLimit
	}
	if cfg.FeedSize <= 0 {
		cfg.FeedSize = def.FeedSize
	}
	if cfg.HomeSize <= 0 {
		cfg.HomeSize = def.HomeSize
	}
}

// postsFolder returns the posts folder as a path inside the site, or "" when
// the posts live elsewhere.
func (cfg *Config) postsFolder() string {
	p := path.Clean(strings.TrimPrefix(cfg.Posts, "./"))
	if !fs.ValidPath(p) || p == "." {
		return ""
	}
	return p
}

// Duration is a time.Duration that reads and writes itself as text, like "10m".
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	p, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(p)
	return nil
}
