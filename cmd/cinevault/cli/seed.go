package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cinevault/cinevault/internal/model"
)

// seedFile is the YAML document accepted by `cinevault seed`.
type seedFile struct {
	Movies []seedMovie `yaml:"movies"`
}

type seedMovie struct {
	Title     string            `yaml:"title"`
	PosterURL string            `yaml:"posterUrl"`
	Category  string            `yaml:"category"`
	Links     map[string]string `yaml:"downloadLinks"`
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Load movies from a YAML file into the catalog",
		Long: `Load catalog entries from a YAML file. Each entry must carry a title,
poster URL, category, and the three required download link tiers
(720p, 1080p, 1440p). Invalid entries abort the run before anything
is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args[0])
		},
	}
	return cmd
}

func runSeed(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}
	if len(file.Movies) == 0 {
		return fmt.Errorf("catalog file contains no movies")
	}

	// Validate everything before touching the store so a bad entry cannot
	// leave a half-imported catalog behind.
	movies := make([]*model.Movie, 0, len(file.Movies))
	for i, entry := range file.Movies {
		movie := &model.Movie{
			Title:     entry.Title,
			PosterURL: entry.PosterURL,
			Category:  entry.Category,
			DownloadLinks: model.DownloadLinks{
				Q720:  entry.Links["720p"],
				Q1080: entry.Links["1080p"],
				Q1440: entry.Links["1440p"],
			},
		}
		for quality, url := range entry.Links {
			switch quality {
			case "720p", "1080p", "1440p":
			default:
				if movie.DownloadLinks.Extra == nil {
					movie.DownloadLinks.Extra = make(map[string]string)
				}
				movie.DownloadLinks.Extra[quality] = url
			}
		}

		movie.Normalize()
		if missing := movie.MissingFields(); len(missing) > 0 {
			return fmt.Errorf("movie %d (%q): missing required fields: %s", i+1, entry.Title, strings.Join(missing, ", "))
		}
		if !movie.DownloadLinks.Complete() {
			return fmt.Errorf("movie %d (%q): download links must include 720p, 1080p, and 1440p", i+1, entry.Title)
		}
		movies = append(movies, movie)
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, movie := range movies {
		if err := st.CreateMovie(ctx, movie); err != nil {
			return fmt.Errorf("save movie %q: %w", movie.Title, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies into the catalog.\n", len(movies))
	return nil
}
