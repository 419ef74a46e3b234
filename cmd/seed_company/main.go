package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/echonova-backend/internal/app"
	types "github.com/yungbote/echonova-backend/internal/domain"
	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
)

// trackSeed is one entry of the -tracks YAML file.
type trackSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Level       string   `yaml:"level"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Areas       []string `yaml:"areas"`
}

func main() {
	var name, email, taxID, tracksFile string
	flag.StringVar(&name, "name", "", "company name (required)")
	flag.StringVar(&email, "email", "", "company contact email")
	flag.StringVar(&taxID, "cnpj", "", "company tax id")
	flag.StringVar(&tracksFile, "tracks", "", "optional YAML file with learning tracks to load")
	flag.Parse()

	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(os.Stderr, "-name is required")
		os.Exit(2)
	}

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close(ctx)

	dbc := dbctx.New(ctx)

	if tracksFile != "" {
		rows, err := readTracks(tracksFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read tracks: %v\n", err)
			os.Exit(1)
		}
		if _, err := application.Repos.Track.Create(dbc, rows); err != nil {
			fmt.Fprintf(os.Stderr, "create tracks: %v\n", err)
			os.Exit(1)
		}
		if err := application.Services.Catalog.Invalidate(ctx); err != nil {
			application.Log.Warn("catalog cache invalidation failed", "error", err)
		}
		fmt.Printf("loaded %d tracks\n", len(rows))
	}

	company := &types.Company{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), TaxID: strings.TrimSpace(taxID)}
	if err := application.Repos.Company.Create(dbc, company); err != nil {
		fmt.Fprintf(os.Stderr, "create company: %v\n", err)
		os.Exit(1)
	}
	token, err := application.Services.Auth.IssueToken(company.ID, company.Email, company.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("company_id=%s\n", company.ID)
	fmt.Printf("token=%s\n", token)
	fmt.Printf("token_expires_at=%s\n", time.Now().UTC().Add(application.Services.Auth.GetAccessTTL()).Format(time.RFC3339))
}

func readTracks(path string) ([]*types.Track, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []trackSeed
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return nil, err
	}
	rows := make([]*types.Track, 0, len(seeds))
	for i, s := range seeds {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("track %d has no name", i)
		}
		rows = append(rows, &types.Track{
			Name:        strings.TrimSpace(s.Name),
			Description: s.Description,
			Level:       s.Level,
			Category:    s.Category,
			Tags:        s.Tags,
			Areas:       s.Areas,
		})
	}
	return rows, nil
}
