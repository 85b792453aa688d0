// Package cli implements the interactive moodlist terminal flow.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v2"

	"github.com/ewilliams-labs/moodlist/internal/adapters/openai"
	"github.com/ewilliams-labs/moodlist/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodlist/internal/adapters/sqlite"
	"github.com/ewilliams-labs/moodlist/internal/config"
	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/services"
	"github.com/ewilliams-labs/moodlist/internal/worker"
)

// explanationWait bounds how long the CLI waits for the background
// workers before showing whatever explanations have arrived.
const explanationWait = 45 * time.Second

// RunGenerate drives the full interactive flow: form, Spotify login,
// generation, review loop, publish.
func RunGenerate(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context

	if cfg.Spotify.RedirectURL == "" {
		return fmt.Errorf("SPOTIFY_REDIRECT_URL is required for the interactive flow (e.g. http://localhost:8910/callback)")
	}

	var (
		description  string
		name         string
		countRaw     = "20"
		followersRaw = "50000"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Describe the mood or occasion").
				Placeholder("songs for a late night drive through the city").
				Value(&description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a description is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Playlist name").
				Value(&name),
			huh.NewInput().
				Title("How many songs?").
				Value(&countRaw).
				Validate(validateIntRange(domain.MinRequestedCount, domain.MaxRequestedCount)),
			huh.NewInput().
				Title("Max artist followers (smaller finds deeper cuts)").
				Value(&followersRaw).
				Validate(validateIntRange(0, 1<<31-1)),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	count, _ := strconv.Atoi(countRaw)
	maxFollowers, _ := strconv.Atoi(followersRaw)

	// Publishing needs a user-scoped session, so log in before generating.
	flow := spotify.NewUserAuth(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURL)
	openBrowser(flow.AuthURL())

	var catalog *spotify.Client
	login := func(ctx context.Context) error {
		var err error
		catalog, err = flow.Wait(ctx, cfg.Spotify.Market)
		return err
	}
	if err := spinner.New().Title("Waiting for Spotify login...").Context(ctx).ActionWithErr(login).Run(); err != nil {
		return fmt.Errorf("spotify login failed: %w", err)
	}

	repo, err := sqlite.NewAdapter(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	completions := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})

	pool := worker.NewPool(repo, completions, cfg.Worker.QueueSize)
	pool.Start(cfg.Worker.Workers)
	defer pool.Stop()

	svc := services.NewGenerator(completions, services.NewResolver(catalog), catalog, repo, pool)

	var draft domain.Draft
	generate := func(ctx context.Context) error {
		var err error
		draft, err = svc.Generate(ctx, services.GenerateRequest{
			Description:  description,
			Name:         name,
			Count:        count,
			MaxFollowers: maxFollowers,
		})
		return err
	}
	if err := spinner.New().Title("Finding songs...").Context(ctx).ActionWithErr(generate).Run(); err != nil {
		return err
	}

	for {
		draft = waitForExplanations(ctx, svc, draft)
		printDraft(draft)

		if len(draft.Songs) == 0 {
			fmt.Println("No songs matched. Try a different description or a higher follower cap.")
		}

		var choice string
		sel := huh.NewSelect[string]().
			Title("What next?").
			Options(
				huh.NewOption("Publish to Spotify", "publish"),
				huh.NewOption("Regenerate", "regenerate"),
				huh.NewOption("Quit without publishing", "quit"),
			).
			Value(&choice)
		if err := sel.Run(); err != nil {
			return err
		}

		switch choice {
		case "publish":
			return publishDraft(ctx, svc, draft)
		case "regenerate":
			regenerate := func(ctx context.Context) error {
				var err error
				draft, err = svc.Regenerate(ctx, draft.ID)
				return err
			}
			if err := spinner.New().Title("Finding new songs...").Context(ctx).ActionWithErr(regenerate).Run(); err != nil {
				return err
			}
		case "quit":
			if err := svc.Discard(ctx, draft.ID); err != nil {
				return err
			}
			return nil
		}
	}
}

func publishDraft(ctx context.Context, svc *services.Generator, draft domain.Draft) error {
	name := draft.Name
	input := huh.NewInput().
		Title("Playlist name").
		Value(&name).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("a playlist name is required")
			}
			return nil
		})
	if err := input.Run(); err != nil {
		return err
	}

	var playlist domain.PublishedPlaylist
	publish := func(ctx context.Context) error {
		var err error
		playlist, err = svc.Publish(ctx, draft.ID, name)
		return err
	}
	if err := spinner.New().Title("Publishing...").Context(ctx).ActionWithErr(publish).Run(); err != nil {
		return err
	}

	fmt.Printf("\nPublished! %s\n", playlist.URL)
	return nil
}

// waitForExplanations polls the stored draft until every song has an
// explanation or the deadline passes; either way the freshest copy wins.
func waitForExplanations(ctx context.Context, svc *services.Generator, draft domain.Draft) domain.Draft {
	if len(draft.Songs) == 0 {
		return draft
	}

	wait := func(ctx context.Context) error {
		deadline := time.Now().Add(explanationWait)
		for time.Now().Before(deadline) {
			current, err := svc.GetDraft(ctx, draft.ID)
			if err == nil {
				draft = current
				if allExplained(current) {
					return nil
				}
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(300 * time.Millisecond):
			}
		}
		return nil
	}
	_ = spinner.New().Title("Writing explanations...").Context(ctx).ActionWithErr(wait).Run()
	return draft
}

func allExplained(draft domain.Draft) bool {
	for _, song := range draft.Songs {
		if song.Explanation == "" {
			return false
		}
	}
	return true
}

func printDraft(draft domain.Draft) {
	title := draft.Name
	if title == "" {
		title = draft.Phrase
	}
	fmt.Printf("\n%s (%d songs)\n\n", title, len(draft.Songs))

	for i, song := range draft.Songs {
		fmt.Printf("%2d. %s - %s\n", i+1, song.Title, song.ArtistName)
		if song.Explanation != "" {
			fmt.Printf("    %s\n", song.Explanation)
		}
		if song.URL != "" {
			fmt.Printf("    %s\n", song.URL)
		}
	}
	fmt.Println()
}

func validateIntRange(min, max int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}
