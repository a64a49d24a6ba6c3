package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/onegreenvn/keyword-article-proxy/internal/config"
	"github.com/onegreenvn/keyword-article-proxy/internal/database/repository"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/settings"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	query    string
	format   string
	settings models.Settings
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one article per keyword",
	Long:  `Fans the comma separated --query out to the upstream workflow and prints every message and end frame as it arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runGenerate(ctx, genOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOpts.query, "query", "q", "", "Comma separated keywords")
	f.StringVarP(&genOpts.format, "format", "f", models.FormatDemo, "draft, publish or demo")
	f.StringVar(&genOpts.settings.APIEndpoint, "api-endpoint", "", "Workflow endpoint (defaults to DIFY_API_ENDPOINT)")
	f.StringVar(&genOpts.settings.APIKey, "api-key", "", "Workflow API key (defaults to DIFY_API_KEY)")
	f.StringVar(&genOpts.settings.TitlePrompt, "title-prompt", "", "Title prompt")
	f.StringVar(&genOpts.settings.ContentPrompt, "content-prompt", "", "Content prompt")
	f.StringVar(&genOpts.settings.SiteURL, "site-url", "", "WordPress site URL")
	f.StringVar(&genOpts.settings.WordpressUsername, "wp-username", "", "WordPress username")
	f.StringVar(&genOpts.settings.ApplicationPassword, "wp-password", "", "WordPress application password")
	_ = generateCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, opts generateOptions, out io.Writer) error {
	cfg, err := config.GetGenerationConfig()
	if err != nil {
		return err
	}

	store := settings.NewMemoryStore()
	if err := store.Save(ctx, opts.settings); err != nil {
		return err
	}

	service := services.NewArticleGenerationService(
		store,
		services.NewDifyClient(nil),
		services.NewWordPressDispatcher(wordpress.NewClient(nil), cfg.PublishTimeout),
		repository.NewMemoryArticleRepository(0),
		cfg,
		nil,
	)

	generation, err := service.Generate(ctx, opts.query, opts.format)
	if err != nil {
		return err
	}

	for ev := range generation.Events {
		frame, err := services.EncodeStreamEvent(ev)
		if err != nil {
			return err
		}
		if _, err := out.Write(frame); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	}
	return nil
}
