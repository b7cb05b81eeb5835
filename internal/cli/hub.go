package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"homehub/internal/download"
	"homehub/internal/llm"
	"homehub/internal/logging"
	"homehub/internal/standalone"
	"homehub/internal/web"
)

var hubAddr string

func init() {
	hub := &cobra.Command{
		Use:   "hub",
		Short: "Standalone AI hub: generate content and serve it over HTTP",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate today's hub content into the data directory",
		RunE:  runHubGenerate,
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest hub content",
		RunE:  runHubServe,
	}
	serve.Flags().StringVar(&hubAddr, "addr", "", "Listen address (default: $HUB_ADDR)")

	hub.AddCommand(generate, serve)
	RootCmd.AddCommand(hub)
}

func runHubGenerate(cmd *cobra.Command, args []string) error {
	if err := requireLLM(); err != nil {
		return err
	}
	ctx := cmd.Context()
	factory := llm.NewFactory(cfg)
	text, err := factory.CreateClient(string(cfg.LLMProvider), cfg.TextModel)
	if err != nil {
		return err
	}

	h := &standalone.Hub{
		DataDir: cfg.HubDataDir,
		Text:    text,
	}
	if cfg.ImagesEnabled() {
		h.Images = factory.OpenAI(cfg.TextModel)
		h.Fetch = download.New(cfg.DownloadTimeout)
	}
	res, err := h.Generate(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Content saved to %s\n", res.Folder)
	return nil
}

func runHubServe(cmd *cobra.Command, args []string) error {
	addr := hubAddr
	if addr == "" {
		addr = cfg.HubAddr
	}
	logging.From(cmd.Context()).Info("🌐 serving hub", "addr", addr, "data", cfg.HubDataDir)
	return web.NewServer(cfg.HubDataDir).Run(addr)
}
