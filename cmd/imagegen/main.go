package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dmorgan81/imagebot/internal/client"
	"github.com/dmorgan81/imagebot/internal/config"
	"github.com/dmorgan81/imagebot/internal/image"
	"github.com/dmorgan81/imagebot/internal/inject"
	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/dmorgan81/imagebot/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	envFile string
	verbose bool
	output  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "imagegen",
		Short:         "Generate images from text prompts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	b64 := &cobra.Command{
		Use:   "b64 <prompt>",
		Short: "Generate an image and save it to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runB64,
	}
	b64.Flags().StringVarP(&output, "output", "o", "image.png", "file to write; the extension follows the returned image format")

	root.AddCommand(&cobra.Command{
		Use:   "url <prompt>",
		Short: "Generate an image and print its URL",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runURL,
	}, b64)
	return root
}

func setup(cmd *cobra.Command) (context.Context, *do.Injector, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	level := lo.Ternary(verbose || cfg.Verbose, slog.LevelDebug, slog.LevelError)
	ctx := log.NewContext(cmd.Context(), log.New(os.Stderr, level))
	return ctx, inject.Setup(ctx, cfg), nil
}

func runURL(cmd *cobra.Command, args []string) error {
	ctx, injector, err := setup(cmd)
	if err != nil {
		return err
	}
	defer injector.Shutdown()

	c, err := do.Invoke[client.AIClient](injector)
	if err != nil {
		return err
	}
	url, err := c.CreateImageURL(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}

func runB64(cmd *cobra.Command, args []string) error {
	ctx, injector, err := setup(cmd)
	if err != nil {
		return err
	}
	defer injector.Shutdown()

	c, err := do.Invoke[client.AIClient](injector)
	if err != nil {
		return err
	}
	b64, err := c.CreateImageB64(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	data, err := image.DecodeBase64(b64)
	if err != nil {
		return err
	}
	format, err := image.Validate(data)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output)) + "." + format
	uploader := &store.FileUploader{Dir: filepath.Dir(output)}
	if err := uploader.Upload(ctx, store.UploadParams{Name: name, Data: data, ContentType: image.ContentType(format)}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(uploader.Dir, name))
	return nil
}
