package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/localstore"
	"github.com/andreasstove999/costify/internal/quote"
)

type quoteOptions struct {
	file    string
	pdf     string
	session string
}

func newQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Build a quote from a request file or the local cart",
		Long: `Build a quote and print it.

With --file the request is read from a JSON file ({"items": [...], "client": {...}}).
Without it the local cart is quoted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "quote request JSON file")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "also write the quote PDF to this path")
	cmd.Flags().StringVar(&opts.session, "session", cart.DefaultSessionKey, "local cart session key, without --file")
	return cmd
}

func runQuote(cmd *cobra.Command, rootOpts *RootOptions, opts *quoteOptions) error {
	req, err := quoteRequest(cmd.Context(), rootOpts, opts)
	if err != nil {
		return err
	}

	svc := quote.NewService(nil, quote.ServiceOptions{Now: rootOpts.clock()})
	q, err := svc.Build(req)
	if err != nil {
		return err
	}

	if opts.pdf != "" {
		doc, err := quote.RenderPDF(q)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdf, doc, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
	}

	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return out.Quote(q)
}

func quoteRequest(ctx context.Context, rootOpts *RootOptions, opts *quoteOptions) (quote.Request, error) {
	if opts.file != "" {
		raw, err := os.ReadFile(opts.file)
		if err != nil {
			return quote.Request{}, fmt.Errorf("read quote request: %w", err)
		}
		var req quote.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return quote.Request{}, fmt.Errorf("decode quote request %s: %w", opts.file, err)
		}
		return req, nil
	}

	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return quote.Request{}, err
	}
	ls, err := localstore.Open(cfg.LocalCartPath)
	if err != nil {
		return quote.Request{}, err
	}
	defer ls.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	store, err := cart.Open(ctx, ls.Persistence(opts.session))
	if err != nil {
		return quote.Request{}, err
	}
	return quote.Request{Items: store.Items()}, nil
}
