package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/costify/internal/cart"
	"github.com/andreasstove999/costify/internal/localstore"
	"github.com/andreasstove999/costify/internal/pricing"
)

type cartOptions struct {
	session string
}

func newCartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &cartOptions{}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}
	cmd.PersistentFlags().StringVar(&opts.session, "session", cart.DefaultSessionKey, "cart session key")

	cmd.AddCommand(
		newCartShowCommand(rootOpts, opts),
		newCartAddCommand(rootOpts, opts),
		newCartUpdateCommand(rootOpts, opts),
		newCartRemoveCommand(rootOpts, opts),
		newCartClearCommand(rootOpts, opts),
	)
	return cmd
}

// withCart opens the local cart, runs fn against it and prints the resulting cart.
func withCart(cmd *cobra.Command, rootOpts *RootOptions, opts *cartOptions, fn func(ctx context.Context, s *cart.Store) error) error {
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return err
	}

	ls, err := localstore.Open(cfg.LocalCartPath)
	if err != nil {
		return err
	}
	defer ls.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := cart.Open(ctx, ls.Persistence(opts.session))
	if err != nil {
		return err
	}
	if fn != nil {
		if err := fn(ctx, store); err != nil {
			return err
		}
	}

	totals, err := store.Totals()
	if err != nil {
		return err
	}
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return out.Cart(store.Items(), totals)
}

func newCartShowCommand(rootOpts *RootOptions, opts *cartOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart with its totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, rootOpts, opts, nil)
		},
	}
}

func newCartAddCommand(rootOpts *RootOptions, opts *cartOptions) *cobra.Command {
	var (
		item   cart.LineItem
		desc   string
		markup float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a packet line to the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if item.ID == "" || item.Name == "" {
				return errors.New("--id and --name are required")
			}
			if item.PriceCents < 0 {
				return errors.New("--price-cents must be >= 0")
			}
			if item.Quantity < 1 {
				return errors.New("--quantity must be >= 1")
			}
			if cmd.Flags().Changed("description") {
				item.Description = &desc
			}
			var override *float64
			if cmd.Flags().Changed("markup") {
				if markup < 0 {
					return errors.New("--markup must be >= 0")
				}
				override = &markup
			}
			if err := checkItem(item, override); err != nil {
				return err
			}
			return withCart(cmd, rootOpts, opts, func(ctx context.Context, s *cart.Store) error {
				return s.Add(ctx, item, override)
			})
		},
	}

	cmd.Flags().StringVar(&item.ID, "id", "", "item id")
	cmd.Flags().StringVar(&item.Name, "name", "", "item name")
	cmd.Flags().StringVar(&desc, "description", "", "item description")
	cmd.Flags().Int64Var((*int64)(&item.PriceCents), "price-cents", 0, "unit price in cents")
	cmd.Flags().IntVar(&item.Quantity, "quantity", 1, "quantity")
	cmd.Flags().Float64Var(&markup, "markup", 0, "markup percentage (default 25)")
	return cmd
}

// checkItem applies the quote item rules to a line before it is stored.
func checkItem(item cart.LineItem, markup *float64) error {
	item.Type = cart.ItemTypePacket
	item.MarkupPercentage = pricing.DefaultMarkupPercentage
	if markup != nil {
		item.MarkupPercentage = *markup
	}
	if p := cart.ItemProblems("", item); len(p) > 0 {
		return fmt.Errorf("invalid item: %s", strings.Join(p, "; "))
	}
	return nil
}

func newCartUpdateCommand(rootOpts *RootOptions, opts *cartOptions) *cobra.Command {
	var (
		name     string
		price    int64
		quantity int
		markup   float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of every line with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch cart.Patch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("price-cents") {
				if price < 0 {
					return errors.New("--price-cents must be >= 0")
				}
				cents := pricing.Cents(price)
				patch.PriceCents = &cents
			}
			if flags.Changed("quantity") {
				if quantity < 1 {
					return errors.New("--quantity must be >= 1")
				}
				patch.Quantity = &quantity
			}
			if flags.Changed("markup") {
				if markup < 0 {
					return errors.New("--markup must be >= 0")
				}
				patch.MarkupPercentage = &markup
			}
			return withCart(cmd, rootOpts, opts, func(ctx context.Context, s *cart.Store) error {
				return s.Update(ctx, args[0], patch)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Int64Var(&price, "price-cents", 0, "new unit price in cents")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "new quantity")
	cmd.Flags().Float64Var(&markup, "markup", 0, "new markup percentage")
	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions, opts *cartOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove every line with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, rootOpts, opts, func(ctx context.Context, s *cart.Store) error {
				return s.Remove(ctx, args[0])
			})
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions, opts *cartOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, rootOpts, opts, func(ctx context.Context, s *cart.Store) error {
				return s.Clear(ctx)
			})
		},
	}
}
