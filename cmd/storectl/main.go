// Command storectl browses the built-in catalog and drives a cart kept in
// local storage, the same cart format the storefront service persists.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ArtfulStore/internal/cart"
	"ArtfulStore/internal/catalog"
	"ArtfulStore/internal/money"
	"ArtfulStore/internal/storage"
	"ArtfulStore/pkg/kit"
)

type app struct {
	dir       string
	driver    string
	sessionID string
	verbose   bool

	catalog *catalog.Catalog
	money   money.Converter
	log     *zap.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		catalog: catalog.Default(),
		money:   money.Default(),
		log:     zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Browse the art catalog and manage a local cart",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.verbose {
				a.log = kit.NewLogger("storectl", "debug", true)
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.dir, "dir", ".artful", "Directory holding the local cart")
	root.PersistentFlags().StringVar(&a.driver, "driver", storage.DriverFile, "Storage driver: file or sqlite")
	root.PersistentFlags().StringVar(&a.sessionID, "session", "local", "Cart session id")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log cart events")

	root.AddCommand(a.productsCmd(), a.cartCmd())
	return root
}

func (a *app) openStore(ctx context.Context) (storage.Store, error) {
	cfg := storage.Config{Driver: a.driver, Path: a.dir}
	if a.driver == storage.DriverSQLite {
		if err := os.MkdirAll(a.dir, 0o755); err != nil {
			return nil, err
		}
		cfg.Path = filepath.Join(a.dir, "cart.db")
	}
	return storage.Open(ctx, cfg)
}

// withCart loads the session's cart, runs fn and prints each resulting event
// to stderr.
func (a *app) withCart(cmd *cobra.Command, fn func(ctx context.Context, m *cart.Manager) (cart.State, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	notices := cart.ObserverFunc(func(_ context.Context, e cart.Event) {
		fmt.Fprintln(cmd.ErrOrStderr(), e.Message())
	})
	m := cart.NewManager(store, cart.StorageKey(a.sessionID),
		cart.WithLogger(a.log),
		cart.WithObserver(cart.Observers{cart.LogObserver(a.log), notices}),
	)
	if _, err := m.Load(ctx); err != nil {
		return err
	}

	st, err := fn(ctx, m)
	if err != nil {
		return err
	}
	printCart(cmd.OutOrStdout(), st, a.money)
	return nil
}
