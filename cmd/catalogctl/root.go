package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"

	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand once the store is open.
type app struct {
	store    config.Store
	books    *book.Service
	comments *book.CommentService
}

type openFunc func(ctx context.Context) (*app, error)

func openFromEnv(driver string) openFunc {
	return func(ctx context.Context) (*app, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if driver != "" {
			cfg.StoreDriver = driver
		}
		store, err := config.OpenStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts := []book.Option{book.WithCaseInsensitiveSearch(cfg.SearchCaseInsensitive)}
		return &app{
			store:    store,
			books:    book.NewService(store, opts...),
			comments: book.NewCommentService(store, opts...),
		}, nil
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(openFromEnv)
}

func buildRootCmd(opener func(driver string) openFunc) *cobra.Command {
	var driver string
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage books and comments in the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&driver, "driver", "", "store driver override (postgres, sqlite, memory)")

	open := func(ctx context.Context) (*app, error) { return opener(driver)(ctx) }
	root.AddCommand(newBookCmd(open), newCommentCmd(open))
	return root
}

// withApp opens the store, runs fn and always releases the store.
func withApp(cmd *cobra.Command, open openFunc, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.store.Close()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
