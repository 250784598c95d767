package main

import (
	"context"
	"fmt"
	"strconv"

	"bookcatalog/internal/book"

	"github.com/spf13/cobra"
)

func newBookCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Create, inspect and search books",
	}
	cmd.AddCommand(
		newBookCreateCmd(open),
		newBookGetCmd(open),
		newBookEditCmd(open),
		newBookUpdateCmd(open),
		newBookDeleteCmd(open),
		newBookSearchCmd(open),
	)
	return cmd
}

func newBookCreateCmd(open openFunc) *cobra.Command {
	var in book.BookInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a book and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				id, err := a.books.CreateBook(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "book title")
	cmd.Flags().IntVar(&in.Price, "price", 0, "price in minor units")
	return cmd
}

func newBookGetCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a book with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				view, err := a.books.ReadBook(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
}

func newBookEditCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Show the editable fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				view, err := a.books.EditBook(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
}

func newBookUpdateCmd(open openFunc) *cobra.Command {
	var in book.BookInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the title and price of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				return a.books.UpdateBook(ctx, id, in)
			})
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "new title")
	cmd.Flags().IntVar(&in.Price, "price", 0, "new price in minor units")
	return cmd
}

func newBookDeleteCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				return a.books.DeleteBook(ctx, id)
			})
		},
	}
}

func newBookSearchCmd(open openFunc) *cobra.Command {
	var (
		title     string
		page      int
		size      int
		direction string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List books whose title contains a substring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := book.SearchParams{
				Title:     title,
				Direction: book.ParseDirection(direction),
			}
			if cmd.Flags().Changed("page") {
				params.Page = &page
			}
			if cmd.Flags().Changed("size") {
				params.Size = &size
			}
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				views, err := a.books.SearchBooks(ctx, params)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), views)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title substring")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&size, "size", book.DefaultPageSize, "page size")
	cmd.Flags().StringVar(&direction, "direction", "ASC", "ASC or DESC")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}
