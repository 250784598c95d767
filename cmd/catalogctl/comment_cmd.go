package main

import (
	"context"

	"bookcatalog/internal/book"

	"github.com/spf13/cobra"
)

func newCommentCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment on books",
	}
	cmd.AddCommand(newCommentAddCmd(open))
	return cmd
}

func newCommentAddCmd(open openFunc) *cobra.Command {
	var (
		bookID int64
		text   string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Attach a comment to a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := book.CommentInput{BookID: bookID}
			if cmd.Flags().Changed("text") {
				in.Comment = &text
			}
			if cmd.Flags().Changed("page") {
				in.Page = &page
			}
			return withApp(cmd, open, func(ctx context.Context, a *app) error {
				view, err := a.comments.CreateComment(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
	cmd.Flags().Int64Var(&bookID, "book", 0, "id of the book being commented on")
	cmd.Flags().StringVar(&text, "text", "", "comment text")
	cmd.Flags().IntVar(&page, "page", 0, "page the comment refers to")
	return cmd
}
