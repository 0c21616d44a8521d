package main

import (
	"github.com/spf13/cobra"

	"github.com/skinx/blog-api/cmd/blog/ui"
	"github.com/skinx/blog-api/internal/client"
)

func (a *app) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}

	cmd.AddCommand(
		a.postsListCmd(),
		a.postsGetCmd(),
		a.postsCreateCmd(),
		a.postsUpdateCmd(),
		a.postsDeleteCmd(),
	)
	return cmd
}

func (a *app) postsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var params client.ListParams
			params.Tag, _ = cmd.Flags().GetString("tag")
			params.Q, _ = cmd.Flags().GetString("q")
			params.Page, _ = cmd.Flags().GetInt("page")
			params.PageSize, _ = cmd.Flags().GetInt("page-size")

			list, err := a.api.ListPosts(cmd.Context(), params)
			if err != nil {
				return err
			}
			ui.PrintPostList(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().String("tag", "", "Only posts with this exact tag")
	cmd.Flags().String("q", "", "Search title and content")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", 10, "Posts per page (max 100)")
	return cmd
}

func (a *app) postsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ui.PrintPost(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (a *app) postsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")
			tags, _ := cmd.Flags().GetString("tags")

			if title == "" || content == "" {
				if err := ui.PostDraft(&title, &content, &tags); err != nil {
					return err
				}
			}

			p, err := a.api.CreatePost(cmd.Context(), client.PostInput{
				Title:   title,
				Content: content,
				Tags:    ui.SplitTags(tags),
			})
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Post created")
			ui.PrintPost(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().String("title", "", "Post title")
	cmd.Flags().String("content", "", "Post content, HTML allowed")
	cmd.Flags().String("tags", "", "Comma separated tags")
	return cmd
}

func (a *app) postsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := patchFromFlags(cmd)

			p, err := a.api.UpdatePost(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Post updated")
			ui.PrintPost(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("content", "", "New content")
	cmd.Flags().String("tags", "", "Replacement tags, comma separated (empty clears)")
	return cmd
}

// patchFromFlags includes only flags that were set explicitly.
func patchFromFlags(cmd *cobra.Command) client.PostPatch {
	var patch client.PostPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		patch.Title = &title
	}
	if flags.Changed("content") {
		content, _ := flags.GetString("content")
		patch.Content = &content
	}
	if flags.Changed("tags") {
		raw, _ := flags.GetString("tags")
		tags := ui.SplitTags(raw)
		patch.Tags = &tags
	}
	return patch
}

func (a *app) postsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := ui.Confirm("Delete this post?")
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintHint(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := a.api.DeletePost(cmd.Context(), args[0]); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "Post deleted")
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	return cmd
}
