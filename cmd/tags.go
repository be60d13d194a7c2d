package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teal-bauer/aemctl/api"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags in a namespace",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

var tagsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tag",
	Example: `  aemctl tags create --name news --title News
  aemctl tags create --namespace /content/cq:tags/site --name press --title Press --description "Press releases"`,
	Args: cobra.NoArgs,
	RunE: runTagsCreate,
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsDelete,
}

var (
	tagNamespace   string
	tagName        string
	tagTitle       string
	tagDescription string
)

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.AddCommand(tagsListCmd)
	tagsCmd.AddCommand(tagsCreateCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)

	tagsListCmd.Flags().StringVar(&tagNamespace, "namespace", api.DefaultTagNamespace, "Tag namespace path")

	tagsCreateCmd.Flags().StringVar(&tagNamespace, "namespace", api.DefaultTagNamespace, "Tag namespace path")
	tagsCreateCmd.Flags().StringVar(&tagName, "name", "", "Tag node name")
	tagsCreateCmd.Flags().StringVar(&tagTitle, "title", "", "Tag title")
	tagsCreateCmd.Flags().StringVar(&tagDescription, "description", "", "Tag description")
	tagsCreateCmd.MarkFlagRequired("name")
	tagsCreateCmd.MarkFlagRequired("title")
}

func runTagsList(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	rows, err := client.ListTags(cmd.Context(), tagNamespace)
	if err != nil {
		return err
	}
	return printRows(newOutput(cmd), api.TagProjection, rows)
}

func runTagsCreate(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	created, err := client.CreateTag(cmd.Context(), tagNamespace, tagName, tagTitle, tagDescription)
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	if out.JSONMode() {
		return out.JSON(created)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created tag: %s\n", created.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "  Title: %s\n", created.Title)
	if created.Description != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Description: %s\n", created.Description)
	}
	return nil
}

func runTagsDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	if err := client.DeleteTag(cmd.Context(), args[0]); err != nil {
		return err
	}

	newOutput(cmd).Success(fmt.Sprintf("Deleted tag: %s", args[0]))
	return nil
}
