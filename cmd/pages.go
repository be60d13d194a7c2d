package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teal-bauer/aemctl/api"
	"github.com/teal-bauer/aemctl/internal/content"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Browse and create pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List child pages",
	Args:  cobra.NoArgs,
	RunE:  runPagesList,
}

var pagesGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a page with its content tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesGet,
}

var pagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a page",
	Long: `Create a page under a parent path.

With --file, page properties are read from the YAML frontmatter of a markdown
file (title, template, description) and the markdown body is added to the page
as rich text. Flags override frontmatter. Use '-' to read from stdin.`,
	Example: `  aemctl pages create --parent /content/site/en --name about --title "About us"
  aemctl pages create --parent /content/site/en --name news --file news.md`,
	Args: cobra.NoArgs,
	RunE: runPagesCreate,
}

var (
	pagesPath       string
	pagesLimit      int
	pageParent      string
	pageName        string
	pageTitle       string
	pageTemplate    string
	pageDescription string
	pageFile        string
)

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesGetCmd)
	pagesCmd.AddCommand(pagesCreateCmd)

	pagesListCmd.Flags().StringVar(&pagesPath, "path", api.DefaultPagesPath, "Parent path to list")
	pagesListCmd.Flags().IntVar(&pagesLimit, "limit", 20, "Maximum number of pages to return")

	pagesCreateCmd.Flags().StringVar(&pageParent, "parent", "", "Parent page path")
	pagesCreateCmd.Flags().StringVar(&pageName, "name", "", "Page node name")
	pagesCreateCmd.Flags().StringVar(&pageTitle, "title", "", "Page title")
	pagesCreateCmd.Flags().StringVar(&pageTemplate, "template", "", "Page template (default "+api.DefaultTemplate+")")
	pagesCreateCmd.Flags().StringVar(&pageDescription, "description", "", "Page description")
	pagesCreateCmd.Flags().StringVar(&pageFile, "file", "", "Markdown file with frontmatter")
	pagesCreateCmd.MarkFlagRequired("parent")
	pagesCreateCmd.MarkFlagRequired("name")
}

func runPagesList(cmd *cobra.Command, args []string) error {
	if err := checkLimit(pagesLimit); err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	rows, err := client.ListPages(cmd.Context(), pagesPath, pagesLimit)
	if err != nil {
		return err
	}
	return printRows(newOutput(cmd), api.PageProjection, rows)
}

func runPagesGet(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	doc, err := client.GetPage(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	if out.JSONMode() {
		return out.JSON(doc)
	}
	return out.Fields([][2]string{
		{"Path", doc.Text("path")},
		{"Type", doc.Text("jcr:primaryType")},
		{"Title", lookupText(doc, "jcr:content.jcr:title")},
		{"Template", lookupText(doc, "jcr:content.cq:template")},
		{"Description", lookupText(doc, "jcr:content.jcr:description")},
		{"Modified", lookupText(doc, "jcr:content.cq:lastModified")},
		{"Modified by", lookupText(doc, "jcr:content.cq:lastModifiedBy")},
	})
}

func runPagesCreate(cmd *cobra.Command, args []string) error {
	spec := api.PageSpec{
		Parent:      pageParent,
		Name:        pageName,
		Title:       pageTitle,
		Template:    pageTemplate,
		Description: pageDescription,
	}

	if pageFile != "" {
		parsed, err := content.ParseFile(pageFile)
		if err != nil {
			return fmt.Errorf("parsing file: %w", err)
		}
		if spec.Title == "" {
			spec.Title = parsed.Frontmatter.Title
		}
		if spec.Template == "" {
			spec.Template = parsed.Frontmatter.Template
		}
		if spec.Description == "" {
			spec.Description = parsed.Frontmatter.Description
		}
		spec.BodyHTML = parsed.HTML
	}
	if spec.Title == "" {
		return fmt.Errorf("required flag \"title\" not set")
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	created, err := client.CreatePage(cmd.Context(), spec)
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	if out.JSONMode() {
		return out.JSON(created)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created page: %s\n", created.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "  Title:    %s\n", created.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "  Template: %s\n", created.Template)
	return nil
}
