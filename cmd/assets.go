package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/teal-bauer/aemctl/api"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Browse and upload DAM assets",
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets in a DAM folder",
	Args:  cobra.NoArgs,
	RunE:  runAssetsList,
}

var assetsGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get an asset with its metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetsGet,
}

var assetsUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file into a DAM folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssetsUpload,
}

var (
	assetsPath     string
	assetsLimit    int
	assetsMimeType string
)

func init() {
	rootCmd.AddCommand(assetsCmd)
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsGetCmd)
	assetsCmd.AddCommand(assetsUploadCmd)

	assetsListCmd.Flags().StringVar(&assetsPath, "path", api.DefaultAssetsPath, "DAM folder to list")
	assetsListCmd.Flags().IntVar(&assetsLimit, "limit", 20, "Maximum number of assets to return")

	assetsUploadCmd.Flags().StringVar(&assetsPath, "path", api.DefaultAssetsPath, "DAM folder to upload into")
	assetsUploadCmd.Flags().StringVar(&assetsMimeType, "mime-type", "", "MIME type (detected from the file extension by default)")
}

func runAssetsList(cmd *cobra.Command, args []string) error {
	if err := checkLimit(assetsLimit); err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	rows, err := client.ListAssets(cmd.Context(), assetsPath, assetsLimit)
	if err != nil {
		return err
	}
	return printRows(newOutput(cmd), api.AssetProjection, rows)
}

func runAssetsGet(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	doc, err := client.GetAsset(cmd.Context(), args[0])
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
		{"Title", lookupText(doc, "jcr:content.metadata.dc:title", "jcr:content.jcr:title")},
		{"MIME type", lookupText(doc, "jcr:content.metadata.dc:format")},
		{"Created", doc.Text("jcr:created")},
		{"Modified", lookupText(doc, "jcr:content.jcr:lastModified")},
	})
}

func runAssetsUpload(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	fileName := filepath.Base(args[0])
	mimeType := assetsMimeType
	if mimeType == "" {
		mimeType = detectMimeType(fileName)
	}

	uploaded, err := client.UploadAsset(cmd.Context(), assetsPath, fileName, file, mimeType)
	if err != nil {
		return err
	}

	out := newOutput(cmd)
	if out.JSONMode() {
		return out.JSON(uploaded)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded asset: %s\n", uploaded.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "  MIME type: %s\n", uploaded.MimeType)
	return nil
}

func detectMimeType(fileName string) string {
	if t := mime.TypeByExtension(filepath.Ext(fileName)); t != "" {
		return t
	}
	return api.DefaultMimeType
}
