package api

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultAssetsPath is the DAM root listed when no path is given
	DefaultAssetsPath = "/content/dam"
	// DefaultMimeType is sent for uploads of unknown type
	DefaultMimeType = "application/octet-stream"
)

// UploadedAsset is reported after a successful UploadAsset
type UploadedAsset struct {
	Path     string `json:"path"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Response string `json:"response"`
}

// ListAssets returns up to limit DAM nodes directly under path
func (c *Client) ListAssets(ctx context.Context, path string, limit int) ([]*Node, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultAssetsPath
	}

	node, err := c.GetNode(ctx, path+".infinity.json")
	if err != nil {
		return nil, err
	}
	return ProjectChildren(node, path, limit, AssetProjection), nil
}

// GetAsset returns the full asset tree with its path added
func (c *Client) GetAsset(ctx context.Context, path string) (*Node, error) {
	return c.getDocument(ctx, path)
}

// UploadAsset creates fileName under damPath via the DAM createasset servlet.
// The result carries the asset path and the server's response body.
func (c *Client) UploadAsset(ctx context.Context, damPath, fileName string, content io.Reader, mimeType string) (*UploadedAsset, error) {
	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if damPath == "" {
		damPath = DefaultAssetsPath
	}
	damPath = strings.TrimSuffix(damPath, "/")
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	data, err := c.PostFile(ctx, damPath+".createasset.html", fileName, mimeType, content, map[string]string{
		"fileName": fileName,
	})
	if err != nil {
		return nil, err
	}

	return &UploadedAsset{
		Path:     childPath(damPath, fileName),
		FileName: fileName,
		MimeType: mimeType,
		Response: string(data),
	}, nil
}

func (c *Client) getDocument(ctx context.Context, path string) (*Node, error) {
	node, err := c.GetNode(ctx, path+".infinity.json")
	if err != nil {
		return nil, err
	}
	node.Set("path", path)
	return node, nil
}
