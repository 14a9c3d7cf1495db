package client

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"scrapi-go/pkg/models"
	"scrapi-go/pkg/utils"
)

// DatasetItems retrieves every item produced by a run
func (c *Client) DatasetItems(ctx context.Context, runID string) ([]models.DatasetItem, error) {
	var items []models.DatasetItem
	path := fmt.Sprintf("/datasets/%s/items", url.PathEscape(runID))
	if err := c.doGetRequest(ctx, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ExportDataset downloads a run's dataset in json or csv
func (c *Client) ExportDataset(ctx context.Context, runID, format string) ([]byte, error) {
	format, err := utils.ValidateExportFormat(format)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/datasets/%s/export", url.PathEscape(runID))
	return c.doRawRequest(ctx, path, url.Values{"format": {format}})
}

// ExportRun downloads a run's dataset through the export endpoint used by
// chat actions
func (c *Client) ExportRun(ctx context.Context, runID, format string) ([]byte, error) {
	format, err := utils.ValidateExportFormat(format)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/datasets/export/%s", url.PathEscape(runID))
	return c.doRawRequest(ctx, path, url.Values{"format": {format}})
}

// DownloadRunExport fetches ExportRun and writes export_<runID>.<format> into dir
func (c *Client) DownloadRunExport(ctx context.Context, runID, format, dir string) (string, error) {
	format, err := utils.ValidateExportFormat(format)
	if err != nil {
		return "", err
	}
	data, err := c.ExportRun(ctx, runID, format)
	if err != nil {
		return "", err
	}
	return writeExport(dir, fmt.Sprintf("export_%s.%s", runID, format), data)
}

// DownloadDataset fetches ExportDataset and writes dataset_<runID>.<format> into dir
func (c *Client) DownloadDataset(ctx context.Context, runID, format, dir string) (string, error) {
	format, err := utils.ValidateExportFormat(format)
	if err != nil {
		return "", err
	}
	data, err := c.ExportDataset(ctx, runID, format)
	if err != nil {
		return "", err
	}
	return writeExport(dir, fmt.Sprintf("dataset_%s.%s", runID, format), data)
}

func writeExport(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
