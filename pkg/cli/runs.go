package cli

import (
	"context"
	"fmt"
	"io"

	"scrapi-go/pkg/cli/format"
	"scrapi-go/pkg/models"
	"scrapi-go/pkg/table"
	"scrapi-go/pkg/utils"
)

// ListRuns prints one page of runs.
func (a *App) ListRuns(ctx context.Context, w io.Writer, q models.RunsQuery) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = table.NormalizeLimit(a.sess.Config().UI.PageSize)
	}
	if err := utils.ValidateLimit(q.Limit, table.Limits); err != nil {
		return err
	}
	if q.Page < 1 {
		q.Page = 1
	}

	page, err := apiClient.ListRuns(ctx, q)
	if err != nil {
		return fmt.Errorf("error fetching runs: %w", err)
	}
	format.Runs(w, page)
	return nil
}

// ShowDataset prints every item produced by a run.
func (a *App) ShowDataset(ctx context.Context, w io.Writer, runID string) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	items, err := apiClient.DatasetItems(ctx, runID)
	if err != nil {
		return fmt.Errorf("error fetching dataset: %w", err)
	}
	format.Items(w, items)
	return nil
}

// ExportDataset downloads a run's dataset into the export directory.
func (a *App) ExportDataset(ctx context.Context, w io.Writer, runID, rawFormat string) error {
	exportFormat, err := utils.ValidateExportFormat(rawFormat)
	if err != nil {
		return err
	}
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}
	path, err := apiClient.DownloadDataset(ctx, runID, exportFormat, a.sess.Config().Export.Dir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	_, err = fmt.Fprintln(w, format.SuccessMessage("Exported to %s", path))
	return err
}
