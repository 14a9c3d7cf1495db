package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"scrapi-go/pkg/mockapi/store"
	"scrapi-go/pkg/models"

	"github.com/gin-gonic/gin"
)

// DatasetItems returns every item of a run
func DatasetItems(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := st.DatasetItems(userID(c), c.Param("id"))
		if err != nil {
			abortWithStoreError(c, err, "Run not found")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ExportDataset streams a run's items as json or csv. The same handler
// serves /datasets/:id/export and /datasets/export/:id.
func ExportDataset(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")
		items, err := st.DatasetItems(userID(c), runID)
		if err != nil {
			abortWithStoreError(c, err, "Run not found")
			return
		}

		format := c.DefaultQuery("format", "json")
		switch format {
		case "json":
			data := make([]map[string]any, 0, len(items))
			for _, it := range items {
				data = append(data, it.Data)
			}
			body, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
			attach(c, runID, "json")
			c.Data(http.StatusOK, "application/json", body)
		case "csv":
			if len(items) == 0 {
				c.JSON(http.StatusNotFound, gin.H{"detail": "No data to export"})
				return
			}
			body, err := itemsCSV(items)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
				return
			}
			attach(c, runID, "csv")
			c.Data(http.StatusOK, "text/csv", body)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported format. Use 'json' or 'csv'"})
		}
	}
}

func attach(c *gin.Context, runID, ext string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=dataset_%s.%s", runID, ext))
}

func itemsCSV(items []models.DatasetItem) ([]byte, error) {
	keys := models.DataKeys(items)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(keys); err != nil {
		return nil, err
	}
	for _, it := range items {
		row := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := it.Data[k]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
