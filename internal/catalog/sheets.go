package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"roadmap-workers/internal/common/config"
	commonhttp "roadmap-workers/internal/common/http"
)

// SheetsSource reads each logical table from a spreadsheet CSV export,
// one gid per table.
type SheetsSource struct {
	client  *commonhttp.Client
	baseURL string
	sheetID string
	gids    map[string]string
}

func NewSheetsSource(cfg config.CatalogConfig, client *commonhttp.Client) *SheetsSource {
	return &SheetsSource{
		client:  client,
		baseURL: strings.TrimRight(cfg.SheetBaseURL, "/"),
		sheetID: cfg.SheetID,
		gids:    cfg.SheetGIDs,
	}
}

func (s *SheetsSource) Name() string { return config.SourceSheets }

// ExportURL is the CSV export address of one sheet.
func (s *SheetsSource) ExportURL(gid string) string {
	return fmt.Sprintf("%s/%s/export?format=csv&gid=%s", s.baseURL, url.PathEscape(s.sheetID), url.QueryEscape(gid))
}

func (s *SheetsSource) Fetch(ctx context.Context) (map[string]*Table, error) {
	tables := make(map[string]*Table, len(Tables))
	for _, name := range Tables {
		gid := strings.TrimSpace(s.gids[name])
		if gid == "" {
			continue
		}

		body, err := s.client.Get(ctx, s.ExportURL(gid))
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}

		t, err := ParseCSV(name, body)
		if err != nil {
			return nil, err
		}
		tables[name] = t
	}
	return tables, nil
}
