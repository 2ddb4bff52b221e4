package catalog

import "context"

// Source fetches the raw logical tables from a primary catalog backend.
// Absent optional tables are simply missing from the map.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (map[string]*Table, error)
}

// Loader is what workers need from a Store.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}
