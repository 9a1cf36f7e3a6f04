package repo

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
)

const (
	UsersFile    = "users.csv"
	ItemsFile    = "items.csv"
	ListingsFile = "listings.csv"
	OrdersFile   = "orders.csv"
)

// CSVStore keeps one CSV file per table in Dir.
type CSVStore struct {
	Dir string
}

func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{Dir: dir}
}

func (s *CSVStore) path(name string) string { return filepath.Join(s.Dir, name) }

func (s *CSVStore) Load(ctx context.Context) (*Tables, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	t := NewTables()
	if err := loadTable(ctx, s.path(UsersFile), models.UserHeaders, models.UserFromRow, t.Users); err != nil {
		return nil, err
	}
	if err := loadTable(ctx, s.path(ItemsFile), models.ItemHeaders, models.ItemFromRow, t.Items); err != nil {
		return nil, err
	}
	if err := loadTable(ctx, s.path(ListingsFile), models.ListingHeaders, models.ListingFromRow, t.Listings); err != nil {
		return nil, err
	}
	if err := loadTable(ctx, s.path(OrdersFile), models.OrderHeaders, models.OrderFromRow, t.Orders); err != nil {
		return nil, err
	}
	return t, nil
}

// Save rewrites every file. A failure part way leaves earlier files written.
func (s *CSVStore) Save(ctx context.Context, t *Tables) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := saveTable(ctx, s.path(UsersFile), models.UserHeaders, t.Users.Values(), models.User.Row); err != nil {
		return err
	}
	if err := saveTable(ctx, s.path(ItemsFile), models.ItemHeaders, t.Items.Values(), models.Item.Row); err != nil {
		return err
	}
	if err := saveTable(ctx, s.path(ListingsFile), models.ListingHeaders, t.Listings.Values(), models.Listing.Row); err != nil {
		return err
	}
	return saveTable(ctx, s.path(OrdersFile), models.OrderHeaders, t.Orders.Values(), models.Order.Row)
}

func ensureFile(path string, headers []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	data, err := encode(headers, nil)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

func loadTable[T any](ctx context.Context, path string, headers []string, parse func(models.Row) (T, error), dst *Table[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureFile(path, headers); err != nil {
		return fmt.Errorf("ensure %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", path, err)
	}
	key := headers[0]

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		row := make(models.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		id := row[key]
		if id == "" {
			continue
		}

		v, err := parse(row)
		if err != nil {
			line, _ := r.FieldPos(0)
			return fmt.Errorf("%w: %s line %d: %w", ErrCorruptRow, path, line, err)
		}
		dst.Put(id, &v)
	}
}

func saveTable[T any](ctx context.Context, path string, headers []string, rows []*T, encodeRow func(T) []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([][]string, 0, len(rows))
	for _, v := range rows {
		records = append(records, encodeRow(*v))
	}
	data, err := encode(headers, records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func encode(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
