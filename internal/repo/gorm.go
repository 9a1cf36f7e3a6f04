package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
)

const batchSize = 200

type userRecord struct {
	Seq         int `gorm:"column:seq;index"`
	models.User `gorm:"embedded"`
}

func (userRecord) TableName() string { return "users" }

type itemRecord struct {
	Seq         int `gorm:"column:seq;index"`
	models.Item `gorm:"embedded"`
}

func (itemRecord) TableName() string { return "items" }

type listingRecord struct {
	Seq            int `gorm:"column:seq;index"`
	models.Listing `gorm:"embedded"`
}

func (listingRecord) TableName() string { return "listings" }

type orderRecord struct {
	Seq          int `gorm:"column:seq;index"`
	models.Order `gorm:"embedded"`
}

func (orderRecord) TableName() string { return "orders" }

// GormStore keeps the four tables in a SQL database. Saves replace every
// table's contents inside one transaction.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&userRecord{}, &itemRecord{}, &listingRecord{}, &orderRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Load(ctx context.Context) (*Tables, error) {
	t := NewTables()
	db := s.DB.WithContext(ctx)

	var users []userRecord
	if err := db.Order("seq").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		putRecord(t.Users, users[i].ID, users[i].User)
	}

	var items []itemRecord
	if err := db.Order("seq").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	for i := range items {
		putRecord(t.Items, items[i].ID, items[i].Item)
	}

	var listings []listingRecord
	if err := db.Order("seq").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	for i := range listings {
		l := listings[i].Listing
		l.Price = l.Price.Round(2)
		putRecord(t.Listings, l.ID, l)
	}

	var orders []orderRecord
	if err := db.Order("seq").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	for i := range orders {
		o := orders[i].Order
		o.UnitPrice = o.UnitPrice.Round(2)
		o.TotalPrice = o.TotalPrice.Round(2)
		putRecord(t.Orders, o.ID, o)
	}
	return t, nil
}

func putRecord[T any](dst *Table[T], id string, v T) {
	if id == "" {
		return
	}
	dst.Put(id, &v)
}

func (s *GormStore) Save(ctx context.Context, t *Tables) error {
	users := make([]userRecord, 0, t.Users.Len())
	for i, u := range t.Users.Values() {
		users = append(users, userRecord{Seq: i, User: *u})
	}
	items := make([]itemRecord, 0, t.Items.Len())
	for i, it := range t.Items.Values() {
		items = append(items, itemRecord{Seq: i, Item: *it})
	}
	listings := make([]listingRecord, 0, t.Listings.Len())
	for i, l := range t.Listings.Values() {
		listings = append(listings, listingRecord{Seq: i, Listing: *l})
	}
	orders := make([]orderRecord, 0, t.Orders.Len())
	for i, o := range t.Orders.Values() {
		orders = append(orders, orderRecord{Seq: i, Order: *o})
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}
		if err := replaceAll(tx, items); err != nil {
			return fmt.Errorf("save items: %w", err)
		}
		if err := replaceAll(tx, listings); err != nil {
			return fmt.Errorf("save listings: %w", err)
		}
		if err := replaceAll(tx, orders); err != nil {
			return fmt.Errorf("save orders: %w", err)
		}
		return nil
	})
}

func replaceAll[R any](tx *gorm.DB, records []R) error {
	var model R
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(&records, batchSize).Error
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	sqlDB.SetMaxOpenConns(1)
	if err := ping(ctx, sqlDB); err != nil {
		return nil, err
	}
	return db, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 5
		maxIdleConns    = 2
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// OpenPostgres connects to a PostgreSQL database given a DSN.
func OpenPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	if err := ping(ctx, sqlDB); err != nil {
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, sqlDB *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases the database behind a GormStore.
func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
