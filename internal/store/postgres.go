package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
	"github.com/serroba/shortdrop/internal/store/migrations"
)

// Migrate applies the embedded migrations. The *sql.DB borrows the pool's
// connections and is not closed here.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, stdlib.OpenDBFromPool(pool), "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// PostgresClipboardStore is a PostgreSQL implementation of clipboard.Repository.
type PostgresClipboardStore struct {
	pool *pgxpool.Pool
}

func NewPostgresClipboardStore(pool *pgxpool.Pool) *PostgresClipboardStore {
	return &PostgresClipboardStore{pool: pool}
}

func (p *PostgresClipboardStore) Save(ctx context.Context, item *clipboard.Item) error {
	query := `
		INSERT INTO clipboard_items (code, content, content_type, is_confidential, key_source, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(item.Code),
		item.Content,
		item.ContentType,
		item.IsConfidential,
		string(item.KeySource),
		item.CreatedAt,
		item.ExpiresAt,
	)

	return inserted(tag.RowsAffected(), err)
}

func (p *PostgresClipboardStore) GetByCode(ctx context.Context, code sharing.Code) (*clipboard.Item, error) {
	query := `
		SELECT code, content, content_type, is_confidential, key_source, created_at, expires_at
		FROM clipboard_items
		WHERE code = $1
	`

	var (
		item      clipboard.Item
		keySource string
	)

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&item.Code,
		&item.Content,
		&item.ContentType,
		&item.IsConfidential,
		&keySource,
		&item.CreatedAt,
		&item.ExpiresAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	item.KeySource = clipboard.KeySource(keySource)

	return &item, nil
}

func (p *PostgresClipboardStore) Delete(ctx context.Context, code sharing.Code) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM clipboard_items WHERE code = $1`, string(code))
	return err
}

// PostgresFileStore is a PostgreSQL implementation of files.Repository.
type PostgresFileStore struct {
	pool *pgxpool.Pool
}

func NewPostgresFileStore(pool *pgxpool.Pool) *PostgresFileStore {
	return &PostgresFileStore{pool: pool}
}

func (p *PostgresFileStore) Save(ctx context.Context, share *files.Share) error {
	query := `
		INSERT INTO file_shares (code, file_name, file_path, file_size, content_type, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(share.Code),
		share.FileName,
		share.FilePath,
		share.FileSize,
		share.ContentType,
		share.CreatedAt,
		share.ExpiresAt,
	)

	return inserted(tag.RowsAffected(), err)
}

func (p *PostgresFileStore) GetByCode(ctx context.Context, code sharing.Code) (*files.Share, error) {
	query := `
		SELECT code, file_name, file_path, file_size, content_type, created_at, expires_at
		FROM file_shares
		WHERE code = $1
	`

	var share files.Share

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&share.Code,
		&share.FileName,
		&share.FilePath,
		&share.FileSize,
		&share.ContentType,
		&share.CreatedAt,
		&share.ExpiresAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return &share, nil
}

func (p *PostgresFileStore) Delete(ctx context.Context, code sharing.Code) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM file_shares WHERE code = $1`, string(code))
	return err
}

// PostgresURLStore is a PostgreSQL implementation of shortener.Repository.
type PostgresURLStore struct {
	pool *pgxpool.Pool
}

func NewPostgresURLStore(pool *pgxpool.Pool) *PostgresURLStore {
	return &PostgresURLStore{pool: pool}
}

func (p *PostgresURLStore) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, original_url, custom, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.OriginalURL,
		shortURL.Custom,
		shortURL.CreatedAt,
		shortURL.ExpiresAt,
	)

	return inserted(tag.RowsAffected(), err)
}

func (p *PostgresURLStore) GetByCode(ctx context.Context, code sharing.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, custom, created_at, expires_at
		FROM short_urls
		WHERE code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.Code,
		&url.OriginalURL,
		&url.Custom,
		&url.CreatedAt,
		&url.ExpiresAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return &url, nil
}

func (p *PostgresURLStore) Delete(ctx context.Context, code sharing.Code) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM short_urls WHERE code = $1`, string(code))
	return err
}

// inserted turns an ON CONFLICT DO NOTHING miss into ErrDuplicateCode.
func inserted(rows int64, err error) error {
	if err != nil {
		return err
	}

	if rows == 0 {
		return sharing.ErrDuplicateCode
	}

	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sharing.ErrRecordNotFound
	}

	return err
}

var (
	_ clipboard.Repository = (*PostgresClipboardStore)(nil)
	_ files.Repository     = (*PostgresFileStore)(nil)
	_ shortener.Repository = (*PostgresURLStore)(nil)
)
