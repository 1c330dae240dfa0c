package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// ArticleRepository encapsulates knowledge-base persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context, limit, offset int) ([]domain.Article, error)
	ListByTagPublished(ctx context.Context, tag string, limit int) ([]domain.Article, error)
	SearchTextPublished(ctx context.Context, query string, limit int) ([]domain.Article, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, body, tags, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Body,
		article.Tags,
		article.Status,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET title=$1, body=$2, tags=$3, status=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Body,
		article.Tags,
		article.Status,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	const query = `
        SELECT id, title, body, tags, status, created_at, updated_at
        FROM articles WHERE id=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Body,
		&article.Tags,
		&article.Status,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, title, body, tags, status, created_at, updated_at
        FROM articles ORDER BY updated_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (r *articleRepository) ListByTagPublished(ctx context.Context, tag string, limit int) ([]domain.Article, error) {
	const query = `
        SELECT id, title, body, tags, status, created_at, updated_at
        FROM articles
        WHERE status='published' AND $1 = ANY(tags)
        ORDER BY updated_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, tag, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (r *articleRepository) SearchTextPublished(ctx context.Context, search string, limit int) ([]domain.Article, error) {
	const query = `
        SELECT id, title, body, tags, status, created_at, updated_at
        FROM articles
        WHERE status='published'
          AND to_tsvector('english', title || ' ' || body) @@ plainto_tsquery('english', $1)
        ORDER BY ts_rank(to_tsvector('english', title || ' ' || body), plainto_tsquery('english', $1)) DESC
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Body,
			&article.Tags,
			&article.Status,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}
