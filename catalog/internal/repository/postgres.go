package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

type pgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

type postgres struct {
	db  pgxPool
	now func() time.Time
	log *zap.Logger
}

func NewPostgres(db pgxPool, log *zap.Logger, now func() time.Time) *postgres {
	if now == nil {
		now = time.Now
	}
	return &postgres{
		db:  db,
		now: now,
		log: log.Named("repo"),
	}
}

const booksTableName = `books`

var (
	qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	bookColumns = []string{
		"id", "title", "author", "isbn", "category", "status",
		"description", "publish_year", "rating", "cover_url",
		"created_at", "updated_at",
	}
)

func returning() string {
	return strings.Join(bookColumns, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (model.Book, error) {
	var (
		b      model.Book
		status string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &status,
		&b.Description, &b.PublishYear, &b.Rating, &b.CoverURL,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Book{}, err
	}
	b.Status = model.Status(status)
	return b, nil
}

func insertQuery(id string, f model.BookFields, ts time.Time) (string, []any, error) {
	return qb.Insert(booksTableName).
		Columns(bookColumns...).
		Values(id, f.Title, f.Author, f.ISBN, f.Category, string(f.Status),
			f.Description, f.PublishYear, f.Rating, f.CoverURL, ts, ts).
		Suffix("RETURNING " + returning()).
		ToSql()
}

func (r *postgres) Add(ctx context.Context, f model.BookFields) (model.Book, error) {
	query, args, err := insertQuery(uuid.NewString(), f, r.now().UTC())
	if err != nil {
		return model.Book{}, err
	}
	book, err := scanBook(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		r.log.Error("Add", zap.String("q", query), zap.Error(err))
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Book{}, errs.ErrAlreadyExists
		}
		return model.Book{}, errors.Wrap(err, "insert book")
	}
	return book, nil
}

func updateQuery(id string, f model.BookFields, ts time.Time) (string, []any, error) {
	return qb.Update(booksTableName).
		SetMap(map[string]any{
			"title":        f.Title,
			"author":       f.Author,
			"isbn":         f.ISBN,
			"category":     f.Category,
			"status":       string(f.Status),
			"description":  f.Description,
			"publish_year": f.PublishYear,
			"rating":       f.Rating,
			"cover_url":    f.CoverURL,
			// strictly after the previous value even if the clock did not move
			"updated_at": sq.Expr("GREATEST(?::timestamptz, updated_at + interval '1 microsecond')", ts),
		}).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + returning()).
		ToSql()
}

func (r *postgres) Update(ctx context.Context, id string, f model.BookFields) (model.Book, error) {
	query, args, err := updateQuery(id, f, r.now().UTC())
	if err != nil {
		return model.Book{}, err
	}
	book, err := scanBook(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		r.log.Error("Update", zap.String("q", query), zap.Error(err))
		return model.Book{}, errors.Wrap(err, "update book")
	}
	return book, nil
}

func (r *postgres) Remove(ctx context.Context, id string) error {
	query, args, err := qb.Delete(booksTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete book")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *postgres) Get(ctx context.Context, id string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	book, err := scanBook(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, errors.Wrap(err, "get book")
	}
	return book, nil
}

func (r *postgres) List(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("List", zap.String("query", query))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

func (r *postgres) Stats(ctx context.Context) (model.Stats, error) {
	const q = `
	select count(*) as total,
	       count(*) filter (where status = @available) as available,
	       count(*) filter (where status = @borrowed) as borrowed,
	       count(*) filter (where status = @reserved) as reserved,
	       coalesce(round(avg(rating)::numeric, 1), 0)::float8 as average_rating
	from books`
	args := pgx.NamedArgs{
		"available": string(model.StatusAvailable),
		"borrowed":  string(model.StatusBorrowed),
		"reserved":  string(model.StatusReserved),
	}
	var s model.Stats
	err := r.db.QueryRow(ctx, q, args).Scan(&s.TotalBooks, &s.AvailableBooks, &s.BorrowedBooks, &s.ReservedBooks, &s.AverageRating)
	if err != nil {
		return model.Stats{}, errors.Wrap(err, "stats")
	}
	return s, nil
}

func (r *postgres) Close() {
	r.db.Close()
}
