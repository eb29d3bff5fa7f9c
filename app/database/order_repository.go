package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ OrderRepository = (*OrderRepo)(nil)

type OrderRepo struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `
	id, source_name, title, signing_date, publication_date, html_url, pdf_url, xml_url,
	content_hash, markdown, render_status, render_error, render_attempts, rendered_at,
	created_at, updated_at`

// UpsertOrder stores an order. Rendered markdown survives an update unless
// the content hash changed, in which case the order is queued for rendering again.
func (r *OrderRepo) UpsertOrder(sourceName string, item OrderItem) error {
	_, err := r.db.Exec(`
		INSERT INTO executive_orders (
			id, source_name, title, signing_date, publication_date,
			html_url, pdf_url, xml_url, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source_name = excluded.source_name,
			title = excluded.title,
			signing_date = excluded.signing_date,
			publication_date = excluded.publication_date,
			html_url = excluded.html_url,
			pdf_url = excluded.pdf_url,
			xml_url = excluded.xml_url,
			render_status = CASE WHEN content_hash = excluded.content_hash
				THEN render_status ELSE 'pending' END,
			render_attempts = CASE WHEN content_hash = excluded.content_hash
				THEN render_attempts ELSE 0 END,
			content_hash = excluded.content_hash,
			updated_at = CURRENT_TIMESTAMP
	`, item.ID, sourceName, item.Title, item.SigningDate, item.PublicationDate,
		item.HTMLURL, item.PDFURL, item.XMLURL, item.ContentHash)
	if err != nil {
		return fmt.Errorf("failed to upsert order: %w", err)
	}

	return nil
}

func (r *OrderRepo) GetOrder(id string) (*Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM executive_orders WHERE id = ?`, id)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (r *OrderRepo) ListOrders(limit int) ([]Order, error) {
	rows, err := r.db.Query(`
		SELECT `+orderColumns+`
		FROM executive_orders
		ORDER BY COALESCE(NULLIF(signing_date, ''), publication_date) DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepo) GetAllOrders() ([]Order, error) {
	rows, err := r.db.Query(`SELECT ` + orderColumns + ` FROM executive_orders ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepo) GetOrderCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM executive_orders").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get order count: %w", err)
	}
	return count, nil
}

func (r *OrderRepo) GetOrdersForRendering(sourceName string, limit int) ([]OrderForRendering, error) {
	rows, err := r.db.Query(`
		SELECT id, xml_url, html_url
		FROM executive_orders
		WHERE source_name = ?
		  AND render_status IN ('pending', 'failed')
		  AND render_attempts < ?
		ORDER BY id DESC
		LIMIT ?
	`, sourceName, MaxRenderAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for rendering: %w", err)
	}
	defer rows.Close()

	var orders []OrderForRendering
	for rows.Next() {
		var order OrderForRendering
		if err := rows.Scan(&order.ID, &order.XMLURL, &order.HTMLURL); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *OrderRepo) UpdateRenderedMarkdown(id string, markdown string, status string, renderedAt *time.Time, errorMsg string) error {
	_, err := r.db.Exec(`
		UPDATE executive_orders
		SET markdown = CASE WHEN ? = 'success' THEN ? ELSE markdown END,
		    render_status = ?,
		    render_error = ?,
		    render_attempts = render_attempts + 1,
		    rendered_at = COALESCE(?, rendered_at),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, markdown, status, errorMsg, renderedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update rendered markdown: %w", err)
	}

	return nil
}

func (r *OrderRepo) ResetRenderStatus(id string) error {
	_, err := r.db.Exec(`
		UPDATE executive_orders
		SET render_status = 'pending', render_attempts = 0, render_error = '', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to reset render status: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var order Order
	var renderedAt sql.NullTime

	err := row.Scan(
		&order.ID, &order.SourceName, &order.Title, &order.SigningDate, &order.PublicationDate,
		&order.HTMLURL, &order.PDFURL, &order.XMLURL, &order.ContentHash, &order.Markdown,
		&order.RenderStatus, &order.RenderError, &order.RenderAttempts, &renderedAt,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.RenderedAt = nullTimePtr(renderedAt)
	return &order, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return orders, nil
}
