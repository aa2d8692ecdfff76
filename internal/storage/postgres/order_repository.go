package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tillfolk/pos-api/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const orderColumns = `id, store_id, order_number, status, kitchen_status, order_type,
items, subtotal, discount_percent, discount_amount, service_charge, tax, total,
customer_id, customer_name, table_number, note, shift_id, created_by, created_at, updated_at`

func (r *OrderRepository) GetOrder(ctx context.Context, storeID string, id int64) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id = $1 AND id = $2`

	order, err := scanOrder(r.queryRow(ctx, query, storeID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	txs, err := r.transactionsFor(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Transactions = txs
	return order, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	const stmt = `
INSERT INTO orders (store_id, order_number, status, kitchen_status, order_type,
	items, subtotal, discount_percent, discount_amount, service_charge, tax, total,
	customer_id, customer_name, table_number, note, shift_id, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING id`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	err = r.queryRow(ctx, stmt,
		order.StoreID,
		order.OrderNumber,
		order.Status,
		order.KitchenStatus,
		order.OrderType,
		items,
		order.Subtotal,
		order.DiscountPercent,
		order.DiscountAmount,
		order.ServiceCharge,
		order.Tax,
		order.Total,
		nullable(order.CustomerID),
		nullable(order.CustomerName),
		nullable(order.TableNumber),
		nullable(order.Note),
		nullable(order.ShiftID),
		order.CreatedBy,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
UPDATE orders
SET status = $3, kitchen_status = $4, order_type = $5, items = $6,
	subtotal = $7, discount_percent = $8, discount_amount = $9,
	service_charge = $10, tax = $11, total = $12,
	customer_id = $13, customer_name = $14, table_number = $15, note = $16,
	shift_id = $17, updated_at = $18
WHERE store_id = $1 AND id = $2`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	tag, err := r.exec(ctx, stmt,
		order.StoreID,
		order.ID,
		order.Status,
		order.KitchenStatus,
		order.OrderType,
		items,
		order.Subtotal,
		order.DiscountPercent,
		order.DiscountAmount,
		order.ServiceCharge,
		order.Tax,
		order.Total,
		nullable(order.CustomerID),
		nullable(order.CustomerName),
		nullable(order.TableNumber),
		nullable(order.Note),
		nullable(order.ShiftID),
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, storeID string, id int64) error {
	tag, err := r.exec(ctx, `DELETE FROM orders WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// NextOrderNumber is serialized per store by the row lock the UPDATE takes
// on the counter row.
func (r *OrderRepository) NextOrderNumber(ctx context.Context, storeID string) (string, error) {
	const stmt = `
INSERT INTO order_counters (store_id, next_number) VALUES ($1, 1)
ON CONFLICT (store_id) DO UPDATE SET next_number = order_counters.next_number + 1
RETURNING next_number`

	var n int64
	if err := r.queryRow(ctx, stmt, storeID).Scan(&n); err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", n), nil
}

func (r *OrderRepository) AppendTransactions(ctx context.Context, orderID int64, txs []domain.Transaction) error {
	const stmt = `
INSERT INTO order_transactions (id, order_id, type, method, amount,
	reference_number, tendered_amount, change_amount, performed_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, tx := range txs {
		if _, err := r.exec(ctx, stmt,
			tx.ID,
			orderID,
			tx.Type,
			tx.Method,
			tx.Amount,
			nullable(tx.ReferenceNumber),
			tx.TenderedAmount,
			tx.ChangeAmount,
			tx.PerformedBy,
			tx.CreatedAt,
		); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) transactionsFor(ctx context.Context, orderID int64) ([]domain.Transaction, error) {
	const query = `
SELECT id, order_id, type, method, amount, reference_number, tendered_amount,
	change_amount, performed_by, created_at
FROM order_transactions
WHERE order_id = $1
ORDER BY created_at, id`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var reference *string
		if err := rows.Scan(&tx.ID, &tx.OrderID, &tx.Type, &tx.Method, &tx.Amount,
			&reference, &tx.TenderedAmount, &tx.ChangeAmount, &tx.PerformedBy, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if reference != nil {
			tx.ReferenceNumber = *reference
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var items []byte
	var customerID, customerName, tableNumber, note, shiftID *string

	err := row.Scan(&o.ID, &o.StoreID, &o.OrderNumber, &o.Status, &o.KitchenStatus, &o.OrderType,
		&items, &o.Subtotal, &o.DiscountPercent, &o.DiscountAmount, &o.ServiceCharge, &o.Tax, &o.Total,
		&customerID, &customerName, &tableNumber, &note, &shiftID, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal items: %w", err)
	}
	o.CustomerID = deref(customerID)
	o.CustomerName = deref(customerName)
	o.TableNumber = deref(tableNumber)
	o.Note = deref(note)
	o.ShiftID = deref(shiftID)
	return o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
