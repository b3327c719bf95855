// Package sqlite drains a legacy single-file SQLite database into the
// Postgres stores. The old point-of-sale kept everything in one .db file
// with Spanish column names and display strings; this runs once at
// startup, upserts every row it can read, and renames the file aside so
// the import never repeats.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/DaManu123/Mizu-Sushi/internal/auth"
	"github.com/DaManu123/Mizu-Sushi/internal/offers"
	"github.com/DaManu123/Mizu-Sushi/internal/orders"
	"github.com/DaManu123/Mizu-Sushi/internal/products"
	"github.com/DaManu123/Mizu-Sushi/internal/users"
)

// Importer copies rows out of a legacy database file into the live stores.
type Importer struct {
	products *products.Conf
	offers   *offers.Conf
	orders   *orders.Conf
	users    *users.Conf
}

func NewImporter(pc *products.Conf, oc *offers.Conf, rc *orders.Conf, uc *users.Conf) (*Importer, error) {
	if pc == nil || oc == nil || rc == nil || uc == nil {
		return nil, errors.New("all store configs are required")
	}
	return &Importer{products: pc, offers: oc, orders: rc, users: uc}, nil
}

// Summary reports how many rows each table contributed. Rows that fail
// to decode or upsert are logged and counted in Skipped, never fatal.
type Summary struct {
	Products   int    `json:"products"`
	Offers     int    `json:"offers"`
	Orders     int    `json:"orders"`
	Users      int    `json:"users"`
	Categories int    `json:"categories"`
	Skipped    int    `json:"skipped"`
	BackupPath string `json:"backup_path"`
}

// Drain imports everything from the SQLite file at path. If the file does
// not exist it returns (zero Summary, nil). On success the file is renamed
// with a timestamped .backup suffix so the next start skips the import.
func (im *Importer) Drain(ctx context.Context, path string) (Summary, error) {
	var sum Summary
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return sum, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return sum, fmt.Errorf("open legacy database: %w", err)
	}
	defer db.Close()

	slog.Info("legacy sqlite file found, starting one-time import", slog.String("path", path))

	im.drainProducts(ctx, db, &sum)
	im.drainOffers(ctx, db, &sum)
	im.drainOrders(ctx, db, &sum)
	im.drainUsers(ctx, db, &sum)
	im.drainCategories(ctx, db, &sum)

	if err := db.Close(); err != nil {
		slog.Warn("closing legacy database", slog.String("error", err.Error()))
	}

	backup := path + ".backup_" + time.Now().Format("20060102_150405")
	if err := os.Rename(path, backup); err != nil {
		return sum, fmt.Errorf("rename legacy database aside: %w", err)
	}
	sum.BackupPath = backup

	slog.Info("legacy import finished",
		slog.Int("products", sum.Products),
		slog.Int("offers", sum.Offers),
		slog.Int("orders", sum.Orders),
		slog.Int("users", sum.Users),
		slog.Int("categories", sum.Categories),
		slog.Int("skipped", sum.Skipped),
		slog.String("backup", backup),
	)
	return sum, nil
}

func (im *Importer) drainProducts(ctx context.Context, db *sql.DB, sum *Summary) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, description, price, stock, categoria, activo FROM products`)
	if err != nil {
		slog.Warn("legacy products table unreadable", slog.String("error", err.Error()))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, name    string
			description sql.NullString
			price       sql.NullFloat64
			stock       sql.NullInt64
			category    sql.NullString
			active      sql.NullBool
		)
		if err := rows.Scan(&id, &name, &description, &price, &stock, &category, &active); err != nil {
			slog.Warn("skipping legacy product row", slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}

		st := products.DefaultStock
		if stock.Valid {
			st = int(stock.Int64)
		}
		act := true
		if active.Valid {
			act = active.Bool
		}
		np := products.NewProduct{
			ID:          id,
			Name:        name,
			Description: description.String,
			Price:       price.Float64,
			Stock:       &st,
			Category:    category.String,
			Active:      &act,
		}
		if _, err := im.products.InsertProduct(ctx, np); err != nil {
			slog.Warn("skipping legacy product", slog.String("id", id), slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}
		sum.Products++
	}
}

func (im *Importer) drainOffers(ctx context.Context, db *sql.DB, sum *Summary) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, description, type, products_aplicables, descuento, activa, fecha_inicio, fecha_fin FROM offers`)
	if err != nil {
		slog.Warn("legacy offers table unreadable", slog.String("error", err.Error()))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, name    string
			description sql.NullString
			kind        sql.NullString
			targetsRaw  sql.NullString
			discount    sql.NullInt64
			active      sql.NullBool
			from, until sql.NullString
		)
		if err := rows.Scan(&id, &name, &description, &kind, &targetsRaw, &discount, &active, &from, &until); err != nil {
			slog.Warn("skipping legacy offer row", slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}

		act := true
		if active.Valid {
			act = active.Bool
		}
		no := offers.NewOffer{
			ID:          id,
			Name:        name,
			Description: description.String,
			Kind:        mapKind(kind.String),
			Targets:     mapTargets(targetsRaw.String),
			Discount:    int(discount.Int64),
			Active:      &act,
			ValidFrom:   legacyDate(from.String),
			ValidUntil:  legacyDate(until.String),
		}
		if _, err := im.offers.SaveOffer(ctx, no); err != nil {
			slog.Warn("skipping legacy offer", slog.String("id", id), slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}
		sum.Offers++
	}
}

func (im *Importer) drainOrders(ctx context.Context, db *sql.DB, sum *Summary) {
	rows, err := db.QueryContext(ctx, `SELECT id, fecha, productos, oferta_aplicada, descuento_aplicado, total_sin_descuento, total_final, metodo_pago, cajero, estado FROM orders`)
	if err != nil {
		slog.Warn("legacy orders table unreadable", slog.String("error", err.Error()))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            string
			createdAt     sql.NullString
			itemsRaw      sql.NullString
			offerApplied  sql.NullString
			discount      sql.NullFloat64
			subtotal      sql.NullFloat64
			total         sql.NullFloat64
			paymentMethod sql.NullString
			cashier       sql.NullString
			status        sql.NullString
		)
		if err := rows.Scan(&id, &createdAt, &itemsRaw, &offerApplied, &discount, &subtotal, &total, &paymentMethod, &cashier, &status); err != nil {
			slog.Warn("skipping legacy order row", slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}

		o := orders.Order{
			ID:             id,
			CreatedAt:      legacyTimestamp(createdAt.String),
			Items:          mapLineItems(itemsRaw.String),
			OfferApplied:   offerApplied.String,
			DiscountAmount: discount.Float64,
			Subtotal:       subtotal.Float64,
			Total:          total.Float64,
			PaymentMethod:  paymentMethod.String,
			Cashier:        cashier.String,
			Status:         mapStatus(status.String),
		}
		if err := im.orders.SaveOrder(ctx, o); err != nil {
			slog.Warn("skipping legacy order", slog.String("id", id), slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}
		sum.Orders++
	}
}

func (im *Importer) drainUsers(ctx context.Context, db *sql.DB, sum *Summary) {
	rows, err := db.QueryContext(ctx, `SELECT username, password, full_name, role, email, created_at, active FROM users`)
	if err != nil {
		slog.Warn("legacy users table unreadable", slog.String("error", err.Error()))
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username, hash string
			fullName       sql.NullString
			role           sql.NullString
			email          sql.NullString
			createdAt      sql.NullString
			active         sql.NullBool
		)
		if err := rows.Scan(&username, &hash, &fullName, &role, &email, &createdAt, &active); err != nil {
			slog.Warn("skipping legacy user row", slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}

		act := true
		if active.Valid {
			act = active.Bool
		}
		err := im.users.ImportLegacy(ctx, username, hash, fullName.String, mapRole(role.String), email.String, legacyTimestamp(createdAt.String), act)
		if err != nil {
			slog.Warn("skipping legacy user", slog.String("username", username), slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}
		sum.Users++
	}
}

func (im *Importer) drainCategories(ctx context.Context, db *sql.DB, sum *Summary) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM categories`)
	if err != nil {
		// Old deployments predate the categories table.
		return
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			sum.Skipped++
			continue
		}
		if err := im.products.AddCategory(ctx, name); err != nil {
			slog.Warn("skipping legacy category", slog.String("name", name), slog.String("error", err.Error()))
			sum.Skipped++
			continue
		}
		sum.Categories++
	}
}

// mapKind translates the legacy offer type strings.
func mapKind(s string) offers.Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2x1":
		return offers.KindTwoForOne
	case "combo":
		return offers.KindCombo
	case "descuento_dia":
		return offers.KindDayOfWeek
	default:
		return offers.KindPercentage
	}
}

// mapTargets decodes the JSON target list and rewrites the legacy
// catch-all sentinel.
func mapTargets(raw string) []string {
	var targets []string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &targets); err != nil {
			targets = nil
		}
	}
	if len(targets) == 0 {
		return []string{offers.TargetAll}
	}
	for i, t := range targets {
		if strings.EqualFold(strings.TrimSpace(t), "todos") {
			targets[i] = offers.TargetAll
		}
	}
	return targets
}

// mapStatus translates the legacy display statuses.
func mapStatus(s string) orders.Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completado", "completada", string(orders.StatusCompleted):
		return orders.StatusCompleted
	case "cancelado", "cancelada", string(orders.StatusCancelled):
		return orders.StatusCancelled
	case "pagado", "pagada", string(orders.StatusPaid):
		return orders.StatusPaid
	default:
		return orders.StatusInPreparation
	}
}

func mapRole(s string) auth.Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return auth.RoleAdmin
	case "cajero", string(auth.RoleCashier):
		return auth.RoleCashier
	default:
		return auth.RoleCustomer
	}
}

// legacyLineItem tolerates both the old Spanish keys and the current ones.
type legacyLineItem struct {
	Name      string  `json:"name"`
	Nombre    string  `json:"nombre"`
	Quantity  int     `json:"quantity"`
	Cantidad  int     `json:"cantidad"`
	UnitPrice float64 `json:"unit_price"`
	PrecioU   float64 `json:"precio_unitario"`
	Subtotal  float64 `json:"subtotal"`
}

func mapLineItems(raw string) []orders.LineItem {
	if raw == "" {
		return nil
	}
	var legacy []legacyLineItem
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		return nil
	}
	items := make([]orders.LineItem, 0, len(legacy))
	for _, li := range legacy {
		item := orders.LineItem{
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  li.Subtotal,
		}
		if item.Name == "" {
			item.Name = li.Nombre
		}
		if item.Quantity == 0 {
			item.Quantity = li.Cantidad
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = li.PrecioU
		}
		if item.Subtotal == 0 {
			item.Subtotal = item.UnitPrice * float64(item.Quantity)
		}
		items = append(items, item)
	}
	return items
}

// legacyDate normalizes a stored date to the YYYY-MM-DD form the offer
// payload expects, dropping anything unparseable.
func legacyDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func legacyTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}
