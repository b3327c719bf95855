package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DaManu123/Mizu-Sushi/internal/products"
	"github.com/DaManu123/Mizu-Sushi/pkg/logkey"
)

// ApplyStockOnCompletion decrements catalog stock for every line item of
// a completed order. A line whose product no longer resolves by name is
// skipped; the rest still proceed. Returns the names of skipped lines.
func ApplyStockOnCompletion(ctx context.Context, pc *products.Conf, o Order) ([]string, error) {
	var skipped []string
	for _, item := range o.Items {
		p, err := pc.GetProductByName(ctx, item.Name)
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				slog.Warn("skipping stock adjustment, product not found",
					slog.String("OrderID", o.ID), slog.String("Product", item.Name))
				skipped = append(skipped, item.Name)
				continue
			}
			return skipped, err
		}

		if _, err := pc.AdjustStock(ctx, p.ID, -item.Quantity); err != nil {
			slog.Error("stock adjustment failed",
				slog.String("OrderID", o.ID), slog.String("ProductID", p.ID),
				slog.String(logkey.ERROR, err.Error()))
			return skipped, err
		}
	}
	return skipped, nil
}
