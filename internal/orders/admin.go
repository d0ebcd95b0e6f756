package orders

import (
	"log/slog"

	"github.com/yessbangal/agency-web/internal/admin"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/view"
)

// NewManager wires the lifecycle manager for orders.
func NewManager(repo Repository, cfg lifecycle.Config[Order]) *lifecycle.Manager[Order] {
	cfg.Resource = lifecycle.Orders
	cfg.Lister = lifecycle.ListerFunc[Order](repo.List)
	return lifecycle.NewManager(cfg)
}

// AdminPage describes the back-office orders list.
func AdminPage(mgr *lifecycle.Manager[Order], renderer *view.Renderer, logger *slog.Logger) admin.Page[Order] {
	return admin.Page[Order]{
		Manager:  mgr,
		Renderer: renderer,
		Logger:   logger,
		Title:    "Orders",
		Base:     "/admin/orders",
		Columns:  []string{"Customer", "Service", "Amount", "Date"},
		RowView:  rowView,
	}
}

func rowView(o Order) admin.Row {
	customer := o.CustomerName
	if customer == "" {
		customer = o.CustomerEmail
	}
	return admin.Row{
		ID:     o.ID.String(),
		Cells:  []string{customer, o.ServiceName, view.Money(o.TotalAmount), view.FormatDay(o.CreatedAt)},
		Status: o.Status,
	}
}
