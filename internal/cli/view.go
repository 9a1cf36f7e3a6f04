package cli

import (
	"strconv"

	"github.com/haomeng346/Second-hand-Marketplace/internal/output"
	"github.com/haomeng346/Second-hand-Marketplace/internal/service"
)

var (
	listingHeaders       = []string{"ID", "Name", "Brand", "Category", "Condition", "Price", "Qty", "Seller"}
	listingStatusHeaders = []string{"ID", "Status", "Name", "Brand", "Category", "Condition", "Price", "Qty", "Seller"}
	orderHeaders         = []string{"Order ID", "Item", "Brand", "Qty", "Unit", "Total", "Buyer", "Seller", "Status"}
)

func printListings(p *output.Printer, views []service.ListingView, emptyMsg string) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.Listing.ID,
			v.Item.Name,
			v.Item.Brand,
			v.Item.Category,
			v.Item.Condition,
			"$" + v.Listing.Price.StringFixed(2),
			strconv.Itoa(v.Listing.Quantity),
			v.SellerName,
		})
	}
	p.Table(listingHeaders, rows, emptyMsg)
}

func printListingsWithStatus(p *output.Printer, views []service.ListingView, emptyMsg string) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		status := string(v.Status)
		rows = append(rows, []string{
			v.Listing.ID,
			p.StatusIcon(status) + " " + status,
			v.Item.Name,
			v.Item.Brand,
			v.Item.Category,
			v.Item.Condition,
			"$" + v.Listing.Price.StringFixed(2),
			strconv.Itoa(v.Listing.Quantity),
			v.SellerName,
		})
	}
	p.Table(listingStatusHeaders, rows, emptyMsg)
}

func printOrders(p *output.Printer, views []service.OrderView, emptyMsg string) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.Order.ID,
			v.ItemName,
			v.ItemBrand,
			strconv.Itoa(v.Order.Quantity),
			"$" + v.Order.UnitPrice.StringFixed(2),
			"$" + v.Order.TotalPrice.StringFixed(2),
			v.BuyerName,
			v.SellerName,
			v.Order.Status,
		})
	}
	p.Table(orderHeaders, rows, emptyMsg)
}
