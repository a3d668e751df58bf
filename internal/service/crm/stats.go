package crm

import (
	"time"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/period"
)

// Stats are the derived sales figures. Monetary values are rounded to two
// decimals at computation time.
type Stats struct {
	SalesCount       int
	TotalRevenue     float64
	RevenueThisMonth float64
	EggsSold         int
	ByCustomer       map[string]float64
	TopCustomerID    string
}

// ComputeStats reduces the sale collection into Stats. Pure function; rows
// with unparseable dates still count toward totals but not monthly figures.
func ComputeStats(sales []models.Sale, now time.Time) Stats {
	stats := Stats{ByCustomer: make(map[string]float64)}

	var total, thisMonth float64
	byCustomer := make(map[string]float64)

	for _, sale := range sales {
		stats.SalesCount++
		stats.EggsSold += sale.EggCount()
		total += sale.TotalAmount
		byCustomer[sale.CustomerID] += sale.TotalAmount

		if date, err := period.ParseDate(sale.SaleDate); err == nil && period.InCalendarMonth(date, now) {
			thisMonth += sale.TotalAmount
		}
	}

	stats.TotalRevenue = period.Round2(total)
	stats.RevenueThisMonth = period.Round2(thisMonth)

	best := -1.0
	for customerID, revenue := range byCustomer {
		stats.ByCustomer[customerID] = period.Round2(revenue)
		if revenue > best || (revenue == best && customerID < stats.TopCustomerID) {
			best = revenue
			stats.TopCustomerID = customerID
		}
	}
	return stats
}
