package inventory

import (
	"fmt"
	"sort"
	"time"

	"goyal-backend/internal/models"
)

// Analytics over already-loaded slices. The data set is a single shop's
// ledger, so plain O(n) scans recomputed per request are fine.

const lowStockThreshold = 10

// Availability sums lifetime additions and sales into the stock summary.
func Availability(lots []models.StockLot, sales []models.Sale) StockSummaryResponse {
	var s StockSummaryResponse
	for _, lot := range lots {
		s.TotalRolls += lot.NumberOfRolls
		s.TotalWeightKg += lot.WeightKg
		s.TotalStockWorth += lot.Cost
	}
	for _, sale := range sales {
		s.RollsSold += sale.NumberOfRolls
		s.WeightSoldKg += sale.WeightKg
	}
	s.AvailableRolls = s.TotalRolls - s.RollsSold
	s.AvailableWeight = s.TotalWeightKg - s.WeightSoldKg
	return s
}

// LowStockCategories returns the categories whose summed roll count across
// lots is strictly below the threshold. Categories without any lot are not
// reported; the grouping runs over existing lots only.
func LowStockCategories(lots []models.StockLot, categories []models.StockCategory) []models.StockCategory {
	rollsByRubberID := make(map[int]int)
	for _, lot := range lots {
		rollsByRubberID[lot.RubberID] += lot.NumberOfRolls
	}

	var low []models.StockCategory
	for rubberID, rolls := range rollsByRubberID {
		if rolls >= lowStockThreshold {
			continue
		}
		for _, cat := range categories {
			if cat.RubberID == rubberID {
				low = append(low, cat)
				break
			}
		}
	}

	sort.Slice(low, func(i, j int) bool { return low[i].RubberID < low[j].RubberID })
	return low
}

type TodayStats struct {
	SalesCount  int     `json:"sales_count"`
	RollsSold   int     `json:"rolls_sold"`
	PaidRevenue float64 `json:"paid_revenue"`
}

// StartOfDay returns local midnight for t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TodaySales counts sales on or after local midnight. Revenue counts only
// PAID sales.
func TodaySales(sales []models.Sale, now time.Time) TodayStats {
	midnight := StartOfDay(now)

	var s TodayStats
	for _, sale := range sales {
		if sale.SaleDate.Before(midnight) {
			continue
		}
		s.SalesCount++
		s.RollsSold += sale.NumberOfRolls
		if sale.PaymentStatus == models.PaymentStatusPaid {
			s.PaidRevenue += sale.Amount
		}
	}
	return s
}

type CategoryPerformance struct {
	RubberID     int     `json:"rubber_id"`
	RubberName   string  `json:"rubber_name"`
	RollsSold    int     `json:"rolls_sold"`
	PaidRevenue  float64 `json:"paid_revenue"`
	SalesCount   int     `json:"sales_count"`
}

// TopCategoryOfMonth groups the current month's sales by rubber id and
// returns the category with the highest paid revenue, nil when there are no
// sales this month.
func TopCategoryOfMonth(sales []models.Sale, now time.Time) *CategoryPerformance {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	perf := make(map[int]*CategoryPerformance)
	for _, sale := range sales {
		if sale.SaleDate.Before(monthStart) {
			continue
		}
		p, ok := perf[sale.RubberID]
		if !ok {
			p = &CategoryPerformance{RubberID: sale.RubberID, RubberName: sale.RubberName}
			perf[sale.RubberID] = p
		}
		p.RollsSold += sale.NumberOfRolls
		p.SalesCount++
		if sale.PaymentStatus == models.PaymentStatusPaid {
			p.PaidRevenue += sale.Amount
		}
	}

	var top *CategoryPerformance
	for _, p := range perf {
		if top == nil || p.PaidRevenue > top.PaidRevenue {
			top = p
		}
	}
	return top
}

type ActivityType string

const (
	ActivityStockAdded ActivityType = "STOCK_ADDED"
	ActivitySaleMade   ActivityType = "SALE_MADE"
)

type ActivityItem struct {
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	Amount      *float64     `json:"amount,omitempty"`
}

// RecentActivity merges the last 5 stock additions and last 5 sales,
// re-sorts by timestamp and truncates to 10 entries.
func RecentActivity(lots []models.StockLot, sales []models.Sale) []ActivityItem {
	sortedLots := make([]models.StockLot, len(lots))
	copy(sortedLots, lots)
	sort.Slice(sortedLots, func(i, j int) bool { return sortedLots[i].AddedAt.After(sortedLots[j].AddedAt) })
	if len(sortedLots) > 5 {
		sortedLots = sortedLots[:5]
	}

	sortedSales := make([]models.Sale, len(sales))
	copy(sortedSales, sales)
	sort.Slice(sortedSales, func(i, j int) bool { return sortedSales[i].SaleDate.After(sortedSales[j].SaleDate) })
	if len(sortedSales) > 5 {
		sortedSales = sortedSales[:5]
	}

	items := make([]ActivityItem, 0, len(sortedLots)+len(sortedSales))
	for _, lot := range sortedLots {
		items = append(items, ActivityItem{
			Type:        ActivityStockAdded,
			Description: fmt.Sprintf("Added %d rolls of %s", lot.NumberOfRolls, lot.RubberName),
			Timestamp:   lot.AddedAt,
		})
	}
	for _, sale := range sortedSales {
		amount := sale.Amount
		items = append(items, ActivityItem{
			Type:        ActivitySaleMade,
			Description: fmt.Sprintf("Sold %d rolls of %s to %s", sale.NumberOfRolls, sale.RubberName, sale.DealerName),
			Timestamp:   sale.SaleDate,
			Amount:      &amount,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp.After(items[j].Timestamp) })
	if len(items) > 10 {
		items = items[:10]
	}
	return items
}
