package drafts

import (
	"sort"

	"goyal-backend/internal/models"
)

// SummaryRow is the per-category aggregate shown on the pre-commit review.
type SummaryRow struct {
	CategoryID  uint    `json:"category_id"`
	RubberName  string  `json:"rubber_name"`
	RubberID    int     `json:"rubber_id"`
	TotalRolls  int     `json:"total_rolls"`
	TotalWeight float64 `json:"total_weight_kg"`
	TotalCost   float64 `json:"total_cost"`
}

// Summarize groups draft items by category id and sums rolls, weight and
// cost. The commit itself works on raw items, never on these aggregates.
func Summarize(items []models.DraftItem) []SummaryRow {
	byCategory := make(map[uint]*SummaryRow)
	for _, item := range items {
		row, ok := byCategory[item.CategoryID]
		if !ok {
			row = &SummaryRow{
				CategoryID: item.CategoryID,
				RubberName: item.RubberName,
				RubberID:   item.RubberID,
			}
			byCategory[item.CategoryID] = row
		}
		row.TotalRolls += item.NumberOfRolls
		row.TotalWeight += item.WeightKg
		row.TotalCost += item.Cost
	}

	rows := make([]SummaryRow, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CategoryID < rows[j].CategoryID })
	return rows
}
