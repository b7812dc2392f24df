package models

// RecommendedBox is a ranked subscription box in a recommendation response.
type RecommendedBox struct {
	AboBox

	// Weight is the box's score against the user's category preferences.
	Weight int `json:"weight"`
}

// Recommendation is the response for GET /v1/users/abobox/{userId}.
type Recommendation struct {
	UserID           string           `json:"userId"`
	RecommendedBoxes []RecommendedBox `json:"recommended_boxes"`
}

// TrendReportRequest is the body for POST /v1/supplier/{supplierId}/trends.
// Dates are RFC3339 timestamps; both bounds are inclusive.
type TrendReportRequest struct {
	StartDate Timestamp `json:"startDate"`
	EndDate   Timestamp `json:"endDate"`
}

// TrendRow is one per-product demand total in a trend report.
type TrendRow struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}
