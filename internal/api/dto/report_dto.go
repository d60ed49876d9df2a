package dto

// OverviewResponse is the administrator dashboard aggregate.
type OverviewResponse struct {
	Totals           OverviewTotalsResponse     `json:"totals"`
	StaffPerformance []StaffPerformanceResponse `json:"staff_performance"`
}

// OverviewTotalsResponse groups inquiry counts by bucket.
type OverviewTotalsResponse struct {
	Total      int64 `json:"total"`
	Unresolved int64 `json:"unresolved"`
	Solved     int64 `json:"solved"`
	Unchecked  int64 `json:"unchecked"`
	InCharge   int64 `json:"in_charge"`
}

// StaffPerformanceResponse is one leaderboard row.
type StaffPerformanceResponse struct {
	StaffProfileID string `json:"staff_profile_id"`
	Name           string `json:"name"`
	Active         bool   `json:"active"`
	Solved         int64  `json:"solved"`
	InCharge       int64  `json:"in_charge"`
}
