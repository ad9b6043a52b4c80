package models

// DashboardStats summarises the registries for the dashboards
type DashboardStats struct {
	TotalDonations     int     `json:"total_donations"`
	ActiveDonations    int     `json:"active_donations"`
	CompletedPickups   int     `json:"completed_pickups"`
	TotalBeneficiaries int     `json:"total_beneficiaries"`
	WasteReduced       float64 `json:"waste_reduced"` // in kg
}

// RegistryCounts is the size of each registry
type RegistryCounts struct {
	Users         int `json:"users"`
	Donations     int `json:"donations"`
	Requests      int `json:"requests"`
	Beneficiaries int `json:"beneficiaries"`
}
