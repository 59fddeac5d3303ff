package models

// LocationValidation is the outcome of the duplicate guard for a proposed
// incident location. It is a decision, never an error: a failing store query
// results in a permissive validation, not a failed one.
type LocationValidation struct {
	IsValid         bool   `json:"is_valid"`
	Message         string `json:"message"`
	NearbyIncidents int    `json:"nearby_incidents"`
}
