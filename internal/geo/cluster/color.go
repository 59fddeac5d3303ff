package cluster

// CategoryIncidents is the marker category whose color follows incident status.
const CategoryIncidents = "incidents"

// Marker colors by incident status.
const (
	ColorActive        = "#ef4444" // red
	ColorInvestigating = "#f97316" // orange
	ColorResolved      = "#22c55e" // green
	ColorDefault       = "#6b7280" // gray
)

// MarkerColor derives a leaf marker color before clustering. Incident markers
// follow status; every other category renders red.
func MarkerColor(category, status string) string {
	if category != CategoryIncidents {
		return ColorActive
	}
	switch status {
	case "active":
		return ColorActive
	case "resolved":
		return ColorResolved
	case "investigating":
		return ColorInvestigating
	default:
		return ColorDefault
	}
}
