package sources

import "strings"

// septaAlert is the raw SEPTA alerts API record.
type septaAlert struct {
	RouteID         string `json:"route_id"`
	RouteName       string `json:"route_name"`
	CurrentMessage  string `json:"current_message"`
	AdvisoryMessage string `json:"advisory_message"`
	DetourMessage   string `json:"detour_message"`
	LastUpdated     string `json:"last_updated"`
}

// TransitAlert is a normalized transit advisory for the map sidebar.
type TransitAlert struct {
	Agency  string `json:"agency"`
	Route   string `json:"route"`
	Mode    string `json:"mode,omitempty"`
	Message string `json:"message"`
	Detour  string `json:"detour,omitempty"`
	Updated string `json:"updated,omitempty"`
}

// FetchSeptaAlerts retrieves SEPTA's alert feed and keeps only routes that
// currently have something to say.
func (c *Client) FetchSeptaAlerts(url string) ([]TransitAlert, error) {
	if url == "" {
		url = SeptaAlertsURL
	}
	var raw []septaAlert
	if err := c.getJSON(url, &raw); err != nil {
		return nil, err
	}

	alerts := make([]TransitAlert, 0, len(raw))
	for _, a := range raw {
		msg := strings.TrimSpace(a.CurrentMessage)
		if msg == "" {
			msg = strings.TrimSpace(a.AdvisoryMessage)
		}
		if msg == "" && strings.TrimSpace(a.DetourMessage) == "" {
			continue
		}
		alerts = append(alerts, TransitAlert{
			Agency:  "SEPTA",
			Route:   a.RouteName,
			Mode:    septaMode(a.RouteID),
			Message: msg,
			Detour:  strings.TrimSpace(a.DetourMessage),
			Updated: a.LastUpdated,
		})
	}
	return alerts, nil
}

// septaMode derives the transit mode from SEPTA's route_id prefix
// ("bus_route_23", "rr_route_tre", "trolley_route_101").
func septaMode(routeID string) string {
	switch {
	case strings.HasPrefix(routeID, "bus_"):
		return "bus"
	case strings.HasPrefix(routeID, "rr_"):
		return "rail"
	case strings.HasPrefix(routeID, "trolley_"):
		return "trolley"
	case strings.HasPrefix(routeID, "cct_"):
		return "cct"
	}
	return ""
}
