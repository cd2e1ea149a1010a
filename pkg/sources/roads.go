package sources

import (
	"fmt"
	"net/url"
)

// pa511Condition is the raw 511PA road-condition record.
type pa511Condition struct {
	RoadwayName       string `json:"RoadwayName"`
	ConditionText     string `json:"ConditionText"`
	CountyName        string `json:"CountyName"`
	DirectionOfTravel string `json:"DirectionOfTravel"`
	LastUpdated       string `json:"LastUpdated"`
}

// RoadCondition is a normalized road status line for the map sidebar.
type RoadCondition struct {
	Road      string `json:"road"`
	Condition string `json:"condition"`
	County    string `json:"county,omitempty"`
	Direction string `json:"direction,omitempty"`
	Updated   string `json:"updated,omitempty"`
}

// FetchRoadConditions retrieves 511PA road conditions. The endpoint needs an
// API key; format=json asks for the JSON variant of the feed.
func (c *Client) FetchRoadConditions(baseURL, apiKey string) ([]RoadCondition, error) {
	if baseURL == "" {
		baseURL = PA511RoadConditionsURL
	}
	if apiKey == "" {
		return nil, fmt.Errorf("511PA requires an API key")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", apiKey)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	var raw []pa511Condition
	if err := c.getJSON(u.String(), &raw); err != nil {
		return nil, err
	}

	conditions := make([]RoadCondition, 0, len(raw))
	for _, r := range raw {
		if r.RoadwayName == "" {
			continue
		}
		conditions = append(conditions, RoadCondition{
			Road:      r.RoadwayName,
			Condition: r.ConditionText,
			County:    r.CountyName,
			Direction: r.DirectionOfTravel,
			Updated:   r.LastUpdated,
		})
	}
	return conditions, nil
}
