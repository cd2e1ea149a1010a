package sources

// amtrakTrain is the raw Amtraker v3 train record; the feed keys trains by
// number with one record per active run.
type amtrakTrain struct {
	TrainNum   string  `json:"trainNum"`
	RouteName  string  `json:"routeName"`
	TrainState string  `json:"trainState"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Velocity   float64 `json:"velocity"`
	Heading    string  `json:"heading"`
	LastValTS  string  `json:"lastValTS"`
}

// TrainStatus is a normalized Amtrak position for the map overlay.
type TrainStatus struct {
	Number   string  `json:"number"`
	Route    string  `json:"route"`
	State    string  `json:"state,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Velocity float64 `json:"velocity,omitempty"`
	Heading  string  `json:"heading,omitempty"`
	Updated  string  `json:"updated,omitempty"`
}

// FetchAmtrakTrains retrieves active Amtrak trains. Records without a
// position are dropped; the map has nowhere to put them.
func (c *Client) FetchAmtrakTrains(url string) ([]TrainStatus, error) {
	if url == "" {
		url = AmtrakTrainsURL
	}
	var raw map[string][]amtrakTrain
	if err := c.getJSON(url, &raw); err != nil {
		return nil, err
	}

	var trains []TrainStatus
	for _, runs := range raw {
		for _, t := range runs {
			if t.Lat == 0 && t.Lon == 0 {
				continue
			}
			trains = append(trains, TrainStatus{
				Number:   t.TrainNum,
				Route:    t.RouteName,
				State:    t.TrainState,
				Lat:      t.Lat,
				Lng:      t.Lon,
				Velocity: t.Velocity,
				Heading:  t.Heading,
				Updated:  t.LastValTS,
			})
		}
	}
	return trains, nil
}
