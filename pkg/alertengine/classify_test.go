package alertengine

import "testing"

func TestClassifierQualifies(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		event string
		want  bool
	}{
		{"Flood Warning", true},
		{"Winter Storm Watch", true},
		{"Wind Advisory", true},
		{"SEVERE THUNDERSTORM WARNING", true},
		{"Special Weather Statement", false},
		{"Hydrologic Outlook", false},
		{"Test Message", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := c.Qualifies(tc.event); got != tc.want {
			t.Errorf("Qualifies(%q) = %v, want %v", tc.event, got, tc.want)
		}
	}
}
