package model

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{in: "04:00", hour: 4},
		{in: "23:59", hour: 23, minute: 59},
		{in: "00:00"},
		{in: "9:05", hour: 9, minute: 5},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "12:00:00", wantErr: true},
	}

	for _, tc := range cases {
		hour, minute, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tc.in, err)
			continue
		}
		if hour != tc.hour || minute != tc.minute {
			t.Errorf("ParseTimeOfDay(%q) = %d:%d, want %d:%d", tc.in, hour, minute, tc.hour, tc.minute)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategoryRequired.Valid() || !CategorySuggested.Valid() {
		t.Error("known categories reported invalid")
	}
	if Category("urgent").Valid() {
		t.Error("unknown category reported valid")
	}
}
