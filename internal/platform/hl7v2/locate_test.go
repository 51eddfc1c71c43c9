package hl7v2

import "testing"

func TestFindNameField(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		start  int
		want   string
	}{
		{
			name:   "skips identifier with digits",
			fields: SplitFields("PRS|1|9876543210^^^Location^ID||Smith^John^A|||M|19800101|"),
			start:  1,
			want:   "Smith^John^A",
		},
		{
			name:   "many leading empty fields",
			fields: SplitFields("PRS||||||||Doe^Jane"),
			start:  1,
			want:   "Doe^Jane",
		},
		{
			name:   "field without caret is ignored",
			fields: SplitFields("PRS|Smith|Doe^Jane"),
			start:  1,
			want:   "Doe^Jane",
		},
		{
			name:   "spaces are rejected",
			fields: SplitFields("PRS|Van Dyke^Dick|Doe^Jane"),
			start:  1,
			want:   "Doe^Jane",
		},
		{
			name:   "trailing caret still matches",
			fields: SplitFields("PRS|1||Doe^Jane^|F"),
			start:  1,
			want:   "Doe^Jane^",
		},
		{
			name:   "tag is not scanned from index 1",
			fields: []string{"A^B", "1"},
			start:  1,
			want:   "",
		},
		{
			name:   "none",
			fields: SplitFields("PRS|1|2|3"),
			start:  1,
			want:   "",
		},
		{
			name:   "start past end",
			fields: SplitFields("PRS|Doe^Jane"),
			start:  10,
			want:   "",
		},
		{
			name:   "negative start scans from zero",
			fields: []string{"Doe^Jane"},
			start:  -3,
			want:   "Doe^Jane",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindNameField(tt.fields, tt.start); got != tt.want {
				t.Errorf("FindNameField() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindDateField(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{"eight digits", SplitFields("PRS|1|9876543210^^^Location^ID||Smith^John^A|||M|19800101|"), "19800101"},
		{"dashed date rejected", SplitFields("PRS|1||Smith^John|||M|1980-01-01|"), ""},
		{"longer digit run rejected", SplitFields("PRS|1|9876543210|198001011"), ""},
		{"shorter digit run rejected", SplitFields("PRS|1|1980010"), ""},
		{"first match wins", SplitFields("PRS|1|20230101|19800101"), "20230101"},
		{"no trailing delimiter", SplitFields("PRS|1||Doe^Jane||F|19900202"), "19900202"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDateField(tt.fields, 1); got != tt.want {
				t.Errorf("FindDateField() = %q, want %q", got, tt.want)
			}
		})
	}
}
