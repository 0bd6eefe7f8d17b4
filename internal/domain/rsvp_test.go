package domain

import "testing"

func TestEmojis_Classify(t *testing.T) {
	emojis := NewEmojis("white_check_mark", ":grey_question:", "x")

	tests := []struct {
		name     string
		emoji    string
		expected Bucket
	}{
		{name: "Yes", emoji: "white_check_mark", expected: BucketYes},
		{name: "Maybe（設定のコロンは除去される）", emoji: "grey_question", expected: BucketMaybe},
		{name: "No", emoji: "x", expected: BucketNo},
		{name: "未設定の絵文字", emoji: "thumbsup", expected: BucketIgnored},
		{name: "大文字小文字は区別する", emoji: "X", expected: BucketIgnored},
		{name: "スキントーン付きは別物", emoji: "white_check_mark::skin-tone-2", expected: BucketIgnored},
		{name: "コロン付きの名前は一致しない", emoji: ":x:", expected: BucketIgnored},
		{name: "空文字", emoji: "", expected: BucketIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := emojis.Classify(tt.emoji); got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.emoji, got, tt.expected)
			}
		})
	}
}

func TestEmojis_Label(t *testing.T) {
	emojis := NewEmojis("white_check_mark", "grey_question", "x")

	tests := []struct {
		bucket   Bucket
		expected string
	}{
		{bucket: BucketYes, expected: ":white_check_mark: yes"},
		{bucket: BucketMaybe, expected: ":grey_question: maybe"},
		{bucket: BucketNo, expected: ":x: no"},
	}

	for _, tt := range tests {
		t.Run(tt.bucket.String(), func(t *testing.T) {
			if got := emojis.Label(tt.bucket); got != tt.expected {
				t.Errorf("Label() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAttendanceView_Field(t *testing.T) {
	view := AttendanceView{
		Yes:   []string{"alice", "bob"},
		Maybe: []string{"carol"},
	}

	tests := []struct {
		name     string
		bucket   Bucket
		expected string
	}{
		{name: "複数人", bucket: BucketYes, expected: "alice, bob"},
		{name: "1人", bucket: BucketMaybe, expected: "carol"},
		{name: "0人はハイフン", bucket: BucketNo, expected: "-"},
		{name: "対象外の区分", bucket: BucketIgnored, expected: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := view.Field(tt.bucket); got != tt.expected {
				t.Errorf("Field() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewSummary(t *testing.T) {
	emojis := NewEmojis("white_check_mark", "grey_question", "x")
	summary := NewSummary("[19:30] Movie Night", emojis, AttendanceView{No: []string{"dave"}})

	if summary.Title != "[19:30] Movie Night" {
		t.Errorf("Title = %q", summary.Title)
	}
	want := []SummaryField{
		{Label: ":white_check_mark: yes", Value: "-"},
		{Label: ":grey_question: maybe", Value: "-"},
		{Label: ":x: no", Value: "dave"},
	}
	if len(summary.Fields) != len(want) {
		t.Fatalf("Fields length = %d, want %d", len(summary.Fields), len(want))
	}
	for i := range want {
		if summary.Fields[i] != want[i] {
			t.Errorf("Fields[%d] = %+v, want %+v", i, summary.Fields[i], want[i])
		}
	}
}
