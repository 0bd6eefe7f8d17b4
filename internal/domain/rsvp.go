package domain

import "strings"

// Bucket は出欠の区分を表す
type Bucket int

const (
	BucketIgnored Bucket = iota
	BucketYes
	BucketMaybe
	BucketNo
)

// Buckets は表示順に並んだ出欠区分
var Buckets = []Bucket{BucketYes, BucketMaybe, BucketNo}

func (b Bucket) String() string {
	switch b {
	case BucketYes:
		return "yes"
	case BucketMaybe:
		return "maybe"
	case BucketNo:
		return "no"
	default:
		return "ignored"
	}
}

// EmptyField は参加者がいない区分の表示
const EmptyField = "-"

// Emojis は出欠区分に対応する絵文字名の設定
type Emojis struct {
	Yes   string
	Maybe string
	No    string
}

// NewEmojis は前後のコロンを取り除いた絵文字名でEmojisを作成する
// Slackのリアクションイベントはコロンなしの名前で届く
func NewEmojis(yes, maybe, no string) Emojis {
	return Emojis{
		Yes:   normalizeEmoji(yes),
		Maybe: normalizeEmoji(maybe),
		No:    normalizeEmoji(no),
	}
}

func normalizeEmoji(name string) string {
	return strings.Trim(strings.TrimSpace(name), ":")
}

// Classify は絵文字名を出欠区分に分類する
// 完全一致のみ。該当しない絵文字はBucketIgnored
func (e Emojis) Classify(name string) Bucket {
	switch name {
	case "":
		return BucketIgnored
	case e.Yes:
		return BucketYes
	case e.Maybe:
		return BucketMaybe
	case e.No:
		return BucketNo
	default:
		return BucketIgnored
	}
}

// For は区分に対応する絵文字名を返す
func (e Emojis) For(b Bucket) string {
	switch b {
	case BucketYes:
		return e.Yes
	case BucketMaybe:
		return e.Maybe
	case BucketNo:
		return e.No
	default:
		return ""
	}
}

// All は表示順の絵文字名を返す
func (e Emojis) All() []string {
	return []string{e.Yes, e.Maybe, e.No}
}

// Label は区分の表示ラベルを返す（例: ":white_check_mark: yes"）
func (e Emojis) Label(b Bucket) string {
	return ":" + e.For(b) + ": " + b.String()
}

// AttendanceView は出欠区分ごとの表示名リスト
type AttendanceView struct {
	Yes   []string
	Maybe []string
	No    []string
}

// Append は区分に表示名を追加する
func (v *AttendanceView) Append(b Bucket, name string) {
	switch b {
	case BucketYes:
		v.Yes = append(v.Yes, name)
	case BucketMaybe:
		v.Maybe = append(v.Maybe, name)
	case BucketNo:
		v.No = append(v.No, name)
	}
}

// Names は区分の表示名リストを返す
func (v *AttendanceView) Names(b Bucket) []string {
	switch b {
	case BucketYes:
		return v.Yes
	case BucketMaybe:
		return v.Maybe
	case BucketNo:
		return v.No
	default:
		return nil
	}
}

// Field は区分の表示文字列を返す。空の場合は "-"
func (v *AttendanceView) Field(b Bucket) string {
	names := v.Names(b)
	if len(names) == 0 {
		return EmptyField
	}
	return strings.Join(names, ", ")
}

// SummaryField は出欠表示の1項目
type SummaryField struct {
	Label string
	Value string
}

// Summary はメッセージに表示する出欠サマリー
// Fieldsは常にYes, Maybe, Noの順で3件
type Summary struct {
	Title  string
	Fields []SummaryField
}

// NewSummary は出欠状況から表示用サマリーを作成する
func NewSummary(title string, emojis Emojis, view AttendanceView) Summary {
	fields := make([]SummaryField, 0, len(Buckets))
	for _, b := range Buckets {
		fields = append(fields, SummaryField{
			Label: emojis.Label(b),
			Value: view.Field(b),
		})
	}
	return Summary{Title: title, Fields: fields}
}
