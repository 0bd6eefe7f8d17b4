package domain

// Reaction はメッセージに付いたリアクション（絵文字）を表すドメインモデル
type Reaction struct {
	Name  string   // 絵文字名（例: "white_check_mark"）
	Count int      // リアクション数
	Users []string // リアクションしたユーザーID
}
