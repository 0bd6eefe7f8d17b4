package slack

import (
	"fmt"
	"strings"

	"github.com/Tattsum/timelord/internal/domain"
	"github.com/slack-go/slack"
)

const (
	rsvpPrompt        = "who's in? :eyes:"
	titleBlockID      = "title"
	promptBlockID     = "prompt"
	rsvpBlockIDPrefix = "rsvp_"
)

// summaryBlocks は出欠サマリーをBlock Kitのブロックに変換する
// タイトル、案内文、区分ごとのセクションの順に並ぶ
func summaryBlocks(summary domain.Summary) []slack.Block {
	blocks := make([]slack.Block, 0, len(summary.Fields)+2)
	blocks = append(blocks,
		slack.NewSectionBlock(markdown("*"+summary.Title+"*"), nil, nil, slack.SectionBlockOptionBlockID(titleBlockID)),
		slack.NewContextBlock(promptBlockID, markdown(rsvpPrompt)),
	)
	for i, field := range summary.Fields {
		text := fmt.Sprintf("*%s*\n%s", field.Label, field.Value)
		blocks = append(blocks, slack.NewSectionBlock(markdown(text), nil, nil, slack.SectionBlockOptionBlockID(fmt.Sprintf("%s%d", rsvpBlockIDPrefix, i))))
	}
	return blocks
}

// isSummaryBlocks はsummaryBlocksで作ったブロックかどうかを判定する
func isSummaryBlocks(blocks slack.Blocks) bool {
	var hasTitle, hasRSVP bool
	for _, block := range blocks.BlockSet {
		section, ok := block.(*slack.SectionBlock)
		if !ok {
			continue
		}
		switch {
		case section.BlockID == titleBlockID:
			hasTitle = true
		case strings.HasPrefix(section.BlockID, rsvpBlockIDPrefix):
			hasRSVP = true
		}
	}
	return hasTitle && hasRSVP
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}
