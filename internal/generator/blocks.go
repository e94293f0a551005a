package generator

import (
	"strings"

	"git.home.luguber.info/inful/dulynoted/internal/extract"
)

// BlockKind distinguishes prose from source code.
type BlockKind string

const (
	BlockComment BlockKind = "comment"
	BlockCode    BlockKind = "code"
)

// Block is a run of consecutive comment or code lines.
type Block struct {
	Kind BlockKind
	Text string
	// LongComment is set when the run started inside a block comment.
	LongComment bool
}

// Fold groups line records into blocks. Consecutive comments are joined with
// newlines, as are consecutive code lines; blank lines inside a code run are
// kept, blank lines elsewhere separate runs. A line carrying both a comment and
// code contributes the comment first. Comment runs with no visible text are
// dropped.
func Fold(lines []extract.Line) []Block {
	var blocks []Block
	blank := 0
	last := func(kind BlockKind) *Block {
		if len(blocks) == 0 || blocks[len(blocks)-1].Kind != kind {
			return nil
		}
		return &blocks[len(blocks)-1]
	}

	for _, l := range lines {
		if l.Comment != nil {
			if b := last(BlockComment); b != nil {
				b.Text += "\n" + *l.Comment
			} else {
				blocks = append(blocks, Block{Kind: BlockComment, Text: *l.Comment, LongComment: l.LongComment})
			}
			blank = 0
		}
		switch {
		case l.Code != nil:
			if b := last(BlockCode); b != nil {
				b.Text += strings.Repeat("\n", blank+1) + *l.Code
			} else {
				blocks = append(blocks, Block{Kind: BlockCode, Text: *l.Code})
			}
			blank = 0
		case l.Comment == nil:
			blank++
		}
	}

	out := blocks[:0]
	for _, b := range blocks {
		if b.Kind == BlockComment && strings.TrimSpace(b.Text) == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}
