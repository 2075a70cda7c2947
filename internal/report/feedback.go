package report

import (
	"regexp"
	"strconv"
	"strings"
)

// BlockKind classifies one line of overall feedback.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockBullet    BlockKind = "bullet"
	BlockNumbered  BlockKind = "numbered"
	BlockParagraph BlockKind = "paragraph"
)

// Block is one parsed feedback line. Number is set for numbered items only.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Text   string    `json:"text"`
	Number int       `json:"number,omitempty"`
}

var numberedRe = regexp.MustCompile(`^(\d+)\. `)

// ParseFeedback splits the feedback text line by line using exactly four
// markup rules: "## " heading, "- " bullet, "N. " numbered item, anything
// else non-blank is a paragraph. Blank lines are dropped.
func ParseFeedback(s string) []Block {
	blocks := []Block{}
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimPrefix(line, "## ")})
		case strings.HasPrefix(line, "- "):
			blocks = append(blocks, Block{Kind: BlockBullet, Text: strings.TrimPrefix(line, "- ")})
		case numberedRe.MatchString(line):
			m := numberedRe.FindStringSubmatch(line)
			n, _ := strconv.Atoi(m[1])
			blocks = append(blocks, Block{Kind: BlockNumbered, Text: line[len(m[0]):], Number: n})
		case strings.TrimSpace(line) != "":
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: line})
		}
	}
	return blocks
}
