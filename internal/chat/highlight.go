package chat

import (
	"bytes"
	"os"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

const codeStyle = "monokai"

// fencedBlock is one well-formed ``` or ~~~ block inside a message body.
// open and close index the fence lines themselves.
type fencedBlock struct {
	open, close int
	lang        string
}

// highlightCodeBlocks colorizes well-formed fenced code blocks in a message
// body. Unterminated fences and unknown languages fall back to plain text.
func highlightCodeBlocks(body string) string {
	if body == "" || os.Getenv("NO_COLOR") != "" {
		return body
	}
	lines := strings.Split(body, "\n")
	blocks := scanFences(lines)
	if len(blocks) == 0 {
		return body
	}

	out := make([]string, 0, len(lines))
	next := 0
	for _, b := range blocks {
		out = append(out, lines[next:b.open+1]...)
		if b.close > b.open+1 {
			out = append(out, highlightCode(strings.Join(lines[b.open+1:b.close], "\n"), b.lang))
		}
		out = append(out, lines[b.close])
		next = b.close + 1
	}
	out = append(out, lines[next:]...)
	return strings.Join(out, "\n")
}

// scanFences locates the fenced blocks in a body. A fence with no closing
// line is not a block; scanning resumes on the next line so later fences
// still match.
func scanFences(lines []string) []fencedBlock {
	var blocks []fencedBlock
	for i := 0; i < len(lines); i++ {
		marker, lang, ok := fenceOpen(lines[i])
		if !ok {
			continue
		}
		end := fenceClose(lines, i+1, marker)
		if end < 0 {
			continue
		}
		blocks = append(blocks, fencedBlock{open: i, close: end, lang: lang})
		i = end
	}
	return blocks
}

// fenceOpen reports whether line opens a fence, returning the marker
// character and the info-string language.
func fenceOpen(line string) (byte, string, bool) {
	s := strings.TrimLeft(line, " \t")
	if len(s) < 3 || (s[0] != '`' && s[0] != '~') {
		return 0, "", false
	}
	marker := s[0]
	rest := strings.TrimLeft(s, string(marker))
	if len(s)-len(rest) < 3 {
		return 0, "", false
	}
	lang := ""
	if fields := strings.Fields(rest); len(fields) > 0 {
		lang = fields[0]
	}
	return marker, lang, true
}

// fenceClose finds the next line made up entirely of the marker character.
func fenceClose(lines []string, from int, marker byte) int {
	for i := from; i < len(lines); i++ {
		s := strings.TrimSpace(lines[i])
		if len(s) >= 3 && strings.Count(s, string(marker)) == len(s) {
			return i
		}
	}
	return -1
}

func highlightCode(code, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	style := styles.Get(codeStyle)
	if style == nil {
		style = styles.Fallback
	}
	var buf bytes.Buffer
	if err := formatters.TTY256.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
