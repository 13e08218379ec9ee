package driver

import (
	"fmt"
	"strings"
)

// quoteSendKeysLiteral builds a `send-keys -t <pane> [-l] -- <quoted>`
// argument for content, matching the reference client's quoting exactly
// (terminatorlib's send_content): quote with a single quote unless content
// itself contains one, in which case fall back to double quotes, and add
// `-l` only when content contains the escape character (0x1B) — tmux
// accepts a raw ESC byte in a `-l` literal just fine, so there is no
// separate hex-encoding path.
func quoteSendKeysLiteral(paneID, content string) string {
	flag := ""
	if strings.ContainsRune(content, '\x1b') {
		flag = "-l"
	}

	content = escapeSemicolons(content)

	q := "'"
	if strings.Contains(content, "'") {
		q = `"`
	}

	if flag == "" {
		return fmt.Sprintf("send-keys -t %s -- %s%s%s", paneID, q, content, q)
	}
	return fmt.Sprintf("send-keys -t %s %s -- %s%s%s", paneID, flag, q, content, q)
}

// namedKeysCommand builds a `send-keys -t <pane> <names...>` command for
// tmux key-name tokens (e.g. "C-y"), used for the mouse wheel forwarding
// where the payload is key names, not literal text.
func namedKeysCommand(paneID, names string) string {
	return fmt.Sprintf("send-keys -t %s %s", paneID, names)
}
