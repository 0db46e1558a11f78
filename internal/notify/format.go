// Package notify delivers requisition summaries to the admins' Telegram chats.
package notify

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLen is Telegram's limit for a text message.
const MaxMessageLen = 4096

const truncatedMarker = "\n…and more items"

// Summary is a committed requisition grouped by supplier. Groups follow order
// creation order and lines follow submission order.
type Summary struct {
	RequisitionID int64     `json:"requisition_id"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	Groups        []Group   `json:"groups"`
}

type Group struct {
	Supplier string `json:"supplier"`
	Lines    []Line `json:"lines"`
}

type Line struct {
	Product string  `json:"product"`
	Unit    string  `json:"unit"`
	Qty     float64 `json:"qty"`
}

// FormatRequisition renders s as a Telegram HTML message.
func FormatRequisition(s Summary) string {
	author := s.Author
	if author == "" {
		author = "staff"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 <b>Requisition #%d</b> from %s\n", s.RequisitionID, html.EscapeString(author))
	if !s.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", s.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}

	budget := MaxMessageLen - utf8.RuneCountInString(truncatedMarker)
	used := utf8.RuneCountInString(b.String())
	add := func(chunk string) bool {
		n := utf8.RuneCountInString(chunk)
		if used+n > budget {
			return false
		}
		b.WriteString(chunk)
		used += n
		return true
	}

	for _, g := range s.Groups {
		if !add(fmt.Sprintf("\n🛒 <b>%s</b>\n", html.EscapeString(g.Supplier))) {
			return strings.TrimSpace(b.String()) + truncatedMarker
		}
		for _, l := range g.Lines {
			if !add(formatLine(l)) {
				return strings.TrimSpace(b.String()) + truncatedMarker
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func formatLine(l Line) string {
	qty := strconv.FormatFloat(l.Qty, 'f', -1, 64)
	line := fmt.Sprintf(" • %s — %s", html.EscapeString(l.Product), qty)
	if l.Unit != "" {
		line += " " + html.EscapeString(l.Unit)
	}
	return line + "\n"
}
