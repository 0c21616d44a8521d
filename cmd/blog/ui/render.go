// Package ui renders API responses for the terminal and prompts for input.
package ui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/skinx/blog-api/internal/client"
)

const (
	dateLayout     = "Jan 2, 2006"
	excerptLength  = 160
	noPostsMessage = "No posts found"
)

// PrintPostList renders one page of posts followed by a pager line.
func PrintPostList(w io.Writer, list *client.PostList) {
	if len(list.Items) == 0 {
		fmt.Fprintln(w, subtleStyle.Render(noPostsMessage))
		return
	}

	for _, p := range list.Items {
		fmt.Fprintln(w, titleStyle.Render(p.Title))
		fmt.Fprintln(w, subtleStyle.Render(byline(p)))
		if tags := formatTags(p.Tags); tags != "" {
			fmt.Fprintln(w, tags)
		}
		fmt.Fprintln(w, excerpt(HTMLToText(p.Content), excerptLength))
		fmt.Fprintln(w, subtleStyle.Render("id: "+p.ID))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, subtleStyle.Render(pager(list)))
}

// PrintPost renders a single post in full.
func PrintPost(w io.Writer, p *client.Post) {
	var body strings.Builder
	body.WriteString(titleStyle.Render(p.Title))
	body.WriteString("\n")
	body.WriteString(subtleStyle.Render(byline(*p)))
	if tags := formatTags(p.Tags); tags != "" {
		body.WriteString("\n")
		body.WriteString(tags)
	}
	body.WriteString("\n\n")
	body.WriteString(HTMLToText(p.Content))

	fmt.Fprintln(w, cardStyle.Render(body.String()))
	fmt.Fprintln(w, subtleStyle.Render("id: "+p.ID))
}

// PrintProfile renders GET /auth/me.
func PrintProfile(w io.Writer, p *client.Profile) {
	fmt.Fprintln(w, titleStyle.Render(p.Email))
	fmt.Fprintf(w, "  ID:      %s\n", p.ID)
	fmt.Fprintf(w, "  Joined:  %s\n", p.CreatedAt.Local().Format(dateLayout))
}

// PrintHealth renders the health body, including per-dependency checks.
func PrintHealth(w io.Writer, h *client.Health) {
	if h.OK {
		fmt.Fprintln(w, successStyle.Render("API is healthy"))
	} else {
		fmt.Fprintln(w, errorStyle.Render("API is unhealthy: "+h.Error))
	}
	fmt.Fprintf(w, "  database: %s\n", h.Database)
	for _, name := range slices.Sorted(maps.Keys(h.Checks)) {
		fmt.Fprintf(w, "  %s: %s\n", name, h.Checks[name])
	}
}

// PrintSuccess prints a success message.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}

// PrintHint prints secondary text.
func PrintHint(w io.Writer, msg string) {
	fmt.Fprintln(w, subtleStyle.Render(msg))
}

func byline(p client.Post) string {
	return fmt.Sprintf("by %s on %s", p.PostedBy, p.PostedAt.Local().Format(dateLayout))
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = tagStyle.Render("#" + t)
	}
	return strings.Join(out, " ")
}

func pager(list *client.PostList) string {
	pages := 1
	if list.PageSize > 0 && list.Total > 0 {
		pages = (list.Total + list.PageSize - 1) / list.PageSize
	}
	return fmt.Sprintf("Page %d of %d (%d posts)", list.Page, pages, list.Total)
}

// excerpt cuts text to at most n runes on a word boundary.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// Until formats the time left before t, or "expired".
func Until(t time.Time, now time.Time) string {
	d := t.Sub(now)
	if d <= 0 {
		return "expired"
	}
	return d.Truncate(time.Minute).String()
}
