package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-list-keeper/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

// view renders command output. Colours follow the capabilities of the
// writer, so redirected output stays plain text.
type view struct {
	title   lipgloss.Style
	faint   lipgloss.Style
	online  lipgloss.Style
	offline lipgloss.Style
	warn    lipgloss.Style
}

func newView(out io.Writer) *view {
	r := lipgloss.NewRenderer(out)
	return &view{
		title:   r.NewStyle().Bold(true),
		faint:   r.NewStyle().Faint(true),
		online:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		offline: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (v *view) page(title, data string) string {
	var b strings.Builder

	b.WriteString(v.title.Render(title))
	b.WriteString("\n")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(data) == "" {
		b.WriteString("-\n")
	} else {
		b.WriteString(strings.TrimRight(data, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

// table lays rows out in columns. Widths are measured with lipgloss so
// styled cells keep the columns aligned.
func (v *view) table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString(" │ ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("─┼─")
		}
		b.WriteString(strings.Repeat("─", w))
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}

	return b.String()
}

func (v *view) id(id int64) string {
	s := strconv.FormatInt(id, 10)
	if models.IsPlaceholderID(id) {
		return v.faint.Render(s + " (pending)")
	}
	return s
}

func (v *view) lists(lists []models.List) string {
	if len(lists) == 0 {
		return v.page("LISTS", "")
	}

	rows := make([][]string, 0, len(lists))
	for _, l := range lists {
		rows = append(rows, []string{v.id(l.ID), l.Label, formatTime(l.CreatedAt)})
	}
	return v.page("LISTS", v.table([]string{"ID", "Label", "Created"}, rows))
}

func (v *view) items(listID int64, items []models.Item) string {
	title := "ITEMS OF LIST " + strconv.FormatInt(listID, 10)
	if len(items) == 0 {
		return v.page(title, "")
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		done := "[ ]"
		if it.Done {
			done = "[x]"
		}
		rows = append(rows, []string{v.id(it.ID), done, it.Name, valueOrDash(it.Note)})
	}
	return v.page(title, v.table([]string{"ID", "Done", "Name", "Note"}, rows))
}

func (v *view) catalog(entries []models.CatalogEntry) string {
	if len(entries) == 0 {
		return v.page("CATALOG", "")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.FormatInt(e.ID, 10), e.Name})
	}
	return v.page("CATALOG", v.table([]string{"ID", "Name"}, rows))
}

func (v *view) createdList(l models.List) string {
	return fmt.Sprintf("created list %s %q\n", v.id(l.ID), l.Label)
}

func (v *view) savedItem(verb string, it models.Item) string {
	if it.ListID == 0 {
		return fmt.Sprintf("%s item %s %s\n", verb, v.id(it.ID), v.faint.Render("(queued, not cached locally)"))
	}
	return fmt.Sprintf("%s item %s %q in list %s\n", verb, v.id(it.ID), it.Name, v.id(it.ListID))
}

func (v *view) deleted(what string, id int64) string {
	return fmt.Sprintf("deleted %s %s\n", what, v.id(id))
}

func (v *view) drainResult(res models.DrainResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Replayed:      %d\n", res.Succeeded)
	fmt.Fprintf(&b, "Rejected:      %d\n", res.Failed)
	fmt.Fprintf(&b, "Dead-lettered: %d\n", res.DeadLettered)
	fmt.Fprintf(&b, "Still queued:  %d", res.Remaining)
	if res.Stopped {
		b.WriteString("\n")
		b.WriteString(v.offline.Render("service unreachable, replay stopped"))
	}
	return v.page("SYNC", b.String())
}

type statusInfo struct {
	Server        string
	Online        bool
	Pending       int
	DeadLetters   int
	SchemaVersion int64
}

func (v *view) connectivity(online bool) string {
	if online {
		return v.online.Render("online")
	}
	return v.offline.Render("offline")
}

func (v *view) status(s statusInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service:       %s\n", s.Server)
	fmt.Fprintf(&b, "Connectivity:  %s\n", v.connectivity(s.Online))
	fmt.Fprintf(&b, "Pending:       %d\n", s.Pending)
	fmt.Fprintf(&b, "Dead letters:  %d\n", s.DeadLetters)
	fmt.Fprintf(&b, "Local schema:  %d", s.SchemaVersion)
	return v.page("STATUS", b.String())
}

func (v *view) queue(ops []models.QueuedOperation) string {
	if len(ops) == 0 {
		return v.page("QUEUE", "")
	}

	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, []string{
			strconv.FormatInt(op.SequenceID, 10),
			string(op.Kind),
			op.Method + " " + op.Path,
			strconv.Itoa(op.Attempts),
			v.warn.Render(valueOrDash(op.LastError)),
		})
	}
	return v.page("QUEUE", v.table([]string{"#", "Kind", "Request", "Attempts", "Last error"}, rows))
}

func (v *view) deadLetters(letters []models.DeadLetter) string {
	if len(letters) == 0 {
		return v.page("DEAD LETTERS", "")
	}

	rows := make([][]string, 0, len(letters))
	for _, dl := range letters {
		rows = append(rows, []string{
			strconv.FormatInt(dl.SequenceID, 10),
			dl.Method + " " + dl.Path,
			strconv.Itoa(dl.Attempts),
			formatTime(dl.FailedAt),
			v.warn.Render(valueOrDash(dl.LastError)),
		})
	}
	return v.page("DEAD LETTERS", v.table([]string{"#", "Request", "Attempts", "Failed", "Last error"}, rows))
}

func (v *view) pendingChanged(count int) string {
	return fmt.Sprintf("%s pending operations: %d\n", v.faint.Render(time.Now().Format(time.TimeOnly)), count)
}

func (v *view) buildInfo(info models.AppBuildInfo) string {
	return v.page("GO-LIST-KEEPER", info.String())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
