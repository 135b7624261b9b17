package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mesh-intelligence/movielist/pkg/types"
)

const rule = "================================="

func printBanner(w io.Writer) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, " Welcome to Personal Movie List ")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, " Keep track of your favorite movies ")
	fmt.Fprintln(w, " Create a list of movies you want to watch ")
	fmt.Fprintln(w, rule)
}

func printHomeMenu(w io.Writer) {
	fmt.Fprintln(w, "=== Home ===")
	fmt.Fprintln(w, "1) View Movies")
	fmt.Fprintln(w, "2) Add Movie")
	fmt.Fprintln(w, "3) Delete Movie")
	fmt.Fprintln(w, "Q) Quit")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, " Help: ")
	fmt.Fprintln(w, " You can view specific movie details after you (1)view the movies. ")
	fmt.Fprintln(w, " You can edit or delete the movie information in movie details. ")
	fmt.Fprintln(w, " You can also delete the movie in (3)delete movie. ")
	fmt.Fprintln(w, rule)
}

// notice prints msg set off by blank lines.
func notice(w io.Writer, msg string) {
	fmt.Fprintf(w, "\n%s\n\n", msg)
}

// renderList numbers movies from 1 in the order given.
func renderList(movies []types.Movie) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Year", "Watched"})
	for i, m := range movies {
		tw.AppendRow(table.Row{i + 1, m.DisplayTitle(), orDash(m.Year), watchedLabel(m.Watched)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderDetails(m types.Movie) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRows([]table.Row{
		{"Title", m.DisplayTitle()},
		{"Director", orDash(m.Director)},
		{"Genre", orDash(m.Genre)},
		{"Rating", orDash(m.Rating)},
		{"Year", orDash(m.Year)},
		{"Watched", watchedLabel(m.Watched)},
	})
	return tw.Render()
}

func printDetails(w io.Writer, m types.Movie) {
	fmt.Fprintln(w, "\n--- Movie Details ---")
	fmt.Fprintln(w, renderDetails(m))
	fmt.Fprintln(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// watchedLabel spells out Y and N; other stored values are shown upper-cased.
func watchedLabel(w string) string {
	switch v := strings.ToUpper(orDash(w)); v {
	case types.WatchedYes:
		return "Yes"
	case types.WatchedNo:
		return "No"
	default:
		return v
	}
}
