package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fsmview banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  __                     _               ", "#66bb6a"},
		{" / _|___ _ __ _____   _(_) _____      __", "#4db6ac"},
		{"| |_/ __| '_ ` _ \\ \\ / / |/ _ \\ \\ /\\ / /", "#4fc3f7"},
		{"|  _\\__ \\ | | | | \\ V /| |  __/\\ V  V / ", "#7986cb"},
		{"|_| |___/_| |_| |_|\\_/ |_|\\___| \\_/\\_/  ", "#ef5350"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
