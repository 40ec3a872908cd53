package board

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

var (
	colorPlayer0 = "1" // red
	colorPlayer1 = "4" // blue
)

// Render draws the board as text, marks coloured for the given profile
// (use termenv.Ascii for plain output). Empty cells show their index.
func Render(s State, size int, profile termenv.Profile) string {
	builder := strings.Builder{}
	width := len(strconv.Itoa(size*size - 1))

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			cell := row*size + col
			if col > 0 {
				builder.WriteString(" | ")
			} else {
				builder.WriteByte(' ')
			}

			switch owner := s.At(cell); owner {
			case Player0:
				builder.WriteString(pad(profile.String(owner.String()).Foreground(profile.Color(colorPlayer0)).Bold().String(), 1, width))
			case Player1:
				builder.WriteString(pad(profile.String(owner.String()).Foreground(profile.Color(colorPlayer1)).Bold().String(), 1, width))
			default:
				label := strconv.Itoa(cell)
				builder.WriteString(pad(profile.String(label).Faint().String(), len(label), width))
			}
		}
		builder.WriteString(" \n")

		if row < size-1 {
			builder.WriteString(strings.Repeat(strings.Repeat("-", width+2)+"+", size-1))
			builder.WriteString(strings.Repeat("-", width+2))
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// pad right-aligns a (possibly styled) string whose visible length is n
func pad(s string, n, width int) string {
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
