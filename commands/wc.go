package commands

import (
	"fmt"
	"io"
	"unicode"

	"github.com/minish-sh/minish/core/proc"
)

type wcCount struct {
	bytes int
	lines int
	words int
	name  string

	inSpace bool
}

func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

func newWcCount(name string, fd io.Reader) (*wcCount, error) {
	var out wcCount
	out.name = name

	if _, err := io.Copy(&out, fd); err != nil {
		return nil, err
	}

	return &out, nil
}

func (w *wcCount) increment(other *wcCount) {
	w.bytes += other.bytes
	w.lines += other.lines
	w.words += other.words
}

// Wc implements the POSIX command by the same name.
// https://pubs.opengroup.org/onlinepubs/009695399/utilities/wc.html
func Wc(p *proc.Proc) proc.Result {
	cmd := &SimpleCommand{
		Use:   "wc [-lwc] [FILE...]",
		Short: "Write the number of newlines, words, and bytes contained in each input file to the standard output.",
	}

	opts := cmd.Flags()
	writeLines := opts.Bool('l', "write the number of newlines in each file")
	writeWords := opts.Bool('w', "write the number of words in each file")
	writeBytes := opts.Bool('c', "write the number of bytes in each file")

	return cmd.Run(p, func() proc.Result {
		args := opts.Args()

		nonePicked := !*writeLines && !*writeWords && !*writeBytes

		var cols []func(*wcCount) string
		if *writeLines || nonePicked {
			cols = append(cols, func(w *wcCount) string {
				return fmt.Sprint(w.lines)
			})
		}
		if *writeWords || nonePicked {
			cols = append(cols, func(w *wcCount) string {
				return fmt.Sprint(w.words)
			})
		}
		if *writeBytes || nonePicked {
			cols = append(cols, func(w *wcCount) string {
				return fmt.Sprint(w.bytes)
			})
		}

		displayCount := func(count *wcCount) {
			for i, col := range cols {
				if i != 0 {
					fmt.Fprint(p.Stdout, " ")
				}
				fmt.Fprint(p.Stdout, col(count))
			}
			fmt.Fprintln(p.Stdout)
		}

		if len(args) == 0 {
			count, err := newWcCount("", p.Stdin)
			if err != nil {
				fmt.Fprintf(p.Stderr, "wc: %v\n", err)
				return proc.Result{ExitCode: 1}
			}
			displayCount(count)
			return proc.Result{}
		}

		// The name column only appears when several files are counted, so
		// wc over a single file prints a bare triple.
		if len(args) > 1 {
			cols = append(cols, func(w *wcCount) string {
				return w.name
			})
		}

		total := &wcCount{name: "total"}
		for _, path := range args {
			fd, err := p.FS.Open(p.Abs(path))
			if err != nil {
				fmt.Fprintf(p.Stderr, "wc: %v\n", err)
				return proc.Result{ExitCode: 1}
			}

			count, err := newWcCount(path, fd)
			fd.Close()
			if err != nil {
				fmt.Fprintf(p.Stderr, "wc: %v\n", err)
				return proc.Result{ExitCode: 1}
			}

			total.increment(count)
			displayCount(count)
		}

		if len(args) > 1 {
			displayCount(total)
		}

		return proc.Result{}
	})
}

var _ proc.Func = Wc

func init() {
	addCmd("wc", Wc)
}
