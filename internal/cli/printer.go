package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wikinsight/wikinsight/internal/domain"
	"github.com/wikinsight/wikinsight/internal/insights"
)

// printer handles formatted terminal output.
type printer struct {
	out    io.Writer
	err    io.Writer
	bold   *color.Color
	high   *color.Color
	low    *color.Color
	warn   *color.Color
	danger *color.Color
}

func newPrinter(out, errOut io.Writer, useColors bool) *printer {
	p := &printer{
		out:    out,
		err:    errOut,
		bold:   color.New(color.Bold),
		high:   color.New(color.FgGreen, color.Bold),
		low:    color.New(color.FgYellow, color.Bold),
		warn:   color.New(color.FgYellow),
		danger: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.bold, p.high, p.low, p.warn, p.danger} {
		if useColors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) header(title string) {
	fmt.Fprintln(p.out, p.bold.Sprint(title))
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) engagement(e domain.Engagement) string {
	if e.Positive() {
		return p.high.Sprint(e.Label())
	}
	return p.low.Sprint(e.Label())
}

// notices writes toasts to stderr so stdout stays parseable.
func (p *printer) notices(list []insights.Notice) {
	for _, n := range list {
		switch n.Level {
		case insights.NoticeError:
			fmt.Fprintln(p.err, p.danger.Sprint("error: "+n.Text))
		case insights.NoticeWarning:
			fmt.Fprintln(p.err, p.warn.Sprint("warning: "+n.Text))
		default:
			fmt.Fprintln(p.err, n.Text)
		}
	}
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table renders rows under headers with the borderless layout used across wikictl.
func (p *printer) table(headers []string, rows [][]string) error {
	t := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	t.Header(headers)
	if err := t.Bulk(rows); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if err := t.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
