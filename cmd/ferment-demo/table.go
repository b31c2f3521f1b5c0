package main

import (
	"fmt"
	"io"

	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/widgets"
)

var (
	serviceNames = []string{"auth", "billing", "catalog", "checkout", "gateway", "inventory", "ledger", "mailer", "search", "shipping"}
	regions      = []string{"us-east-1", "eu-central-1", "ap-southeast-2"}
	states       = []string{"healthy", "healthy", "healthy", "degraded", "healthy", "draining"}
)

// serviceRows builds a deterministic fleet listing wide enough to scroll.
func serviceRows() [][]string {
	rows := make([][]string, 0, len(serviceNames)*len(regions))
	for i, name := range serviceNames {
		for j, region := range regions {
			n := i*len(regions) + j
			rows = append(rows, []string{
				fmt.Sprintf("%s-%d", name, j+1),
				region,
				states[n%len(states)],
				fmt.Sprintf("%d", 2+(n*7)%9),
				fmt.Sprintf("%.1f%%", float64((n*37)%1000)/10),
				fmt.Sprintf("registry.internal/%s:v1.%d.%d --region=%s --replicas=%d", name, n%7, n%13, region, 2+(n*7)%9),
			})
		}
	}
	return rows
}

func newServiceTable(env) core.Model {
	t := widgets.NewFullScreenTable(80, 24)
	t.Title = "Services"
	t.Status = widgets.Online()
	t.Columns = []widgets.Column{
		{Title: "Name", Width: 12},
		{Title: "Region"},
		{Title: "State"},
		{Title: "Pods", Align: widgets.AlignRight},
		{Title: "CPU", Align: widgets.AlignRight},
		{Title: "Image", Grow: true},
	}
	t.Rows = serviceRows()
	t.Hints = widgets.StyledHints(t.Keys.ShortHelp()...)
	return t
}

func reportTable(m core.Model, w io.Writer) {
	if row := m.(*widgets.FullScreenTable).CurrentRow(); row != nil {
		fmt.Fprintf(w, "last selected: %s (%s)\n", row[0], row[1])
	}
}
