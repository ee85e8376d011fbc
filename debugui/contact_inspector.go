package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/sim"
)

// ContactInspector lists the contact records of every tracked ball.
type ContactInspector struct {
	Source func() []sim.ContactRow
	Filter string
}

// FilterRows keeps the rows whose owner or other contains filter.
func FilterRows(rows []sim.ContactRow, filter string) []sim.ContactRow {
	if filter == "" {
		return rows
	}
	var out []sim.ContactRow
	for _, row := range rows {
		if strings.Contains(row.Owner, filter) || strings.Contains(row.Other, filter) {
			out = append(out, row)
		}
	}
	return out
}

// CountStatuses tallies rows per status.
func CountStatuses(rows []sim.ContactRow) map[contact.Status]int {
	counts := make(map[contact.Status]int, 3)
	for _, row := range rows {
		counts[row.Status]++
	}
	return counts
}

func (ci *ContactInspector) Render() {
	if !imgui.BeginV("Contacts", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	if ci.Source == nil {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("Filter", "ball id", &ci.Filter, imgui.InputTextFlagsNone, nil)

	rows := FilterRows(ci.Source(), ci.Filter)
	counts := CountStatuses(rows)
	imgui.Text(fmt.Sprintf("entering %d  continuing %d  ending %d",
		counts[contact.Entering], counts[contact.Continuing], counts[contact.Ending]))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ContactsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Ball")
		imgui.TableSetupColumn("Other")
		imgui.TableSetupColumn("Status")
		imgui.TableHeadersRow()

		for _, row := range rows {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(row.Owner)
			imgui.TableNextColumn()
			imgui.Text(row.Other)
			imgui.TableNextColumn()
			imgui.Text(row.Status.String())
		}
		imgui.EndTable()
	}

	imgui.End()
}
