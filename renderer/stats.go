package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       int
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats for the last pass.
	Tracers []TracerStat

	// Number of passes and samples per pixel.
	Passes          int
	SamplesPerPixel int

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Build a tabular representation of the frame statistics.
func (st FrameStats) Table() string {
	return tracerTable("Block height", st.Tracers, []string{
		fmt.Sprintf("%d spp", st.SamplesPerPixel),
		fmt.Sprintf("%d passes", st.Passes),
		"TOTAL",
		st.RenderTime.String(),
	})
}

type DCStats struct {
	// Individual tracer stats. Block heights count sensors.
	Tracers []TracerStat

	Sensors int
	Bins    int

	// Total calculation time.
	RenderTime time.Duration
}

// Build a tabular representation of the daylight coefficient statistics.
func (st DCStats) Table() string {
	return tracerTable("Sensors", st.Tracers, []string{
		fmt.Sprintf("%d sensors", st.Sensors),
		fmt.Sprintf("%d bins", st.Bins),
		"TOTAL",
		st.RenderTime.String(),
	})
}

func tracerTable(blockLabel string, tracers []TracerStat, footer []string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", blockLabel, "% of work", "Render time"})
	for _, stat := range tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter(footer)

	table.Render()
	return buf.String()
}
