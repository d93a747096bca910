package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/go-daylight/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/urfave/cli"
)

// List the cpus available for tracing.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	infoList, err := cpu.Info()
	if err != nil {
		return err
	}
	logical, err := cpu.Counts(true)
	if err != nil {
		return err
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"CPU", "Model", "Cores", "Speed (MHz)"})
	for idx, info := range infoList {
		table.Append([]string{
			fmt.Sprint(idx),
			info.ModelName,
			fmt.Sprint(info.Cores),
			fmt.Sprintf("%.0f", info.Mhz),
		})
	}
	table.SetFooter([]string{"", "", "TRACERS", fmt.Sprint(renderer.DefaultWorkers())})
	table.Render()

	logger.Noticef(
		"system provides %d logical cpu(s) and %.1f GiB of memory (%.1f GiB available)\n%s",
		logical, float64(vm.Total)/(1<<30), float64(vm.Available)/(1<<30), buf.String(),
	)
	return nil
}
