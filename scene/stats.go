package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})

	primKinds := make(map[string]int)
	for _, obj := range sc.Objects {
		primKinds[obj.Primitive.Kind()]++
	}
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(sc.Objects)), fmtSize(sc.Objects, sc.primitives)})
	for _, kind := range sortedKeys(primKinds) {
		table.Append([]string{"", kind, fmt.Sprint(primKinds[kind]), ""})
	}
	table.Append([]string{" ", " ", " ", " "})

	table.Append([]string{"Lights", "---", fmt.Sprint(len(sc.Lights) + len(sc.DistantLights)), fmtSize(sc.Lights, sc.DistantLights)})
	table.Append([]string{"", "Local", fmt.Sprint(len(sc.Lights)), ""})
	table.Append([]string{"", "Distant", fmt.Sprint(len(sc.DistantLights)), ""})
	table.Append([]string{" ", " ", " ", " "})

	matKinds := make(map[string]int)
	for _, m := range sc.Materials {
		matKinds[m.Kind()]++
	}
	table.Append([]string{"Materials", "---", fmt.Sprint(len(sc.Materials)), fmtSize(sc.Materials)})
	for _, kind := range sortedKeys(matKinds) {
		table.Append([]string{"", kind, fmt.Sprint(matKinds[kind]), ""})
	}

	total := []interface{}{sc.Objects, sc.primitives, sc.Lights, sc.DistantLights, sc.Materials}
	if sc.tree != nil {
		st := sc.tree.Stats
		table.Append([]string{" ", " ", " ", " "})
		table.Append([]string{"BVH", "---", fmt.Sprint(st.Nodes), fmtSize(sc.tree.Nodes, sc.tree.Order)})
		table.Append([]string{"", "Leafs", fmt.Sprint(st.Leafs), ""})
		table.Append([]string{"", "Max depth", fmt.Sprint(st.MaxDepth), ""})
		table.Append([]string{"", "Max leaf items", fmt.Sprint(st.MaxLeaf), ""})
		table.Append([]string{"", "Build time", st.BuildTime.String(), ""})
		total = append(total, sc.tree.Nodes, sc.tree.Order)
	}
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(total...), " ")})

	table.Render()
	return buf.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sum the space used by the backing arrays of a set of slices and return a
// formatted value with the appropriate byte/kb/mb unit. Data referenced by
// interface values is not included.
func fmtSize(items ...interface{}) string {
	var totalBytes float64
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float64(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
