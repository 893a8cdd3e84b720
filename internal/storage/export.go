package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/phasekit/lorenzlab/internal/phase"
)

// ExportData is the JSON document written by ExportJSON.
type ExportData struct {
	ID         string             `json:"id"`
	Integrator string             `json:"integrator"`
	Sigma      float64            `json:"sigma"`
	Rho        float64            `json:"rho"`
	Beta       float64            `json:"beta"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a run and its trajectory as indented JSON. JSON has
// no encoding for NaN or infinity, so trajectories containing them are
// rejected; export those as CSV instead.
func ExportJSON(w io.Writer, meta *RunMeta, tr *phase.Trajectory) error {
	if idx := tr.FirstNonFinite(); idx >= 0 {
		return fmt.Errorf("trajectory has non-finite values from index %d; JSON cannot represent them, use CSV export", idx)
	}

	data := ExportData{
		ID:         meta.ID,
		Integrator: meta.Integrator,
		Sigma:      meta.Params.Sigma,
		Rho:        meta.Params.Rho,
		Beta:       meta.Params.Beta,
		Dt:         meta.Dt,
		Steps:      meta.Steps,
		Times:      tr.Times,
		States:     make([][]float64, tr.Len()),
		Metrics:    meta.Metrics,
	}
	for i, x := range tr.States {
		data.States[i] = x
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes a trajectory as CSV with a time column and one
// column per component. Values use the shortest representation that
// parses back to the same float64, so non-finite values survive a
// round trip.
func ExportCSV(w io.Writer, tr *phase.Trajectory) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, componentLabels(tr.Dim())...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, tr.Dim()+1)
	for i, x := range tr.States {
		row[0] = strconv.FormatFloat(tr.Times[i], 'g', -1, 64)
		for j, v := range x {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func componentLabels(dim int) []string {
	if dim == 3 {
		return []string{"x", "y", "z"}
	}
	labels := make([]string, dim)
	for i := range labels {
		labels[i] = fmt.Sprintf("x%d", i)
	}
	return labels
}
