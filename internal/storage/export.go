package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/heatanim/internal/heat"
)

type ExportData struct {
	ID        string      `json:"id"`
	Params    heat.Params `json:"params"`
	DX        float64     `json:"dx"`
	CFL       float64     `json:"cfl"`
	Steps     int         `json:"steps"`
	Times     []float64   `json:"times"`
	Positions []float64   `json:"positions"`
	// Values[i][j] is the field at Times[i], Positions[j].
	Values [][]float64 `json:"values"`
}

func ExportJSON(w io.Writer, result *heat.Result) error {
	times := result.Timesteps()
	params := result.Params()
	data := ExportData{
		ID:        result.ID(),
		Params:    params,
		DX:        params.DX(),
		CFL:       params.CFL(),
		Steps:     len(times),
		Times:     times,
		Positions: result.Positions(),
		Values:    make([][]float64, len(times)),
	}

	for i, t := range times {
		recs, _ := result.At(t)
		row := make([]float64, len(recs))
		for j, rec := range recs {
			row[j] = rec.Value
		}
		data.Values[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
