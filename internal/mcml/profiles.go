package mcml

import "math"

type ratRow struct {
	Quantity string  `csv:"quantity"`
	Value    float64 `csv:"value"`
}

type depthRow struct {
	Z       float64 `csv:"z_cm"`
	Az      float64 `csv:"a_z"`
	Fluence float64 `csv:"fluence"`
}

type radialRow struct {
	R  float64 `csv:"r_cm"`
	Rd float64 `csv:"rd_r"`
	Tt float64 `csv:"tt_r"`
}

type angularRow struct {
	AngleDeg float64 `csv:"angle_deg"`
	Rd       float64 `csv:"rd_a"`
	Tt       float64 `csv:"tt_a"`
}

func ratRows(s *Summary) []*ratRow {
	return []*ratRow{
		{"specular_reflectance", s.RSpecular},
		{"diffuse_reflectance", s.Rd},
		{"unscattered_reflectance", s.RdUnscattered},
		{"total_reflectance", s.TotalReflectance()},
		{"absorbed_fraction", s.A},
		{"diffuse_transmittance", s.Tt},
		{"unscattered_transmittance", s.TtUnscattered},
		{"total_transmittance", s.TotalTransmittance()},
	}
}

// Profile rows use bin centres.
func depthRows(cfg *RunConfig, s *Summary) []*depthRow {
	rows := make([]*depthRow, cfg.Nz)
	for iz := range rows {
		rows[iz] = &depthRow{Z: (float64(iz) + 0.5) * cfg.Dz, Az: s.Az[iz], Fluence: s.Fluence[iz]}
	}
	return rows
}

func radialRows(cfg *RunConfig, s *Summary) []*radialRow {
	rows := make([]*radialRow, cfg.Nr)
	for ir := range rows {
		rows[ir] = &radialRow{R: (float64(ir) + 0.5) * cfg.Dr, Rd: s.Rdr[ir], Tt: s.Ttr[ir]}
	}
	return rows
}

func angularRows(cfg *RunConfig, s *Summary) []*angularRow {
	rows := make([]*angularRow, cfg.Na)
	for ia := range rows {
		deg := (float64(ia) + 0.5) * cfg.Da * 180 / math.Pi
		rows[ia] = &angularRow{AngleDeg: deg, Rd: s.Rda[ia], Tt: s.Tta[ia]}
	}
	return rows
}
