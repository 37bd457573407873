// Package export writes calculation results to XLSX workbooks for
// exchange with counterparties.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// WriteSnapshotXLSX writes a laytime snapshot workbook: a summary sheet
// and a per-port breakdown sheet.
func WriteSnapshotXLSX(path, portCallRef string, snap model.Snapshot) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	addKV(summary, "Port call", portCallRef)
	addKVFloat(summary, "Allowed (hours)", snap.TotalAllowed)
	addKVFloat(summary, "Used (hours)", snap.TotalUsed)
	addKVFloat(summary, "Time over (hours)", snap.TimeOver)
	addKV(summary, "Once on demurrage", boolString(snap.OnceOnDemurrage))
	addKV(summary, "Demurrage", snap.Demurrage.StringFixed(2))
	addKV(summary, "Despatch", snap.Despatch.StringFixed(2))

	breakdown, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "export: add breakdown sheet")
	}
	addHeader(breakdown, "Port call", "Allowed", "Base", "Deductions", "Used", "Over/Under", "Note")
	for _, row := range snap.Breakdown {
		r := breakdown.AddRow()
		r.AddCell().Value = row.PortCallRef
		r.AddCell().SetFloat(row.Allowed)
		r.AddCell().SetFloat(row.Base)
		r.AddCell().SetFloat(row.Deductions)
		r.AddCell().SetFloat(row.Used)
		r.AddCell().SetFloat(row.OverUnder)
		r.AddCell().Value = row.Note
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// WriteProrationXLSX writes a multi-cargo proration workbook: one row per
// cargo×port pair plus a totals row.
func WriteProrationXLSX(path string, result model.ProrationResult) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Proration")
	if err != nil {
		return eris.Wrap(err, "export: add proration sheet")
	}
	addHeader(sheet, "Cargo", "Port call", "Allowed", "Used", "Demurrage (min)", "Despatch (min)", "Demurrage", "Despatch")
	for _, row := range result.Rows {
		r := sheet.AddRow()
		r.AddCell().Value = row.CargoID
		r.AddCell().Value = row.PortCallID
		r.AddCell().SetFloat(row.AllowedHours)
		r.AddCell().SetFloat(row.UsedHours)
		r.AddCell().SetFloat(row.TimeOnDemurrageMinutes)
		r.AddCell().SetFloat(row.TimeOnDespatchMinutes)
		r.AddCell().Value = row.Demurrage.StringFixed(2)
		r.AddCell().Value = row.Despatch.StringFixed(2)
	}

	totals := sheet.AddRow()
	totals.AddCell().Value = "Totals"
	totals.AddCell()
	totals.AddCell().SetFloat(result.Totals.AllowedHours)
	totals.AddCell().SetFloat(result.Totals.UsedHours)
	totals.AddCell()
	totals.AddCell()
	totals.AddCell().Value = result.Totals.Demurrage.StringFixed(2)
	totals.AddCell().Value = result.Totals.Despatch.StringFixed(2)

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, t := range titles {
		row.AddCell().Value = t
	}
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

func addKVFloat(sheet *xlsx.Sheet, key string, value float64) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().SetFloat(value)
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
