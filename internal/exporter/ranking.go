package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"moonlight/pkg/contracts/domain"
)

const rankingSheet = "GHI Ranking"

// RankingHeaders returns the ranking table header
func RankingHeaders(r *domain.Ranking) []string {
	column := r.Column
	if column == "" {
		column = "Average Daytime GHI (W/m²)"
	}
	return []string{"Rank", "Country", column}
}

// RankingRecords renders ranking entries with 2 decimal averages
func RankingRecords(r *domain.Ranking) [][]string {
	records := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		records = append(records, []string{
			strconv.Itoa(e.Rank),
			e.Country,
			formatFixed2(e.AverageGHI),
		})
	}
	return records
}

// WriteRankingCSV writes the ranking as a BOM-prefixed CSV
func WriteRankingCSV(w io.Writer, r *domain.Ranking) error {
	return WriteCSVTo(w, WriteOptions{
		Headers:   RankingHeaders(r),
		Records:   RankingRecords(r),
		BOMPrefix: true,
	})
}

// WriteRankingXLSX writes the ranking as a workbook with a bold header and
// the highlighted entry filled
func WriteRankingXLSX(w io.Writer, r *domain.Ranking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rankingSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	highlightStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1},
		NumFmt: 2,
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}
	valueStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create value style: %w", err)
	}

	headers := RankingHeaders(r)
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(rankingSheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(rankingSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, e := range r.Entries {
		line := i + 2
		cell := fmt.Sprintf("A%d", line)
		if err := f.SetSheetRow(rankingSheet, cell, &[]interface{}{e.Rank, e.Country, e.AverageGHI}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", line, err)
		}

		style := valueStyle
		from := fmt.Sprintf("C%d", line)
		if e.Highlight {
			style = highlightStyle
			from = cell
		}
		if err := f.SetCellStyle(rankingSheet, from, fmt.Sprintf("C%d", line), style); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(rankingSheet, "B", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(rankingSheet, "C", "C", 28); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
