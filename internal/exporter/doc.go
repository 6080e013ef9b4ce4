// Package exporter writes analysis results and cleaned datasets to files
// and HTTP responses.
//
// CSVWriter is the core CSV writer with UTF-8 BOM support for Excel and a
// streaming mode for large frames. The ranking can also be exported as an
// XLSX workbook, and combined frames as SNAPPY-compressed Parquet.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(paths, logger)
//	err := csvWriter.WriteFrameFile("benin_clean.csv", frame)
//
//	var buf bytes.Buffer
//	err = exporter.WriteRankingXLSX(&buf, ranking)
package exporter
