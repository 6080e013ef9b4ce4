// Package files locates raw measurement files and writes cleaned outputs.
//
// Discovery finds per-country raw files (.csv or .xlsx) in the raw data
// directory, matching on the registry file name, slug or display name.
//
// Manager resolves where cleaned files go in the data directory and writes
// them atomically.
//
//	discovery := files.NewDiscovery(paths.RawDir)
//	raw, err := discovery.FindRawFile("", country)
//
//	manager := files.NewManager(paths, logger)
//	_, err = manager.WriteAtomic(manager.ParquetFilePath(country), func(w io.Writer) (int64, error) {
//	    return exporter.WriteFrameParquet(w, frame)
//	})
package files
