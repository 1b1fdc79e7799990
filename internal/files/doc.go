// Package files discovers price datasets on disk.
//
// A dataset is a .csv or .xlsx file placed directly in the data directory.
// Discovery lists them and resolves a client-supplied name to a path without
// letting the name escape the directory:
//
//	discovery := files.NewDiscovery(cfg.Paths.DataDir)
//	datasets, err := discovery.FindDatasets("")
//	info, err := discovery.Lookup("", "spy.csv")
package files
