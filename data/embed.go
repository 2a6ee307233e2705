// Package data embeds the catalog the dashboard ships with.
//
// The files are plain CSV and JSON so they can be replaced at runtime by
// pointing data.dir at a directory with the same layout:
//
//	stocks.csv      Symbol,Name,Price,ChangePercent,AIScore,Sector,MarketCap
//	etfs.csv        Symbol,Name,Price,ChangePercent,AIScore,AUM
//	dashboard.json  metrics, insights, indicators
//	details.json    details, news, signals
package data

import (
	"embed"
	"io/fs"
)

//go:embed *.csv *.json
var files embed.FS

// FS returns the embedded catalog files.
func FS() fs.FS {
	return files
}
