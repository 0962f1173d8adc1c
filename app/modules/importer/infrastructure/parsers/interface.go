package parsers

import importdomain "github.com/Black-And-White-Club/raid-challenge/app/modules/importer/domain"

// Parser turns an uploaded results file into a generic table.
type Parser interface {
	// Parse reads the raw file bytes. fileName is used in error messages only.
	Parse(fileData []byte, fileName string) (*importdomain.Table, error)
}
