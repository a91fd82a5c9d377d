// Package export serializes asset listings into flat text tables.
package export

import (
	"bufio"
	"io"
	"strings"

	"fixed-assets-registry/internal/model"
)

// FileName is the suggested name for a downloaded export.
const FileName = "assets_export.csv"

// Header lists the export columns in order.
var Header = []string{
	"ID", "Name", "Category", "Description", "Cost", "Purchase Date",
	"Location", "Status", "Serial Number", "Supplier", "Warranty Expiry",
}

// WriteCSV writes the header line followed by one line per asset. Data fields
// are always double-quoted with embedded quotes doubled.
func WriteCSV(w io.Writer, assets []model.Asset) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return err
	}

	for _, a := range assets {
		for i, field := range a.TableRow() {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(field))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
