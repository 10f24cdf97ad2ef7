package display

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/0xmhha/boxoffice/pkg/aggregator"
)

// CustomerColumns is the header of every customer export.
var CustomerColumns = []string{"name", "email", "phone", "tickets", "show"}

// WriteCustomers writes rows as UTF-8 CSV in the given order. The header
// row is always written.
func WriteCustomers(w io.Writer, rows []aggregator.CustomerRow, show string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CustomerColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Name,
			row.Email,
			row.Phone,
			strconv.FormatInt(row.Tickets, 10),
			show,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportPath returns <dir>/customers_<productID>_<YYYY-MM-DD>.csv for the
// day of now.
func ExportPath(dir, productID string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("customers_%s_%s.csv", productID, now.Format(dateLayout)))
}
