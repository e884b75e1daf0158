package shot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{
	"shot_id", "timestamp", "profile", "profile_id", "duration_ms", "volume", "incomplete",
	"t", "tt", "ct", "tp", "cp", "fl", "tf", "pf", "v", "ev",
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if strings.EqualFold(format, FormatCSV) {
		return "text/csv"
	}
	return "application/json"
}

// Export writes shots to w. CSV output has one row per sample; shots without samples
// still get a single row with empty sample columns.
func Export(w io.Writer, shots []Shot, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(shots)
	case FormatCSV:
		return exportCSV(w, shots)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func exportCSV(w io.Writer, shots []Shot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range shots {
		head := []string{
			s.ID,
			strconv.FormatInt(s.Timestamp, 10),
			s.Profile,
			s.ProfileID,
			strconv.FormatInt(s.Duration, 10),
			formatFloat(s.Volume),
			strconv.FormatBool(s.Incomplete),
		}
		if len(s.Samples) == 0 {
			if err := cw.Write(append(head, make([]string, 10)...)); err != nil {
				return err
			}
			continue
		}
		for _, p := range s.Samples {
			row := append(append([]string(nil), head...),
				strconv.FormatInt(p.T, 10),
				formatFloat(p.TT), formatFloat(p.CT),
				formatFloat(p.TP), formatFloat(p.CP),
				formatFloat(p.FL), formatFloat(p.TF), formatFloat(p.PF),
				formatFloat(p.V), formatFloat(p.EV),
			)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
