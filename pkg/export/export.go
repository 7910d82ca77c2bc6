package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/busradar/busradar/core/tracklog"
)

// WriteJSON writes the track points to w in JSON format.
func WriteJSON(w io.Writer, points []tracklog.Point) error {
	enc := json.NewEncoder(w)
	return enc.Encode(points)
}

// WriteCSV writes the track points to w in CSV format.
func WriteCSV(w io.Writer, points []tracklog.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "timestamp", "lat", "lon"}); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			p.VehicleID,
			p.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
