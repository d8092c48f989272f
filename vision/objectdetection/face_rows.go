package objectdetection

import (
	"github.com/pkg/errors"
)

// The face detector emits one row per face: x, y, w, h, ten landmark coordinates
// (eyes, nose tip, mouth corners) and a score.
const (
	faceRowLength     = 15
	faceRowScoreIndex = 14
)

// ErrMalformedRow is returned when a detector output row is too short to hold a face.
var ErrMalformedRow = errors.New("malformed face detection row")

// ParseFaceRows converts raw face detector output into detections. Rows longer than a face row
// are accepted and the extra columns ignored.
func ParseFaceRows(rows [][]float32) ([]Detection, error) {
	detections := make([]Detection, 0, len(rows))
	for i, row := range rows {
		if len(row) < faceRowLength {
			return nil, errors.Wrapf(ErrMalformedRow, "row %d has %d columns, expected %d", i, len(row), faceRowLength)
		}
		detections = append(detections, NewDetectionFromXYWH(
			float64(row[0]), float64(row[1]), float64(row[2]), float64(row[3]),
			float64(row[faceRowScoreIndex]),
		))
	}
	return detections, nil
}
