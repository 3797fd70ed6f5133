package export

import (
	"path/filepath"
	"time"
)

// Filename builds a timestamped output path like
// out/leads_2026-08-24_153005.csv.
func Filename(dir, ext string, now time.Time) string {
	return filepath.Join(dir, "leads_"+now.Format("2006-01-02_150405")+"."+ext)
}
