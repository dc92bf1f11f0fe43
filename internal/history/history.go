// Package history resolves release timestamps from issue status changelogs.
package history

import (
    "strings"
    "time"

    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

// FirstReleaseTime returns the timestamp of the first transition into target.
// Later re-entries never move the date. Status comparison ignores case so
// tracker-side renames like "Deploying To PROD" still resolve.
func FirstReleaseTime(changes []domain.StatusChange, target string) (time.Time, bool) {
    for _, c := range changes {
        if strings.EqualFold(c.Status, target) {
            return c.At, true
        }
    }
    return time.Time{}, false
}
