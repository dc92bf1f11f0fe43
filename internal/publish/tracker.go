// Package publish decides how a weekly report reaches its page: create the
// page and notify the first time, silently update on every rerun after that.
package publish

import (
    "github.com/RitikaPC/SSDP-Release-Notes/internal/domain"
)

// Decide compares the run against the persisted record for its week.
// No record means first publish: CREATE with notification. Any prior record,
// even with differing versions, means UPDATE without notification.
func Decide(prior *domain.PublishRecord) domain.PublishDecision {
    if prior == nil {
        return domain.PublishDecision{Action: domain.ActionCreate, Notify: true}
    }
    return domain.PublishDecision{Action: domain.ActionUpdate, Notify: false}
}

// Merge folds the new component versions into the prior record so the stored
// mapping only ever grows. Reruns overwrite a component's value but never
// drop components recorded earlier.
func Merge(prior *domain.PublishRecord, year, weekNum int, versions map[string]string) domain.PublishRecord {
    out := domain.PublishRecord{Year: year, Week: weekNum, Versions: map[string]string{}}
    if prior != nil {
        for c, v := range prior.Versions { out.Versions[c] = v }
    }
    for c, v := range versions { out.Versions[c] = v }
    return out
}
