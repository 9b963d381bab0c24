// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sort"

	"github.com/uasys/targetcache/models"
)

// BuildChangeSet compares the previously indexed snapshot with a freshly
// fetched one and returns the ordered set of changes between them.
//
// Deletions come first, then additions and updates, each group sorted by
// target ID so that a cycle over identical inputs always yields an
// identical change set. Metadata comparison is whole-record equality;
// any field difference, including the image revision mark, counts as an
// update.
func BuildChangeSet(previous, incoming models.Snapshot) models.ChangeSet {
	deleted := make([]uint64, 0, len(previous))
	for id := range previous {
		if _, ok := incoming[id]; !ok {
			deleted = append(deleted, id)
		}
	}

	upserted := make([]uint64, 0, len(incoming))
	for id, target := range incoming {
		if cached, ok := previous[id]; !ok || cached != target {
			upserted = append(upserted, id)
		}
	}

	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })
	sort.Slice(upserted, func(i, j int) bool { return upserted[i] < upserted[j] })

	changes := make(models.ChangeSet, 0, len(deleted)+len(upserted))
	for _, id := range deleted {
		changes = append(changes, models.Change{Op: models.ChangeDeleted, ID: id})
	}
	for _, id := range upserted {
		op := models.ChangeUpdated
		if _, ok := previous[id]; !ok {
			op = models.ChangeAdded
		}
		changes = append(changes, models.Change{Op: op, ID: id, Target: incoming[id]})
	}

	return changes
}
