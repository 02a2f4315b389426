package audit

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind selects the comparison rule for a tracked key.
type Kind int

const (
	// Text compares stringified values.
	Text Kind = iota
	// Date compares only the date portion (first 10 chars of ISO-8601),
	// ignoring time-of-day noise.
	Date
	// Number treats nil/absent as "none", distinct from 0.
	Number
	// FactorList compares selected-factor lists as sets keyed by
	// factorId; a quantity-only change is one line, not add+remove.
	FactorList
	// StringSet compares membership only; order changes are not a diff.
	StringSet
	// ResourceMap compares per resource-type key: 0/absent to >0 is an
	// add, >0 to 0/absent a remove, anything else a change.
	ResourceMap
)

// Key is one tracked snapshot field. Label is the human-readable name
// used in change lines.
type Key struct {
	Name  string
	Label string
	Kind  Kind
}

// Result is an ordered list of human-readable change descriptions.
type Result struct {
	Changes    []string `json:"changes"`
	HasChanges bool     `json:"hasChanges"`
}

// Diff compares two flat snapshots over the tracked keys and describes
// every difference. Lines come out in tracked-key order: scalars first,
// then collections, then resource maps. Missing or malformed fields
// degrade to empty comparisons; Diff never fails.
func Diff(oldSnap, newSnap map[string]any, keys []Key) Result {
	if oldSnap == nil {
		oldSnap = map[string]any{}
	}
	if newSnap == nil {
		newSnap = map[string]any{}
	}

	var changes []string
	for _, k := range keys {
		switch k.Kind {
		case Text:
			changes = append(changes, diffText(k, oldSnap[k.Name], newSnap[k.Name])...)
		case Date:
			changes = append(changes, diffDate(k, oldSnap[k.Name], newSnap[k.Name])...)
		case Number:
			changes = append(changes, diffNumber(k, oldSnap[k.Name], newSnap[k.Name])...)
		}
	}
	for _, k := range keys {
		switch k.Kind {
		case FactorList:
			changes = append(changes, diffFactorList(oldSnap[k.Name], newSnap[k.Name])...)
		case StringSet:
			changes = append(changes, diffStringSet(k, oldSnap[k.Name], newSnap[k.Name])...)
		}
	}
	for _, k := range keys {
		if k.Kind == ResourceMap {
			changes = append(changes, diffResourceMap(k, oldSnap[k.Name], newSnap[k.Name])...)
		}
	}

	return Result{Changes: changes, HasChanges: len(changes) > 0}
}

func diffText(k Key, oldV, newV any) []string {
	o, n := asString(oldV), asString(newV)
	if o == n {
		return nil
	}
	return []string{fmt.Sprintf("changed %s from %q to %q", k.Label, o, n)}
}

func diffDate(k Key, oldV, newV any) []string {
	o, n := datePart(oldV), datePart(newV)
	if o == n {
		return nil
	}
	if o == "" {
		o = "none"
	}
	if n == "" {
		n = "none"
	}
	return []string{fmt.Sprintf("changed %s from %s to %s", k.Label, o, n)}
}

func diffNumber(k Key, oldV, newV any) []string {
	o, oOK := asNumber(oldV)
	n, nOK := asNumber(newV)
	if oOK == nOK && (!oOK || o == n) {
		return nil
	}
	oS, nS := "none", "none"
	if oOK {
		oS = formatNumber(o)
	}
	if nOK {
		nS = formatNumber(n)
	}
	return []string{fmt.Sprintf("changed %s from %s to %s", k.Label, oS, nS)}
}

type factorEntry struct {
	id       string
	name     string
	quantity float64
}

func diffFactorList(oldV, newV any) []string {
	oldList := asFactorList(oldV)
	newList := asFactorList(newV)

	oldByID := make(map[string]factorEntry, len(oldList))
	for _, e := range oldList {
		oldByID[e.id] = e
	}
	newByID := make(map[string]factorEntry, len(newList))
	for _, e := range newList {
		newByID[e.id] = e
	}

	var out []string
	for _, e := range newList {
		prev, ok := oldByID[e.id]
		if !ok {
			out = append(out, fmt.Sprintf("added factor %q (quantity %s)", e.displayName(), formatNumber(e.quantity)))
			continue
		}
		if prev.quantity != e.quantity {
			out = append(out, fmt.Sprintf("changed quantity for %q from %s to %s", e.displayName(), formatNumber(prev.quantity), formatNumber(e.quantity)))
		}
	}
	for _, e := range oldList {
		if _, ok := newByID[e.id]; !ok {
			out = append(out, fmt.Sprintf("removed factor %q", e.displayName()))
		}
	}
	return out
}

func (e factorEntry) displayName() string {
	if e.name != "" {
		return e.name
	}
	return e.id
}

func diffStringSet(k Key, oldV, newV any) []string {
	oldList := asStringSlice(oldV)
	newList := asStringSlice(newV)

	oldSet := make(map[string]bool, len(oldList))
	for _, s := range oldList {
		oldSet[s] = true
	}
	newSet := make(map[string]bool, len(newList))
	for _, s := range newList {
		newSet[s] = true
	}

	var out []string
	for _, s := range newList {
		if !oldSet[s] {
			out = append(out, fmt.Sprintf("added %s %q", k.Label, s))
		}
	}
	for _, s := range oldList {
		if !newSet[s] {
			out = append(out, fmt.Sprintf("removed %s %q", k.Label, s))
		}
	}
	return out
}

func diffResourceMap(k Key, oldV, newV any) []string {
	oldMap := asResourceMap(oldV)
	newMap := asResourceMap(newV)

	ids := make([]string, 0, len(oldMap)+len(newMap))
	seen := make(map[string]bool)
	for id := range oldMap {
		seen[id] = true
		ids = append(ids, id)
	}
	for id := range newMap {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []string
	for _, id := range ids {
		o, n := oldMap[id], newMap[id]
		switch {
		case o == n:
		case o == 0:
			out = append(out, fmt.Sprintf("%s: added %s (%s)", k.Label, id, formatNumber(n)))
		case n == 0:
			out = append(out, fmt.Sprintf("%s: removed %s", k.Label, id))
		default:
			out = append(out, fmt.Sprintf("%s: changed %s from %s to %s", k.Label, id, formatNumber(o), formatNumber(n)))
		}
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
