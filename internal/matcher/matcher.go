// Package matcher implements the heuristics that link historical QC entries
// to open production tasks. Matching is best effort and never authoritative:
// a stored task reference on an entry always wins over anything inferred here.
package matcher

import (
	"regexp"
	"sort"
	"strings"

	"floortrack/internal/model"
)

const similarityThreshold = 0.4

var (
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9_\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	woPrefixPattern   = regexp.MustCompile(`wo[-\s]?(\d+)`)
	woSuffixPattern   = regexp.MustCompile(`(\d+)[-\s]?wo`)
	codePattern       = regexp.MustCompile(`(?i)([A-Z0-9]+(?:-[A-Z0-9]+)*)`)
	numberPattern     = regexp.MustCompile(`\b(\d{4,})\b`)
)

// Normalize lowercases, strips punctuation, collapses whitespace and trims
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWordPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractIdentifiers pulls work-order-like tokens out of free text: WO-prefixed
// numbers, dash-joined alphanumeric codes of 4+ chars, and standalone 4+ digit
// numbers. Duplicates are removed, first occurrence order preserved.
func ExtractIdentifiers(text string) []string {
	normalized := Normalize(text)

	var identifiers []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		identifiers = append(identifiers, id)
	}

	for _, m := range woPrefixPattern.FindAllStringSubmatch(normalized, -1) {
		add(m[1])
	}
	for _, m := range woSuffixPattern.FindAllStringSubmatch(normalized, -1) {
		add(m[1])
	}

	// Codes keep their dashes, so extract from the raw text before
	// punctuation stripping.
	for _, m := range codePattern.FindAllStringSubmatch(text, -1) {
		if len(m[1]) >= 4 {
			add(strings.ToUpper(m[1]))
		}
	}

	for _, m := range numberPattern.FindAllStringSubmatch(normalized, -1) {
		add(m[1])
	}

	return identifiers
}

// Similarity scores two strings in [0,1]. Equal normalized forms score 1.0,
// containment in either direction scores 0.8, otherwise the score is the
// fraction of 3-char chunks of the first string found in the second.
func Similarity(a, b string) float64 {
	s1 := Normalize(a)
	s2 := Normalize(b)

	if s1 == "" || s2 == "" {
		return 0
	}
	if s1 == s2 {
		return 1.0
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return 0.8
	}

	chunks := chunkString(s1, 3)
	if len(chunks) == 0 {
		return 0
	}

	hits := 0
	for _, chunk := range chunks {
		if strings.Contains(s2, chunk) {
			hits++
		}
	}
	return float64(hits) / float64(len(chunks))
}

func chunkString(s string, size int) []string {
	var chunks []string
	for i := 0; i+size <= len(s); i += size {
		chunks = append(chunks, s[i:i+size])
	}
	return chunks
}

// Matcher links tasks to QC entries
type Matcher struct {
	threshold float64
}

// New creates a matcher. A non-positive threshold falls back to the default.
func New(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = similarityThreshold
	}
	return &Matcher{threshold: threshold}
}

// MatchTask returns the QC entries belonging to one task, de-duplicated by
// entry id. Entries already carrying the task's reference short-circuit every
// heuristic. Otherwise identifier and part-name strategies run first, and the
// fuzzy similarity fallback only when both come up empty.
func (m *Matcher) MatchTask(taskGID, taskName string, entries []*model.QCEntry) []*model.QCEntry {
	direct := make([]*model.QCEntry, 0)
	for _, entry := range entries {
		if entry.TaskRef() == taskGID {
			direct = append(direct, entry)
		}
	}
	if len(direct) > 0 {
		return direct
	}

	normalizedTaskName := Normalize(taskName)
	taskIdentifiers := ExtractIdentifiers(taskName)

	var matched []*model.QCEntry

	for _, identifier := range taskIdentifiers {
		for _, entry := range entries {
			if entry.WorkOrder == nil {
				continue
			}
			workOrder := Normalize(*entry.WorkOrder)
			if workOrder == "" {
				continue
			}
			normalizedID := Normalize(identifier)
			if workOrder == normalizedID ||
				strings.Contains(workOrder, normalizedID) ||
				strings.Contains(normalizedID, workOrder) {
				matched = append(matched, entry)
			}
		}
	}

	for _, entry := range entries {
		if m.partNameMatches(normalizedTaskName, taskIdentifiers, entry) {
			matched = append(matched, entry)
		}
	}

	if len(matched) == 0 {
		for _, entry := range entries {
			if m.fuzzyMatches(taskName, entry) {
				matched = append(matched, entry)
			}
		}
	}

	return dedupeByID(matched)
}

func (m *Matcher) partNameMatches(normalizedTaskName string, taskIdentifiers []string, entry *model.QCEntry) bool {
	if entry.PartName == nil {
		return false
	}
	partName := Normalize(*entry.PartName)
	if partName == "" {
		return false
	}

	if strings.Contains(normalizedTaskName, partName) ||
		strings.Contains(partName, normalizedTaskName) {
		return true
	}

	for _, identifier := range taskIdentifiers {
		id := Normalize(identifier)
		if strings.Contains(partName, id) || strings.Contains(id, partName) {
			return true
		}
	}

	partIdentifiers := ExtractIdentifiers(*entry.PartName)
	for _, partID := range partIdentifiers {
		for _, taskID := range taskIdentifiers {
			p, t := Normalize(partID), Normalize(taskID)
			if p == t || strings.Contains(p, t) || strings.Contains(t, p) {
				return true
			}
		}
	}

	return false
}

func (m *Matcher) fuzzyMatches(taskName string, entry *model.QCEntry) bool {
	best := 0.0
	if entry.PartName != nil {
		if s := Similarity(taskName, *entry.PartName); s > best {
			best = s
		}
	}
	if entry.WorkOrder != nil {
		if s := Similarity(taskName, *entry.WorkOrder); s > best {
			best = s
		}
	}
	return best >= m.threshold
}

func dedupeByID(entries []*model.QCEntry) []*model.QCEntry {
	byID := make(map[int64]*model.QCEntry, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if _, ok := byID[entry.ID]; !ok {
			byID[entry.ID] = entry
			ids = append(ids, entry.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*model.QCEntry, 0, len(ids))
	for _, id := range ids {
		result = append(result, byID[id])
	}
	return result
}
