package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/skelly-dev/graft/internal/editor"
)

const Version = "graft-search-v1"

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

type Document struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Kind      string         `json:"kind"`
	Signature string         `json:"signature,omitempty"`
	File      string         `json:"file"`
	Line      int            `json:"line"`
	Doc       string         `json:"doc,omitempty"`
	Length    int            `json:"length"`
	Terms     map[string]int `json:"terms"`
}

type Index struct {
	Version       string         `json:"version"`
	DocumentCount int            `json:"document_count"`
	AvgDocLength  float64        `json:"avg_doc_length"`
	DocFreq       map[string]int `json:"doc_freq"`
	Documents     []Document     `json:"documents"`
}

type Result struct {
	ID    string
	Score float64
}

// Build indexes the declarations of one file. Document IDs are addresses.
func Build(file string, entries []editor.Entry) *Index {
	documents := make([]Document, 0, len(entries))
	docFreq := make(map[string]int)
	totalLength := 0

	for _, entry := range entries {
		terms := buildTerms(entry.Address, entry.Signature, file, entry.Docstring)
		length := 0
		for _, count := range terms {
			length += count
		}
		if length == 0 {
			continue
		}

		documents = append(documents, Document{
			ID:        entry.Address,
			Name:      entry.Name,
			Kind:      entry.Kind,
			Signature: entry.Signature,
			File:      file,
			Line:      entry.Line,
			Doc:       entry.Docstring,
			Length:    length,
			Terms:     terms,
		})
		totalLength += length

		for term := range terms {
			docFreq[term]++
		}
	}

	sort.SliceStable(documents, func(i, j int) bool {
		return documents[i].ID < documents[j].ID
	})

	avgDocLength := 0.0
	if len(documents) > 0 {
		avgDocLength = float64(totalLength) / float64(len(documents))
	}

	return &Index{
		Version:       Version,
		DocumentCount: len(documents),
		AvgDocLength:  avgDocLength,
		DocFreq:       docFreq,
		Documents:     documents,
	}
}

// Lookup returns the document with the given ID.
func (index *Index) Lookup(id string) (Document, bool) {
	for _, doc := range index.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}

func Search(index *Index, query string, limit int) []Result {
	if index == nil || len(index.Documents) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}

	seenTerms := make(map[string]bool, len(queryTerms))
	uniqueTerms := make([]string, 0, len(queryTerms))
	for _, term := range queryTerms {
		if seenTerms[term] {
			continue
		}
		seenTerms[term] = true
		uniqueTerms = append(uniqueTerms, term)
	}

	k1 := 1.2
	b := 0.75
	n := float64(index.DocumentCount)
	avgLen := index.AvgDocLength
	if avgLen <= 0 {
		avgLen = 1
	}

	results := make([]Result, 0)
	for _, doc := range index.Documents {
		score := 0.0
		docLen := float64(doc.Length)
		for _, term := range uniqueTerms {
			tf := float64(doc.Terms[term])
			if tf <= 0 {
				continue
			}
			df := float64(index.DocFreq[term])
			if df <= 0 {
				continue
			}
			idf := math.Log(1.0 + ((n - df + 0.5) / (df + 0.5)))
			numerator := tf * (k1 + 1.0)
			denominator := tf + k1*(1.0-b+b*(docLen/avgLen))
			score += idf * (numerator / denominator)
		}
		if score > 0 {
			results = append(results, Result{ID: doc.ID, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		fallback := fuzzyNameFallback(index.Documents, query, limit)
		if len(fallback) > 0 {
			return fallback
		}
	}
	return results
}

// Suggest returns addresses resembling a missing address, best first. The
// leaf name is matched by edit distance before the full path is ranked.
func Suggest(index *Index, addr string, limit int) []string {
	if index == nil || limit <= 0 {
		return nil
	}
	leaf := addr
	if i := strings.LastIndex(addr, "."); i >= 0 {
		leaf = addr[i+1:]
	}

	seen := make(map[string]bool)
	var out []string
	add := func(results []Result) {
		for _, r := range results {
			if len(out) == limit {
				return
			}
			if r.ID == addr || seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r.ID)
		}
	}
	add(fuzzyNameFallback(index.Documents, leaf, limit))
	add(Search(index, strings.ReplaceAll(addr, ".", " "), limit))
	return out
}

func buildTerms(address, signature, filePath, doc string) map[string]int {
	terms := make(map[string]int)
	addWeighted(terms, address, 4)
	addWeighted(terms, splitWords(address), 2)
	addWeighted(terms, signature, 2)
	addWeighted(terms, filePath, 1)
	addWeighted(terms, doc, 1)
	return terms
}

func addWeighted(terms map[string]int, value string, weight int) {
	if weight <= 0 {
		return
	}
	for _, token := range tokenize(value) {
		terms[token] += weight
	}
}

func tokenize(value string) []string {
	value = strings.ToLower(value)
	if value == "" {
		return nil
	}
	return tokenPattern.FindAllString(value, -1)
}

// splitWords breaks snake_case and CamelCase identifiers into words.
func splitWords(value string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range value {
		switch {
		case r == '_' || r == '.':
			b.WriteByte(' ')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

func fuzzyNameFallback(documents []Document, query string, limit int) []Result {
	needle := normalizeForFuzzy(query)
	if needle == "" {
		return nil
	}

	results := make([]Result, 0)
	for _, doc := range documents {
		candidate := normalizeForFuzzy(doc.Name)
		if candidate == "" {
			continue
		}
		distance := levenshteinDistance(needle, candidate)
		threshold := len(candidate) / 3
		if threshold < 2 {
			threshold = 2
		}
		if distance > threshold {
			continue
		}
		results = append(results, Result{ID: doc.ID, Score: 1.0 / float64(1+distance)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func normalizeForFuzzy(value string) string {
	tokens := tokenize(value)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, "")
}

func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current := make([]int, len(b)+1)
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			current[j] = min(current[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = current
	}

	return prev[len(b)]
}
