// Package dedup decides whether job records describe the same posting
// using content hashes, business rules, URL canonicalization and weighted
// fuzzy similarity.
package dedup

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/jobcore"
)

// hashContent computes the xxHash of content as a hex string.
func hashContent(content string) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, xxhash.Sum64String(content)))
}

// normalizeText lowercases s, turns punctuation into spaces and collapses
// whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Hash returns the content hash bundle of r. The company is hashed by its
// canonical name when a normalizer is configured.
func (d *Detector) Hash(r jobcore.JobRecord) jobcore.ContentHashBundle {
	title := normalizeText(r.Title.Value)
	company := d.companyText(r.Company.Value)
	location := normalizeText(r.Location.Value)
	desc := prefix(normalizeText(r.Description.Value), d.thresholds.DescriptionPrefix)
	source := string(d.platform(r))

	return jobcore.ContentHashBundle{
		Full:        hashContent(strings.Join([]string{title, company, location, desc, source}, "\x1f")),
		Title:       hashContent(title),
		Company:     hashContent(company),
		Location:    hashContent(location),
		Description: hashContent(desc),
		Combined:    hashContent(strings.Join([]string{title, company, location}, "\x1f")),
	}
}

// companyText returns the normalized text used to compare companies.
func (d *Detector) companyText(name string) string {
	if d.normalizer != nil && !placeholder(name, jobcore.UnknownCompany) {
		if n := d.normalizer.Normalize(name); n.Canonical != "" {
			return normalizeText(n.Canonical)
		}
	}
	return normalizeText(name)
}

func (d *Detector) platform(r jobcore.JobRecord) jobcore.Platform {
	if r.Platform != "" {
		return r.Platform
	}
	return jobcore.PlatformFromURL(parseURL(r.SourceURL))
}

// placeholder reports whether v is empty or the given sentinel.
func placeholder(v, sentinel string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, sentinel)
}
